package regfile_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/rv2bitty/regfile"
)

func TestRegfile(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Regfile Suite")
}

var _ = Describe("File", func() {
	var f *regfile.File

	BeforeEach(func() {
		f = regfile.New()
	})

	It("hardwires register 0 to zero", func() {
		f.Write(0, 0xDEADBEEF)
		Expect(f.Read(0)).To(Equal(uint32(0)))
	})

	It("round-trips a write through a read", func() {
		f.Write(5, 42)
		Expect(f.Read(5)).To(Equal(uint32(42)))
	})

	It("reads zero for an out-of-range index", func() {
		Expect(f.Read(16)).To(Equal(uint32(0)))
	})

	It("discards writes to an out-of-range index", func() {
		f.Write(20, 7)
		Expect(f.Read(20)).To(Equal(uint32(0)))
	})

	Describe("InRange", func() {
		It("accepts x0..x15", func() {
			Expect(regfile.InRange(0)).To(BeTrue())
			Expect(regfile.InRange(15)).To(BeTrue())
		})

		It("rejects x16 and above", func() {
			Expect(regfile.InRange(16)).To(BeFalse())
			Expect(regfile.InRange(31)).To(BeFalse())
		})
	})

	It("snapshots without aliasing the live registers", func() {
		f.Write(3, 100)
		snap := f.Snapshot()
		f.Write(3, 200)
		Expect(snap[3]).To(Equal(uint32(100)))
		Expect(f.Read(3)).To(Equal(uint32(200)))
	})
})

var _ = Describe("NewPlain", func() {
	It("treats register 0 as an ordinary writable register", func() {
		f := regfile.NewPlain()
		f.Write(0, 7)
		Expect(f.Read(0)).To(Equal(uint32(7)))
	})
})
