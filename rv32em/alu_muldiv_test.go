package rv32em_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/rv2bitty/mem"
	"github.com/archsim/rv2bitty/regfile"
	"github.com/archsim/rv2bitty/rv32em"
)

// runOne decodes and executes a single word against a fresh interpreter
// seeded with the given register values, returning the resulting file.
func runOne(word uint32, seed map[uint8]uint32) *regfile.File {
	prog := []uint32{word}
	interp := rv32em.NewInterpreter(prog, mem.New(16))
	for idx, v := range seed {
		interp.Regs().Write(idx, v)
	}
	interp.Step()
	return interp.Regs()
}

var _ = Describe("arithmetic execution", func() {
	It("computes ADD", func() {
		w := encodeR(0, 3, 2, 0b000, 1, 0b0110011)
		regs := runOne(w, map[uint8]uint32{2: 10, 3: 32})
		Expect(regs.Read(1)).To(Equal(uint32(42)))
	})

	It("computes SUB with wraparound", func() {
		w := encodeR(0b0100000, 3, 2, 0b000, 1, 0b0110011)
		regs := runOne(w, map[uint8]uint32{2: 0, 3: 1})
		Expect(regs.Read(1)).To(Equal(uint32(0xFFFFFFFF)))
	})

	It("computes SLT using signed comparison", func() {
		w := encodeR(0, 3, 2, 0b010, 1, 0b0110011)
		regs := runOne(w, map[uint8]uint32{2: 0xFFFFFFFF, 3: 1}) // -1 < 1
		Expect(regs.Read(1)).To(Equal(uint32(1)))
	})

	It("computes SLTU treating operands as unsigned", func() {
		w := encodeR(0, 3, 2, 0b011, 1, 0b0110011)
		regs := runOne(w, map[uint8]uint32{2: 0xFFFFFFFF, 3: 1}) // huge < 1 is false
		Expect(regs.Read(1)).To(Equal(uint32(0)))
	})

	It("computes SRA as an arithmetic shift", func() {
		w := encodeR(0b0100000, 3, 2, 0b101, 1, 0b0110011)
		regs := runOne(w, map[uint8]uint32{2: 0x80000000, 3: 4})
		Expect(regs.Read(1)).To(Equal(uint32(0xF8000000)))
	})
})

var _ = Describe("M-extension execution", func() {
	It("computes MUL", func() {
		w := encodeR(0b0000001, 3, 2, 0b000, 1, 0b0110011)
		regs := runOne(w, map[uint8]uint32{2: 6, 3: 7})
		Expect(regs.Read(1)).To(Equal(uint32(42)))
	})

	It("computes MULH for the high bits of a signed product", func() {
		w := encodeR(0b0000001, 3, 2, 0b001, 1, 0b0110011)
		regs := runOne(w, map[uint8]uint32{2: 0x80000000, 3: 0x80000000}) // (-2^31)*(-2^31)
		Expect(regs.Read(1)).To(Equal(uint32(0x40000000)))
	})

	It("returns all-ones for DIV by zero", func() {
		w := encodeR(0b0000001, 3, 2, 0b100, 1, 0b0110011)
		regs := runOne(w, map[uint8]uint32{2: 5, 3: 0})
		Expect(regs.Read(1)).To(Equal(uint32(0xFFFFFFFF)))
	})

	It("returns the dividend for DIV overflow (MIN_INT / -1)", func() {
		w := encodeR(0b0000001, 3, 2, 0b100, 1, 0b0110011)
		regs := runOne(w, map[uint8]uint32{2: 0x80000000, 3: 0xFFFFFFFF})
		Expect(regs.Read(1)).To(Equal(uint32(0x80000000)))
	})

	It("returns zero for REM overflow (MIN_INT / -1)", func() {
		w := encodeR(0b0000001, 3, 2, 0b110, 1, 0b0110011)
		regs := runOne(w, map[uint8]uint32{2: 0x80000000, 3: 0xFFFFFFFF})
		Expect(regs.Read(1)).To(Equal(uint32(0)))
	})

	It("returns the dividend for REM by zero", func() {
		w := encodeR(0b0000001, 3, 2, 0b110, 1, 0b0110011)
		regs := runOne(w, map[uint8]uint32{2: 13, 3: 0})
		Expect(regs.Read(1)).To(Equal(uint32(13)))
	})
})
