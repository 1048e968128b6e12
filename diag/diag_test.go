package diag_test

import (
	"bytes"
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/rv2bitty/diag"
)

func TestDiag(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Diag Suite")
}

var _ = Describe("Log", func() {
	It("accumulates events in order", func() {
		l := diag.New(nil)
		l.Record(1, errors.New("a"), "")
		l.Record(2, errors.New("b"), "detail")

		Expect(l.Len()).To(Equal(2))
		Expect(l.Events()[0].PC).To(Equal(1))
		Expect(l.Events()[1].Detail).To(Equal("detail"))
	})

	It("mirrors events to the configured writer", func() {
		var buf bytes.Buffer
		l := diag.New(&buf)
		l.Record(0, errors.New("boom"), "line 3")

		Expect(buf.String()).To(ContainSubstring("boom"))
		Expect(buf.String()).To(ContainSubstring("line 3"))
	})

	It("tolerates a nil log", func() {
		var l *diag.Log
		Expect(func() { l.Record(0, errors.New("x"), "") }).NotTo(Panic())
		Expect(l.Len()).To(Equal(0))
		Expect(l.Events()).To(BeNil())
	})
})
