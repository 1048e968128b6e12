package rv32em_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/rv2bitty/mem"
	"github.com/archsim/rv2bitty/rv32em"
)

func encodeS(imm uint32, rs2, rs1, funct3 uint32) uint32 {
	immLo := imm & 0x1F
	immHi := (imm >> 5) & 0x7F
	return immHi<<25 | rs2<<20 | rs1<<15 | funct3<<12 | immLo<<7 | 0b0100011
}

var _ = Describe("load/store execution", func() {
	It("stores and loads back a word", func() {
		sw := encodeS(0, 2, 1, 0b010)
		lw := encodeI(0, 1, 0b010, 3, 0b0000011)
		prog := []uint32{sw, lw}
		m := mem.New(16)
		interp := rv32em.NewInterpreter(prog, m)
		interp.Regs().Write(1, 0)
		interp.Regs().Write(2, 0xCAFEBABE)
		interp.Step()
		interp.Step()
		Expect(interp.Regs().Read(3)).To(Equal(uint32(0xCAFEBABE)))
	})

	It("sign-extends LB for a negative byte", func() {
		m := mem.New(16)
		m.WriteByte(0, 0xFF)
		lb := encodeI(0, 1, 0b000, 2, 0b0000011)
		interp := rv32em.NewInterpreter([]uint32{lb}, m)
		interp.Step()
		Expect(interp.Regs().Read(2)).To(Equal(uint32(0xFFFFFFFF)))
	})

	It("zero-extends LBU for the same byte", func() {
		m := mem.New(16)
		m.WriteByte(0, 0xFF)
		lbu := encodeI(0, 1, 0b100, 2, 0b0000011)
		interp := rv32em.NewInterpreter([]uint32{lbu}, m)
		interp.Step()
		Expect(interp.Regs().Read(2)).To(Equal(uint32(0xFF)))
	})

	It("rejects a misaligned SH and continues execution", func() {
		sh := encodeS(1, 2, 1, 0b001) // addr 1, odd => misaligned
		interp := rv32em.NewInterpreter([]uint32{sh}, mem.New(16))
		interp.Regs().Write(1, 0)
		interp.Regs().Write(2, 0xBEEF)
		Expect(interp.Step()).To(BeTrue())
		Expect(interp.PC()).To(Equal(1))
		Expect(interp.Halted()).To(BeFalse())
	})
})
