package rv32em_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/rv2bitty/mem"
	"github.com/archsim/rv2bitty/rv32em"
)

func encodeBImm(imm int32, rs2, rs1, funct3 uint32) uint32 {
	u := uint32(imm) & 0x1FFF
	imm12 := (u >> 12) & 0x1
	imm11 := (u >> 11) & 0x1
	imm10_5 := (u >> 5) & 0x3F
	imm4_1 := (u >> 1) & 0xF
	return imm12<<31 | imm10_5<<25 | rs2<<20 | rs1<<15 | funct3<<12 | imm4_1<<8 | imm11<<7 | 0b1100011
}

var _ = Describe("branches", func() {
	It("takes BEQ and jumps by imm/4 instruction slots", func() {
		prog := make([]uint32, 8)
		prog[0] = encodeBImm(16, 2, 1, 0b000) // BEQ x1, x2, +16 bytes => +4 instructions
		interp := rv32em.NewInterpreter(prog, mem.New(16))
		interp.Regs().Write(1, 5)
		interp.Regs().Write(2, 5)
		interp.Step()
		Expect(interp.PC()).To(Equal(4))
	})

	It("falls through when BEQ's condition is false", func() {
		prog := make([]uint32, 8)
		prog[0] = encodeBImm(16, 2, 1, 0b000)
		interp := rv32em.NewInterpreter(prog, mem.New(16))
		interp.Regs().Write(1, 5)
		interp.Regs().Write(2, 6)
		interp.Step()
		Expect(interp.PC()).To(Equal(1))
	})
})

var _ = Describe("jumps and upper immediates", func() {
	It("executes JAL, linking pc+1 and jumping by imm/4", func() {
		prog := make([]uint32, 8)
		imm20 := uint32(0)
		imm19_12 := uint32(0)
		imm11 := uint32(0)
		imm10_1 := (uint32(8) >> 1) & 0x3FF // byte offset 8 => instruction offset 2
		word := imm20<<31 | imm19_12<<12 | imm11<<20 | imm10_1<<21 | 1<<7 | 0b1101111
		prog[0] = word
		interp := rv32em.NewInterpreter(prog, mem.New(16))
		interp.Step()
		Expect(interp.PC()).To(Equal(2))
		Expect(interp.Regs().Read(1)).To(Equal(uint32(1)))
	})

	It("executes LUI loading the upper 20 bits", func() {
		prog := []uint32{uint32(0x12345000) | (1 << 7) | 0b0110111}
		interp := rv32em.NewInterpreter(prog, mem.New(16))
		interp.Step()
		Expect(interp.Regs().Read(1)).To(Equal(uint32(0x12345000)))
	})
})
