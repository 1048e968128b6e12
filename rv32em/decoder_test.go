package rv32em_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/rv2bitty/rv32em"
)

func TestRv32em(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "RV32EM Suite")
}

// encodeR builds an R-type word: funct7|rs2|rs1|funct3|rd|opcode.
func encodeR(funct7, rs2, rs1, funct3, rd, opcode uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeI(imm12 uint32, rs1, funct3, rd, opcode uint32) uint32 {
	return (imm12&0xFFF)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

var _ = Describe("Decode", func() {
	It("decodes ADD", func() {
		w := encodeR(0, 3, 2, 0b000, 1, 0b0110011)
		inst := rv32em.Decode(w)
		Expect(inst.Op).To(Equal(rv32em.OpADD))
		Expect(inst.Format).To(Equal(rv32em.FormatR))
		Expect(inst.Rd).To(Equal(uint8(1)))
		Expect(inst.Rs1).To(Equal(uint8(2)))
		Expect(inst.Rs2).To(Equal(uint8(3)))
	})

	It("decodes SUB (distinguished by funct7)", func() {
		w := encodeR(0b0100000, 3, 2, 0b000, 1, 0b0110011)
		Expect(rv32em.Decode(w).Op).To(Equal(rv32em.OpSUB))
	})

	It("decodes the M-extension MUL family by funct7=1", func() {
		w := encodeR(0b0000001, 3, 2, 0b000, 1, 0b0110011)
		Expect(rv32em.Decode(w).Op).To(Equal(rv32em.OpMUL))

		w = encodeR(0b0000001, 3, 2, 0b101, 1, 0b0110011)
		Expect(rv32em.Decode(w).Op).To(Equal(rv32em.OpDIVU))
	})

	It("decodes ADDI with a sign-extended negative immediate", func() {
		w := encodeI(0xFFF, 2, 0b000, 1, 0b0010011) // imm = -1
		inst := rv32em.Decode(w)
		Expect(inst.Op).To(Equal(rv32em.OpADDI))
		Expect(inst.Imm).To(Equal(int32(-1)))
	})

	It("decodes SLLI/SRLI/SRAI using the shift-amount field, not a full immediate", func() {
		w := (uint32(0) << 25) | (5 << 20) | (2 << 15) | (0b001 << 12) | (1 << 7) | 0b0010011
		inst := rv32em.Decode(w)
		Expect(inst.Op).To(Equal(rv32em.OpSLLI))
		Expect(inst.Imm).To(Equal(int32(5)))

		w = (uint32(0) << 25) | (5 << 20) | (2 << 15) | (0b101 << 12) | (1 << 7) | 0b0010011
		inst = rv32em.Decode(w)
		Expect(inst.Op).To(Equal(rv32em.OpSRLI))

		w = (uint32(0b0100000) << 25) | (5 << 20) | (2 << 15) | (0b101 << 12) | (1 << 7) | 0b0010011
		inst = rv32em.Decode(w)
		Expect(inst.Op).To(Equal(rv32em.OpSRAI))
	})

	It("decodes loads and stores", func() {
		lw := encodeI(8, 2, 0b010, 1, 0b0000011)
		Expect(rv32em.Decode(lw).Op).To(Equal(rv32em.OpLW))

		// S-type: imm split across bits [11:5] and [4:0].
		sw := (uint32(0) << 25) | (3 << 20) | (2 << 15) | (0b010 << 12) | (8 << 7) | 0b0100011
		inst := rv32em.Decode(sw)
		Expect(inst.Op).To(Equal(rv32em.OpSW))
		Expect(inst.Imm).To(Equal(int32(8)))
	})

	It("decodes a backward branch with a negative immediate", func() {
		// BEQ x1, x2, -4: imm bits distributed per B-type.
		imm := uint32(int32(-4)) & 0x1FFF
		imm12 := (imm >> 12) & 0x1
		imm11 := (imm >> 11) & 0x1
		imm10_5 := (imm >> 5) & 0x3F
		imm4_1 := (imm >> 1) & 0xF
		w := imm12<<31 | imm10_5<<25 | 2<<20 | 1<<15 | 0b000<<12 | imm11<<7 | imm4_1<<8 | 0b1100011
		inst := rv32em.Decode(w)
		Expect(inst.Op).To(Equal(rv32em.OpBEQ))
		Expect(inst.Imm).To(Equal(int32(-4)))
	})

	It("decodes LUI and AUIPC with the upper 20 bits in position", func() {
		w := uint32(0x12345000) | (1 << 7) | 0b0110111
		inst := rv32em.Decode(w)
		Expect(inst.Op).To(Equal(rv32em.OpLUI))
		Expect(inst.Imm).To(Equal(int32(0x12345000)))

		w = uint32(0x12345000) | (1 << 7) | 0b0010111
		inst = rv32em.Decode(w)
		Expect(inst.Op).To(Equal(rv32em.OpAUIPC))
		Expect(inst.Imm).To(Equal(int32(0x12345000)))
	})

	It("returns OpUnknown for an unrecognized opcode", func() {
		inst := rv32em.Decode(0x7F)
		Expect(inst.Op).To(Equal(rv32em.OpUnknown))
	})
})
