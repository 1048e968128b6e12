package translate

import "github.com/archsim/rv2bitty/bitty"

// stackPtrReg is the register the translator treats as a software stack
// pointer (mirroring RISC-V's x2/sp convention) whenever an expansion
// needs more scratch space than register 0 alone provides: saving a
// borrowed register's value across a multi-instruction expansion (the
// sub-word store merge, the long-division loop) and restoring it
// before the expansion returns control to straight-line translated
// code.
const stackPtrReg uint8 = 2

// borrowReg is the register borrowed as a second scratch whenever an
// expansion needs to hold two live intermediate values at once (scratch
// already holds one). Its original value is always pushed before use
// and popped back immediately after, so no translated instruction ever
// observes it disturbed.
const borrowReg uint8 = 1

func immOp(op bitty.AluOp, rx uint8, imm int32) bitty.Instruction {
	return bitty.Instruction{Format: bitty.FormatImm, Rx: rx, Alu: op, Imm: imm}
}

func load(rx, ry uint8) bitty.Instruction {
	return bitty.Instruction{Format: bitty.FormatMemory, Rx: rx, Ry: ry, Store: false}
}

func store(rx, ry uint8) bitty.Instruction {
	return bitty.Instruction{Format: bitty.FormatMemory, Rx: rx, Ry: ry, Store: true}
}

// pushReg stores reg at the current stack-pointer cell and advances the
// pointer one cell down.
func pushReg(reg uint8) []bitty.Instruction {
	return []bitty.Instruction{
		store(reg, stackPtrReg),
		immOp(bitty.AluSub, stackPtrReg, 1),
	}
}

// popReg reverses pushReg, restoring reg from the cell above the
// current stack pointer.
func popReg(reg uint8) []bitty.Instruction {
	return []bitty.Instruction{
		immOp(bitty.AluAdd, stackPtrReg, 1),
		load(reg, stackPtrReg),
	}
}

// materializeImm builds an arbitrary 32-bit constant into dst by
// repeated shift-and-accumulate over 5-bit chunks (the widest chunk
// that always sign-extends as itself through Bitty's imm6 field,
// keeping every partial sum exact). This generalizes the additive
// accumulation spec §4.3 describes for LUI to every immediate wider
// than Bitty's 6-bit immediate ALU field. The leading self-subtract
// makes dst's own prior contents irrelevant, so materializeImm never
// needs dst to already hold any particular value.
func materializeImm(dst uint8, imm int32) []bitty.Instruction {
	u := uint32(imm)
	insts := []bitty.Instruction{alu(bitty.AluSub, dst, dst)}
	shifts := []uint{30, 25, 20, 15, 10, 5, 0}
	for i, shift := range shifts {
		if i > 0 {
			insts = append(insts, immOp(bitty.AluShl, dst, 5))
		}
		chunk := int32((u >> shift) & 0x1F)
		insts = append(insts, immOp(bitty.AluAdd, dst, chunk))
	}
	return insts
}

// foldZeroReg returns scratch pre-zeroed in place of a literal RV32EM
// x0 operand, plus the instruction(s) needed to zero it. RV32EM
// hardwires x0 to read as 0; Bitty's r0 is ordinary scratch space (see
// regfile.NewPlain) and generally holds whatever some earlier
// expansion left there, so a direct read of Bitty register 0 cannot
// stand in for "the value of RV32EM's x0" the way it can for every
// other register. No expansion calls this helper at present; each one
// that reads a literal x0 operand emits the same zeroing sub on its
// own register instead of reading reg 0 directly.
func foldZeroReg() (uint8, []bitty.Instruction) {
	return scratch, []bitty.Instruction{alu(bitty.AluSub, scratch, scratch)}
}
