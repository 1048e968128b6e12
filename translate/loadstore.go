package translate

import (
	"github.com/archsim/rv2bitty/bitty"
	"github.com/archsim/rv2bitty/rv32em"
)

// effectiveAddress builds `rs1 + imm` into the scratch register,
// returning the instructions to do so. Bitty's load/store format has
// no immediate field (spec §4.2), so every RV32EM load/store must
// stage its effective address into a register first.
func effectiveAddress(rs1 uint8, imm int32) []bitty.Instruction {
	insts := materializeImm(scratch, imm)
	if rs1 != 0 {
		insts = append(insts, alu(bitty.AluAdd, scratch, rs1))
	}
	return insts
}

// expandLoad expands LB/LH/LW/LBU/LHU. LW is a direct load; the
// sub-word forms load the full word and then sign- or zero-extend via
// a shift pair, per spec §4.3.
func (t *Translator) expandLoad(inst rv32em.Instruction) []bitty.Instruction {
	insts := effectiveAddress(inst.Rs1, inst.Imm)
	insts = append(insts, load(inst.Rd, scratch))

	switch inst.Op {
	case rv32em.OpLW:
		// direct
	case rv32em.OpLB:
		insts = append(insts, immOp(bitty.AluShl, inst.Rd, 24), immOp(bitty.AluShrs, inst.Rd, 24))
	case rv32em.OpLBU:
		insts = append(insts, immOp(bitty.AluShl, inst.Rd, 24), immOp(bitty.AluShr, inst.Rd, 24))
	case rv32em.OpLH:
		insts = append(insts, immOp(bitty.AluShl, inst.Rd, 16), immOp(bitty.AluShrs, inst.Rd, 16))
	case rv32em.OpLHU:
		insts = append(insts, immOp(bitty.AluShl, inst.Rd, 16), immOp(bitty.AluShr, inst.Rd, 16))
	}
	return insts
}

// expandStore expands SB/SH/SW. SW stores rs2 directly; SB/SH perform
// a read-modify-write since Bitty's store is always a full word (spec
// §4.2 defines no sub-word store), borrowing a register to hold the
// previous word's value and briefly repurposing rs2 to stage the
// masked new bytes, restoring both via the software stack before
// returning.
//
// rs2 of x0 needs care: register 0 is also scratch, which at this
// point holds the just-computed effective address, so it cannot simply
// be re-zeroed in place. SW instead stages the value-to-store in
// borrowReg. SB/SH skip the new-byte mask/OR step entirely when rs2 is
// x0: ORing in zero bits is a no-op, so the old word's already-cleared
// low bits are the correct final result without touching rs2/scratch
// at all.
func (t *Translator) expandStore(inst rv32em.Instruction) []bitty.Instruction {
	insts := effectiveAddress(inst.Rs1, inst.Imm)

	if inst.Op == rv32em.OpSW {
		if inst.Rs2 == 0 {
			insts = append(insts, pushReg(borrowReg)...)
			insts = append(insts, alu(bitty.AluSub, borrowReg, borrowReg))
			insts = append(insts, store(borrowReg, scratch))
			insts = append(insts, popReg(borrowReg)...)
			return insts
		}
		insts = append(insts, store(inst.Rs2, scratch))
		return insts
	}

	dropBits := int32(8) // SB: clear the low byte of the old word
	if inst.Op == rv32em.OpSH {
		dropBits = 16 // SH: clear the low halfword
	}
	keepShift := 32 - dropBits

	insts = append(insts, pushReg(borrowReg)...)
	insts = append(insts, load(borrowReg, scratch)) // old word
	insts = append(insts, immOp(bitty.AluShr, borrowReg, dropBits), immOp(bitty.AluShl, borrowReg, dropBits)) // clear low bits

	if inst.Rs2 != 0 {
		insts = append(insts, pushReg(inst.Rs2)...)
		insts = append(insts, immOp(bitty.AluShl, inst.Rs2, keepShift), immOp(bitty.AluShr, inst.Rs2, keepShift)) // mask new bytes
		insts = append(insts, alu(bitty.AluOr, borrowReg, inst.Rs2))
		insts = append(insts, popReg(inst.Rs2)...)
	}

	insts = append(insts, store(borrowReg, scratch))
	insts = append(insts, popReg(borrowReg)...)

	return insts
}
