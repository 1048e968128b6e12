package translate

import (
	"github.com/archsim/rv2bitty/bitty"
	"github.com/archsim/rv2bitty/rv32em"
)

var shiftImmAluOp = map[rv32em.Op]bitty.AluOp{
	rv32em.OpSLLI: bitty.AluShl,
	rv32em.OpSRLI: bitty.AluShr,
	rv32em.OpSRAI: bitty.AluShrs,
}

// expandShiftImm expands SLLI/SRLI/SRAI. The shift amount is always in
// [0, 31], well within Bitty's 6-bit signed immediate field, so no
// materialization is needed: shift rd into place first (three-address
// emulation against rd itself, since the shift has no second source
// register) then apply the immediate shift. When rs1 is x0, rd is
// already zero after the sub and the add is skipped entirely rather
// than reading Bitty register 0's live content.
func (t *Translator) expandShiftImm(inst rv32em.Instruction) []bitty.Instruction {
	op := shiftImmAluOp[inst.Op]
	var insts []bitty.Instruction
	if inst.Rd != inst.Rs1 {
		insts = append(insts, alu(bitty.AluSub, inst.Rd, inst.Rd))
		if inst.Rs1 != 0 {
			insts = append(insts, alu(bitty.AluAdd, inst.Rd, inst.Rs1))
		}
	}
	insts = append(insts, immOp(op, inst.Rd, inst.Imm))
	return insts
}
