package translate

import (
	"github.com/archsim/rv2bitty/bitty"
	"github.com/archsim/rv2bitty/rv32em"
)

// branchInst builds a local (same-expansion) branch instruction whose
// immediate encodes offset instruction slots ahead, using the
// interpreter's imm>>1 convention (see bitty.Interpreter.execute).
func branchInst(cond uint8, offsetInstrs int) bitty.Instruction {
	return bitty.Instruction{Format: bitty.FormatBranch, Cond: cond, Imm: int32(2 * offsetInstrs)}
}

// emitCompareAndSet implements the set-less-than idiom spec §4.3
// describes: a compare (signed or unsigned) writing d_out, followed by
// a branch-and-set sequence writing 1 into rd when the branch's
// condition holds and 0 otherwise. wantCond is the d_out code (0/1/2)
// that means "condition true" (bitty.CondLess for SLT/SLTU's "a < b").
func emitCompareAndSet(cmpOp bitty.AluOp, a, b, rd uint8, wantCond uint8) []bitty.Instruction {
	insts := []bitty.Instruction{alu(cmpOp, a, b)}

	trueBranchIdx := len(insts)
	insts = append(insts, bitty.Instruction{}) // filled below

	insts = append(insts, alu(bitty.AluSub, rd, rd)) // false path: rd = 0

	jumpEndIdx := len(insts)
	insts = append(insts, alu(cmpOp, rd, rd))  // force d_out == 0 (equal): rd == rd always
	insts = append(insts, bitty.Instruction{}) // filled below: unconditional skip of true path

	truePathIdx := len(insts)
	insts = append(insts, alu(bitty.AluSub, rd, rd), immOp(bitty.AluAdd, rd, 1)) // true path: rd = 1

	endIdx := len(insts)

	insts[trueBranchIdx] = branchInst(wantCond, truePathIdx-trueBranchIdx)
	insts[jumpEndIdx+1] = branchInst(bitty.CondEqual, endIdx-(jumpEndIdx+1))

	return insts
}

// expandSetLessThan expands SLT/SLTU (register form). An x0 operand is
// zeroed into scratch before the compare, same reasoning as
// expandBranch: emitCompareAndSet's compare runs before any write to
// rd, so this is safe even when rd is also x0.
func (t *Translator) expandSetLessThan(inst rv32em.Instruction) []bitty.Instruction {
	cmpOp := bitty.AluCmpS
	if inst.Op == rv32em.OpSLTU {
		cmpOp = bitty.AluCmpU
	}
	var pre []bitty.Instruction
	if inst.Rs1 == 0 || inst.Rs2 == 0 {
		pre = append(pre, alu(bitty.AluSub, scratch, scratch))
	}
	return append(pre, emitCompareAndSet(cmpOp, inst.Rs1, inst.Rs2, inst.Rd, bitty.CondLess)...)
}

// expandSetLessThanImm expands SLTI/SLTIU. As with expandImmArith, an
// rs1 of x0 is constant-folded (0 compared against imm is known at
// translate time) to avoid staging the immediate through the same
// scratch register that would otherwise be needed to represent true
// zero.
func (t *Translator) expandSetLessThanImm(inst rv32em.Instruction) []bitty.Instruction {
	if inst.Rs1 == 0 {
		var less bool
		if inst.Op == rv32em.OpSLTI {
			less = 0 < inst.Imm
		} else {
			less = uint32(0) < uint32(inst.Imm)
		}
		result := int32(0)
		if less {
			result = 1
		}
		return materializeImm(inst.Rd, result)
	}

	cmpOp := bitty.AluCmpS
	if inst.Op == rv32em.OpSLTIU {
		cmpOp = bitty.AluCmpU
	}
	insts := materializeImm(scratch, inst.Imm)
	insts = append(insts, emitCompareAndSet(cmpOp, inst.Rs1, scratch, inst.Rd, bitty.CondLess)...)
	return insts
}
