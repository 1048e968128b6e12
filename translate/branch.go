package translate

import (
	"github.com/archsim/rv2bitty/bitty"
	"github.com/archsim/rv2bitty/rv32em"
)

// appendPendingBranch appends a branch instruction whose immediate is a
// placeholder, registering a PendingBranch so fixup can rewrite it once
// targetPCR's Bitty address is known.
func (t *Translator) appendPendingBranch(insts []bitty.Instruction, cond uint8, targetPCR int) []bitty.Instruction {
	branchIdx := t.pcB + len(insts)
	insts = append(insts, bitty.Instruction{Format: bitty.FormatBranch, Cond: cond})
	t.pending = append(t.pending, PendingBranch{BitPC: branchIdx, TargetPCR: targetPCR})
	return insts
}

// expandBranch expands the six RV32EM conditional branches. Each lowers
// to a single compare (signed for BEQ/BNE/BLT/BGE, unsigned for
// BLTU/BGEU) against d_out's three-way result, followed by one branch
// for an exact condition match (BEQ, BLT/BLTU) or two for a disjunction
// (BNE is "less or greater"; BGE/BGEU is "greater or equal"), per spec
// §4.3.
func (t *Translator) expandBranch(inst rv32em.Instruction) []bitty.Instruction {
	targetPCR := t.pcR + int(inst.Imm/4)

	cmpOp := bitty.AluCmpS
	switch inst.Op {
	case rv32em.OpBLTU, rv32em.OpBGEU:
		cmpOp = bitty.AluCmpU
	}

	// A branch operand of x0 must read as true zero, not Bitty register
	// 0's live content (see emitThreeAddressZeroSafe in rtype.go); a
	// branch never writes a register, so zeroing scratch first is always
	// safe here, including when both operands are x0.
	var insts []bitty.Instruction
	if inst.Rs1 == 0 || inst.Rs2 == 0 {
		insts = append(insts, alu(bitty.AluSub, scratch, scratch))
	}
	insts = append(insts, alu(cmpOp, inst.Rs1, inst.Rs2))

	switch inst.Op {
	case rv32em.OpBEQ:
		insts = t.appendPendingBranch(insts, bitty.CondEqual, targetPCR)
	case rv32em.OpBNE:
		insts = t.appendPendingBranch(insts, bitty.CondLess, targetPCR)
		insts = t.appendPendingBranch(insts, bitty.CondGreater, targetPCR)
	case rv32em.OpBLT, rv32em.OpBLTU:
		insts = t.appendPendingBranch(insts, bitty.CondLess, targetPCR)
	case rv32em.OpBGE, rv32em.OpBGEU:
		insts = t.appendPendingBranch(insts, bitty.CondGreater, targetPCR)
		insts = t.appendPendingBranch(insts, bitty.CondEqual, targetPCR)
	}

	return insts
}
