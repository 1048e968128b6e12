package translate

import (
	"github.com/archsim/rv2bitty/bitty"
	"github.com/archsim/rv2bitty/rv32em"
)

// appendUnconditionalJump appends a forced-equal compare (a register
// always equals itself, so the branch's condition is guaranteed true
// regardless of operand content) followed by a branch instruction whose
// immediate is filled in by fixup once targetPCR's Bitty address is
// known. This is how the translator synthesizes an unconditional jump:
// Bitty has no dedicated jump opcode, only a conditional branch and the
// PC-control gtpc/stpc pair.
func (t *Translator) appendUnconditionalJump(insts []bitty.Instruction, targetPCR int) []bitty.Instruction {
	insts = append(insts, alu(bitty.AluCmpS, scratch, scratch))
	return t.appendPendingBranch(insts, bitty.CondEqual, targetPCR)
}

// expandJAL expands JAL. The link value RV32EM's reference interpreter
// writes is PC_R+1 (jalTarget), a compile-time constant here since both
// operands of the addition (this instruction's own index and its
// immediate) are known at translation time; no gtpc is needed to obtain
// it. The jump itself reuses appendUnconditionalJump rather than staging
// an absolute address through r0 and stpc, so the jump never disturbs
// r0 and the r0-reads-as-zero invariant survives untouched across it.
func (t *Translator) expandJAL(inst rv32em.Instruction) []bitty.Instruction {
	targetPCR := t.pcR + int(inst.Imm/4)
	link := int32(t.pcR + 1)

	var insts []bitty.Instruction
	if inst.Rd != 0 {
		insts = append(insts, materializeImm(inst.Rd, link)...)
	}
	return t.appendUnconditionalJump(insts, targetPCR)
}

// expandJALR expands JALR. Unlike JAL, its target depends on rs1's
// runtime value, so it cannot be resolved to a single static RV32EM
// index at translate time the way every other control-transfer
// instruction is. The expansion computes the target index into scratch
// as (rs1 + imm) & ~1 — spec §4.1's bit-clear, not the index-divide-by-4
// scaling branches/JAL use — then walks a linear cascade comparing it
// against every known RV32EM instruction index; the matching entry
// clears scratch before jumping (so no dynamic value survives into the
// landing instruction) and dispatches through the same
// unconditional-jump idiom as JAL. This is O(program length) per call
// site, acceptable at the scale these programs run at.
func (t *Translator) expandJALR(inst rv32em.Instruction) []bitty.Instruction {
	link := int32(t.pcR + 1)

	var insts []bitty.Instruction
	insts = append(insts, materializeImm(scratch, inst.Imm)...)
	if inst.Rs1 != 0 {
		insts = append(insts, alu(bitty.AluAdd, scratch, inst.Rs1))
	}
	insts = append(insts, immOp(bitty.AluAnd, scratch, -2))

	if inst.Rd != 0 {
		insts = append(insts, materializeImm(inst.Rd, link)...)
	}

	return t.emitJALRCascade(insts)
}

// emitJALRCascade builds the linear target-index cascade described in
// expandJALR's comment. Each entry tests scratch against one candidate
// RV32EM index; a mismatch (Greater or Less) skips to the next entry, a
// match falls through to a scratch-clearing unconditional jump to that
// index's eventual Bitty address.
//
// Candidate indices are materialized into borrowReg rather than Bitty's
// 6-bit immediate-ALU field: programs longer than 32 instructions would
// otherwise overflow imm6 and compare against the wrong value. borrowReg
// is saved and restored around each entry's compare so no translated
// instruction ever observes it disturbed. The restore's stack-pointer
// add is issued before the compare, since any ALU op overwrites d_out.
// The cascade is appended to insts, the expansion built so far, so the
// pending branches it records sit at their true offsets within it.
func (t *Translator) emitJALRCascade(insts []bitty.Instruction) []bitty.Instruction {
	for i := 0; i < t.progLen; i++ {
		insts = append(insts, pushReg(borrowReg)...)
		insts = append(insts, materializeImm(borrowReg, int32(i))...)
		insts = append(insts, immOp(bitty.AluAdd, stackPtrReg, 1))
		insts = append(insts, alu(bitty.AluCmpS, scratch, borrowReg))
		insts = append(insts, load(borrowReg, stackPtrReg))

		greaterIdx := len(insts)
		insts = append(insts, bitty.Instruction{}) // filled below: skip to next entry
		lessIdx := len(insts)
		insts = append(insts, bitty.Instruction{}) // filled below: skip to next entry

		insts = append(insts, alu(bitty.AluSub, scratch, scratch))
		insts = t.appendUnconditionalJump(insts, i)

		nextEntryIdx := len(insts)
		insts[greaterIdx] = branchInst(bitty.CondGreater, nextEntryIdx-greaterIdx)
		insts[lessIdx] = branchInst(bitty.CondLess, nextEntryIdx-lessIdx)
	}
	return insts
}
