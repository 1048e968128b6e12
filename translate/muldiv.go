package translate

import (
	"github.com/archsim/rv2bitty/bitty"
	"github.com/archsim/rv2bitty/rv32em"
)

// Registers reserved by the M-extension expansions below, on top of
// scratch/borrowReg/stackPtrReg already reserved in helpers.go. Every
// one of these is an ordinary addressable register (0-15) that may
// alias a live RV32EM operand; every expansion below saves each one it
// touches with pushReg before first use and restores it with popReg
// before returning, exactly like the borrowReg convention elsewhere in
// this package, so no translated instruction ever observes it
// disturbed.
const (
	counterReg uint8 = 3 // multiplier / divisor, consumed across loop iterations
	bitReg     uint8 = 4 // transient single-bit test / top-bit extraction
	mulHiReg   uint8 = 5 // high-word accumulator for MULH/MULHSU/MULHU
	mulAHiReg  uint8 = 6 // high word of the doubling multiplicand
	rawAReg    uint8 = 7 // original rs1 value, preserved across the loop for sign correction
	rawBReg    uint8 = 8 // original rs2 value, preserved across the loop for sign correction
)

// stageOperands loads srcA's and srcB's current register values into
// tmpA and tmpB. The caller is responsible for saving and restoring
// tmpA/tmpB's own prior contents (they are ordinary reserved working
// registers, pushed once at entry and popped once at exit alongside
// every other register an expansion borrows). Because the sources are
// read via store (which never modifies the source register) and
// staged entirely through memory, loading them into tmpA/tmpB is
// correct regardless of how srcA, srcB, tmpA, and tmpB alias each
// other or the instruction's own rd: srcA and srcB are pushed first
// (reading them before tmpA/tmpB, which may be the very same
// registers, are touched), then popped off in reverse onto tmpB, tmpA.
func stageOperands(srcA, srcB, tmpA, tmpB uint8) []bitty.Instruction {
	var insts []bitty.Instruction
	insts = append(insts, pushReg(srcA)...)
	insts = append(insts, pushReg(srcB)...)
	insts = append(insts, popReg(tmpB)...) // last pushed (srcB) pops first
	insts = append(insts, popReg(tmpA)...)
	return insts
}

// copyReg emits `dst = src` via the universal zero/sub/add idiom,
// correct even when dst == src.
func copyReg(dst, src uint8) []bitty.Instruction {
	if dst == src {
		return nil
	}
	return []bitty.Instruction{alu(bitty.AluSub, dst, dst), alu(bitty.AluAdd, dst, src)}
}

// selfEqual appends an ALU compare guaranteed to leave d_out == equal,
// without disturbing reg's value (compare ops never write rx). Used to
// synthesize an unconditional local branch, the same trick
// appendUnconditionalJump uses for inter-instruction jumps.
func selfEqual(reg uint8) bitty.Instruction {
	return alu(bitty.AluCmpS, reg, reg)
}

// expandMulDiv dispatches the eight M-extension operations to their
// expansion. None of Bitty's ten ALU ops multiply or divide (spec
// §4.2), so every one of these synthesizes its result from a loop
// built entirely out of add, sub, and, shift, and compare: shift/add
// for the multiplies, repeated subtraction for divide and remainder.
func (t *Translator) expandMulDiv(inst rv32em.Instruction) []bitty.Instruction {
	switch inst.Op {
	case rv32em.OpMUL:
		return t.expandMulLow(inst)
	case rv32em.OpMULH, rv32em.OpMULHSU, rv32em.OpMULHU:
		return t.expandMulHigh(inst)
	default:
		return t.expandDivRem(inst)
	}
}

// expandMulLow expands MUL: the low 32 bits of a*b are bit-identical
// whether a and b are taken as signed or unsigned (two's-complement
// multiplication truncated to the machine word is sign-agnostic), so
// this is a single unsigned shift-add loop over the raw bit patterns,
// discarding carry out of the top bit exactly as 32-bit truncation
// requires.
func (t *Translator) expandMulLow(inst rv32em.Instruction) []bitty.Instruction {
	var insts []bitty.Instruction
	insts = append(insts, pushReg(borrowReg)...)
	insts = append(insts, pushReg(counterReg)...)
	insts = append(insts, pushReg(bitReg)...)

	insts = append(insts, stageOperands(inst.Rs1, inst.Rs2, borrowReg, counterReg)...)
	if inst.Rs1 == 0 {
		insts = append(insts, alu(bitty.AluSub, borrowReg, borrowReg))
	}
	if inst.Rs2 == 0 {
		insts = append(insts, alu(bitty.AluSub, counterReg, counterReg))
	}
	insts = append(insts, alu(bitty.AluSub, scratch, scratch)) // acc = 0

	loopTop := len(insts)
	insts = append(insts, immOp(bitty.AluCmpU, counterReg, 0))
	exitIdx := len(insts)
	insts = append(insts, bitty.Instruction{}) // patched: exit when counterReg==0

	insts = append(insts, alu(bitty.AluSub, bitReg, bitReg), alu(bitty.AluAdd, bitReg, counterReg), immOp(bitty.AluAnd, bitReg, 1))
	insts = append(insts, immOp(bitty.AluCmpU, bitReg, 1))
	skipAddIdx := len(insts)
	insts = append(insts, bitty.Instruction{}) // patched: skip the add when bit==0 (Less than 1)

	insts = append(insts, alu(bitty.AluAdd, scratch, borrowReg))

	skipAddTarget := len(insts)
	insts[skipAddIdx] = branchInst(bitty.CondLess, skipAddTarget-skipAddIdx)

	insts = append(insts, immOp(bitty.AluShl, borrowReg, 1), immOp(bitty.AluShr, counterReg, 1))
	insts = append(insts, selfEqual(counterReg))
	insts = append(insts, branchInst(bitty.CondEqual, loopTop-len(insts)))

	exitTarget := len(insts)
	insts[exitIdx] = branchInst(bitty.CondEqual, exitTarget-exitIdx)

	insts = append(insts, popReg(bitReg)...)
	insts = append(insts, popReg(counterReg)...)
	insts = append(insts, popReg(borrowReg)...)

	if inst.Rd != 0 {
		insts = append(insts, alu(bitty.AluSub, inst.Rd, inst.Rd), alu(bitty.AluAdd, inst.Rd, scratch))
	}
	return insts
}

// expandMulHigh expands MULH/MULHSU/MULHU. It computes the unsigned
// 64-bit high word via a double-width shift-add loop (mulAHi:mulALo
// doubling each iteration, accHi:accLo accumulating with carry
// detected by comparing the post-add low word against the addend),
// then applies the standard signed-high correction:
//
//	mulhu(a,b)                              for MULHU
//	mulhu(a,b) - (a<0 ? b : 0)              for MULHSU
//	mulhu(a,b) - (a<0 ? b : 0) - (b<0 ? a : 0)  for MULH
//
// which follows from expanding a and b's two's-complement value as
// (unsigned - 2^32*sign) and discarding terms that vanish modulo 2^64,
// avoiding a second 64-bit negate of the whole result.
func (t *Translator) expandMulHigh(inst rv32em.Instruction) []bitty.Instruction {
	var insts []bitty.Instruction
	for _, r := range []uint8{borrowReg, counterReg, bitReg, mulHiReg, mulAHiReg, rawAReg, rawBReg} {
		insts = append(insts, pushReg(r)...)
	}

	insts = append(insts, stageOperands(inst.Rs1, inst.Rs2, rawAReg, rawBReg)...)
	if inst.Rs1 == 0 {
		insts = append(insts, alu(bitty.AluSub, rawAReg, rawAReg))
	}
	if inst.Rs2 == 0 {
		insts = append(insts, alu(bitty.AluSub, rawBReg, rawBReg))
	}

	insts = append(insts, copyReg(borrowReg, rawAReg)...)
	insts = append(insts, copyReg(counterReg, rawBReg)...)
	insts = append(insts, alu(bitty.AluSub, mulAHiReg, mulAHiReg))
	insts = append(insts, alu(bitty.AluSub, scratch, scratch))    // accLo = 0
	insts = append(insts, alu(bitty.AluSub, mulHiReg, mulHiReg)) // accHi = 0

	loopTop := len(insts)
	insts = append(insts, immOp(bitty.AluCmpU, counterReg, 0))
	exitIdx := len(insts)
	insts = append(insts, bitty.Instruction{})

	insts = append(insts, alu(bitty.AluSub, bitReg, bitReg), alu(bitty.AluAdd, bitReg, counterReg), immOp(bitty.AluAnd, bitReg, 1))
	insts = append(insts, immOp(bitty.AluCmpU, bitReg, 1))
	skipAddIdx := len(insts)
	insts = append(insts, bitty.Instruction{}) // skip 64-bit add when bit==0

	insts = append(insts, alu(bitty.AluAdd, scratch, borrowReg))     // accLo += mulALo
	insts = append(insts, alu(bitty.AluCmpU, scratch, borrowReg))     // carry iff accLo < mulALo
	carryIdx := len(insts)
	insts = append(insts, bitty.Instruction{}) // branch to carry path

	insts = append(insts, alu(bitty.AluAdd, mulHiReg, mulAHiReg)) // no-carry path
	insts = append(insts, selfEqual(counterReg))
	afterCarryJumpIdx := len(insts)
	insts = append(insts, bitty.Instruction{}) // unconditional skip of the carry path

	carryTarget := len(insts)
	insts[carryIdx] = branchInst(bitty.CondLess, carryTarget-carryIdx)
	insts = append(insts, alu(bitty.AluAdd, mulHiReg, mulAHiReg), immOp(bitty.AluAdd, mulHiReg, 1)) // carry path

	afterCarryTarget := len(insts)
	insts[afterCarryJumpIdx] = branchInst(bitty.CondEqual, afterCarryTarget-afterCarryJumpIdx)

	skipAddTarget := len(insts)
	insts[skipAddIdx] = branchInst(bitty.CondLess, skipAddTarget-skipAddIdx)

	insts = append(insts,
		alu(bitty.AluSub, bitReg, bitReg), alu(bitty.AluAdd, bitReg, borrowReg), immOp(bitty.AluShr, bitReg, 31),
		immOp(bitty.AluShl, mulAHiReg, 1),
		alu(bitty.AluAdd, mulAHiReg, bitReg),
		immOp(bitty.AluShl, borrowReg, 1),
		immOp(bitty.AluShr, counterReg, 1),
	)
	insts = append(insts, selfEqual(counterReg))
	insts = append(insts, branchInst(bitty.CondEqual, loopTop-len(insts)))

	exitTarget := len(insts)
	insts[exitIdx] = branchInst(bitty.CondEqual, exitTarget-exitIdx)

	// Sign correction, using the preserved raw operand values.
	if inst.Op == rv32em.OpMULH || inst.Op == rv32em.OpMULHSU {
		insts = append(insts, alu(bitty.AluSub, bitReg, bitReg), alu(bitty.AluAdd, bitReg, rawAReg), immOp(bitty.AluShr, bitReg, 31))
		insts = append(insts, immOp(bitty.AluCmpU, bitReg, 1))
		skipA := len(insts)
		insts = append(insts, bitty.Instruction{})
		insts = append(insts, alu(bitty.AluSub, mulHiReg, rawBReg))
		skipATarget := len(insts)
		insts[skipA] = branchInst(bitty.CondLess, skipATarget-skipA)
	}
	if inst.Op == rv32em.OpMULH {
		insts = append(insts, alu(bitty.AluSub, bitReg, bitReg), alu(bitty.AluAdd, bitReg, rawBReg), immOp(bitty.AluShr, bitReg, 31))
		insts = append(insts, immOp(bitty.AluCmpU, bitReg, 1))
		skipB := len(insts)
		insts = append(insts, bitty.Instruction{})
		insts = append(insts, alu(bitty.AluSub, mulHiReg, rawAReg))
		skipBTarget := len(insts)
		insts[skipB] = branchInst(bitty.CondLess, skipBTarget-skipB)
	}

	insts = append(insts, alu(bitty.AluSub, scratch, scratch), alu(bitty.AluAdd, scratch, mulHiReg)) // stage result through scratch

	for _, r := range []uint8{rawBReg, rawAReg, mulAHiReg, mulHiReg, bitReg, counterReg, borrowReg} {
		insts = append(insts, popReg(r)...)
	}

	if inst.Rd != 0 {
		insts = append(insts, alu(bitty.AluSub, inst.Rd, inst.Rd), alu(bitty.AluAdd, inst.Rd, scratch))
	}
	return insts
}

// expandDivRem expands DIV/DIVU/REM/REMU: the divide-by-zero and
// signed-overflow cases of spec §4.1 are checked up front against the
// raw staged operands, then the ordinary case sign-normalizes (signed
// ops only) and runs the iterative-subtraction loop spec §4.3 describes,
// counting iterations into a quotient register while the dividend
// register is consumed down into the remainder. All three paths
// converge on a single register (borrowReg) holding the final result,
// staged through scratch and written to rd exactly like every other
// expansion in this package.
func (t *Translator) expandDivRem(inst rv32em.Instruction) []bitty.Instruction {
	isSigned := inst.Op == rv32em.OpDIV || inst.Op == rv32em.OpREM
	wantRem := inst.Op == rv32em.OpREM || inst.Op == rv32em.OpREMU

	var insts []bitty.Instruction
	for _, r := range []uint8{borrowReg, counterReg, bitReg, mulHiReg, mulAHiReg, rawAReg, rawBReg} {
		insts = append(insts, pushReg(r)...)
	}

	insts = append(insts, stageOperands(inst.Rs1, inst.Rs2, rawAReg, rawBReg)...)
	if inst.Rs1 == 0 {
		insts = append(insts, alu(bitty.AluSub, rawAReg, rawAReg))
	}
	if inst.Rs2 == 0 {
		insts = append(insts, alu(bitty.AluSub, rawBReg, rawBReg))
	}
	insts = append(insts, copyReg(borrowReg, rawAReg)...)  // working dividend
	insts = append(insts, copyReg(counterReg, rawBReg)...) // working divisor

	insts = append(insts, immOp(bitty.AluCmpU, counterReg, 0))
	divZeroBranchIdx := len(insts)
	insts = append(insts, bitty.Instruction{}) // -> divZeroPath when divisor == 0

	var skipOverflowIdxs []int
	var jumpOverflowIdx int
	if isSigned {
		insts = append(insts, materializeImm(bitReg, -2147483648)...) // INT_MIN
		insts = append(insts, alu(bitty.AluCmpU, borrowReg, bitReg))
		idx := len(insts)
		insts = append(insts, bitty.Instruction{})
		skipOverflowIdxs = append(skipOverflowIdxs, idx) // dividend > INT_MIN
		idx = len(insts)
		insts = append(insts, bitty.Instruction{})
		skipOverflowIdxs = append(skipOverflowIdxs, idx) // dividend < INT_MIN

		insts = append(insts, materializeImm(bitReg, -1)...) // all-ones
		insts = append(insts, alu(bitty.AluCmpU, counterReg, bitReg))
		idx = len(insts)
		insts = append(insts, bitty.Instruction{})
		skipOverflowIdxs = append(skipOverflowIdxs, idx) // divisor > -1
		idx = len(insts)
		insts = append(insts, bitty.Instruction{})
		skipOverflowIdxs = append(skipOverflowIdxs, idx) // divisor < -1

		jumpOverflowIdx = len(insts)
		insts = append(insts, bitty.Instruction{}) // both equalities held: genuine overflow
	}

	// --- normal path ---
	normalPathStart := len(insts)
	for i, idx := range skipOverflowIdxs {
		cond := bitty.CondGreater
		if i%2 == 1 {
			cond = bitty.CondLess
		}
		insts[idx] = branchInst(cond, normalPathStart-idx)
	}

	if isSigned {
		insts = append(insts, alu(bitty.AluSub, mulHiReg, mulHiReg), alu(bitty.AluAdd, mulHiReg, borrowReg), immOp(bitty.AluShr, mulHiReg, 31))
		insts = append(insts, alu(bitty.AluSub, mulAHiReg, mulAHiReg), alu(bitty.AluAdd, mulAHiReg, counterReg), immOp(bitty.AluShr, mulAHiReg, 31))
		insts = append(insts, alu(bitty.AluSub, rawBReg, rawBReg), alu(bitty.AluAdd, rawBReg, mulHiReg), alu(bitty.AluXor, rawBReg, mulAHiReg))

		insts = append(insts, immOp(bitty.AluCmpU, mulHiReg, 1))
		skipNegDividendIdx := len(insts)
		insts = append(insts, bitty.Instruction{})
		insts = append(insts, immOp(bitty.AluXor, borrowReg, -1), immOp(bitty.AluAdd, borrowReg, 1))
		skipNegDividendTarget := len(insts)
		insts[skipNegDividendIdx] = branchInst(bitty.CondLess, skipNegDividendTarget-skipNegDividendIdx)

		insts = append(insts, immOp(bitty.AluCmpU, mulAHiReg, 1))
		skipNegDivisorIdx := len(insts)
		insts = append(insts, bitty.Instruction{})
		insts = append(insts, immOp(bitty.AluXor, counterReg, -1), immOp(bitty.AluAdd, counterReg, 1))
		skipNegDivisorTarget := len(insts)
		insts[skipNegDivisorIdx] = branchInst(bitty.CondLess, skipNegDivisorTarget-skipNegDivisorIdx)
	}

	insts = append(insts, alu(bitty.AluSub, bitReg, bitReg)) // quotient = 0
	loopTop := len(insts)
	insts = append(insts, alu(bitty.AluCmpU, borrowReg, counterReg))
	loopExitIdx := len(insts)
	insts = append(insts, bitty.Instruction{}) // -> loopExit when dividend < divisor
	insts = append(insts, alu(bitty.AluSub, borrowReg, counterReg), immOp(bitty.AluAdd, bitReg, 1))
	insts = append(insts, selfEqual(counterReg))
	insts = append(insts, branchInst(bitty.CondEqual, loopTop-len(insts)))
	loopExitTarget := len(insts)
	insts[loopExitIdx] = branchInst(bitty.CondLess, loopExitTarget-loopExitIdx)

	if isSigned {
		if wantRem {
			// remainder takes the dividend's original sign
			insts = append(insts, immOp(bitty.AluCmpU, mulHiReg, 1))
			skipIdx := len(insts)
			insts = append(insts, bitty.Instruction{})
			insts = append(insts, immOp(bitty.AluXor, borrowReg, -1), immOp(bitty.AluAdd, borrowReg, 1))
			target := len(insts)
			insts[skipIdx] = branchInst(bitty.CondLess, target-skipIdx)
		} else {
			insts = append(insts, immOp(bitty.AluCmpU, rawBReg, 1)) // rawBReg now holds negateQuotient
			skipIdx := len(insts)
			insts = append(insts, bitty.Instruction{})
			insts = append(insts, immOp(bitty.AluXor, bitReg, -1), immOp(bitty.AluAdd, bitReg, 1))
			target := len(insts)
			insts[skipIdx] = branchInst(bitty.CondLess, target-skipIdx)
			insts = append(insts, copyReg(borrowReg, bitReg)...)
		}
	} else if !wantRem {
		insts = append(insts, copyReg(borrowReg, bitReg)...)
	}

	insts = append(insts, selfEqual(counterReg)) // guarantee d_out == Equal for the unconditional jump below
	convergeJumpIdx := len(insts)
	insts = append(insts, bitty.Instruction{}) // -> converge

	// --- divide-by-zero path ---
	divZeroTarget := len(insts)
	insts[divZeroBranchIdx] = branchInst(bitty.CondEqual, divZeroTarget-divZeroBranchIdx)
	if wantRem {
		insts = append(insts, copyReg(borrowReg, rawAReg)...)
	} else {
		insts = append(insts, materializeImm(borrowReg, -1)...)
	}
	var divZeroJumpIdx int
	if isSigned {
		insts = append(insts, selfEqual(counterReg))
		divZeroJumpIdx = len(insts)
		insts = append(insts, bitty.Instruction{}) // -> converge, skipping the overflow path below
	}

	// --- signed-overflow path (DIV/REM only) ---
	if isSigned {
		overflowTarget := len(insts)
		insts[jumpOverflowIdx] = branchInst(bitty.CondEqual, overflowTarget-jumpOverflowIdx)
		if wantRem {
			insts = append(insts, alu(bitty.AluSub, borrowReg, borrowReg))
		} else {
			insts = append(insts, copyReg(borrowReg, rawAReg)...)
		}
	}

	convergeTarget := len(insts)
	insts[convergeJumpIdx] = branchInst(bitty.CondEqual, convergeTarget-convergeJumpIdx)
	if isSigned {
		insts[divZeroJumpIdx] = branchInst(bitty.CondEqual, convergeTarget-divZeroJumpIdx)
	}

	insts = append(insts, alu(bitty.AluSub, scratch, scratch), alu(bitty.AluAdd, scratch, borrowReg))

	for _, r := range []uint8{rawBReg, rawAReg, mulAHiReg, mulHiReg, bitReg, counterReg, borrowReg} {
		insts = append(insts, popReg(r)...)
	}

	if inst.Rd != 0 {
		insts = append(insts, alu(bitty.AluSub, inst.Rd, inst.Rd), alu(bitty.AluAdd, inst.Rd, scratch))
	}
	return insts
}
