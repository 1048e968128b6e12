package translate

import (
	"github.com/archsim/rv2bitty/bitty"
	"github.com/archsim/rv2bitty/rv32em"
)

var immAluOp = map[rv32em.Op]bitty.AluOp{
	rv32em.OpADDI: bitty.AluAdd,
	rv32em.OpANDI: bitty.AluAnd,
	rv32em.OpORI:  bitty.AluOr,
	rv32em.OpXORI: bitty.AluXor,
}

// foldZero applies a Bitty ALU op to (0, b), used to constant-fold
// whenever RV32EM's hardwired-zero x0 is an input operand the
// translator would otherwise have to stage through its own scratch
// register.
func foldZero(op bitty.AluOp, b uint32) uint32 {
	switch op {
	case bitty.AluAdd, bitty.AluOr, bitty.AluXor:
		return b
	case bitty.AluAnd:
		return 0
	}
	return b
}

// expandImmArith expands ADDI/ANDI/ORI/XORI. The RV32EM immediate is
// 12 bits, too wide for Bitty's 6-bit immediate-ALU field, so it is
// materialized into the scratch register first and combined with rs1
// using the same three-address emulation R-type uses.
//
// When rs1 is x0, the result is a compile-time constant: RV32EM's x0
// always reads zero, so there is no register value to combine with the
// materialized immediate (and no need to touch the scratch register to
// compute one) — the result is built directly into rd.
func (t *Translator) expandImmArith(inst rv32em.Instruction) []bitty.Instruction {
	op := immAluOp[inst.Op]
	if inst.Rs1 == 0 {
		return materializeImm(inst.Rd, int32(foldZero(op, uint32(inst.Imm))))
	}
	insts := materializeImm(scratch, inst.Imm)
	insts = append(insts, emitThreeAddress(op, inst.Rd, inst.Rs1, scratch)...)
	return insts
}
