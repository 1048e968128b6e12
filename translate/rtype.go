package translate

import (
	"github.com/archsim/rv2bitty/bitty"
	"github.com/archsim/rv2bitty/rv32em"
)

var rTypeAluOp = map[rv32em.Op]bitty.AluOp{
	rv32em.OpADD: bitty.AluAdd,
	rv32em.OpSUB: bitty.AluSub,
	rv32em.OpAND: bitty.AluAnd,
	rv32em.OpOR:  bitty.AluOr,
	rv32em.OpXOR: bitty.AluXor,
	rv32em.OpSLL: bitty.AluShl,
	rv32em.OpSRL: bitty.AluShr,
	rv32em.OpSRA: bitty.AluShrs,
}

// expandRType expands a direct-mapping R-type ALU instruction
// (everything but SLT/SLTU, which need the compare-and-set idiom; see
// compare.go) using the three-address emulation described in spec §4.3.
func (t *Translator) expandRType(inst rv32em.Instruction) []bitty.Instruction {
	op, ok := rTypeAluOp[inst.Op]
	if !ok {
		return nil
	}
	return emitThreeAddressZeroSafe(op, inst.Rd, inst.Rs1, inst.Rs2)
}

func alu(op bitty.AluOp, rx, ry uint8) bitty.Instruction {
	return bitty.Instruction{Format: bitty.FormatR, Rx: rx, Ry: ry, Alu: op}
}

// emitThreeAddress synthesizes `rd <- rs1 op rs2` out of Bitty's
// two-address ALU op, covering all four combinations of (rd==rs1,
// rd==rs2) per spec §4.3 / Design Notes.
func emitThreeAddress(op bitty.AluOp, rd, rs1, rs2 uint8) []bitty.Instruction {
	switch {
	case rd == rs1:
		// Covers rd==rs1==rs2 as well: a single destructive op already
		// reads the correct operands before rd is overwritten.
		return []bitty.Instruction{alu(op, rd, rs2)}

	case rd == rs2:
		return []bitty.Instruction{
			alu(bitty.AluSub, scratch, scratch),
			alu(bitty.AluAdd, scratch, rs1),
			alu(op, scratch, rs2),
			alu(bitty.AluSub, rs2, rs2),
			alu(bitty.AluAdd, rs2, scratch),
			alu(bitty.AluSub, scratch, scratch),
		}

	default:
		return []bitty.Instruction{
			alu(bitty.AluSub, rd, rd),
			alu(bitty.AluAdd, rd, rs1),
			alu(op, rd, rs2),
		}
	}
}

// emitThreeAddressZeroSafe wraps emitThreeAddress to account for RV32EM
// x0 operands. RV32EM's x0 always reads zero; Bitty register 0 is the
// translator's own scratch register and generally holds whatever a
// prior expansion left there (see regfile.NewPlain), so an rs1/rs2 of
// x0 must be backed by a freshly-zeroed register 0, not its live
// content.
//
// When rd itself is x0 the result is discarded (RV32EM writes to x0
// are no-ops), so the whole instruction is skipped rather than zeroing
// scratch first: zeroing scratch here would, whenever rs1 or rs2 is
// also x0, destroy that operand's value before emitThreeAddress's
// rd==rs2 case gets a chance to read it. Skipping is equivalent because
// expand already appends a trailing scratch clear after every
// instruction (see translator.go), so scratch ends up zero regardless.
func emitThreeAddressZeroSafe(op bitty.AluOp, rd, rs1, rs2 uint8) []bitty.Instruction {
	if rd == 0 {
		return nil
	}
	var pre []bitty.Instruction
	if rs1 == 0 || rs2 == 0 {
		pre = append(pre, alu(bitty.AluSub, scratch, scratch))
	}
	return append(pre, emitThreeAddress(op, rd, rs1, rs2)...)
}
