package translate

import (
	"github.com/archsim/rv2bitty/bitty"
	"github.com/archsim/rv2bitty/rv32em"
)

// expandUpper expands LUI and AUIPC. Both results are compile-time
// constants here: LUI's value is just its already-shifted immediate,
// and upperImmediate's AUIPC case adds the instruction index (not a
// byte address) to it, an index known the moment this instruction is
// reached during translation. Neither needs a runtime gtpc to read the
// Bitty program counter.
func (t *Translator) expandUpper(inst rv32em.Instruction) []bitty.Instruction {
	value := uint32(inst.Imm)
	if inst.Op == rv32em.OpAUIPC {
		value += uint32(t.pcR)
	}
	return materializeImm(inst.Rd, int32(value))
}
