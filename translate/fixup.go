package translate

import (
	"github.com/archsim/rv2bitty/bitty"
	"github.com/archsim/rv2bitty/simerr"
)

// fixup rewrites every pending branch's immediate now that every
// RV32EM instruction index has a known Bitty address (spec §4.3,
// "Branch fixup"). The immediate encodes 2*(target-branch) instruction
// slots, matching the bitty.Interpreter's imm>>1 convention.
func (t *Translator) fixup() {
	for _, p := range t.pending {
		targetB, ok := t.pcMap[p.TargetPCR]
		if !ok {
			t.diag.Record(p.TargetPCR, simerr.ErrUnsupportedTranslation, "branch target outside translated program")
			continue
		}

		ins := t.asm[p.BitPC]
		ins.Imm = int32(2 * (targetB - p.BitPC))
		t.asm[p.BitPC] = ins
		t.bin[p.BitPC] = bitty.Encode(ins)
	}
}
