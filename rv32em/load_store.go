package rv32em

import (
	"fmt"

	"github.com/archsim/rv2bitty/mem"
	"github.com/archsim/rv2bitty/simerr"
)

// execLoad performs LB/LH/LW/LBU/LHU. addr is the already-computed word
// index (rs1 + sign_extend(imm)); out-of-range indices wrap modulo memory
// length per spec §4.1.
func execLoad(op Op, m *mem.Memory, addr int) (uint32, error) {
	switch op {
	case OpLB:
		v := int8(m.ReadByte(addr))
		return uint32(int32(v)), nil
	case OpLBU:
		return uint32(m.ReadByte(addr)), nil
	case OpLH:
		idx := mem.AlignDownHalf(addr)
		v := int16(m.ReadHalf(idx))
		return uint32(int32(v)), nil
	case OpLHU:
		idx := mem.AlignDownHalf(addr)
		return uint32(m.ReadHalf(idx)), nil
	case OpLW:
		return m.ReadWord(addr), nil
	}
	return 0, fmt.Errorf("rv32em: load: %w", simerr.ErrUnknownOpcode)
}

// execStore performs SB/SH/SW. SH/SW reject a misaligned index (odd for
// halfword, non-multiple-of-4 for word) by returning ErrMisalignedAccess;
// the caller skips the store and still advances PC.
func execStore(op Op, m *mem.Memory, addr int, value uint32) error {
	switch op {
	case OpSB:
		m.WriteByte(addr, uint8(value))
		return nil
	case OpSH:
		if addr%2 != 0 {
			return fmt.Errorf("rv32em: store at %d: %w", addr, simerr.ErrMisalignedAccess)
		}
		m.WriteHalf(addr, uint16(value))
		return nil
	case OpSW:
		if addr%4 != 0 {
			return fmt.Errorf("rv32em: store at %d: %w", addr, simerr.ErrMisalignedAccess)
		}
		m.WriteWord(addr, value)
		return nil
	}
	return fmt.Errorf("rv32em: store: %w", simerr.ErrUnknownOpcode)
}
