package rv32em

// execMulDiv dispatches the M-extension (multiply/divide) operations.
// Division edge cases follow spec §4.1: divide-by-zero yields an all-ones
// quotient and the dividend as remainder; signed overflow (most-negative /
// -1) yields the dividend for DIV and zero for REM.
func execMulDiv(op Op, a, b uint32) (uint32, bool) {
	switch op {
	case OpMUL:
		return uint32(int64(int32(a)) * int64(int32(b))), true

	case OpMULH:
		full := int64(int32(a)) * int64(int32(b))
		return uint32(full >> 32), true

	case OpMULHSU:
		full := int64(int32(a)) * int64(uint64(b))
		return uint32(full >> 32), true

	case OpMULHU:
		full := uint64(a) * uint64(b)
		return uint32(full >> 32), true

	case OpDIV:
		sa, sb := int32(a), int32(b)
		if sb == 0 {
			return 0xFFFFFFFF, true
		}
		if sa == int32(-2147483648) && sb == -1 {
			return a, true
		}
		return uint32(sa / sb), true

	case OpDIVU:
		if b == 0 {
			return 0xFFFFFFFF, true
		}
		return a / b, true

	case OpREM:
		sa, sb := int32(a), int32(b)
		if sb == 0 {
			return a, true
		}
		if sa == int32(-2147483648) && sb == -1 {
			return 0, true
		}
		return uint32(sa % sb), true

	case OpREMU:
		if b == 0 {
			return a, true
		}
		return a % b, true
	}

	return 0, false
}
