// Package ioformat implements the spec's external, out-of-scope-as-a-
// component-but-specified-as-a-wire-format interfaces: the plain-text
// instruction loader and its numeric-literal parser, the PC-map file,
// the register dump writers, and the comparison report writer. Every
// format here is line-oriented text, read a token at a time in the
// style of lookbusy1344-arm_emulator/parser/lexer.go, generalized to
// this toolchain's own literal grammar (spec §6).
package ioformat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/archsim/rv2bitty/simerr"
)

// ParseLiteral parses one numeric-literal token after underscore
// separators have been stripped, auto-detecting the base: "0b" binary,
// "0x" hex, decimal otherwise. A leading "-" is accepted for decimal
// literals only, matching how negative immediates appear in hand-written
// instruction files; "0b"/"0x" literals are always unsigned.
func ParseLiteral(tok string) (uint64, error) {
	tok = strings.ReplaceAll(tok, "_", "")
	if tok == "" {
		return 0, fmt.Errorf("ioformat: empty literal: %w", simerr.ErrInstructionParse)
	}

	neg := false
	rest := tok
	if strings.HasPrefix(rest, "-") {
		neg = true
		rest = rest[1:]
	}
	if neg && len(rest) >= 2 && rest[0] == '0' && strings.ContainsAny(rest[1:2], "bBxX") {
		return 0, fmt.Errorf("ioformat: parse literal %q: %w", tok, simerr.ErrInstructionParse)
	}

	var v uint64
	var err error
	switch {
	case strings.HasPrefix(rest, "0b") || strings.HasPrefix(rest, "0B"):
		v, err = strconv.ParseUint(rest[2:], 2, 64)
	case strings.HasPrefix(rest, "0x") || strings.HasPrefix(rest, "0X"):
		v, err = strconv.ParseUint(rest[2:], 16, 64)
	default:
		v, err = strconv.ParseUint(rest, 10, 64)
	}
	if err != nil {
		return 0, fmt.Errorf("ioformat: parse literal %q: %w", tok, simerr.ErrInstructionParse)
	}
	if neg {
		v = uint64(-int64(v))
	}
	return v, nil
}
