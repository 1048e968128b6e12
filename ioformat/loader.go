package ioformat

import (
	"bufio"
	"io"
	"strings"

	"github.com/archsim/rv2bitty/diag"
)

// LoadWords reads one numeric instruction literal per line from r. Blank
// lines and lines beginning with "#" are ignored; every remaining token
// is parsed with ParseLiteral and masked to maskBits (32 for RV32EM, 16
// for Bitty). A line that fails to parse is skipped and recorded to log
// as ErrInstructionParse rather than aborting the whole file (spec §6).
func LoadWords(r io.Reader, maskBits uint, log *diag.Log) []uint32 {
	var words []uint32
	mask := uint64(1)<<maskBits - 1

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		v, err := ParseLiteral(line)
		if err != nil {
			log.Record(lineNo, err, line)
			continue
		}
		words = append(words, uint32(v&mask))
	}
	return words
}

// LoadRV32EM reads an RV32EM instruction text file, masking every
// literal to 32 bits.
func LoadRV32EM(r io.Reader, log *diag.Log) []uint32 {
	return LoadWords(r, 32, log)
}

// LoadBitty reads a Bitty instruction text file, masking every literal
// to 16 bits and narrowing to uint16.
func LoadBitty(r io.Reader, log *diag.Log) []uint16 {
	words := LoadWords(r, 16, log)
	out := make([]uint16, len(words))
	for i, w := range words {
		out[i] = uint16(w)
	}
	return out
}
