package ioformat

import (
	"fmt"
	"io"

	"github.com/archsim/rv2bitty/regfile"
)

// WriteRV32EMDump writes a human-readable RV32EM register dump: R0..R15
// each as 8 hex digits, followed by the final PC, per spec §6.
func WriteRV32EMDump(w io.Writer, regs [regfile.Count]uint32, pc int) error {
	for i, v := range regs {
		if _, err := fmt.Fprintf(w, "R%-2d %08X\n", i, v); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "PC  %d\n", pc)
	return err
}

// WriteBittyDump writes a human-readable Bitty register dump: R0..R15
// in hex and decimal, PC, and D_OUT, per spec §6.
func WriteBittyDump(w io.Writer, regs [regfile.Count]uint32, pc int, dOut uint32) error {
	for i, v := range regs {
		if _, err := fmt.Fprintf(w, "R%-2d %08X (%d)\n", i, v, v); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "PC    %d\n", pc); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "D_OUT %08X (%d)\n", dOut, dOut)
	return err
}
