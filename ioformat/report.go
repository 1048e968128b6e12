package ioformat

import (
	"fmt"
	"io"
)

// memoryPreviewLimit bounds how many matching memory cells the report
// prints per step; mismatches are always printed in full, matches are
// only a preview (spec §6: "a bounded preview of matches").
const memoryPreviewLimit = 8

// RegisterDiff is one register's comparison result at an instruction
// boundary.
type RegisterDiff struct {
	Index int
	RV    uint32
	Bitty uint32
}

// Match reports whether the two interpreters agree on this register.
func (d RegisterDiff) Match() bool { return d.RV == d.Bitty }

// MemoryDiff is one memory cell's comparison result, restricted to
// cells either interpreter has modified so far.
type MemoryDiff struct {
	Addr  int
	RV    uint32
	Bitty uint32
}

// Match reports whether the two interpreters agree on this cell.
func (d MemoryDiff) Match() bool { return d.RV == d.Bitty }

// StepReport is one RV32EM instruction boundary's comparison data: the
// RV32EM PC stepped, the Bitty PC range executed to reach it, and the
// register/memory diffs at that boundary.
type StepReport struct {
	PCR      int
	PCBStart int
	PCBEnd   int
	Regs     []RegisterDiff
	Mem      []MemoryDiff

	// Diff holds a go-cmp structural diff of the two register
	// snapshots, set only when they disagree; empty otherwise.
	Diff string
}

// WriteStepTrace appends one step's execution trace, register
// comparison table, and memory-diff table to w, per spec §6's
// "execution trace, register comparison table with a match indicator
// per register, a memory-diff table".
func WriteStepTrace(w io.Writer, s StepReport) error {
	if _, err := fmt.Fprintf(w, "--- PC_R=%d  PC_B=[%d,%d) ---\n", s.PCR, s.PCBStart, s.PCBEnd); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "registers:"); err != nil {
		return err
	}
	for _, r := range s.Regs {
		mark := "=="
		if !r.Match() {
			mark = "!!"
		}
		if _, err := fmt.Fprintf(w, "  R%-2d rv=%08X bitty=%08X %s\n", r.Index, r.RV, r.Bitty, mark); err != nil {
			return err
		}
	}

	var mismatches, matches []MemoryDiff
	for _, m := range s.Mem {
		if m.Match() {
			matches = append(matches, m)
		} else {
			mismatches = append(mismatches, m)
		}
	}

	if len(mismatches) > 0 {
		if _, err := fmt.Fprintln(w, "memory mismatches:"); err != nil {
			return err
		}
		for _, m := range mismatches {
			if _, err := fmt.Fprintf(w, "  [%d] rv=%08X bitty=%08X !!\n", m.Addr, m.RV, m.Bitty); err != nil {
				return err
			}
		}
	}

	if s.Diff != "" {
		if _, err := fmt.Fprintf(w, "go-cmp register diff:\n%s\n", s.Diff); err != nil {
			return err
		}
	}

	if len(matches) > 0 {
		if _, err := fmt.Fprintln(w, "memory matches (preview):"); err != nil {
			return err
		}
		preview := matches
		truncated := 0
		if len(preview) > memoryPreviewLimit {
			truncated = len(preview) - memoryPreviewLimit
			preview = preview[:memoryPreviewLimit]
		}
		for _, m := range preview {
			if _, err := fmt.Fprintf(w, "  [%d] rv=%08X bitty=%08X ==\n", m.Addr, m.RV, m.Bitty); err != nil {
				return err
			}
		}
		if truncated > 0 {
			if _, err := fmt.Fprintf(w, "  ... %d more matching cells omitted\n", truncated); err != nil {
				return err
			}
		}
	}

	return nil
}

// Summary is the aggregate statistics spec §6 asks the report to carry:
// the register match rate across every step, and how many distinct
// memory cells each interpreter modified, and how many of those were
// modified identically by both.
type Summary struct {
	TotalRegChecks   int
	MatchedRegChecks int
	RVCellsModified  int
	BittyCellsModified int
	BothModifiedSame int
}

// MatchRate returns the fraction of register comparisons that agreed,
// or 1.0 if no comparisons were made.
func (s Summary) MatchRate() float64 {
	if s.TotalRegChecks == 0 {
		return 1
	}
	return float64(s.MatchedRegChecks) / float64(s.TotalRegChecks)
}

// WriteSummary appends the aggregate statistics block to w.
func WriteSummary(w io.Writer, s Summary) error {
	_, err := fmt.Fprintf(w, "=== summary ===\nregister match rate: %.4f (%d/%d)\nrv cells modified: %d\nbitty cells modified: %d\ncells modified identically by both: %d\n",
		s.MatchRate(), s.MatchedRegChecks, s.TotalRegChecks, s.RVCellsModified, s.BittyCellsModified, s.BothModifiedSame)
	return err
}
