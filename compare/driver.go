// Package compare implements the comparison driver described at a
// design level in spec §2/§5: it alternates stepping the RV32EM
// interpreter and the Bitty interpreter (advancing Bitty to the mapped
// PC boundary via the translator's PC map) and reports register and
// memory equivalence at every RV32EM instruction boundary. This is the
// one component spec.md explicitly keeps out of THE CORE, given a
// minimal, documented interface here per spec §6.
//
// Grounded on LMMilewski-riscv-emu/diff.go's differential-stepping
// shape (step a reference machine, step the implementation under test,
// diff state, report) generalized from "VM vs. Spike" to "RV32EM vs.
// Bitty".
package compare

import (
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/archsim/rv2bitty/bitty"
	"github.com/archsim/rv2bitty/diag"
	"github.com/archsim/rv2bitty/ioformat"
	"github.com/archsim/rv2bitty/rv32em"
)

// Driver steps an RV32EM interpreter one instruction at a time,
// advances a Bitty interpreter to the corresponding mapped boundary,
// and accumulates register/memory equivalence statistics.
type Driver struct {
	rv *rv32em.Interpreter
	bt *bitty.Interpreter

	pcMap map[int]int

	initRVMem []uint32
	initBtMem []uint32
	lastRVMem []uint32
	lastBtMem []uint32

	modifiedRV map[int]bool
	modifiedBt map[int]bool

	totalRegChecks   int
	matchedRegChecks int

	diag *diag.Log
}

// Option configures a Driver at construction time.
type Option func(*Driver)

// WithDiagLog attaches a diagnostics log; nil is tolerated by diag.Log.
func WithDiagLog(l *diag.Log) Option {
	return func(d *Driver) { d.diag = l }
}

// New creates a Driver over an already-constructed RV32EM interpreter,
// Bitty interpreter, and the PC_R -> PC_B map the Translator produced.
// rv and bt must have been seeded with memories holding identical
// initial contents (e.g. via two mem.GenerateShared calls with the
// same seed) for the memory-diff statistics to be meaningful.
func New(rv *rv32em.Interpreter, bt *bitty.Interpreter, pcMap map[int]int, opts ...Option) *Driver {
	d := &Driver{
		rv:         rv,
		bt:         bt,
		pcMap:      pcMap,
		modifiedRV: make(map[int]bool),
		modifiedBt: make(map[int]bool),
	}
	d.initRVMem = rv.Memory().Snapshot()
	d.initBtMem = bt.Memory().Snapshot()
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Done reports whether the RV32EM interpreter has halted, i.e. there is
// no further instruction boundary to step to.
func (d *Driver) Done() bool { return d.rv.Halted() }

// Step advances the RV32EM interpreter by exactly one instruction, runs
// the Bitty interpreter forward to the instruction's mapped boundary,
// and returns the resulting comparison report.
func (d *Driver) Step() (ioformat.StepReport, error) {
	if d.rv.Halted() {
		return ioformat.StepReport{}, fmt.Errorf("compare: driver already halted")
	}

	pcR := d.rv.PC()
	pcBStart, ok := d.pcMap[pcR]
	if !ok {
		return ioformat.StepReport{}, fmt.Errorf("compare: no PC map entry for PC_R=%d", pcR)
	}

	d.rv.Step()
	newPCR := d.rv.PC()

	pcBEnd, ok := d.pcMap[newPCR]
	if !ok {
		pcBEnd = pcBStart
	}
	if err := d.bt.RunTo(pcBEnd); err != nil {
		d.diag.Record(pcR, err, "bitty interpreter halted before reaching mapped boundary")
	}

	rvRegs := d.rv.Regs().Snapshot()
	btRegs := d.bt.Regs().Snapshot()
	regs := make([]ioformat.RegisterDiff, len(rvRegs))
	for i := range rvRegs {
		regs[i] = ioformat.RegisterDiff{Index: i, RV: rvRegs[i], Bitty: btRegs[i]}
		d.totalRegChecks++
		if regs[i].Match() {
			d.matchedRegChecks++
		}
	}

	memDiffs := d.diffMemory()

	report := ioformat.StepReport{
		PCR:      pcR,
		PCBStart: pcBStart,
		PCBEnd:   pcBEnd,
		Regs:     regs,
		Mem:      memDiffs,
	}
	if !cmp.Equal(rvRegs, btRegs) {
		report.Diff = cmp.Diff(rvRegs, btRegs)
	}
	return report, nil
}

// diffMemory compares the current memory contents against their
// initial snapshots, recording which cells either interpreter has
// modified and building the MemoryDiff list for cells either has
// touched so far (spec §6's memory-diff table is scoped to modified
// cells, not the full address space).
func (d *Driver) diffMemory() []ioformat.MemoryDiff {
	d.lastRVMem = d.rv.Memory().Snapshot()
	d.lastBtMem = d.bt.Memory().Snapshot()

	var diffs []ioformat.MemoryDiff
	n := len(d.initRVMem)
	for i := 0; i < n; i++ {
		rvMod := d.lastRVMem[i] != d.initRVMem[i]
		btMod := d.lastBtMem[i] != d.initBtMem[i]
		if rvMod {
			d.modifiedRV[i] = true
		}
		if btMod {
			d.modifiedBt[i] = true
		}
		if rvMod || btMod {
			diffs = append(diffs, ioformat.MemoryDiff{Addr: i, RV: d.lastRVMem[i], Bitty: d.lastBtMem[i]})
		}
	}
	return diffs
}

// Summary returns the aggregate statistics accumulated across every
// Step call so far, per spec §6: register match rate, the count of
// cells each interpreter has modified, and the count of cells modified
// identically by both.
func (d *Driver) Summary() ioformat.Summary {
	both := 0
	for addr := range d.modifiedRV {
		if d.modifiedBt[addr] && d.lastRVMem != nil && d.lastRVMem[addr] == d.lastBtMem[addr] {
			both++
		}
	}
	return ioformat.Summary{
		TotalRegChecks:      d.totalRegChecks,
		MatchedRegChecks:    d.matchedRegChecks,
		RVCellsModified:     len(d.modifiedRV),
		BittyCellsModified:  len(d.modifiedBt),
		BothModifiedSame:    both,
	}
}

// RunAll steps the driver until the RV32EM interpreter halts, invoking
// onStep for every comparison report produced (e.g. to write it to a
// report file via ioformat.WriteStepTrace). It returns the final
// summary.
func RunAll(d *Driver, onStep func(ioformat.StepReport)) ioformat.Summary {
	for !d.Done() {
		report, err := d.Step()
		if err != nil {
			break
		}
		if onStep != nil {
			onStep(report)
		}
	}
	return d.Summary()
}
