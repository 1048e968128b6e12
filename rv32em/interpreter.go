package rv32em

import (
	"io"
	"os"

	"github.com/archsim/rv2bitty/diag"
	"github.com/archsim/rv2bitty/mem"
	"github.com/archsim/rv2bitty/regfile"
	"github.com/archsim/rv2bitty/simerr"
)

// Interpreter executes a decoded RV32EM instruction stream against a
// register file and shared data memory. It never halts on a malformed
// or out-of-range instruction; every such case is recorded to its diag
// log and execution continues at the next instruction (spec §7), except
// a step-limit overrun, which stops the run cleanly, and, with
// WithTolerantPC(false), a jump or branch target outside the program,
// which halts with simerr.ErrMemoryOutOfRange.
type Interpreter struct {
	regs   *regfile.File
	mem    *mem.Memory
	prog   []uint32
	diag   *diag.Log
	stdout io.Writer

	pc      int
	steps   uint64
	stepCap uint64 // 0 means unlimited
	halted  bool
	haltErr error

	tolerantMemory bool
	tolerantPC     bool
}

// InterpreterOption configures an Interpreter at construction time.
type InterpreterOption func(*Interpreter)

// WithStdout sets a custom stdout writer, used only for diagnostics.
func WithStdout(w io.Writer) InterpreterOption {
	return func(i *Interpreter) { i.stdout = w }
}

// WithDiagLog attaches a diagnostics log; nil is tolerated by diag.Log.
func WithDiagLog(l *diag.Log) InterpreterOption {
	return func(i *Interpreter) { i.diag = l }
}

// WithStepCap sets the maximum number of instructions to execute before
// Run returns simerr.ErrStepLimitExceeded. Zero means unlimited.
func WithStepCap(cap uint64) InterpreterOption {
	return func(i *Interpreter) { i.stepCap = cap }
}

// WithTolerantMemory records the tolerant-memory setting. RV32EM loads
// and stores always wrap out-of-range indices modulo memory length (the
// mem package's behaviour) whatever this is set to; no access is
// rejected.
func WithTolerantMemory(tolerant bool) InterpreterOption {
	return func(i *Interpreter) { i.tolerantMemory = tolerant }
}

// WithTolerantPC, when set, allows a jump/branch target outside the
// program bounds to wrap into range rather than halting the run.
func WithTolerantPC(tolerant bool) InterpreterOption {
	return func(i *Interpreter) { i.tolerantPC = tolerant }
}

// NewInterpreter creates an Interpreter over the given instruction
// stream (one decoded word per instruction-index slot) and shared
// memory. Both tolerant-memory and tolerant-pc default to true, matching
// the degrade-and-continue model spec §7 describes.
func NewInterpreter(prog []uint32, m *mem.Memory, opts ...InterpreterOption) *Interpreter {
	i := &Interpreter{
		regs:           regfile.New(),
		mem:            m,
		prog:           prog,
		stdout:         os.Stdout,
		tolerantMemory: true,
		tolerantPC:     true,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.diag == nil {
		i.diag = diag.New(i.stdout)
	}
	return i
}

// Regs returns the interpreter's register file.
func (i *Interpreter) Regs() *regfile.File { return i.regs }

// Memory returns the interpreter's shared memory.
func (i *Interpreter) Memory() *mem.Memory { return i.mem }

// PC returns the current instruction index.
func (i *Interpreter) PC() int { return i.pc }

// SetPC overrides the current instruction index, used by the translator
// driver to seed a co-simulation run at a specific point.
func (i *Interpreter) SetPC(pc int) { i.pc = pc }

// Halted reports whether the interpreter has stopped (step-cap reached,
// or a jump/branch target outside the program in strict PC mode). A
// fetch beyond the end of the program does not halt it.
func (i *Interpreter) Halted() bool { return i.halted }

// HaltError returns the error that caused Halted to become true, or nil
// if the interpreter has not halted.
func (i *Interpreter) HaltError() error { return i.haltErr }

// fetch returns the raw word at the current PC, or 0 (decodes as
// OpUnknown via Decode(0)'s all-zero opcode) when the PC is out of the
// program's bounds.
func (i *Interpreter) fetch() uint32 {
	if i.pc < 0 || i.pc >= len(i.prog) {
		return 0
	}
	return i.prog[i.pc]
}

// Step executes exactly one instruction and advances the PC (unless the
// instruction itself retargets it). It returns false once the
// interpreter has halted.
func (i *Interpreter) Step() bool {
	if i.halted {
		return false
	}
	if i.stepCap != 0 && i.steps >= i.stepCap {
		i.halted = true
		i.haltErr = simerr.ErrStepLimitExceeded
		i.diag.Record(i.pc, i.haltErr, "step cap reached")
		return false
	}

	word := i.fetch()
	inst := Decode(word)
	i.steps++

	if inst.Op == OpUnknown {
		i.diag.Record(i.pc, simerr.ErrUnknownOpcode, "unrecognized instruction word")
		i.pc++
		return true
	}

	if !regfile.InRange(inst.Rd) || !regfile.InRange(inst.Rs1) || !regfile.InRange(inst.Rs2) {
		i.diag.Record(i.pc, simerr.ErrRegisterOutOfRange, "operand register out of range")
		i.pc++
		return true
	}

	i.execute(inst)
	return true
}

// Run steps the interpreter until it halts, returning the error that
// caused the halt (simerr.ErrStepLimitExceeded under a step cap,
// simerr.ErrMemoryOutOfRange for an out-of-range target in strict PC
// mode). Running off the end of the program does not halt it, so
// without a step cap or a strict-mode halt Run does not return.
func (i *Interpreter) Run() error {
	for i.Step() {
	}
	return i.haltErr
}

func (i *Interpreter) execute(inst Instruction) {
	switch inst.Format {
	case FormatR:
		i.execArith(inst)
		i.pc++
	case FormatI:
		switch inst.Op {
		case OpJALR:
			target, link := jalrTarget(i.regs.Read(inst.Rs1), inst.Imm, i.pc)
			i.regs.Write(inst.Rd, link)
			i.pc = i.targetPC(target)
		default:
			i.execArith(inst)
			i.pc++
		}
	case FormatILoad:
		addr := int(int32(i.regs.Read(inst.Rs1)) + inst.Imm)
		v, err := execLoad(inst.Op, i.mem, addr)
		if err != nil {
			i.diag.Record(i.pc, err, "load failed")
		} else {
			i.regs.Write(inst.Rd, v)
		}
		i.pc++
	case FormatS:
		addr := int(int32(i.regs.Read(inst.Rs1)) + inst.Imm)
		if err := execStore(inst.Op, i.mem, addr, i.regs.Read(inst.Rs2)); err != nil {
			i.diag.Record(i.pc, err, "store failed")
		}
		i.pc++
	case FormatB:
		if evalBranch(inst.Op, i.regs.Read(inst.Rs1), i.regs.Read(inst.Rs2)) {
			i.pc = i.targetPC(branchTarget(i.pc, inst.Imm))
		} else {
			i.pc++
		}
	case FormatU:
		i.regs.Write(inst.Rd, upperImmediate(inst.Op, inst.Imm, i.pc))
		i.pc++
	case FormatJ:
		target, link := jalTarget(i.pc, inst.Imm)
		i.regs.Write(inst.Rd, link)
		i.pc = i.targetPC(target)
	}
}

func (i *Interpreter) execArith(inst Instruction) {
	a := i.regs.Read(inst.Rs1)
	var b uint32
	if inst.Format == FormatR {
		b = i.regs.Read(inst.Rs2)
	} else {
		b = uint32(inst.Imm)
	}

	if v, ok := execALU(inst.Op, a, b); ok {
		i.regs.Write(inst.Rd, v)
		return
	}
	if v, ok := execMulDiv(inst.Op, a, b); ok {
		i.regs.Write(inst.Rd, v)
		return
	}
	i.diag.Record(i.pc, simerr.ErrInstructionParse, "unrecognized arithmetic op")
}

// targetPC clamps or wraps a computed jump/branch target depending on
// tolerantPC. In tolerant mode (the default) an out-of-range target
// wraps modulo the program length, mirroring the shared-memory wrap
// semantics used elsewhere; in strict mode it halts the run instead.
func (i *Interpreter) targetPC(target int) int {
	if target >= 0 && target < len(i.prog) {
		return target
	}
	if !i.tolerantPC {
		i.halted = true
		i.haltErr = simerr.ErrMemoryOutOfRange
		i.diag.Record(i.pc, i.haltErr, "jump target out of range")
		return i.pc
	}
	n := len(i.prog)
	if n == 0 {
		return 0
	}
	target %= n
	if target < 0 {
		target += n
	}
	return target
}
