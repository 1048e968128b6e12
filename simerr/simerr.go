// Package simerr defines the error kinds this toolchain can raise. None of
// them are fatal to the process: every caller degrades to logging the event
// (see package diag) and continuing, per the tolerant-simulation posture
// described throughout this toolchain's design.
package simerr

import "errors"

// Sentinel error kinds. Wrap these with fmt.Errorf("...: %w", ErrX) to add
// call-site detail while keeping the kind matchable with errors.Is.
var (
	// ErrInstructionParse marks a malformed numeric literal in an
	// instruction text file. The offending line is skipped.
	ErrInstructionParse = errors.New("instruction parse error")

	// ErrRegisterOutOfRange marks a register selector above x15 (RV32EM
	// requests to x16..x31). The PC still advances by one.
	ErrRegisterOutOfRange = errors.New("register index out of range")

	// ErrMemoryOutOfRange marks a jump/branch target outside the program
	// when an interpreter runs in strict PC mode; the run halts. Loads and
	// stores never raise it: their indices always wrap modulo length.
	ErrMemoryOutOfRange = errors.New("memory index out of range")

	// ErrMisalignedAccess marks a halfword/word store at an odd or
	// misaligned index. The store is skipped and the PC still advances.
	ErrMisalignedAccess = errors.New("misaligned memory access")

	// ErrUnknownOpcode marks a word that decodes to no known instruction.
	ErrUnknownOpcode = errors.New("unknown opcode")

	// ErrUnsupportedTranslation marks an RV32EM instruction the
	// translator has no expansion for.
	ErrUnsupportedTranslation = errors.New("unsupported translation")

	// ErrStepLimitExceeded marks that an interpreter's step loop reached
	// its configured instruction cap.
	ErrStepLimitExceeded = errors.New("step limit exceeded")
)
