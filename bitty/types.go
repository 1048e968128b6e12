// Package bitty implements the 16-bit-instruction, 32-bit-datapath
// teaching ISA used as the translation target for RV32EM programs.
package bitty

// Format identifies one of Bitty's four instruction encodings, selected
// by the low two bits of the 16-bit word.
type Format uint8

// Bitty formats.
const (
	FormatR      Format = iota // 00: register-register ALU
	FormatImm                  // 01: register-immediate ALU
	FormatBranch                // 10: conditional branch / PC control
	FormatMemory                // 11: load/store
)

// AluOp identifies one of Bitty's ten ALU operations (the 4-bit `alu`
// field of the R-type and immediate-ALU formats).
type AluOp uint8

// Bitty ALU operations. CmpU and CmpS write only d_out, never rx; every
// other op writes both rx and d_out.
const (
	AluAdd  AluOp = 0
	AluSub  AluOp = 1
	AluAnd  AluOp = 2
	AluOr   AluOp = 3
	AluXor  AluOp = 4
	AluShl  AluOp = 5
	AluShr  AluOp = 6
	AluCmpU AluOp = 7
	AluShrs AluOp = 8
	AluCmpS AluOp = 9
)

// IsCompare reports whether op writes only d_out (never rx).
func (op AluOp) IsCompare() bool {
	return op == AluCmpU || op == AluCmpS
}

// Branch condition codes, matching the values d_out's compare ops write
// (0 equal, 1 greater, 2 less). Cond 3 selects PC control (gtpc/stpc)
// rather than a conditional branch; this is the cond>=3 + selector-bit
// variant called out as the resolution of an open question in the
// translator design, since at least one source variant of this ISA
// instead overlapped gtpc/stpc onto cond 3 *and* 7.
const (
	CondEqual   uint8 = 0
	CondGreater uint8 = 1
	CondLess    uint8 = 2
	CondPCCtrl  uint8 = 3
)

// Instruction is a decoded or to-be-encoded Bitty instruction in
// symbolic form; the translator builds a program out of these before
// encoding to binary.
type Instruction struct {
	Format Format

	Alu AluOp

	Rx uint8
	Ry uint8

	// Imm carries imm6 (FormatImm) or imm12 (FormatBranch), both
	// already sign-extended to int32.
	Imm int32

	// Cond is valid for FormatBranch: CondEqual/Greater/Less select a
	// conditional branch, CondPCCtrl selects gtpc/stpc (see PCSet).
	Cond uint8

	// PCSet distinguishes stpc (true, jump to registers[Rx]) from gtpc
	// (false, store PC_B+1 into Rx), valid only when Cond == CondPCCtrl.
	PCSet bool

	// Store distinguishes a FormatMemory store (true) from a load
	// (false).
	Store bool
}
