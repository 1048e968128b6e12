// Package rv32em implements bit-exact decoding and reference execution of
// RV32EM: the 16-register embedded variant of RISC-V's integer base plus
// the M (multiply/divide) extension.
package rv32em

// Op identifies a decoded RV32EM operation.
type Op uint8

// RV32EM operations.
const (
	OpUnknown Op = iota
	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND
	OpMUL
	OpMULH
	OpMULHSU
	OpMULHU
	OpDIV
	OpDIVU
	OpREM
	OpREMU
	OpADDI
	OpSLLI
	OpSLTI
	OpSLTIU
	OpXORI
	OpSRLI
	OpSRAI
	OpORI
	OpANDI
	OpLB
	OpLH
	OpLW
	OpLBU
	OpLHU
	OpSB
	OpSH
	OpSW
	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU
	OpLUI
	OpAUIPC
	OpJAL
	OpJALR
)

// Format identifies an RV32EM instruction encoding class.
type Format uint8

// RV32EM formats.
const (
	FormatUnknown Format = iota
	FormatR
	FormatI
	FormatILoad
	FormatS
	FormatB
	FormatU
	FormatJ
)

// Instruction is a decoded RV32EM word.
type Instruction struct {
	Op     Op
	Format Format

	Rd  uint8
	Rs1 uint8
	Rs2 uint8

	// Imm is the sign-extended immediate in its natural unit: bytes for
	// I/S/B/J-type offsets, the raw upper-20 value (already shifted into
	// bit position) for U-type.
	Imm int32

	// Raw is the original 32-bit word, kept for diagnostics.
	Raw uint32
}

const rv32emRegMask = 0x1F // decoded raw field is 5 bits; range-checked separately

// opcode field extents, low 7 bits of every RV32EM word.
const (
	opcodeR      = 0b0110011
	opcodeILoad  = 0b0000011
	opcodeIAlu   = 0b0010011
	opcodeS      = 0b0100011
	opcodeB      = 0b1100011
	opcodeLUI    = 0b0110111
	opcodeAUIPC  = 0b0010111
	opcodeJAL    = 0b1101111
	opcodeJALR   = 0b1100111
	mExtFunct7   = 0b0000001
)

var rTypeOps = map[[2]uint32]Op{
	{0b0000000, 0b000}: OpADD,
	{0b0100000, 0b000}: OpSUB,
	{0b0000000, 0b001}: OpSLL,
	{0b0000000, 0b010}: OpSLT,
	{0b0000000, 0b011}: OpSLTU,
	{0b0000000, 0b100}: OpXOR,
	{0b0000000, 0b101}: OpSRL,
	{0b0100000, 0b101}: OpSRA,
	{0b0000000, 0b110}: OpOR,
	{0b0000000, 0b111}: OpAND,
}

var mExtOps = map[uint32]Op{
	0b000: OpMUL,
	0b001: OpMULH,
	0b010: OpMULHSU,
	0b011: OpMULHU,
	0b100: OpDIV,
	0b101: OpDIVU,
	0b110: OpREM,
	0b111: OpREMU,
}

var iAluOps = map[uint32]Op{
	0b000: OpADDI,
	0b010: OpSLTI,
	0b011: OpSLTIU,
	0b100: OpXORI,
	0b110: OpORI,
	0b111: OpANDI,
}

var iShiftOps = map[[2]uint32]Op{
	{0b0000000, 0b001}: OpSLLI,
	{0b0000000, 0b101}: OpSRLI,
	{0b0100000, 0b101}: OpSRAI,
}

var iLoadOps = map[uint32]Op{
	0b000: OpLB,
	0b001: OpLH,
	0b010: OpLW,
	0b100: OpLBU,
	0b101: OpLHU,
}

var sOps = map[uint32]Op{
	0b000: OpSB,
	0b001: OpSH,
	0b010: OpSW,
}

var bOps = map[uint32]Op{
	0b000: OpBEQ,
	0b001: OpBNE,
	0b100: OpBLT,
	0b101: OpBGE,
	0b110: OpBLTU,
	0b111: OpBGEU,
}

// Decode decodes a 32-bit RV32EM instruction word. Unknown opcodes yield
// an Instruction with Op == OpUnknown; the caller decides how to react
// (spec §7: log and advance PC).
func Decode(word uint32) Instruction {
	opcode := word & 0x7F
	rd := uint8((word >> 7) & rv32emRegMask)
	funct3 := (word >> 12) & 0x7
	rs1 := uint8((word >> 15) & rv32emRegMask)
	rs2 := uint8((word >> 20) & rv32emRegMask)
	funct7 := (word >> 25) & 0x7F

	switch opcode {
	case opcodeR:
		if funct7 == mExtFunct7 {
			if op, ok := mExtOps[funct3]; ok {
				return Instruction{Op: op, Format: FormatR, Rd: rd, Rs1: rs1, Rs2: rs2, Raw: word}
			}
			break
		}
		if op, ok := rTypeOps[[2]uint32{funct7, funct3}]; ok {
			return Instruction{Op: op, Format: FormatR, Rd: rd, Rs1: rs1, Rs2: rs2, Raw: word}
		}

	case opcodeIAlu:
		imm12 := (word >> 20) & 0xFFF
		if funct3 == 0b001 || funct3 == 0b101 {
			if op, ok := iShiftOps[[2]uint32{funct7, funct3}]; ok {
				shamt := int32((word >> 20) & 0x1F)
				return Instruction{Op: op, Format: FormatI, Rd: rd, Rs1: rs1, Imm: shamt, Raw: word}
			}
			break
		}
		if op, ok := iAluOps[funct3]; ok {
			return Instruction{Op: op, Format: FormatI, Rd: rd, Rs1: rs1, Imm: signExtend(imm12, 12), Raw: word}
		}

	case opcodeILoad:
		imm12 := (word >> 20) & 0xFFF
		if op, ok := iLoadOps[funct3]; ok {
			return Instruction{Op: op, Format: FormatILoad, Rd: rd, Rs1: rs1, Imm: signExtend(imm12, 12), Raw: word}
		}

	case opcodeS:
		immLo := (word >> 7) & 0x1F
		immHi := (word >> 25) & 0x7F
		imm12 := (immHi << 5) | immLo
		if op, ok := sOps[funct3]; ok {
			return Instruction{Op: op, Format: FormatS, Rs1: rs1, Rs2: rs2, Imm: signExtend(imm12, 12), Raw: word}
		}

	case opcodeB:
		imm12 := (word >> 31) & 0x1
		imm11 := (word >> 7) & 0x1
		imm10_5 := (word >> 25) & 0x3F
		imm4_1 := (word >> 8) & 0xF
		imm := (imm12 << 12) | (imm11 << 11) | (imm10_5 << 5) | (imm4_1 << 1)
		if op, ok := bOps[funct3]; ok {
			return Instruction{Op: op, Format: FormatB, Rs1: rs1, Rs2: rs2, Imm: signExtend(imm, 13), Raw: word}
		}

	case opcodeLUI:
		return Instruction{Op: OpLUI, Format: FormatU, Rd: rd, Imm: int32(word & 0xFFFFF000), Raw: word}

	case opcodeAUIPC:
		return Instruction{Op: OpAUIPC, Format: FormatU, Rd: rd, Imm: int32(word & 0xFFFFF000), Raw: word}

	case opcodeJAL:
		imm20 := (word >> 31) & 0x1
		imm19_12 := (word >> 12) & 0xFF
		imm11 := (word >> 20) & 0x1
		imm10_1 := (word >> 21) & 0x3FF
		imm := (imm20 << 20) | (imm19_12 << 12) | (imm11 << 11) | (imm10_1 << 1)
		return Instruction{Op: OpJAL, Format: FormatJ, Rd: rd, Imm: signExtend(imm, 21), Raw: word}

	case opcodeJALR:
		if funct3 == 0 {
			imm12 := (word >> 20) & 0xFFF
			return Instruction{Op: OpJALR, Format: FormatI, Rd: rd, Rs1: rs1, Imm: signExtend(imm12, 12), Raw: word}
		}
	}

	return Instruction{Op: OpUnknown, Format: FormatUnknown, Raw: word}
}

// signExtend sign-extends the low `bits` bits of v (an already-masked
// unsigned field) to a 32-bit signed value.
func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}
