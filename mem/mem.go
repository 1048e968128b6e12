// Package mem implements the word-indexed data memory shared between the
// RV32EM and Bitty interpreters. Sub-word loads/stores merge into the
// existing word rather than modeling true byte addressing; see spec §9
// for why that is a deliberate simulation simplification.
package mem

// Memory is a fixed-size array of 32-bit words, addressed by word index.
type Memory struct {
	words []uint32
}

// New allocates a zeroed memory of the given word count.
func New(size int) *Memory {
	return &Memory{words: make([]uint32, size)}
}

// Len returns the number of addressable words.
func (m *Memory) Len() int {
	return len(m.words)
}

// wrap reduces an out-of-range index modulo the memory length, the
// tolerant-access behavior spec §7/§9 calls for. Memory of length 0 has no
// valid index; callers must not construct a zero-length Memory.
func (m *Memory) wrap(idx int) int {
	n := len(m.words)
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

// ReadWord returns the full 32-bit word at idx, wrapping out-of-range
// indices modulo the memory length.
func (m *Memory) ReadWord(idx int) uint32 {
	return m.words[m.wrap(idx)]
}

// WriteWord stores a full 32-bit word at idx, wrapping out-of-range
// indices modulo the memory length.
func (m *Memory) WriteWord(idx int, value uint32) {
	m.words[m.wrap(idx)] = value
}

// ReadByte returns the low 8 bits of the word at idx.
func (m *Memory) ReadByte(idx int) uint8 {
	return uint8(m.ReadWord(idx))
}

// WriteByte merges value into the low 8 bits of the word at idx, leaving
// the remaining 24 bits untouched.
func (m *Memory) WriteByte(idx int, value uint8) {
	i := m.wrap(idx)
	m.words[i] = (m.words[i] &^ 0xFF) | uint32(value)
}

// ReadHalf returns the low 16 bits of the word at idx.
func (m *Memory) ReadHalf(idx int) uint16 {
	return uint16(m.ReadWord(idx))
}

// WriteHalf merges value into the low 16 bits of the word at idx, leaving
// the remaining 16 bits untouched.
func (m *Memory) WriteHalf(idx int, value uint16) {
	i := m.wrap(idx)
	m.words[i] = (m.words[i] &^ 0xFFFF) | uint32(value)
}

// AlignDownHalf rounds idx down to the nearest even index, the halfword-load
// alignment rule spec §4.1 describes for LH/LHU.
func AlignDownHalf(idx int) int {
	return idx &^ 1
}

// Snapshot copies the current memory contents, for comparison/reporting
// code that must not alias the live memory.
func (m *Memory) Snapshot() []uint32 {
	out := make([]uint32, len(m.words))
	copy(out, m.words)
	return out
}
