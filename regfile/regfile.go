// Package regfile implements the 16-entry, 32-bit register file shared by
// the RV32EM and Bitty interpreters. Both instruction sets describe the
// same register shape, so a single type is used by both.
package regfile

// Count is the number of addressable registers in either ISA.
const Count = 16

// File is a 16x32-bit register file. RV32EM hardwires register 0 to
// zero (writes discarded, reads always zero), matching RISC-V's x0
// convention; Bitty has no such convention and uses r0 as an ordinary,
// fully writable register that the translator happens to favor as
// scratch space. New returns the former; NewPlain the latter.
type File struct {
	r        [Count]uint32
	hardZero bool
}

// New returns a zeroed register file with RV32EM's x0-hardwired-zero
// convention.
func New() *File {
	return &File{hardZero: true}
}

// NewPlain returns a zeroed register file with no hardwired register,
// matching Bitty's convention.
func NewPlain() *File {
	return &File{}
}

// Read returns the value of register idx. Indices outside [0, Count) read
// as zero, matching the tolerant-access posture used throughout this
// toolchain.
func (f *File) Read(idx uint8) uint32 {
	if int(idx) >= Count {
		return 0
	}
	if f.hardZero && idx == 0 {
		return 0
	}
	return f.r[idx]
}

// Write stores value into register idx. Writes to an out-of-range index
// are silently discarded; writes to register 0 are also discarded when
// the file was created with the hardwired-zero convention.
func (f *File) Write(idx uint8, value uint32) {
	if int(idx) >= Count {
		return
	}
	if f.hardZero && idx == 0 {
		return
	}
	f.r[idx] = value
}

// Snapshot copies the current register contents into a fresh 16-entry
// array, convenient for comparison/reporting code that must not alias the
// live register file.
func (f *File) Snapshot() [Count]uint32 {
	return f.r
}

// InRange reports whether idx addresses a real register (0-15). The
// translator and interpreters use this to implement RegisterOutOfRange
// handling for RV32EM's x16-x31 requests.
func InRange(idx uint8) bool {
	return int(idx) < Count
}
