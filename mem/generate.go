package mem

import "math/rand"

// GenerateShared builds a Memory of the given size with a deterministic
// pattern for a given seed, used to initialize both interpreters'
// data memories identically for equivalence checking (spec §6). Every
// 16th cell takes the pattern 0xA0000000+i; every 4th non-16th cell takes
// 0x10000000+16*i; the remainder are uniformly distributed 32-bit words.
//
// The distribution matches the original shared_memory.py generator; the
// underlying PRNG does not reproduce Python's Mersenne Twister bit for
// bit; only same-seed determinism is an observable/testable property here,
// not cross-language parity.
func GenerateShared(size int, seed int64) *Memory {
	m := New(size)
	rng := rand.New(rand.NewSource(seed))

	for i := 0; i < size; i++ {
		switch {
		case i%16 == 0:
			m.words[i] = 0xA0000000 + uint32(i)
		case i%4 == 0:
			m.words[i] = 0x10000000 + uint32(16*i)
		default:
			m.words[i] = rng.Uint32()
		}
	}

	return m
}
