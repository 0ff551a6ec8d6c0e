package dedup

import "math"

const (
	// start of the splitmix64 seed sequence
	baseSeed = 0x517cc1b727220a95

	splitmixIncrement = 0x9e3779b97f4a7c15
	mixMul1           = 0xbf58476d1ce4e5b9
	mixMul2           = 0x94d049bb133111eb

	// value of every position in the signature of an empty shingle set
	EmptyHashValue = math.MaxUint64
)

// Signature holds, per permutation, the minimum permuted hash over a shingle set
type Signature []uint64

// estimates the Jaccard similarity of the underlying shingle sets
// as the fraction of matching positions. mismatched lengths estimate 0.
func (s Signature) Jaccard(other Signature) float64 {
	if len(s) == 0 || len(s) != len(other) {
		return 0
	}

	matches := 0
	for i := range s {
		if s[i] == other[i] {
			matches++
		}
	}

	return float64(matches) / float64(len(s))
}

// reports whether the signature was built from an empty shingle set
func (s Signature) IsEmpty() bool {
	for _, v := range s {
		if v != EmptyHashValue {
			return false
		}
	}

	return true
}

// MinHasher builds fixed-length signatures under one permutation family.
// permutation i maps a shingle to mix(base(shingle) ^ seed_i).
type MinHasher struct {
	backend Backend
	seeds   []uint64
}

// creates a MinHasher with numPerm permutations derived from seed
func NewMinHasher(numPerm int, seed uint64, backend Backend) (*MinHasher, error) {
	if backend == nil {
		return nil, ErrMissingBackend
	}

	if numPerm <= 0 {
		return nil, invalid("num_perm", numPerm, "must be positive")
	}

	return &MinHasher{
		backend: backend,
		seeds:   permutationSeeds(numPerm, seed),
	}, nil
}

// returns the signature length
func (m *MinHasher) NumPerm() int {
	return len(m.seeds)
}

// computes the signature of a shingle set
func (m *MinHasher) Signature(shingles []string) Signature {
	sig := make(Signature, len(m.seeds))
	for i := range sig {
		sig[i] = EmptyHashValue
	}

	for _, shingle := range shingles {
		base := m.backend.Sum64String(shingle)

		for i, seed := range m.seeds {
			if h := mix64(base ^ seed); h < sig[i] {
				sig[i] = h
			}
		}
	}

	return sig
}

func permutationSeeds(n int, seed uint64) []uint64 {
	seeds := make([]uint64, n)
	state := uint64(baseSeed) ^ seed

	for i := range n {
		state += splitmixIncrement
		seeds[i] = mix64(state)
	}

	return seeds
}

// splitmix64 finalizer
func mix64(x uint64) uint64 {
	x = (x ^ (x >> 30)) * mixMul1
	x = (x ^ (x >> 27)) * mixMul2
	return x ^ (x >> 31)
}
