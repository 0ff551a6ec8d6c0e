package dedup

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// intervals used when integrating the false positive/negative curves
const integrationSteps = 128

// LSHIndex provides banded locality-sensitive hashing over MinHash signatures.
// a signature of length bands*rows is cut into bands; two signatures that agree
// on every row of at least one band become candidates of each other.
type LSHIndex struct {
	mu      sync.RWMutex
	numPerm int
	bands   int
	rows    int

	// buckets[band][bandKey] = ids in insertion order
	buckets []map[uint64][]int

	// number of inserted ids
	size int
}

// creates an index whose (bands, rows) minimize the weighted false positive
// and false negative rates around threshold
func NewLSHIndex(threshold float64, numPerm int) (*LSHIndex, error) {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, invalid("threshold", threshold, "must be within [0, 1]")
	}

	if numPerm <= 0 {
		return nil, invalid("num_perm", numPerm, "must be positive")
	}

	bands, rows := OptimalParams(threshold, numPerm)
	return NewLSHIndexWithParams(numPerm, bands, rows)
}

// creates an index with explicit banding; bands*rows must not exceed numPerm
func NewLSHIndexWithParams(numPerm, bands, rows int) (*LSHIndex, error) {
	if numPerm <= 0 {
		return nil, invalid("num_perm", numPerm, "must be positive")
	}

	if bands <= 0 || rows <= 0 || bands*rows > numPerm {
		return nil, invalid("bands", bands, "bands*rows must be within num_perm")
	}

	idx := &LSHIndex{
		numPerm: numPerm,
		bands:   bands,
		rows:    rows,
	}
	idx.allocate()

	return idx, nil
}

func (idx *LSHIndex) allocate() {
	idx.buckets = make([]map[uint64][]int, idx.bands)
	for i := range idx.buckets {
		idx.buckets[i] = make(map[uint64][]int)
	}
	idx.size = 0
}

// adds a signature under id. ids are not checked for uniqueness.
func (idx *LSHIndex) Insert(id int, sig Signature) error {
	if len(sig) != idx.numPerm {
		return invalid("signature", len(sig), "length does not match num_perm")
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	for band := 0; band < idx.bands; band++ {
		key := idx.bandKey(sig, band)
		idx.buckets[band][key] = append(idx.buckets[band][key], id)
	}
	idx.size++

	return nil
}

// returns the ids sharing at least one band with sig, ordered by band and then
// by insertion, each id once
func (idx *LSHIndex) Query(sig Signature) []int {
	if len(sig) != idx.numPerm {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var candidates []int
	seen := make(map[int]struct{})

	for band := 0; band < idx.bands; band++ {
		for _, id := range idx.buckets[band][idx.bandKey(sig, band)] {
			if _, dup := seen[id]; dup {
				continue
			}

			seen[id] = struct{}{}
			candidates = append(candidates, id)
		}
	}

	return candidates
}

// hashes the rows of one band into a bucket key
func (idx *LSHIndex) bandKey(sig Signature, band int) uint64 {
	var buf [8]byte
	d := xxhash.New()

	start := band * idx.rows
	for _, v := range sig[start : start+idx.rows] {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:]) // xxhash.Digest.Write never returns an error
	}

	return d.Sum64()
}

// returns the number of inserted signatures
func (idx *LSHIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.size
}

// returns the banding in use
func (idx *LSHIndex) Params() (bands, rows int) {
	return idx.bands, idx.rows
}

// returns the signature length the index accepts
func (idx *LSHIndex) NumPerm() int {
	return idx.numPerm
}

// probability that a document with Jaccard similarity s to an indexed one is
// returned as its candidate under this banding
func (idx *LSHIndex) ProbabilityOfCandidate(s float64) float64 {
	return CandidateProbability(s, idx.bands, idx.rows)
}

// drops every inserted signature, keeping the banding
func (idx *LSHIndex) Reset() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.allocate()
}

// probability that two documents with Jaccard similarity s share at least one band
func CandidateProbability(s float64, bands, rows int) float64 {
	return 1 - math.Pow(1-math.Pow(s, float64(rows)), float64(bands))
}

// OptimalParams picks (bands, rows) with bands*rows <= numPerm minimizing
// 0.5*FP + 0.5*FN, where FP integrates the candidate probability over [0, t]
// and FN integrates its complement over [t, 1]. ties keep the first pair
// found scanning bands then rows ascending.
func OptimalParams(threshold float64, numPerm int) (bands, rows int) {
	minErr := math.Inf(1)
	bands, rows = 1, 1

	for b := 1; b <= numPerm; b++ {
		maxR := numPerm / b
		for r := 1; r <= maxR; r++ {
			fp := integrate(func(s float64) float64 {
				return CandidateProbability(s, b, r)
			}, 0, threshold)

			fn := integrate(func(s float64) float64 {
				return 1 - CandidateProbability(s, b, r)
			}, threshold, 1)

			if e := 0.5*fp + 0.5*fn; e < minErr {
				minErr = e
				bands, rows = b, r
			}
		}
	}

	return bands, rows
}

// composite Simpson's rule
func integrate(f func(float64) float64, a, b float64) float64 {
	if b <= a {
		return 0
	}

	h := (b - a) / integrationSteps
	sum := f(a) + f(b)

	for i := 1; i < integrationSteps; i++ {
		x := a + float64(i)*h
		if i%2 == 1 {
			sum += 4 * f(x)
		} else {
			sum += 2 * f(x)
		}
	}

	return sum * h / 3
}
