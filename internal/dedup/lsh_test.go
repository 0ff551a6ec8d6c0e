package dedup

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimalParams(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		numPerm   int
		wantBands int
		wantRows  int
	}{
		{"fuzzy default", 0.8, 128, 9, 13},
		{"soft default", 0.85, 128, 8, 16},
		{"loose", 0.5, 128, 25, 5},
		{"strict", 0.9, 128, 5, 25},
		{"zero threshold", 0, 128, 128, 1},
		{"full threshold", 1, 128, 1, 128},
		{"short signature", 0.8, 16, 2, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, r := OptimalParams(tt.threshold, tt.numPerm)
			assert.Equal(t, tt.wantBands, b)
			assert.Equal(t, tt.wantRows, r)
			assert.LessOrEqual(t, b*r, tt.numPerm)
		})
	}
}

func TestLSHIndex_ProbabilityOfCandidate(t *testing.T) {
	idx, err := NewLSHIndex(0.8, 128)
	require.NoError(t, err)

	assert.Less(t, idx.ProbabilityOfCandidate(0.3), 1e-4)
	assert.Greater(t, idx.ProbabilityOfCandidate(0.95), 0.99)
	assert.InDelta(t, 0.0, idx.ProbabilityOfCandidate(0), 1e-12)
	assert.InDelta(t, 1.0, idx.ProbabilityOfCandidate(1), 1e-12)

	// monotone in similarity
	prev := 0.0
	for s := 0.0; s <= 1.0; s += 0.05 {
		p := idx.ProbabilityOfCandidate(s)
		assert.GreaterOrEqual(t, p, prev)
		prev = p
	}
}

func TestLSHIndex_InsertAndQuery(t *testing.T) {
	idx, err := NewLSHIndexWithParams(4, 2, 2)
	require.NoError(t, err)

	require.NoError(t, idx.Insert(1, Signature{1, 2, 3, 4}))
	require.NoError(t, idx.Insert(2, Signature{1, 2, 9, 9}))
	require.NoError(t, idx.Insert(3, Signature{7, 7, 3, 4}))
	assert.Equal(t, 3, idx.Len())

	// band 0 matches 1 and 2, band 1 matches 1 and 3
	assert.Equal(t, []int{1, 2, 3}, idx.Query(Signature{1, 2, 3, 4}))
	assert.Equal(t, []int{1, 3}, idx.Query(Signature{0, 0, 3, 4}))
	assert.Empty(t, idx.Query(Signature{5, 5, 5, 5}))

	// a band must match on every row
	assert.Empty(t, idx.Query(Signature{1, 0, 0, 4}))
}

func TestLSHIndex_SignatureLength(t *testing.T) {
	idx, err := NewLSHIndexWithParams(4, 2, 2)
	require.NoError(t, err)

	err = idx.Insert(1, Signature{1, 2, 3})
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Nil(t, idx.Query(Signature{1, 2, 3}))
	assert.Equal(t, 0, idx.Len())
}

func TestLSHIndex_Reset(t *testing.T) {
	idx, err := NewLSHIndex(0.5, 16)
	require.NoError(t, err)

	sig := make(Signature, 16)
	require.NoError(t, idx.Insert(1, sig))
	require.Equal(t, []int{1}, idx.Query(sig))

	b, r := idx.Params()
	idx.Reset()

	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.Query(sig))

	nb, nr := idx.Params()
	assert.Equal(t, b, nb)
	assert.Equal(t, r, nr)
}

func TestNewLSHIndex_Errors(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		numPerm   int
	}{
		{"threshold above one", 1.5, 128},
		{"negative threshold", -0.1, 128},
		{"zero permutations", 0.8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLSHIndex(tt.threshold, tt.numPerm)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}

	_, err := NewLSHIndexWithParams(8, 3, 3)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestLSHIndex_ConcurrentAccess(t *testing.T) {
	idx, err := NewLSHIndexWithParams(4, 2, 2)
	require.NoError(t, err)

	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_ = idx.Insert(id, Signature{uint64(id), 0, 0, 0}) //nolint:gosec // small test ids
		}(i)
	}

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = idx.Query(Signature{0, 0, 0, 0})
			_ = idx.Len()
		}()
	}

	wg.Wait()

	assert.Equal(t, 10, idx.Len())
	// every id shares band 1 with the query
	assert.Len(t, idx.Query(Signature{0, 0, 0, 0}), 10)
}
