package dedup

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Backend is the hashing primitive shared by the content hasher and the MinHash
// permutation family. it is chosen once at construction and never probed again.
type Backend interface {
	Name() string
	Sum64(b []byte) uint64
	Sum64String(s string) uint64
}

type xxhashBackend struct{}

func (xxhashBackend) Name() string                { return "xxhash" }
func (xxhashBackend) Sum64(b []byte) uint64       { return xxhash.Sum64(b) }
func (xxhashBackend) Sum64String(s string) uint64 { return xxhash.Sum64String(s) }

type fnvBackend struct{}

func (fnvBackend) Name() string { return "fnv" }

func (fnvBackend) Sum64(b []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(b) // hash.Hash.Write never returns an error
	return h.Sum64()
}

func (b fnvBackend) Sum64String(s string) uint64 {
	return b.Sum64([]byte(s))
}

var (
	// xxh64, the default backend
	XXHash Backend = xxhashBackend{}

	// FNV-1a 64, an alternate permutation family
	FNV Backend = fnvBackend{}
)

// returns the backend used when none is configured
func DefaultBackend() Backend {
	return XXHash
}

// resolves a backend by name; an empty name selects the default
func BackendByName(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "xxhash", "xxh64":
		return XXHash, nil
	case "fnv", "fnv64a":
		return FNV, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrMissingBackend, name)
	}
}

// deterministic 64-bit hash of a document's full UTF-8 text
type ContentHash uint64

func (h ContentHash) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}

// computes content hashes for exact matching
type Hasher struct {
	backend Backend
}

// creates a content hasher over the given backend
func NewHasher(backend Backend) (*Hasher, error) {
	if backend == nil {
		return nil, ErrMissingBackend
	}

	return &Hasher{backend: backend}, nil
}

// hashes the raw text bytes, without any normalization
func (h *Hasher) Hash(text string) ContentHash {
	return ContentHash(h.backend.Sum64String(text))
}

// returns the name of the underlying backend
func (h *Hasher) Backend() string {
	return h.backend.Name()
}
