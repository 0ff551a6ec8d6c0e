package dedup

import (
	"sync"

	"codeberg.org/algopatterns/dedup/internal/logger"
)

// sketch bundles the shingle, signature and index machinery shared by fuzzy
// and soft dedup
type sketch struct {
	shingler *Shingler
	hasher   *MinHasher
	index    *LSHIndex
}

func newSketch(cfg SketchConfig, backend Backend) (*sketch, error) {
	if backend == nil {
		return nil, ErrMissingBackend
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	shingler, err := NewShingler(cfg.NgramSize)
	if err != nil {
		return nil, err
	}

	hasher, err := NewMinHasher(cfg.NumPerm, cfg.Seed, backend)
	if err != nil {
		return nil, err
	}

	index, err := NewLSHIndex(cfg.Threshold, cfg.NumPerm)
	if err != nil {
		return nil, err
	}

	return &sketch{shingler: shingler, hasher: hasher, index: index}, nil
}

func (s *sketch) signature(text string) Signature {
	return s.hasher.Signature(s.shingler.Shingles(text))
}

// greedy streaming near-duplicate removal: a document is dropped when the
// index already holds a candidate for it, otherwise kept and indexed
type Fuzzy struct {
	mu      sync.Mutex
	cfg     FuzzyConfig
	sketch  *sketch
	nextID  int
	total   Stats
	current Stats
}

// creates a fuzzy deduplicator
func NewFuzzy(cfg FuzzyConfig) (*Fuzzy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sk, err := newSketch(cfg.SketchConfig, cfg.Backend)
	if err != nil {
		return nil, err
	}

	return &Fuzzy{
		cfg:     cfg,
		sketch:  sk,
		total:   Stats{Strategy: StrategyFuzzy},
		current: Stats{Strategy: StrategyFuzzy},
	}, nil
}

func (f *Fuzzy) Strategy() Strategy {
	return StrategyFuzzy
}

// returns the configuration the instance was built with
func (f *Fuzzy) Config() FuzzyConfig {
	return f.cfg
}

// returns the LSH banding in use
func (f *Fuzzy) Params() (bands, rows int) {
	return f.sketch.index.Params()
}

// decides one document in stream order, indexing it when kept
func (f *Fuzzy) Admit(doc Document) Decision {
	f.mu.Lock()
	defer f.mu.Unlock()

	d := f.admit(doc)
	f.total.observe(d)
	return d
}

func (f *Fuzzy) admit(doc Document) Decision {
	if doc.Text == "" {
		return DecisionSkipped
	}

	sig := f.sketch.signature(doc.Text)
	if len(f.sketch.index.Query(sig)) > 0 {
		return DecisionDuplicate
	}

	// signature length always matches the index
	_ = f.sketch.index.Insert(f.nextID, sig)
	f.nextID++

	return DecisionKept
}

// returns the documents with no earlier near-duplicate, in input order
func (f *Fuzzy) Deduplicate(docs []Document) []Document {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := Stats{Strategy: StrategyFuzzy}
	kept := make([]Document, 0, len(docs))

	for _, doc := range docs {
		d := f.admit(doc)
		call.observe(d)

		if d == DecisionKept {
			kept = append(kept, doc)
		}
	}

	f.total.add(call)
	f.current = call

	logger.Info("fuzzy dedup finished", "summary", call, "indexed", f.sketch.index.Len())
	return kept
}

// returns the number of indexed (kept) documents
func (f *Fuzzy) Len() int {
	return f.sketch.index.Len()
}

// clears the index, id counter and counters
func (f *Fuzzy) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sketch.index.Reset()
	f.nextID = 0
	f.total = Stats{Strategy: StrategyFuzzy}
	f.current = Stats{Strategy: StrategyFuzzy}
}

func (f *Fuzzy) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total
}

func (f *Fuzzy) LastCall() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}
