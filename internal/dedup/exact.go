package dedup

import (
	"sync"

	"codeberg.org/algopatterns/dedup/internal/logger"
)

// removes documents whose content hash was already seen by this instance
type Exact struct {
	mu      sync.Mutex
	cfg     ExactConfig
	hasher  *Hasher
	seen    map[ContentHash]struct{}
	total   Stats
	current Stats
}

// creates an exact deduplicator
func NewExact(cfg ExactConfig) (*Exact, error) {
	hasher, err := NewHasher(cfg.Backend)
	if err != nil {
		return nil, err
	}

	return &Exact{
		cfg:     cfg,
		hasher:  hasher,
		seen:    make(map[ContentHash]struct{}),
		total:   Stats{Strategy: StrategyExact},
		current: Stats{Strategy: StrategyExact},
	}, nil
}

func (e *Exact) Strategy() Strategy {
	return StrategyExact
}

// returns the configuration the instance was built with
func (e *Exact) Config() ExactConfig {
	return e.cfg
}

// decides one document in stream order, recording its hash when kept
func (e *Exact) Admit(doc Document) Decision {
	e.mu.Lock()
	defer e.mu.Unlock()

	d := e.admit(doc)
	e.total.observe(d)
	return d
}

func (e *Exact) admit(doc Document) Decision {
	if doc.Text == "" {
		return DecisionSkipped
	}

	h := e.hasher.Hash(doc.Text)
	if _, dup := e.seen[h]; dup {
		return DecisionDuplicate
	}

	e.seen[h] = struct{}{}
	return DecisionKept
}

// returns the documents whose text was not seen before, in input order.
// empty-text documents are dropped.
func (e *Exact) Deduplicate(docs []Document) []Document {
	e.mu.Lock()
	defer e.mu.Unlock()

	call := Stats{Strategy: StrategyExact}
	kept := make([]Document, 0, len(docs))

	for _, doc := range docs {
		d := e.admit(doc)
		call.observe(d)

		if d == DecisionKept {
			kept = append(kept, doc)
		}
	}

	e.finish(call)
	return kept
}

func (e *Exact) finish(call Stats) {
	e.total.add(call)
	e.current = call

	logger.Info("exact dedup finished", "summary", call, "seen", len(e.seen))
}

// reports whether text has been kept before, without recording it
func (e *Exact) Seen(text string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.seen[e.hasher.Hash(text)]
	return ok
}

// returns the number of distinct hashes recorded
func (e *Exact) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.seen)
}

// clears the seen set and counters
func (e *Exact) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.seen = make(map[ContentHash]struct{})
	e.total = Stats{Strategy: StrategyExact}
	e.current = Stats{Strategy: StrategyExact}
}

func (e *Exact) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.total
}

func (e *Exact) LastCall() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}
