// Package shard runs a dedup strategy over independent partitions of a corpus
// concurrently and merges the survivors back into input order. each shard owns a
// fresh deduplicator, so only documents routed to the same shard see each other.
package shard

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"codeberg.org/algopatterns/dedup/internal/dedup"
	"codeberg.org/algopatterns/dedup/internal/logger"
)

// decides which shard a document goes to
type Partitioning string

const (
	// routes by content hash: identical texts always share a shard
	ByHash Partitioning = "hash"

	// splits the input into contiguous ranges
	ByRange Partitioning = "range"
)

const MaxShards = 256

// resolves a partitioning name; empty selects ByHash
func ParsePartitioning(name string) (Partitioning, error) {
	switch p := Partitioning(strings.ToLower(strings.TrimSpace(name))); p {
	case "":
		return ByHash, nil
	case ByHash, ByRange:
		return p, nil
	default:
		return "", fmt.Errorf("unknown partitioning %q: %w", name, dedup.ErrInvalidConfig)
	}
}

// describes one sharded run
type Plan struct {
	Strategy dedup.Strategy
	Options  dedup.Options
	Shards   int
	By       Partitioning
}

// outcome of a sharded run
type Result struct {
	// surviving (or reweighted) documents in input order
	Documents []dedup.Document

	// per-shard counters, indexed by shard
	Shards []dedup.Stats

	// sum over all shards
	Total dedup.Stats
}

// documents of one shard with their positions in the full input
type part struct {
	positions []int
	docs      []dedup.Document
}

// partitions docs according to the plan, deduplicates every shard on its own
// goroutine and merges the results in input order
func Run(ctx context.Context, docs []dedup.Document, plan Plan) (*Result, error) {
	if plan.Shards <= 0 || plan.Shards > MaxShards {
		return nil, fmt.Errorf("shards must be within [1, %d], got %d: %w", MaxShards, plan.Shards, dedup.ErrInvalidConfig)
	}

	by := plan.By
	if by == "" {
		by = ByHash
	}

	// fail on bad configuration before spawning anything
	deduplicators := make([]dedup.Deduplicator, plan.Shards)
	for i := range deduplicators {
		d, err := dedup.New(plan.Strategy, plan.Options)
		if err != nil {
			return nil, err
		}
		deduplicators[i] = d
	}

	inputs, err := partition(docs, plan.Shards, by, plan.Options)
	if err != nil {
		return nil, err
	}

	outputs := make([]part, plan.Shards)
	g, ctx := errgroup.WithContext(ctx)

	for i := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			outputs[i] = process(deduplicators[i], inputs[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("shard run canceled: %w", err)
	}

	result := merge(outputs, len(docs))
	result.Shards = make([]dedup.Stats, plan.Shards)
	result.Total = dedup.Stats{Strategy: deduplicators[0].Strategy()}

	for i, d := range deduplicators {
		// each deduplicator is fresh, so its totals cover exactly this run
		s := d.Stats()
		result.Shards[i] = s

		result.Total.Processed += s.Processed
		result.Total.Kept += s.Kept
		result.Total.Removed += s.Removed
		result.Total.Skipped += s.Skipped
		result.Total.Clusters += s.Clusters
		result.Total.Reweighted += s.Reweighted
	}
	result.Total.Calls = 1

	logger.Info("sharded dedup finished",
		"shards", plan.Shards,
		"by", string(by),
		"summary", result.Total,
	)

	return result, nil
}

func partition(docs []dedup.Document, n int, by Partitioning, opts dedup.Options) ([]part, error) {
	inputs := make([]part, n)

	switch by {
	case ByRange:
		size := (len(docs) + n - 1) / n
		for i := range docs {
			s := 0
			if size > 0 {
				s = i / size
			}
			inputs[s].positions = append(inputs[s].positions, i)
			inputs[s].docs = append(inputs[s].docs, docs[i])
		}

	case ByHash:
		backend := opts.Backend
		if backend == nil {
			var err error
			if backend, err = dedup.BackendByName(opts.BackendName); err != nil {
				return nil, err
			}
		}

		hasher, err := dedup.NewHasher(backend)
		if err != nil {
			return nil, err
		}

		for i, doc := range docs {
			s := int(uint64(hasher.Hash(doc.Text)) % uint64(n)) //nolint:gosec // n is at most MaxShards
			inputs[s].positions = append(inputs[s].positions, i)
			inputs[s].docs = append(inputs[s].docs, doc)
		}

	default:
		return nil, fmt.Errorf("unknown partitioning %q: %w", by, dedup.ErrInvalidConfig)
	}

	return inputs, nil
}

// runs one shard. filtering strategies are driven document by document so each
// survivor keeps its original position.
func process(d dedup.Deduplicator, in part) part {
	if s, ok := d.(dedup.Streamer); ok {
		var out part
		for i, doc := range in.docs {
			if s.Admit(doc) == dedup.DecisionKept {
				out.positions = append(out.positions, in.positions[i])
				out.docs = append(out.docs, doc)
			}
		}

		return out
	}

	// soft dedup preserves length and order
	return part{positions: in.positions, docs: d.Deduplicate(in.docs)}
}

type positioned struct {
	pos int
	doc dedup.Document
}

// merges shard outputs back into input order
func merge(outputs []part, capacity int) *Result {
	all := make([]positioned, 0, capacity)
	for _, out := range outputs {
		for i, doc := range out.docs {
			all = append(all, positioned{pos: out.positions[i], doc: doc})
		}
	}

	sort.Slice(all, func(i, j int) bool { return all[i].pos < all[j].pos })

	docs := make([]dedup.Document, len(all))
	for i, p := range all {
		docs[i] = p.doc
	}

	return &Result{Documents: docs}
}
