// Package passes keeps long-lived dedup passes so a corpus can be fed in
// batches across many requests. each pass owns one deduplicator and serializes
// its callers, so "first occurrence wins" holds across batches.
package passes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"codeberg.org/algopatterns/dedup/internal/dedup"
	"codeberg.org/algopatterns/dedup/internal/logger"
	"codeberg.org/algopatterns/dedup/internal/reports"
)

const (
	DefaultIdleTimeout = 30 * time.Minute

	// smallest interval between idle sweeps
	minSweepInterval = time.Second
)

var ErrPassNotFound = errors.New("pass not found")

// one dedup pass
type Pass struct {
	mu        sync.Mutex
	id        string
	strategy  dedup.Strategy
	options   dedup.Options
	dedup     dedup.Deduplicator
	createdAt time.Time
	lastUsed  time.Time
}

// snapshot of a pass
type Info struct {
	ID         string         `json:"id"`
	Strategy   dedup.Strategy `json:"strategy"`
	Options    dedup.Options  `json:"options"`
	Stats      dedup.Stats    `json:"stats"`
	CreatedAt  time.Time      `json:"created_at"`
	LastUsedAt time.Time      `json:"last_used_at"`
}

func (p *Pass) info() *Info {
	p.mu.Lock()
	defer p.mu.Unlock()

	return &Info{
		ID:         p.id,
		Strategy:   p.strategy,
		Options:    p.options,
		Stats:      p.dedup.Stats(),
		CreatedAt:  p.createdAt,
		LastUsedAt: p.lastUsed,
	}
}

// registry of live passes
type Manager struct {
	mu          sync.RWMutex
	passes      map[string]*Pass
	store       reports.Store
	idleTimeout time.Duration
}

// creates a manager writing run reports to store; nil store keeps reports in memory
func NewManager(store reports.Store, idleTimeout time.Duration) *Manager {
	if store == nil {
		store = reports.NewMemoryStore(0)
	}

	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}

	return &Manager{
		passes:      make(map[string]*Pass),
		store:       store,
		idleTimeout: idleTimeout,
	}
}

// opens a new pass; configuration errors surface here, never mid-stream
func (m *Manager) Create(strategy dedup.Strategy, opts dedup.Options) (*Info, error) {
	d, err := dedup.New(strategy, opts)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &Pass{
		id:        uuid.NewString(),
		strategy:  d.Strategy(),
		options:   opts,
		dedup:     d,
		createdAt: now,
		lastUsed:  now,
	}

	m.mu.Lock()
	m.passes[p.id] = p
	m.mu.Unlock()

	logger.Info("dedup pass created", "pass_id", p.id, "strategy", p.strategy)

	return p.info(), nil
}

func (m *Manager) get(id string) (*Pass, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.passes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPassNotFound, id)
	}

	return p, nil
}

// returns a snapshot of a pass
func (m *Manager) Get(id string) (*Info, error) {
	p, err := m.get(id)
	if err != nil {
		return nil, err
	}

	return p.info(), nil
}

// returns every live pass, oldest first
func (m *Manager) List() []*Info {
	m.mu.RLock()
	passes := make([]*Pass, 0, len(m.passes))
	for _, p := range m.passes {
		passes = append(passes, p)
	}
	m.mu.RUnlock()

	infos := make([]*Info, 0, len(passes))
	for _, p := range passes {
		infos = append(infos, p.info())
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})

	return infos
}

// feeds a batch through the pass and records a report. a failed report write
// is logged and does not fail the batch.
func (m *Manager) Process(ctx context.Context, id string, docs []dedup.Document) ([]dedup.Document, dedup.Stats, error) {
	p, err := m.get(id)
	if err != nil {
		return nil, dedup.Stats{}, err
	}

	p.mu.Lock()

	// a caller that gave up while waiting for the pass must not mutate it
	if err := ctx.Err(); err != nil {
		p.mu.Unlock()
		return nil, dedup.Stats{}, err
	}

	start := time.Now()
	out := p.dedup.Deduplicate(docs)
	stats := p.dedup.LastCall()
	p.lastUsed = time.Now().UTC()

	p.mu.Unlock()

	log := logger.With("pass_id", id, "strategy", stats.Strategy)
	log.Debug("dedup batch processed", "processed", stats.Processed, "kept", stats.Kept)

	report := reports.New(id, stats, time.Since(start))
	if err := m.store.Save(ctx, report); err != nil {
		log.Warn("failed to save dedup report", "error", err)
	}

	return out, stats, nil
}

// clears the accumulated state of a pass, keeping its configuration
func (m *Manager) Reset(id string) (*Info, error) {
	p, err := m.get(id)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.dedup.Reset()
	p.lastUsed = time.Now().UTC()
	p.mu.Unlock()

	return p.info(), nil
}

// removes a pass and its reports
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	_, ok := m.passes[id]
	delete(m.passes, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrPassNotFound, id)
	}

	if err := m.store.DeleteByPass(ctx, id); err != nil {
		return fmt.Errorf("failed to delete reports: %w", err)
	}

	return nil
}

// returns the newest reports of a pass
func (m *Manager) Reports(ctx context.Context, id string, limit int) ([]*reports.Report, error) {
	if _, err := m.get(id); err != nil {
		return nil, err
	}

	return m.store.ListByPass(ctx, id, limit)
}

// returns the number of live passes
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.passes)
}

// sweeps idle passes until ctx is done
func (m *Manager) Start(ctx context.Context) {
	interval := max(m.idleTimeout/2, minSweepInterval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.expire(time.Now().UTC()); n > 0 {
				logger.Info("expired idle dedup passes", "count", n)
			}
		}
	}
}

// drops passes unused since before now-idleTimeout. their reports stay in the
// store until it expires them.
func (m *Manager) expire(now time.Time) int {
	cutoff := now.Add(-m.idleTimeout)

	m.mu.Lock()
	defer m.mu.Unlock()

	expired := 0
	for id, p := range m.passes {
		p.mu.Lock()
		idle := p.lastUsed.Before(cutoff)
		p.mu.Unlock()

		if idle {
			delete(m.passes, id)
			expired++
		}
	}

	return expired
}
