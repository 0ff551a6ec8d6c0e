package reports

import (
	"context"
	"sync"
)

// MemoryStore keeps reports in process memory, newest first, bounded per pass
type MemoryStore struct {
	mu         sync.RWMutex
	reports    map[string][]*Report
	maxPerPass int
}

// creates a new in-memory report store; maxPerPass <= 0 selects DefaultMaxPerPass
func NewMemoryStore(maxPerPass int) *MemoryStore {
	if maxPerPass <= 0 {
		maxPerPass = DefaultMaxPerPass
	}

	return &MemoryStore{
		reports:    make(map[string][]*Report),
		maxPerPass: maxPerPass,
	}
}

// stores a copy of the report
func (s *MemoryStore) Save(_ context.Context, report *Report) error {
	if err := report.validate(); err != nil {
		return err
	}

	cp := *report

	s.mu.Lock()
	defer s.mu.Unlock()

	list := append([]*Report{&cp}, s.reports[report.PassID]...)
	if len(list) > s.maxPerPass {
		list = list[:s.maxPerPass]
	}
	s.reports[report.PassID] = list

	return nil
}

// returns copies of the newest reports for a pass
func (s *MemoryStore) ListByPass(_ context.Context, passID string, limit int) ([]*Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.reports[passID]
	limit = normalizeLimit(limit, len(list))

	out := make([]*Report, 0, limit)
	for _, r := range list[:min(limit, len(list))] {
		cp := *r
		out = append(out, &cp)
	}

	return out, nil
}

// drops every report of a pass
func (s *MemoryStore) DeleteByPass(_ context.Context, passID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.reports, passID)
	return nil
}
