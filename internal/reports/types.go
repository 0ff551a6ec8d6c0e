// Package reports records a summary of every processing call made against a
// dedup pass. reports describe outcomes only; they never hold hash or index state.
package reports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"codeberg.org/algopatterns/dedup/internal/dedup"
)

const (
	// most reports kept per pass by the bounded stores
	DefaultMaxPerPass = 500

	// lifetime of a pass's report list in redis
	DefaultTTL = 24 * time.Hour

	// page size when ListByPass is given no limit
	DefaultListLimit = 50
)

var ErrInvalidReport = errors.New("reports: report must have an id and a pass id")

// summary of one processing call
type Report struct {
	ID         string         `json:"id"`
	PassID     string         `json:"pass_id"`
	Strategy   dedup.Strategy `json:"strategy"`
	Input      int            `json:"input"`
	Kept       int            `json:"kept"`
	Removed    int            `json:"removed"`
	Skipped    int            `json:"skipped"`
	Clusters   int            `json:"clusters"`
	Reweighted int            `json:"reweighted"`
	Duration   time.Duration  `json:"duration_ns"`
	CreatedAt  time.Time      `json:"created_at"`
}

// builds a report from a call's counters
func New(passID string, stats dedup.Stats, took time.Duration) *Report {
	return &Report{
		ID:         uuid.NewString(),
		PassID:     passID,
		Strategy:   stats.Strategy,
		Input:      stats.Processed,
		Kept:       stats.Kept,
		Removed:    stats.Removed,
		Skipped:    stats.Skipped,
		Clusters:   stats.Clusters,
		Reweighted: stats.Reweighted,
		Duration:   took,
		CreatedAt:  time.Now().UTC(),
	}
}

func (r *Report) validate() error {
	if r == nil || r.ID == "" || r.PassID == "" {
		return ErrInvalidReport
	}
	return nil
}

// persists run reports
type Store interface {
	Save(ctx context.Context, report *Report) error

	// newest first, at most limit entries; limit <= 0 selects DefaultListLimit
	ListByPass(ctx context.Context, passID string, limit int) ([]*Report, error)

	DeleteByPass(ctx context.Context, passID string) error
}

func normalizeLimit(limit, ceiling int) int {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if ceiling > 0 && limit > ceiling {
		limit = ceiling
	}
	return limit
}
