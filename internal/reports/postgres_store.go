package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"codeberg.org/algopatterns/dedup/internal/dedup"
)

const (
	createTableSQL = `
		CREATE TABLE IF NOT EXISTS dedup_reports (
			id TEXT PRIMARY KEY,
			pass_id TEXT NOT NULL,
			strategy TEXT NOT NULL,
			input INTEGER NOT NULL,
			kept INTEGER NOT NULL,
			removed INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			clusters INTEGER NOT NULL DEFAULT 0,
			reweighted INTEGER NOT NULL DEFAULT 0,
			duration_ms BIGINT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_dedup_reports_pass_id ON dedup_reports(pass_id, created_at DESC);
	`

	insertSQL = `
		INSERT INTO dedup_reports (id, pass_id, strategy, input, kept, removed, skipped, clusters, reweighted, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	listByPassSQL = `
		SELECT id, pass_id, strategy, input, kept, removed, skipped, clusters, reweighted, duration_ms, created_at
		FROM dedup_reports
		WHERE pass_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	deleteByPassSQL = `DELETE FROM dedup_reports WHERE pass_id = $1`
)

// subset of pgxpool.Pool the store needs
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// implements Store using PostgreSQL
type PostgresStore struct {
	db DB
}

// creates a new PostgreSQL report store
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// creates the reports table if it doesn't exist
func (s *PostgresStore) Initialize(ctx context.Context) error {
	_, err := s.db.Exec(ctx, createTableSQL)
	return err
}

// inserts a report
func (s *PostgresStore) Save(ctx context.Context, report *Report) error {
	if err := report.validate(); err != nil {
		return err
	}

	_, err := s.db.Exec(ctx, insertSQL,
		report.ID,
		report.PassID,
		string(report.Strategy),
		report.Input,
		report.Kept,
		report.Removed,
		report.Skipped,
		report.Clusters,
		report.Reweighted,
		report.Duration.Milliseconds(),
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// returns the newest reports of a pass
func (s *PostgresStore) ListByPass(ctx context.Context, passID string, limit int) ([]*Report, error) {
	rows, err := s.db.Query(ctx, listByPassSQL, passID, normalizeLimit(limit, DefaultMaxPerPass))
	if err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}

	defer rows.Close()
	var out []*Report

	for rows.Next() {
		var r Report
		var strategy string
		var durationMS int64

		err := rows.Scan(
			&r.ID, &r.PassID, &strategy,
			&r.Input, &r.Kept, &r.Removed, &r.Skipped, &r.Clusters, &r.Reweighted,
			&durationMS, &r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		r.Strategy = dedup.Strategy(strategy)
		r.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}

	return out, nil
}

// removes every report of a pass
func (s *PostgresStore) DeleteByPass(ctx context.Context, passID string) error {
	_, err := s.db.Exec(ctx, deleteByPassSQL, passID)
	return err
}
