package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/radreport/radreport/internal/report/domain"
)

// HistoryRepository handles PostgreSQL operations for generated reports
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// EnsureSchema creates the report_history table when missing
func (r *HistoryRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS report_history (
			id         UUID PRIMARY KEY,
			findings   TEXT NOT NULL,
			template   TEXT NOT NULL,
			report     TEXT NOT NULL,
			provider   TEXT NOT NULL,
			cached     BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure report_history: %w", err)
	}
	return nil
}

// Save inserts a report. A missing ID is generated.
func (r *HistoryRepository) Save(ctx context.Context, rec *domain.ReportRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	query := `
		INSERT INTO report_history (id, findings, template, report, provider, cached)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	var createdAt time.Time
	err := r.db.QueryRowContext(ctx, query,
		rec.ID,
		rec.Findings,
		rec.Template,
		rec.Report,
		rec.Provider,
		rec.Cached,
	).Scan(&createdAt)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	rec.CreatedAt = createdAt
	return nil
}

// GetByID retrieves a report by ID
func (r *HistoryRepository) GetByID(ctx context.Context, id string) (*domain.ReportRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrReportNotFound
	}

	query := `
		SELECT id, findings, template, report, provider, cached, created_at
		FROM report_history
		WHERE id = $1
	`

	var rec domain.ReportRecord
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID,
		&rec.Findings,
		&rec.Template,
		&rec.Report,
		&rec.Provider,
		&rec.Cached,
		&rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return &rec, nil
}

// PurgeOlderThan deletes reports created before cutoff and returns how many
// rows went away
func (r *HistoryRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM report_history WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge reports: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged reports: %w", err)
	}
	return n, nil
}
