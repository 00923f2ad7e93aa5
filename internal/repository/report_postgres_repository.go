package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sk-kehadiran-api/internal/models"
)

// ReportPostgresRepository stores the report history blob in a single row,
// mirroring the opaque key-value contract of the file backend.
type ReportPostgresRepository struct {
	db  *sqlx.DB
	key string
}

// NewReportPostgresRepository constructs the repository.
func NewReportPostgresRepository(db *sqlx.DB, key string) *ReportPostgresRepository {
	if key == "" {
		key = "report_history"
	}
	return &ReportPostgresRepository{db: db, key: key}
}

// LoadReports fetches and decodes the history blob. No row means an empty
// history.
func (r *ReportPostgresRepository) LoadReports(ctx context.Context) ([]models.Report, error) {
	const query = `SELECT payload FROM report_blobs WHERE key = $1`
	var payload []byte
	if err := r.db.GetContext(ctx, &payload, query, r.key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []models.Report{}, nil
		}
		return nil, fmt.Errorf("load report blob: %w", err)
	}
	var reports []models.Report
	if err := json.Unmarshal(payload, &reports); err != nil {
		return nil, fmt.Errorf("decode report blob: %w", err)
	}
	return reports, nil
}

// SaveReports upserts the full history blob.
func (r *ReportPostgresRepository) SaveReports(ctx context.Context, reports []models.Report) error {
	payload, err := json.Marshal(reports)
	if err != nil {
		return fmt.Errorf("encode report blob: %w", err)
	}
	const query = `INSERT INTO report_blobs (key, payload, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (key)
DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, r.key, payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("save report blob: %w", err)
	}
	return nil
}
