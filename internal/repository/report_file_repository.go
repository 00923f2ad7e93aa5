package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/noah-isme/sk-kehadiran-api/internal/models"
	"github.com/noah-isme/sk-kehadiran-api/pkg/storage"
)

// ReportFileRepository keeps the entire report history as one JSON blob on
// disk under a single fixed key.
type ReportFileRepository struct {
	storage *storage.LocalStorage
	key     string
}

// NewReportFileRepository constructs the repository.
func NewReportFileRepository(store *storage.LocalStorage, key string) *ReportFileRepository {
	if key == "" {
		key = "reports.json"
	}
	return &ReportFileRepository{storage: store, key: key}
}

// LoadReports reads the persisted history. A missing blob is an empty
// history, not an error.
func (r *ReportFileRepository) LoadReports(_ context.Context) ([]models.Report, error) {
	if !r.storage.Exists(r.key) {
		return []models.Report{}, nil
	}
	raw, err := r.storage.Read(r.key)
	if err != nil {
		return nil, fmt.Errorf("load report blob: %w", err)
	}
	var reports []models.Report
	if err := json.Unmarshal(raw, &reports); err != nil {
		return nil, fmt.Errorf("decode report blob: %w", err)
	}
	return reports, nil
}

// SaveReports rewrites the whole history blob.
func (r *ReportFileRepository) SaveReports(_ context.Context, reports []models.Report) error {
	payload, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report blob: %w", err)
	}
	if _, err := r.storage.Save(r.key, payload); err != nil {
		return fmt.Errorf("save report blob: %w", err)
	}
	return nil
}
