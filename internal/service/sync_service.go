package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/noah-isme/sk-kehadiran-api/internal/dto"
	"github.com/noah-isme/sk-kehadiran-api/internal/models"
	"github.com/noah-isme/sk-kehadiran-api/pkg/config"
	"github.com/noah-isme/sk-kehadiran-api/pkg/jobs"
)

// SyncService pushes finalized reports to a remote spreadsheet webhook.
// Submission is best-effort on a background queue: it runs after local
// persistence and its outcome never affects the local flow.
type SyncService struct {
	roster  *RosterService
	queue   *jobs.Queue
	client  *http.Client
	url     string
	enabled bool
	logger  *zap.Logger
}

// NewSyncService constructs the service and its worker queue.
func NewSyncService(cfg config.SyncConfig, roster *RosterService, logger *zap.Logger) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &SyncService{
		roster:  roster,
		client:  &http.Client{Timeout: cfg.Timeout},
		url:     cfg.WebhookURL,
		enabled: cfg.Enabled && cfg.WebhookURL != "",
		logger:  logger,
	}
	svc.queue = jobs.NewQueue("sheet-sync", svc.push, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.Retries,
		Logger:     logger,
	})
	return svc
}

// Start launches the background workers.
func (s *SyncService) Start(ctx context.Context) {
	if s.enabled {
		s.queue.Start(ctx)
	}
}

// Stop drains the workers.
func (s *SyncService) Stop() {
	if s.enabled {
		s.queue.Stop()
	}
}

// EnqueueReport schedules the report for remote submission. Disabled sync
// is a silent no-op; a full queue is logged and dropped rather than
// blocking the caller.
func (s *SyncService) EnqueueReport(report models.Report) {
	if !s.enabled {
		return
	}

	rows := make([]dto.SheetSyncRow, 0, s.roster.PupilCount())
	for _, pupil := range s.roster.Pupils() {
		rows = append(rows, dto.SheetSyncRow{
			PupilID: pupil.ID,
			Name:    pupil.Name,
			Year:    pupil.Year,
			Present: report.Attendance[pupil.ID],
		})
	}
	payload := dto.SheetSyncPayload{Report: report, Rows: rows}

	if err := s.queue.Enqueue(jobs.Job{ID: report.ID, Type: "sheet-sync", Payload: payload}); err != nil {
		s.logger.Warn("sheet sync enqueue failed", zap.String("report_id", report.ID), zap.Error(err))
	}
}

func (s *SyncService) push(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(dto.SheetSyncPayload)
	if !ok {
		s.logger.Error("sheet sync job carried unexpected payload", zap.String("job_id", job.ID))
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode sync payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post sync payload: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sync webhook returned %d", resp.StatusCode)
	}

	s.logger.Info("report synced to spreadsheet", zap.String("report_id", job.ID))
	return nil
}
