package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/sk-kehadiran-api/internal/models"
	appErrors "github.com/noah-isme/sk-kehadiran-api/pkg/errors"
)

// ReportBlobRepository is the persistence collaborator: one opaque blob
// holding the entire report history under a single logical key.
type ReportBlobRepository interface {
	LoadReports(ctx context.Context) ([]models.Report, error)
	SaveReports(ctx context.Context, reports []models.Report) error
}

// ReportStoreService owns the report collection. All mutations are
// serialized behind one lock and rewrite the whole persisted blob, so a
// reader only ever sees pre- or post-mutation state.
type ReportStoreService struct {
	repo    ReportBlobRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger

	mu       sync.Mutex
	reports  []models.Report
	degraded bool
}

// NewReportStoreService constructs the store.
func NewReportStoreService(repo ReportBlobRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *ReportStoreService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportStoreService{repo: repo, cache: cache, metrics: metrics, logger: logger, reports: []models.Report{}}
}

// Load reads the persisted history once at startup. A corrupt blob degrades
// to an empty collection; the failure is logged and the degraded flag kept
// so the loss stays observable. Malformed individual entries are dropped.
func (s *ReportStoreService) Load(ctx context.Context) error {
	loaded, err := s.repo.LoadReports(ctx)
	if err != nil {
		s.logger.Error("report history load failed, starting empty", zap.Error(err))
		s.mu.Lock()
		s.reports = []models.Report{}
		s.degraded = true
		s.mu.Unlock()
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load report history")
	}

	valid := make([]models.Report, 0, len(loaded))
	dropped := 0
	for _, report := range loaded {
		if !report.Valid() {
			dropped++
			continue
		}
		valid = append(valid, report)
	}
	if dropped > 0 {
		s.logger.Warn("dropped malformed report entries on load", zap.Int("dropped", dropped))
	}

	s.mu.Lock()
	s.reports = valid
	s.degraded = dropped > 0
	s.mu.Unlock()
	return nil
}

// Add prepends the report and persists the new collection. The in-memory
// add is authoritative: a persistence failure is returned for reporting but
// never rolls the add back.
func (s *ReportStoreService) Add(ctx context.Context, report models.Report) error {
	s.mu.Lock()
	next := make([]models.Report, 0, len(s.reports)+1)
	next = append(next, report)
	next = append(next, s.reports...)
	s.reports = next
	s.mu.Unlock()

	return s.persist(ctx, "add")
}

// DeleteByID removes the report with the given id. Deleting an unknown id
// is a no-op, not an error.
func (s *ReportStoreService) DeleteByID(ctx context.Context, id string) error {
	s.mu.Lock()
	found := false
	next := make([]models.Report, 0, len(s.reports))
	for _, report := range s.reports {
		if report.ID == id {
			found = true
			continue
		}
		next = append(next, report)
	}
	s.reports = next
	s.mu.Unlock()

	if !found {
		return nil
	}
	return s.persist(ctx, "delete")
}

// Clear removes the entire collection and persists the empty state.
func (s *ReportStoreService) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.reports = []models.Report{}
	s.mu.Unlock()

	return s.persist(ctx, "clear")
}

// List returns a snapshot of the in-memory collection, newest-added first.
// No I/O happens here.
func (s *ReportStoreService) List() []models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Report, len(s.reports))
	copy(out, s.reports)
	return out
}

// Count returns the current collection size.
func (s *ReportStoreService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}

// Degraded reports whether the startup load lost history.
func (s *ReportStoreService) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

func (s *ReportStoreService) persist(ctx context.Context, op string) error {
	s.mu.Lock()
	snapshot := make([]models.Report, len(s.reports))
	copy(snapshot, s.reports)
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, "stats:*"); err != nil {
			s.logger.Warn("stats cache invalidation failed", zap.String("op", op), zap.Error(err))
		}
	}

	var err error
	if s.metrics != nil {
		err = s.metrics.TimePersistence(op, func() error {
			return s.repo.SaveReports(ctx, snapshot)
		})
	} else {
		err = s.repo.SaveReports(ctx, snapshot)
	}
	if err != nil {
		s.logger.Error("report history persist failed, in-memory state kept", zap.String("op", op), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to persist report history")
	}
	return nil
}
