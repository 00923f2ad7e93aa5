package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sk-kehadiran-api/internal/models"
	appErrors "github.com/noah-isme/sk-kehadiran-api/pkg/errors"
)

// ReportFilter selects the reports included in a statistics window.
// Filtering is by the calendar date of the report, not its creation time.
type ReportFilter func(models.Report) bool

// MonthlyFilter matches reports dated in the given year and month.
func MonthlyFilter(year int, month time.Month) ReportFilter {
	return func(r models.Report) bool {
		return r.Date.Year() == year && r.Date.Month() == month
	}
}

// YearlyFilter matches reports dated in the given year, any month.
func YearlyFilter(year int) ReportFilter {
	return func(r models.Report) bool {
		return r.Date.Year() == year
	}
}

// ComputeStats aggregates the filtered reports into one entry per subject,
// in enumeration order. Subjects without matching reports still appear with
// all-zero stats. The denominator uses the roster size at query time, not a
// per-report snapshot, so a roster change shifts historical percentages.
func ComputeStats(reports []models.Report, rosterSize int, filter ReportFilter) []models.SubjectStats {
	subjects := models.Subjects()
	stats := make([]models.SubjectStats, len(subjects))
	for i, subject := range subjects {
		stats[i] = models.SubjectStats{Subject: subject}
	}
	index := make(map[models.Subject]int, len(subjects))
	for i, subject := range subjects {
		index[subject] = i
	}

	for _, report := range reports {
		if filter != nil && !filter(report) {
			continue
		}
		i, ok := index[report.Subject]
		if !ok {
			continue
		}
		stats[i].SessionCount++
		stats[i].TotalPresent += report.TotalPresent
	}

	for i := range stats {
		stats[i].TotalPossible = stats[i].SessionCount * rosterSize
		if stats[i].TotalPossible > 0 {
			stats[i].Percentage = int(math.Round(100 * float64(stats[i].TotalPresent) / float64(stats[i].TotalPossible)))
		}
	}
	return stats
}

// OverallAverage is the mean of per-subject percentages across subjects
// that held at least one session, or 0 when none did.
func OverallAverage(stats []models.SubjectStats) int {
	sum, counted := 0, 0
	for _, s := range stats {
		if s.SessionCount == 0 {
			continue
		}
		sum += s.Percentage
		counted++
	}
	if counted == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(counted)))
}

type reportLister interface {
	List() []models.Report
}

type rosterSizer interface {
	PupilCount() int
}

// AnalyticsService computes statistics windows over the report store with
// cache integration. It holds no state of its own; every query operates on
// a captured snapshot of the collection.
type AnalyticsService struct {
	store   reportLister
	roster  rosterSizer
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(store reportLister, roster rosterSizer, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{store: store, roster: roster, cache: cache, metrics: metrics, logger: logger}
}

// Monthly returns per-subject statistics for the given year and month. The
// boolean indicates whether the payload came from cache.
func (s *AnalyticsService) Monthly(ctx context.Context, year int, month time.Month) ([]models.SubjectStats, bool, error) {
	if err := validateYear(year); err != nil {
		return nil, false, err
	}
	if month < time.January || month > time.December {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12")
	}
	key := fmt.Sprintf("stats:monthly:%d:%d", year, int(month))
	return s.compute(ctx, key, MonthlyFilter(year, month))
}

// Yearly returns per-subject statistics for the given year.
func (s *AnalyticsService) Yearly(ctx context.Context, year int) ([]models.SubjectStats, bool, error) {
	if err := validateYear(year); err != nil {
		return nil, false, err
	}
	key := fmt.Sprintf("stats:yearly:%d", year)
	return s.compute(ctx, key, YearlyFilter(year))
}

func (s *AnalyticsService) compute(ctx context.Context, key string, filter ReportFilter) ([]models.SubjectStats, bool, error) {
	var cached []models.SubjectStats
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
			s.logger.Warn("stats cache read failed", zap.String("key", key), zap.Error(err))
		} else if hit {
			return cached, true, nil
		}
	}

	start := time.Now()
	stats := ComputeStats(s.store.List(), s.roster.PupilCount(), filter)
	if s.metrics != nil {
		s.metrics.ObserveStatsCompute(time.Since(start))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, stats, 0); err != nil {
			s.logger.Warn("stats cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return stats, false, nil
}

func validateYear(year int) error {
	if year < 2000 || year > 2200 {
		return appErrors.Clone(appErrors.ErrValidation, "year out of range")
	}
	return nil
}
