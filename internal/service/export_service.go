package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sk-kehadiran-api/internal/models"
	appErrors "github.com/noah-isme/sk-kehadiran-api/pkg/errors"
	"github.com/noah-isme/sk-kehadiran-api/pkg/export"
	"github.com/noah-isme/sk-kehadiran-api/pkg/storage"
)

// Export formats accepted by the exporter.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ExportService renders reports and statistics windows into downloadable
// documents. It only consumes fully-resolved data passed in; it has no
// visibility into the store.
type ExportService struct {
	roster  *RosterService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	storage *storage.LocalStorage
	logger  *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(roster *RosterService, csv *export.CSVExporter, pdf *export.PDFExporter, store *storage.LocalStorage, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{roster: roster, csv: csv, pdf: pdf, storage: store, logger: logger}
}

// ExportReport renders the per-pupil attendance of one report and stores
// the file. It returns the stored filename.
func (s *ExportService) ExportReport(report models.Report, format string) (string, error) {
	dataset := export.Dataset{
		Title:   "Laporan Kehadiran",
		Headers: []string{"Nama", "Tahun", "Status"},
	}
	for _, pupil := range s.roster.Pupils() {
		status := "Tidak Hadir"
		if report.Attendance[pupil.ID] {
			status = "Hadir"
		}
		dataset.Rows = append(dataset.Rows, []string{pupil.Name, fmt.Sprintf("%d", pupil.Year), status})
	}

	subtitles := []string{
		fmt.Sprintf("%s | %s | %s", report.Subject, report.Timeslot, report.Date.Format("2006-01-02")),
		fmt.Sprintf("Guru: %s | Hadir: %d/%d", report.TeacherName, report.TotalPresent, s.roster.PupilCount()),
	}

	filename := fmt.Sprintf("report-%s.%s", report.ID, strings.ToLower(format))
	return s.render(dataset, subtitles, filename, format)
}

// ExportStats renders a statistics window and stores the file.
func (s *ExportService) ExportStats(stats []models.SubjectStats, label, format string) (string, error) {
	dataset := export.Dataset{
		Title:   "Statistik Kehadiran",
		Headers: []string{"Subjek", "Sesi", "Hadir", "Kemungkinan", "Peratus"},
	}
	for _, entry := range stats {
		dataset.Rows = append(dataset.Rows, []string{
			string(entry.Subject),
			fmt.Sprintf("%d", entry.SessionCount),
			fmt.Sprintf("%d", entry.TotalPresent),
			fmt.Sprintf("%d", entry.TotalPossible),
			fmt.Sprintf("%d%%", entry.Percentage),
		})
	}

	filename := fmt.Sprintf("stats-%s.%s", label, strings.ToLower(format))
	return s.render(dataset, []string{label}, filename, format)
}

func (s *ExportService) render(dataset export.Dataset, subtitles []string, filename, format string) (string, error) {
	var (
		payload []byte
		err     error
	)
	switch strings.ToLower(format) {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, subtitles...)
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	stored, err := s.storage.Save(filename, payload)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	s.logger.Info("export written", zap.String("file", stored))
	return stored, nil
}

// ExportPath resolves a stored export filename to its absolute path.
func (s *ExportService) ExportPath(filename string) string {
	return s.storage.Path(filename)
}
