package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/csi-informatics/results-api/internal/models"
	appErrors "github.com/csi-informatics/results-api/pkg/errors"
	"github.com/csi-informatics/results-api/pkg/export"
)

type exporter interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfExporter interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult is a rendered roster ready for download.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders the full score roster as CSV or PDF for admins.
type ExportService struct {
	scores scoreRepo
	csv    exporter
	pdf    pdfExporter
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(scores scoreRepo, csv exporter, pdf pdfExporter, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{scores: scores, csv: csv, pdf: pdf, logger: logger}
}

// Export renders the roster in the requested format ("csv" or "pdf").
func (s *ExportService) Export(ctx context.Context, format string) (*ExportResult, error) {
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	records, err := s.scores.FetchAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to load score records")
	}
	dataset := rosterDataset(records)

	var result *ExportResult
	switch format {
	case "csv":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render CSV")
		}
		result = &ExportResult{Content: content, ContentType: "text/csv", Filename: "score-roster.csv"}
	case "pdf":
		content, err := s.pdf.Render(dataset, "Postgraduate Score Roster")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render PDF")
		}
		result = &ExportResult{Content: content, ContentType: "application/pdf", Filename: "score-roster.pdf"}
	}

	s.logger.Info("roster exported",
		zap.String("format", format),
		zap.Int("records", len(records)),
	)
	return result, nil
}

func rosterDataset(records []models.ScoreRecord) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{"Index Number", "Student Name", "Course", "Course Title", "Academic Year", "Lecturer", "CA", "Score", "Status"},
		Rows:    make([][]string, 0, len(records)),
	}
	for _, record := range records {
		dataset.Rows = append(dataset.Rows, []string{
			record.IndexNumber,
			record.StudentName,
			record.Course,
			record.CourseTitle,
			record.AcademicYear,
			record.Lecturer,
			strconv.FormatFloat(record.CA, 'f', 1, 64),
			strconv.FormatFloat(record.Score, 'f', 1, 64),
			string(record.Status),
		})
	}
	return dataset
}
