package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/csi-informatics/results-api/internal/models"
	"github.com/csi-informatics/results-api/pkg/sheets"
)

// Sentinel errors surfaced at the repository boundary; services translate
// them into typed API errors.
var (
	// ErrRowNotFound reports that no row matches the composite
	// (index number, course) key. Callers must treat the operation as a
	// reported failure, not a silent success.
	ErrRowNotFound = errors.New("no row matches index number and course")
	// ErrRowLocked reports a content write against an Approved row.
	ErrRowLocked = errors.New("row is approved and locked")
)

// Normalized column names of the scores sheet.
const (
	colIndexNumber = "Indexnumber"
	colStudentName = "Studentname"
	colCourse      = "Course"
	colCourseTitle = "Course_Title"
	colYear        = "Academic_Year"
	colLecturer    = "Lecturer"
	colScore       = "Score"
	colCA          = "Ca"
	colStatus      = "Status"
)

// ScoreRepository reads and mutates the scores sheet. Every read is a
// full-table snapshot; writes are targeted single-cell updates that leave
// all other columns untouched.
type ScoreRepository struct {
	store sheets.Store
}

// NewScoreRepository creates a new instance of ScoreRepository.
func NewScoreRepository(store sheets.Store) *ScoreRepository {
	return &ScoreRepository{store: store}
}

// FetchAll returns every score record in sheet order.
func (r *ScoreRepository) FetchAll(ctx context.Context) ([]models.ScoreRecord, error) {
	table, err := r.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch scores: %w", err)
	}
	records := make([]models.ScoreRecord, len(table.Rows))
	for i, row := range table.Rows {
		records[i] = scoreFromRow(row)
	}
	return records, nil
}

// Find returns the unique record matching both keys.
func (r *ScoreRepository) Find(ctx context.Context, indexNumber, course string) (*models.ScoreRecord, error) {
	table, err := r.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch scores: %w", err)
	}
	i, ok := locate(table, indexNumber, course)
	if !ok {
		return nil, ErrRowNotFound
	}
	record := scoreFromRow(table.Rows[i])
	return &record, nil
}

// UpdateScore writes the CA and exam score cells of the matching row and
// forces its status to Pending: any content edit invalidates a prior
// approval. Approved rows are refused outright. Columns absent from the
// sheet are skipped, never invented.
func (r *ScoreRepository) UpdateScore(ctx context.Context, indexNumber, course string, ca, score float64) error {
	table, err := r.store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("fetch scores: %w", err)
	}
	i, ok := locate(table, indexNumber, course)
	if !ok {
		return ErrRowNotFound
	}
	if models.ScoreStatus(table.Rows[i].Get(colStatus)).Locked() {
		return ErrRowLocked
	}

	row := table.SheetRow(i)
	if col, ok := table.Column(colScore); ok {
		if err := r.store.UpdateCell(ctx, row, col, formatScore(score)); err != nil {
			return fmt.Errorf("update score cell: %w", err)
		}
	}
	if col, ok := table.Column(colCA); ok {
		if err := r.store.UpdateCell(ctx, row, col, formatScore(ca)); err != nil {
			return fmt.Errorf("update ca cell: %w", err)
		}
	}
	if col, ok := table.Column(colStatus); ok {
		if err := r.store.UpdateCell(ctx, row, col, string(models.StatusPending)); err != nil {
			return fmt.Errorf("update status cell: %w", err)
		}
	}
	return nil
}

// UpdateStatus writes only the status cell of the matching row.
func (r *ScoreRepository) UpdateStatus(ctx context.Context, indexNumber, course string, status models.ScoreStatus) error {
	table, err := r.store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("fetch scores: %w", err)
	}
	i, ok := locate(table, indexNumber, course)
	if !ok {
		return ErrRowNotFound
	}
	col, ok := table.Column(colStatus)
	if !ok {
		return nil
	}
	if err := r.store.UpdateCell(ctx, table.SheetRow(i), col, string(status)); err != nil {
		return fmt.Errorf("update status cell: %w", err)
	}
	return nil
}

// ForLecturer returns the subsequence of records assigned to the given
// lecturer, matching case-insensitively after trimming.
func (r *ScoreRepository) ForLecturer(username string, records []models.ScoreRecord) []models.ScoreRecord {
	want := sheets.Fold(username)
	matched := make([]models.ScoreRecord, 0, len(records))
	for _, record := range records {
		if sheets.Fold(record.Lecturer) == want {
			matched = append(matched, record)
		}
	}
	return matched
}

func locate(table *sheets.Table, indexNumber, course string) (int, bool) {
	indexNumber = strings.TrimSpace(indexNumber)
	course = strings.TrimSpace(course)
	for i, row := range table.Rows {
		if row.Get(colIndexNumber) == indexNumber && row.Get(colCourse) == course {
			return i, true
		}
	}
	return 0, false
}

func scoreFromRow(row sheets.Record) models.ScoreRecord {
	return models.ScoreRecord{
		IndexNumber:  row.Get(colIndexNumber),
		StudentName:  row.Get(colStudentName),
		Course:       row.Get(colCourse),
		CourseTitle:  row.Get(colCourseTitle),
		AcademicYear: row.Get(colYear),
		Lecturer:     row.Get(colLecturer),
		CA:           row.Float(colCA),
		Score:        row.Float(colScore),
		Status:       models.ScoreStatus(row.Get(colStatus)),
	}
}

// formatScore renders a component with the one decimal digit the sheet
// carries.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
