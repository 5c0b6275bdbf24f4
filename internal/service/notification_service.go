package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/csi-informatics/results-api/internal/models"
	"github.com/csi-informatics/results-api/internal/repository"
	appErrors "github.com/csi-informatics/results-api/pkg/errors"
	"github.com/csi-informatics/results-api/pkg/mailer"
	"github.com/csi-informatics/results-api/pkg/sheets"
)

type notificationScores interface {
	FetchAll(ctx context.Context) ([]models.ScoreRecord, error)
	ForLecturer(username string, records []models.ScoreRecord) []models.ScoreRecord
}

type lecturerDirectory interface {
	List(ctx context.Context) ([]models.Lecturer, error)
	EmailByUsername(ctx context.Context, username string) (string, error)
}

type confirmationStore interface {
	Arm(ctx context.Context, key string, ttl time.Duration) error
	Consume(ctx context.Context, key string) (bool, error)
}

type notificationMetrics interface {
	IncNotification(sent bool)
}

// NotificationConfig holds the email template parameters.
type NotificationConfig struct {
	Subject        string
	PlatformURL    string
	Signature      string
	BulkConfirmTTL time.Duration
}

// SendNotificationRequest targets one lecturer for a reminder email.
type SendNotificationRequest struct {
	Lecturer string `json:"lecturer" validate:"required"`
}

// DispatchFailure records one lecturer a bulk run could not reach.
type DispatchFailure struct {
	Lecturer string `json:"lecturer"`
	Reason   string `json:"reason"`
}

// BulkDispatchResult summarises one confirmed bulk run.
type BulkDispatchResult struct {
	BatchID   string            `json:"batch_id"`
	Attempted int               `json:"attempted"`
	Sent      int               `json:"sent"`
	Failed    int               `json:"failed"`
	Skipped   int               `json:"skipped"`
	Failures  []DispatchFailure `json:"failures,omitempty"`
}

// NotificationService sends result-request reminder emails to lecturers,
// singly or as a confirmed bulk run across everyone with assigned records.
type NotificationService struct {
	scores        notificationScores
	users         lecturerDirectory
	confirmations confirmationStore
	mailer        mailer.Mailer
	metrics       notificationMetrics
	validator     *validator.Validate
	logger        *zap.Logger
	config        NotificationConfig
}

// NewNotificationService constructs a NotificationService. metrics may be nil.
func NewNotificationService(
	scores notificationScores,
	users lecturerDirectory,
	confirmations confirmationStore,
	m mailer.Mailer,
	metrics notificationMetrics,
	validate *validator.Validate,
	logger *zap.Logger,
	config NotificationConfig,
) *NotificationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		scores:        scores,
		users:         users,
		confirmations: confirmations,
		mailer:        m,
		metrics:       metrics,
		validator:     validate,
		logger:        logger,
		config:        config,
	}
}

// Lecturers lists every lecturer appearing on the scores sheet, with
// record counts and the email on file, for the notification console.
func (s *NotificationService) Lecturers(ctx context.Context) ([]models.LecturerSummary, error) {
	records, err := s.scores.FetchAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to load score records")
	}

	summaries := make([]models.LecturerSummary, 0)
	for _, name := range uniqueLecturers(records) {
		assigned := s.scores.ForLecturer(name, records)
		pending := 0
		for _, record := range assigned {
			if record.Status == models.StatusPending {
				pending++
			}
		}
		email, err := s.emailFor(ctx, name)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, models.LecturerSummary{
			Lecturer:     name,
			Email:        email,
			RecordCount:  len(assigned),
			PendingCount: pending,
		})
	}
	return summaries, nil
}

// Send emails one lecturer a reminder listing every record assigned to
// them. Lecturers with no assigned records or no email on file are
// rejected rather than silently skipped.
func (s *NotificationService) Send(ctx context.Context, req SendNotificationRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "lecturer is required")
	}

	records, err := s.scores.FetchAll(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to load score records")
	}
	assigned := s.scores.ForLecturer(req.Lecturer, records)
	if len(assigned) == 0 {
		return appErrors.Clone(appErrors.ErrNothingToSend, "no student records are assigned to this lecturer")
	}
	email, err := s.emailFor(ctx, req.Lecturer)
	if err != nil {
		return err
	}
	if email == "" {
		return appErrors.Clone(appErrors.ErrNothingToSend, "no email address on file for this lecturer")
	}

	if err := s.deliver(req.Lecturer, email, assigned); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to send notification email")
	}
	return nil
}

// BulkSend emails every lecturer with at least one assigned record. The
// first call arms a short-lived confirmation flag and returns
// ErrConfirmationRequired; repeating the call before the flag expires
// executes the run. Lecturers without an email or records are skipped,
// and a delivery failure for one lecturer never stops the rest.
func (s *NotificationService) BulkSend(ctx context.Context, adminUsername string) (*BulkDispatchResult, error) {
	key := "notify:bulk:confirm:" + sheets.Fold(adminUsername)
	armed, err := s.confirmations.Consume(ctx, key)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "confirmation store unavailable")
	}
	if !armed {
		if err := s.confirmations.Arm(ctx, key, s.config.BulkConfirmTTL); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "confirmation store unavailable")
		}
		return nil, appErrors.Clone(appErrors.ErrConfirmationRequired, "repeat the request within the confirmation window to send to all lecturers")
	}

	records, err := s.scores.FetchAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to load score records")
	}

	result := &BulkDispatchResult{BatchID: uuid.NewString()}
	for _, name := range uniqueLecturers(records) {
		assigned := s.scores.ForLecturer(name, records)
		if len(assigned) == 0 {
			result.Skipped++
			continue
		}
		email, err := s.emailFor(ctx, name)
		if err != nil {
			return nil, err
		}
		if email == "" {
			result.Skipped++
			continue
		}

		result.Attempted++
		if err := s.deliver(name, email, assigned); err != nil {
			result.Failed++
			result.Failures = append(result.Failures, DispatchFailure{Lecturer: name, Reason: err.Error()})
			s.logger.Error("bulk notification failed",
				zap.String("batch_id", result.BatchID),
				zap.String("lecturer", name),
				zap.Error(err),
			)
			continue
		}
		result.Sent++
	}

	s.logger.Info("bulk notification run finished",
		zap.String("batch_id", result.BatchID),
		zap.Int("attempted", result.Attempted),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (s *NotificationService) deliver(lecturer, email string, assigned []models.ScoreRecord) error {
	msg := mailer.Message{
		To:      email,
		Subject: s.config.Subject,
		Body:    s.buildBody(lecturer, assigned),
	}
	err := s.mailer.Send(msg)
	if s.metrics != nil {
		s.metrics.IncNotification(err == nil)
	}
	if err != nil {
		return err
	}
	s.logger.Info("notification sent",
		zap.String("lecturer", lecturer),
		zap.Int("records", len(assigned)),
	)
	return nil
}

func (s *NotificationService) buildBody(lecturer string, assigned []models.ScoreRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear Dr. %s,\n\n", strings.TrimSpace(lecturer))
	b.WriteString("This is a friendly reminder to request for the results of the following student(s).\n\n")
	b.WriteString("Students requiring result submission:\n\n")
	for _, record := range assigned {
		fmt.Fprintf(&b, "- Index Number: %s\n", record.IndexNumber)
		fmt.Fprintf(&b, "  Student Name: %s\n", record.StudentName)
		fmt.Fprintf(&b, "  Course: %s - %s\n", record.Course, record.CourseTitle)
		fmt.Fprintf(&b, "  Academic Year: %s\n", record.AcademicYear)
		fmt.Fprintf(&b, "  Current Status: %s\n\n", record.Status)
	}
	b.WriteString("Please log into the Results Management System to submit the scores for these students.\n\n")
	b.WriteString("System Access Details:\n")
	fmt.Fprintf(&b, "- Username: %s\n", strings.TrimSpace(lecturer))
	if s.config.PlatformURL != "" {
		fmt.Fprintf(&b, "- Platform: %s\n", s.config.PlatformURL)
	}
	b.WriteString("\nIf you have any questions or face technical difficulties, please contact the Postgraduate Coordinator.\n\n")
	b.WriteString("Best regards,\n")
	b.WriteString(s.config.Signature)
	b.WriteString("\n")
	return b.String()
}

func (s *NotificationService) emailFor(ctx context.Context, lecturer string) (string, error) {
	email, err := s.users.EmailByUsername(ctx, lecturer)
	if err != nil {
		if errors.Is(err, repository.ErrRowNotFound) {
			return "", nil
		}
		return "", appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to load user directory")
	}
	return email, nil
}

// uniqueLecturers returns the lecturers named on the scores sheet in
// first-appearance order, deduplicated case-insensitively.
func uniqueLecturers(records []models.ScoreRecord) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, record := range records {
		name := strings.TrimSpace(record.Lecturer)
		if name == "" {
			continue
		}
		key := sheets.Fold(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	return names
}
