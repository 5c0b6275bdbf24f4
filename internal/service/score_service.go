package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/csi-informatics/results-api/internal/models"
	"github.com/csi-informatics/results-api/internal/repository"
	appErrors "github.com/csi-informatics/results-api/pkg/errors"
	"github.com/csi-informatics/results-api/pkg/sheets"
)

type scoreRepo interface {
	FetchAll(ctx context.Context) ([]models.ScoreRecord, error)
	Find(ctx context.Context, indexNumber, course string) (*models.ScoreRecord, error)
	UpdateScore(ctx context.Context, indexNumber, course string, ca, score float64) error
	UpdateStatus(ctx context.Context, indexNumber, course string, status models.ScoreStatus) error
	ForLecturer(username string, records []models.ScoreRecord) []models.ScoreRecord
}

// SubmitScoreRequest is a lecturer's score entry for one record.
type SubmitScoreRequest struct {
	IndexNumber string  `json:"index_number" validate:"required"`
	Course      string  `json:"course" validate:"required"`
	CA          float64 `json:"ca" validate:"required,gt=0,lte=40"`
	Score       float64 `json:"score" validate:"required,gt=0,lte=60"`
}

// StatusActionRequest targets one record for an admin approve or unlock.
type StatusActionRequest struct {
	IndexNumber string `json:"index_number" validate:"required"`
	Course      string `json:"course" validate:"required"`
}

// ScoreService drives the score lifecycle: who may edit which record,
// under which status, with which validation, and what the next status is.
type ScoreService struct {
	scores    scoreRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScoreService constructs a ScoreService.
func NewScoreService(scores scoreRepo, validate *validator.Validate, logger *zap.Logger) *ScoreService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoreService{scores: scores, validator: validate, logger: logger}
}

// List returns the records visible to the caller: admins see the whole
// sheet, lecturers only their assigned rows. Every call re-fetches the
// full table.
func (s *ScoreService) List(ctx context.Context, claims *models.JWTClaims) ([]models.ScoreRecord, error) {
	records, err := s.scores.FetchAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to load score records")
	}
	if claims.Role != models.RoleAdmin {
		records = s.scores.ForLecturer(claims.Username, records)
	}
	return records, nil
}

// Get returns a single record by its composite key, refusing lecturers
// access to rows assigned to someone else.
func (s *ScoreService) Get(ctx context.Context, claims *models.JWTClaims, indexNumber, course string) (*models.ScoreRecord, error) {
	record, err := s.find(ctx, indexNumber, course)
	if err != nil {
		return nil, err
	}
	if claims.Role != models.RoleAdmin && !assignedTo(record, claims.Username) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "record is not assigned to you")
	}
	return record, nil
}

// Submit applies a lecturer's score entry. The submission is accepted
// only when CA > 0, exam score > 0 and their sum stays within 100; an
// accepted submission always lands the record in Pending. Approved
// records refuse the edit outright with no state change.
func (s *ScoreService) Submit(ctx context.Context, claims *models.JWTClaims, req SubmitScoreRequest) (*models.ScoreRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid score payload")
	}

	ca := roundScore(req.CA)
	score := roundScore(req.Score)
	if ca <= 0 || score <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "both CA and exam score must be greater than zero")
	}
	if total := ca + score; total > models.MaxTotal {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("total score (%.1f) cannot exceed %.0f", total, models.MaxTotal))
	}

	record, err := s.find(ctx, req.IndexNumber, req.Course)
	if err != nil {
		return nil, err
	}
	if claims.Role != models.RoleAdmin && !assignedTo(record, claims.Username) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "record is not assigned to you")
	}
	if record.Status.Locked() {
		return nil, appErrors.Clone(appErrors.ErrScoreLocked, "score is approved and locked; ask an admin to unlock it")
	}

	if err := s.scores.UpdateScore(ctx, req.IndexNumber, req.Course, ca, score); err != nil {
		switch {
		case errors.Is(err, repository.ErrRowNotFound):
			return nil, appErrors.Clone(appErrors.ErrRecordNotFound, "")
		case errors.Is(err, repository.ErrRowLocked):
			return nil, appErrors.Clone(appErrors.ErrScoreLocked, "")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to write score")
		}
	}

	s.logger.Info("score submitted",
		zap.String("index_number", req.IndexNumber),
		zap.String("course", req.Course),
		zap.String("lecturer", claims.Username),
		zap.Float64("ca", ca),
		zap.Float64("score", score),
	)

	return s.find(ctx, req.IndexNumber, req.Course)
}

// Approve locks a record. Approving an already approved record is an
// observable no-op.
func (s *ScoreService) Approve(ctx context.Context, req StatusActionRequest) (*models.ScoreRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid approve payload")
	}

	record, err := s.find(ctx, req.IndexNumber, req.Course)
	if err != nil {
		return nil, err
	}
	if record.Status == models.StatusApproved {
		return record, nil
	}

	if err := s.setStatus(ctx, req, models.StatusApproved); err != nil {
		return nil, err
	}
	record.Status = models.StatusApproved
	s.logger.Info("score approved", zap.String("index_number", req.IndexNumber), zap.String("course", req.Course))
	return record, nil
}

// Unlock reopens a record for editing regardless of its prior state.
// This is the only path out of Approved.
func (s *ScoreService) Unlock(ctx context.Context, req StatusActionRequest) (*models.ScoreRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid unlock payload")
	}

	record, err := s.find(ctx, req.IndexNumber, req.Course)
	if err != nil {
		return nil, err
	}

	if err := s.setStatus(ctx, req, models.StatusEditable); err != nil {
		return nil, err
	}
	record.Status = models.StatusEditable
	s.logger.Info("score unlocked", zap.String("index_number", req.IndexNumber), zap.String("course", req.Course))
	return record, nil
}

func (s *ScoreService) find(ctx context.Context, indexNumber, course string) (*models.ScoreRecord, error) {
	record, err := s.scores.Find(ctx, indexNumber, course)
	if err != nil {
		if errors.Is(err, repository.ErrRowNotFound) {
			return nil, appErrors.Clone(appErrors.ErrRecordNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to load score record")
	}
	return record, nil
}

func (s *ScoreService) setStatus(ctx context.Context, req StatusActionRequest, status models.ScoreStatus) error {
	if err := s.scores.UpdateStatus(ctx, req.IndexNumber, req.Course, status); err != nil {
		if errors.Is(err, repository.ErrRowNotFound) {
			return appErrors.Clone(appErrors.ErrRecordNotFound, "")
		}
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to update status")
	}
	return nil
}

func assignedTo(record *models.ScoreRecord, username string) bool {
	return sheets.Fold(record.Lecturer) == sheets.Fold(username)
}

// roundScore snaps a component to the one decimal digit the sheet carries.
func roundScore(v float64) float64 {
	return math.Round(v*10) / 10
}
