package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/csi-informatics/results-api/internal/models"
	"github.com/csi-informatics/results-api/internal/service"
	appErrors "github.com/csi-informatics/results-api/pkg/errors"
	"github.com/csi-informatics/results-api/pkg/response"
)

type scoreService interface {
	List(ctx context.Context, claims *models.JWTClaims) ([]models.ScoreRecord, error)
	Get(ctx context.Context, claims *models.JWTClaims, indexNumber, course string) (*models.ScoreRecord, error)
	Submit(ctx context.Context, claims *models.JWTClaims, req service.SubmitScoreRequest) (*models.ScoreRecord, error)
	Approve(ctx context.Context, req service.StatusActionRequest) (*models.ScoreRecord, error)
	Unlock(ctx context.Context, req service.StatusActionRequest) (*models.ScoreRecord, error)
}

// ScoreHandler wires HTTP endpoints to the score lifecycle service.
type ScoreHandler struct {
	service scoreService
}

// NewScoreHandler creates a new handler.
func NewScoreHandler(svc scoreService) *ScoreHandler {
	return &ScoreHandler{service: svc}
}

// List godoc
// @Summary List score records
// @Description List score records visible to the caller. Admins see every record, lecturers only their assigned rows.
// @Tags Scores
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /scores [get]
func (h *ScoreHandler) List(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	records, err := h.service.List(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, records, map[string]interface{}{"count": len(records)})
}

// Get godoc
// @Summary Get one score record
// @Description Fetch a record by index number and course
// @Tags Scores
// @Produce json
// @Security BearerAuth
// @Param index query string true "Student index number"
// @Param course query string true "Course code"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /scores/record [get]
func (h *ScoreHandler) Get(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	index := c.Query("index")
	course := c.Query("course")
	if index == "" || course == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "index and course query parameters are required"))
		return
	}

	record, err := h.service.Get(c.Request.Context(), claims, index, course)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, record)
}

// Submit godoc
// @Summary Submit CA and exam scores
// @Description Record a lecturer's CA and exam scores for one student and course. An accepted submission moves the record to Pending.
// @Tags Scores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.SubmitScoreRequest true "Score submission"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /scores/submit [post]
func (h *ScoreHandler) Submit(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.SubmitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid score payload"))
		return
	}

	record, err := h.service.Submit(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, record)
}

// Approve godoc
// @Summary Approve a score record
// @Description Lock a record against further lecturer edits. Approving an approved record is a no-op.
// @Tags Scores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.StatusActionRequest true "Record key"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /scores/approve [post]
func (h *ScoreHandler) Approve(c *gin.Context) {
	var req service.StatusActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid approve payload"))
		return
	}

	record, err := h.service.Approve(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, record)
}

// Unlock godoc
// @Summary Unlock a score record
// @Description Reopen a record for lecturer edits regardless of its current state
// @Tags Scores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.StatusActionRequest true "Record key"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /scores/unlock [post]
func (h *ScoreHandler) Unlock(c *gin.Context) {
	var req service.StatusActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid unlock payload"))
		return
	}

	record, err := h.service.Unlock(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, record)
}
