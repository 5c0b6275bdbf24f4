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

type notificationService interface {
	Lecturers(ctx context.Context) ([]models.LecturerSummary, error)
	Send(ctx context.Context, req service.SendNotificationRequest) error
	BulkSend(ctx context.Context, adminUsername string) (*service.BulkDispatchResult, error)
}

// NotificationHandler wires HTTP endpoints to the notification service.
type NotificationHandler struct {
	service notificationService
}

// NewNotificationHandler creates a new handler.
func NewNotificationHandler(svc notificationService) *NotificationHandler {
	return &NotificationHandler{service: svc}
}

// Lecturers godoc
// @Summary List lecturers for notification
// @Description List every lecturer named on the scores sheet with record counts and email on file
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /notifications/lecturers [get]
func (h *NotificationHandler) Lecturers(c *gin.Context) {
	summaries, err := h.service.Lecturers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, map[string]interface{}{"count": len(summaries)})
}

// Send godoc
// @Summary Send a reminder to one lecturer
// @Description Email one lecturer a reminder listing every record assigned to them
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.SendNotificationRequest true "Target lecturer"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /notifications/send [post]
func (h *NotificationHandler) Send(c *gin.Context) {
	var req service.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid notification payload"))
		return
	}

	if err := h.service.Send(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "notification sent"})
}

// Bulk godoc
// @Summary Send reminders to all lecturers
// @Description Email every lecturer with assigned records. The first call arms a short-lived confirmation; repeating it executes the run.
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /notifications/bulk [post]
func (h *NotificationHandler) Bulk(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	result, err := h.service.BulkSend(c.Request.Context(), claims.Username)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result)
}
