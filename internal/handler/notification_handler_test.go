package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csi-informatics/results-api/internal/models"
	"github.com/csi-informatics/results-api/internal/service"
	appErrors "github.com/csi-informatics/results-api/pkg/errors"
	"github.com/csi-informatics/results-api/pkg/response"
)

type notificationServiceMock struct {
	lecturersResp []models.LecturerSummary
	lecturersErr  error
	sendErr       error
	bulkResp      *service.BulkDispatchResult
	bulkErr       error
	lastSend      service.SendNotificationRequest
	bulkAdmin     string
}

func (m *notificationServiceMock) Lecturers(ctx context.Context) ([]models.LecturerSummary, error) {
	return m.lecturersResp, m.lecturersErr
}

func (m *notificationServiceMock) Send(ctx context.Context, req service.SendNotificationRequest) error {
	m.lastSend = req
	return m.sendErr
}

func (m *notificationServiceMock) BulkSend(ctx context.Context, adminUsername string) (*service.BulkDispatchResult, error) {
	m.bulkAdmin = adminUsername
	if m.bulkErr != nil {
		return nil, m.bulkErr
	}
	return m.bulkResp, nil
}

func TestNotificationHandlerLecturers(t *testing.T) {
	mockSvc := &notificationServiceMock{lecturersResp: []models.LecturerSummary{
		{Lecturer: "jdoe", Email: "jdoe@example.edu", RecordCount: 2},
	}}
	handler := NewNotificationHandler(mockSvc)

	c, w := testContext(t, http.MethodGet, "/notifications/lecturers", nil, &models.JWTClaims{Username: "admin", Role: models.RoleAdmin})
	handler.Lecturers(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, float64(1), envelope.Meta["count"])
}

func TestNotificationHandlerSend(t *testing.T) {
	mockSvc := &notificationServiceMock{}
	handler := NewNotificationHandler(mockSvc)

	payload := []byte(`{"lecturer":"jdoe"}`)
	c, w := testContext(t, http.MethodPost, "/notifications/send", payload, &models.JWTClaims{Username: "admin", Role: models.RoleAdmin})
	handler.Send(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jdoe", mockSvc.lastSend.Lecturer)
}

func TestNotificationHandlerSendNothingToSend(t *testing.T) {
	mockSvc := &notificationServiceMock{sendErr: appErrors.ErrNothingToSend}
	handler := NewNotificationHandler(mockSvc)

	payload := []byte(`{"lecturer":"noemail"}`)
	c, w := testContext(t, http.MethodPost, "/notifications/send", payload, &models.JWTClaims{Username: "admin", Role: models.RoleAdmin})
	handler.Send(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestNotificationHandlerBulkConfirmationFlow(t *testing.T) {
	mockSvc := &notificationServiceMock{bulkErr: appErrors.ErrConfirmationRequired}
	handler := NewNotificationHandler(mockSvc)

	c, w := testContext(t, http.MethodPost, "/notifications/bulk", nil, &models.JWTClaims{Username: "admin", Role: models.RoleAdmin})
	handler.Bulk(c)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "admin", mockSvc.bulkAdmin)

	mockSvc.bulkErr = nil
	mockSvc.bulkResp = &service.BulkDispatchResult{BatchID: "batch-1", Attempted: 2, Sent: 2}
	c, w = testContext(t, http.MethodPost, "/notifications/bulk", nil, &models.JWTClaims{Username: "admin", Role: models.RoleAdmin})
	handler.Bulk(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, "batch-1", data["batch_id"])
	assert.Equal(t, float64(2), data["sent"])
}

func TestNotificationHandlerBulkRequiresClaims(t *testing.T) {
	handler := NewNotificationHandler(&notificationServiceMock{})

	c, w := testContext(t, http.MethodPost, "/notifications/bulk", nil, nil)
	handler.Bulk(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
