package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/csi-informatics/results-api/internal/models"
	"github.com/csi-informatics/results-api/internal/service"
	"github.com/csi-informatics/results-api/pkg/response"
)

type userDirectoryStub struct {
	lecturers []models.Lecturer
}

func (s *userDirectoryStub) List(ctx context.Context) ([]models.Lecturer, error) {
	return s.lecturers, nil
}

func newTestAuthService() *service.AuthService {
	return service.NewAuthService(&userDirectoryStub{lecturers: []models.Lecturer{
		{Username: "jdoe", Password: "pass123", Role: models.RoleLecturer},
	}}, validator.New(), zap.NewNop(), service.AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "results-api-test",
	})
}

func TestAuthHandlerLogin(t *testing.T) {
	handler := NewAuthHandler(newTestAuthService())

	payload := []byte(`{"username":"JDOE","password":"pass123"}`)
	c, w := testContext(t, http.MethodPost, "/auth/login", payload, nil)
	handler.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["access_token"])
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "jdoe", user["username"])
}

func TestAuthHandlerLoginWrongPassword(t *testing.T) {
	handler := NewAuthHandler(newTestAuthService())

	payload := []byte(`{"username":"jdoe","password":"wrong"}`)
	c, w := testContext(t, http.MethodPost, "/auth/login", payload, nil)
	handler.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerLoginInvalidBody(t *testing.T) {
	handler := NewAuthHandler(newTestAuthService())

	c, w := testContext(t, http.MethodPost, "/auth/login", []byte(`{"username"`), nil)
	handler.Login(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandlerMe(t *testing.T) {
	handler := NewAuthHandler(newTestAuthService())

	c, w := testContext(t, http.MethodGet, "/auth/me", nil, &models.JWTClaims{Username: "jdoe", Role: models.RoleLecturer})
	handler.Me(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, "jdoe", data["username"])
	assert.Equal(t, "User", data["role"])
}
