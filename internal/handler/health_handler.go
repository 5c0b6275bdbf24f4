package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/csi-informatics/results-api/pkg/sheets"
)

// HealthHandler exposes liveness and readiness probes.
type HealthHandler struct {
	redis *redis.Client
	store sheets.Store
}

// NewHealthHandler constructs a health handler.
func NewHealthHandler(client *redis.Client, store sheets.Store) *HealthHandler {
	return &HealthHandler{redis: client, store: store}
}

// Health responds with a generic OK payload for liveness usage.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready verifies the backing stores are reachable.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}
	if h.store != nil {
		if _, err := h.store.Snapshot(ctx); err != nil {
			checks["sheets"] = err.Error()
			healthy = false
		} else {
			checks["sheets"] = "ok"
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": checks})
}
