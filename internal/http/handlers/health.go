package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/heraldry-backend/internal/platform/apierr"
	"github.com/yungbote/heraldry-backend/internal/platform/logger"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	log   *logger.Logger
	store Pinger
}

func NewHealthHandler(log *logger.Logger, store Pinger) *HealthHandler {
	return &HealthHandler{log: log.With("handler", "HealthHandler"), store: store}
}

// GET /healthcheck
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			h.log.Warn("graph store unreachable", "error", err)
			c.String(http.StatusServiceUnavailable, apierr.CodeStoreFailure)
			return
		}
	}
	c.String(http.StatusOK, "ok")
}
