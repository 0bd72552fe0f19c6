// Package health registers the liveness probe route (spec §13 supplemental features).
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmtuentertainment/payplan/core/logger"
	"github.com/mmtuentertainment/payplan/internal/kv"
)

// Routes registers /health_check. When backend is non-nil its Ping result is included, but
// an unreachable KV backend never fails the probe: rate limiting and idempotency already
// fail open/closed independently of liveness.
func Routes(route *gin.RouterGroup, log logger.Logger, backend kv.Store) {
	route.GET("/health_check", func(c *gin.Context) {
		status := "healthy"
		kvStatus := "unconfigured"

		if backend != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := backend.Ping(ctx); err != nil {
				kvStatus = "unreachable"
				log.Warning(ctx, "health check: KV backend unreachable", logger.Fields{"error": err.Error()})
			} else {
				kvStatus = "ok"
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": status, "kv": kvStatus})
	})
}
