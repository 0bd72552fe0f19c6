package middlewares

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mmtuentertainment/payplan/core/config"
)

// Cors returns a middleware that enables CORS support, reading the allowed origin from
// cfg.CORSOrigin. A comma-separated list is accepted; "*" disables credentials per the
// cors package's own requirement (a wildcard origin cannot be combined with credentials).
func Cors(cfg *config.AppConfig) gin.HandlerFunc {
	origin := cfg.CORSOrigin
	if origin == "" {
		origin = "*"
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "Idempotency-Key", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After", "X-Idempotent-Replayed", "X-Request-Id"},
		AllowCredentials: origin != "*",
		MaxAge:           12 * time.Hour,
	}

	if origin == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = strings.Split(origin, ",")
	}

	return cors.New(corsCfg)
}
