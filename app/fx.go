// Package app wires the application via fx, grounded on the teacher's app/fx.go +
// app/init.go composition (fx.Module list, a provide block for collaborators that need
// construction logic, and a lifecycle-bound HTTP server start).
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/mmtuentertainment/payplan/core/config"
	"github.com/mmtuentertainment/payplan/core/logger"
	"github.com/mmtuentertainment/payplan/core/middlewares"
	"github.com/mmtuentertainment/payplan/internal/idempotency"
	"github.com/mmtuentertainment/payplan/internal/kv"
	"github.com/mmtuentertainment/payplan/internal/pii"
	"github.com/mmtuentertainment/payplan/internal/planapi"
	"github.com/mmtuentertainment/payplan/internal/ratelimit"
	"github.com/mmtuentertainment/payplan/routes"
)

// newKVStore dials the configured Redis backend. An unreachable or unconfigured Redis is
// not a boot failure: it falls back to an in-memory store so the rate limiter and
// idempotency store still function locally (spec §6: "missing/unconfigured backend" is a
// supported KV state, not a fatal one).
func newKVStore(cfg *config.AppConfig, log logger.Logger) kv.Store {
	store, err := kv.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Warning(context.Background(), "Redis unavailable at boot, falling back to an in-memory KV store", logger.Fields{
			"error": err.Error(),
			"addr":  cfg.RedisAddr,
		})
		return kv.NewMemStore()
	}
	return store
}

func newLimiter(cfg *config.AppConfig, store kv.Store) *ratelimit.Limiter {
	return ratelimit.New(store, cfg.Environment, cfg.RateLimitPerHour, time.Hour)
}

func newIdempotencyStore(cfg *config.AppConfig, store kv.Store) *idempotency.Store {
	return idempotency.New(store, time.Duration(cfg.IdempotencyTTLSeconds)*time.Second)
}

// NewFxApp builds the application's fx.App.
func NewFxApp() *fx.App {
	return fx.New(
		logger.Module,
		config.Module,
		fx.Provide(
			gin.New,
			newKVStore,
			newLimiter,
			newIdempotencyStore,
			middlewares.NewMonitoringMiddleware,
			planapi.NewHandler,
		),
		fx.Invoke(setupAndRun),
	)
}

func setupAndRun(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.AppConfig,
	log logger.Logger,
	monitoring *middlewares.MonitoringMiddleware,
	handler *planapi.Handler,
	store kv.Store,
) {
	if err := router.SetTrustedProxies(nil); err != nil {
		log.LogError(context.Background(), "failed to configure trusted proxies", err)
	}

	pii.SetFieldCacheSize(cfg.PIIFieldCacheSize)

	if cfg.SentryDSN != "" {
		config.SentryConfig()
		router.Use(monitoring.SentryMiddleware())
	}
	router.Use(middlewares.Cors(cfg))
	router.Use(monitoring.LogMiddleware)
	router.Use(gin.Recovery())

	routes.Register(router, handler, log, store)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			addr := fmt.Sprintf(":%s", cfg.Port)
			go func() {
				if err := router.Run(addr); err != nil && err != http.ErrServerClosed {
					log.LogError(context.Background(), "HTTP server stopped unexpectedly", err)
				}
			}()
			log.Info(ctx, "server started", logger.Fields{"addr": addr, "environment": cfg.Environment})
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info(ctx, "server shutting down")
			return nil
		},
	})
}
