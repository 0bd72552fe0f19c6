// Package routes registers the application's HTTP routes on the shared gin.Engine,
// grounded on the teacher's routes/routes.go (one Register/InitializeRoutes entry point
// called once after middleware setup).
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmtuentertainment/payplan/core/health"
	"github.com/mmtuentertainment/payplan/core/logger"
	"github.com/mmtuentertainment/payplan/internal/kv"
	"github.com/mmtuentertainment/payplan/internal/planapi"
)

// Register wires /api/plan, /health_check, and /metrics onto router.
func Register(router *gin.Engine, handler *planapi.Handler, log logger.Logger, store kv.Store) {
	health.Routes(router.Group(""), log, store)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	// Any, not POST: a non-POST request must still reach Handler.Plan so its own method
	// check (spec §4.C15 step 4) can render a 405 Problem Details response. Registering
	// only POST here would let gin's router itself answer other methods with a bare 404
	// before the handler ever runs.
	api.Any("/plan", handler.Plan)
}
