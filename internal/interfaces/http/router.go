// Package http assembles the gin router and the server lifecycle around the
// intelligence API.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/helix-insights/madison/internal/application/intelligence"
	"github.com/helix-insights/madison/internal/infrastructure/monitoring/logging"
	"github.com/helix-insights/madison/internal/infrastructure/monitoring/prometheus"
	"github.com/helix-insights/madison/internal/interfaces/http/handlers"
	"github.com/helix-insights/madison/internal/interfaces/http/middleware"
)

// RouterDeps carries everything the router wires together.  Metrics and
// readiness checks are optional.
type RouterDeps struct {
	Service intelligence.Service
	Logger  logging.Logger
	Metrics *prometheus.Metrics
	Version string

	// ReadinessChecks maps dependency names to their probes.
	ReadinessChecks map[string]handlers.Pinger
}

// NewRouter builds the gin engine with all routes and middleware attached.
func NewRouter(mode string, deps RouterDeps) *gin.Engine {
	gin.SetMode(mode)

	router := gin.New()
	router.Use(
		middleware.Recovery(deps.Logger),
		middleware.RequestLogging(deps.Logger.Named("http"), deps.Metrics),
	)

	health := handlers.NewHealthHandler(deps.Version, deps.ReadinessChecks)
	router.GET("/healthz", health.Healthz)
	router.GET("/readyz", health.Readyz)

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	analysis := handlers.NewAnalysisHandler(deps.Service, deps.Logger)
	v1 := router.Group("/api/v1")
	{
		v1.POST("/analysis", analysis.Run)
	}

	return router
}
