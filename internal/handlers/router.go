package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	apierrors "github.com/provdelegation/portal/api/internal/errors"
	"github.com/provdelegation/portal/api/internal/logger"
	"github.com/provdelegation/portal/api/internal/middleware"
)

// RouterOptions carries the settings the router needs from configuration.
type RouterOptions struct {
	CORSOrigins []string
	AdminToken  string
}

// NewRouter builds the engine with the middleware stack and every route.
// Writes under /api/v1/stats require the admin bearer token.
func NewRouter(
	log *logger.Logger,
	opts RouterOptions,
	health *HealthHandler,
	stats *StatsHandler,
	projects *ProjectHandler,
) *gin.Engine {
	RegisterValidators()

	router := gin.New()

	// Order matters: RequestID -> Logger -> Recovery -> CORS -> Metrics
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(opts.CORSOrigins))
	router.Use(middleware.Metrics())

	router.GET("/health", health.Health)
	router.GET("/health/ready", health.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/info", health.Info)
		v1.GET("/sites", stats.ListSites)
		v1.GET("/projects", projects.List)

		statsGroup := v1.Group("/stats")
		{
			statsGroup.GET("/structural", stats.GetStructural)
			statsGroup.GET("/province", stats.ListProvince)
			statsGroup.GET("/sites", stats.ListSiteStats)
			statsGroup.GET("/totals", stats.Totals)
			statsGroup.GET("/breakdown", stats.Breakdown)

			admin := statsGroup.Group("", middleware.AdminAuth(opts.AdminToken))
			admin.POST("/structural", stats.SaveStructural)
			admin.POST("/province", stats.SaveProvince)
			admin.POST("/sites", stats.SaveSiteStats)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "Route not found")
	})

	return router
}
