package routes

import (
	"github.com/gin-gonic/gin"

	"clipnotes/internal/api/v1/handlers"
	"clipnotes/internal/api/v1/services"
)

// ServiceContainer holds the services handlers depend on.
type ServiceContainer struct {
	RunService   services.RunService
	CacheService services.CacheService
}

// RegisterRoutes registers all v1 API routes.
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	runHandler := handlers.NewRunHandler(container.RunService)
	runs := router.Group("/runs")
	{
		runs.POST("", runHandler.Submit)
		runs.GET("/:id/events", runHandler.Events)
		runs.POST("/:id/cancel", runHandler.Cancel)
	}

	cacheHandler := handlers.NewCacheHandler(container.CacheService)
	cache := router.Group("/cache")
	{
		cache.GET("", cacheHandler.List)
		cache.GET("/:fingerprint", cacheHandler.Get)
		cache.DELETE("/:fingerprint", cacheHandler.Delete)
	}
}
