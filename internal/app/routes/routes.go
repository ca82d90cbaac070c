package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yigit/coursegen/internal/app/controllers"
	"github.com/yigit/coursegen/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	scheduleController *controllers.ScheduleController,
	limiter *middleware.ClientLimiter,
) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version group
	v1 := router.Group("/api/v1")
	v1.GET("/health", scheduleController.Health)

	schedules := v1.Group("/schedules")
	{
		schedules.GET("/categories", scheduleController.GetCategories)
		// searches are CPU bound, only generation is rate limited
		schedules.POST("/generate", middleware.RateLimit(limiter), scheduleController.GenerateSchedules)
	}
}
