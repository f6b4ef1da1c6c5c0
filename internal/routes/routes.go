package routes

import (
	"time"

	"tasks-api/internal/handlers"
	"tasks-api/internal/middleware"
	"tasks-api/internal/monitoring"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Register mounts the task routes on r.
func Register(r gin.IRouter, taskHandler *handlers.TaskHandler) {
	tasks := r.Group("/tasks")
	{
		tasks.GET("", handlers.Wrap(taskHandler.GetTasks))
		tasks.GET("/:taskId", handlers.Wrap(taskHandler.GetTaskByID))
		tasks.POST("", handlers.Wrap(taskHandler.CreateTask))
		tasks.PUT("/:taskId", handlers.Wrap(taskHandler.UpdateTask))
		tasks.DELETE("/:taskId", handlers.Wrap(taskHandler.DeleteTask))
	}
}

// RegisterOps mounts the health, readiness, liveness and metrics endpoints.
func RegisterOps(r gin.IRouter, monitor *monitoring.Monitor) {
	r.GET("/health", monitor.HealthHandler())
	r.GET("/ready", monitor.ReadinessHandler())
	r.GET("/live", monitor.LivenessHandler())
	r.GET("/metrics", monitor.MetricsHandler())
}

// NewRouter builds the engine with the global middleware chain and all routes.
func NewRouter(taskHandler *handlers.TaskHandler, monitor *monitoring.Monitor, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestIDMiddleware(),
		middleware.RecoveryWithLog(),
		gin.Logger(),
		monitor.Metrics().Middleware(),
		cors.New(CORSConfig(allowedOrigins)),
		middleware.ErrorResponder(),
	)

	RegisterOps(router, monitor)
	Register(router, taskHandler)
	return router
}

// CORSConfig allows every origin when the list is empty or contains "*".
func CORSConfig(allowedOrigins []string) cors.Config {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	allowAll := len(allowedOrigins) == 0
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
			break
		}
	}

	if allowAll {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = allowedOrigins
	}
	return config
}
