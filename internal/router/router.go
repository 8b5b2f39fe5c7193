package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/enrollment-backend/internal/config"
	"github.com/stemsi/enrollment-backend/internal/handler"
	"github.com/stemsi/enrollment-backend/internal/middleware"
	"github.com/stemsi/enrollment-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Student *handler.StudentHandler
	Subject *handler.SubjectHandler
	System  *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request IDs first so the access log and every envelope can carry them.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.AccessLog(log))
	router.Use(middleware.Brotli())

	router.GET("/health", handlers.System.Health)

	api := router.Group("/api/v1")

	// ─── Students ──────────────────────────────────────────────────────
	students := api.Group("/students")
	{
		students.GET("", handlers.Student.List)
		students.POST("", handlers.Student.Create)
		students.GET("/:id", handlers.Student.Get)
		students.PUT("/:id", handlers.Student.Update)
		students.PATCH("/:id", handlers.Student.UpdateProfile)
		students.DELETE("/:id", handlers.Student.Delete)
		students.PUT("/:id/subjects", handlers.Student.AssignSubjects)
	}

	// ─── Subjects ──────────────────────────────────────────────────────
	subjects := api.Group("/subjects")
	{
		subjects.GET("", handlers.Subject.GetAll)
		subjects.POST("", handlers.Subject.Create)
		subjects.GET("/:id", handlers.Subject.Get)
		subjects.PUT("/:id", handlers.Subject.Update)
		subjects.DELETE("/:id", handlers.Subject.Delete)
		subjects.GET("/:id/students", handlers.Subject.Students)
	}

	api.GET("/system/runtime", handlers.System.Runtime)

	return router
}
