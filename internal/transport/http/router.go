package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/cronjob-sdk/internal/transport/http/handler"
	"github.com/ErlanBelekov/cronjob-sdk/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

// NewRouter mounts the demo API under /api/cron-job. An empty jwtKey leaves
// the routes unauthenticated.
func NewRouter(logger *slog.Logger, h *handler.CronJobHandler, jwtKey []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	var guards []gin.HandlerFunc
	if len(jwtKey) > 0 {
		guards = append(guards, middleware.Auth(jwtKey))
	}

	jobs := r.Group("/api/cron-job", guards...)
	jobs.POST("/test", h.Test)
	jobs.POST("", h.Create)
	jobs.POST("/preview", h.Preview)
	jobs.GET("/all", h.List)
	jobs.GET("/:jobId", h.GetByID)
	jobs.DELETE("/:jobId", h.Delete)

	return r
}
