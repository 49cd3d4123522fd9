package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/skillprobe/skillprobe-backend/internal/config"
	"github.com/skillprobe/skillprobe-backend/internal/handler"
	"github.com/skillprobe/skillprobe-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Assessment *handler.AssessmentHandler
	Proctoring *handler.ProctoringHandler
	Monitor    *handler.MonitorHandler
}

// SetupRouter configures all Gin route groups.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Serve uploads statically when the filesystem blob driver is active.
	if cfg.BlobDriver == "fs" {
		router.Static("/uploads", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── Assessment Lifecycle ──────────────────────────────────────────
	assessments := router.Group("/api/v1/assessments")
	{
		assessments.POST("/:attempt_id/start", handlers.Assessment.Start)
		assessments.POST("/:attempt_id/next-question", handlers.Assessment.NextQuestion)
		assessments.POST("/:attempt_id/answer", handlers.Assessment.SubmitAnswer)
		assessments.POST("/:attempt_id/end", handlers.Assessment.End)
		assessments.GET("/:attempt_id/results", handlers.Assessment.Results)

		// Proctoring capture
		assessments.POST("/:attempt_id/snapshot", handlers.Proctoring.CaptureSnapshot)
		assessments.POST("/:attempt_id/violation", handlers.Proctoring.StoreViolation)
	}

	router.GET("/api/v1/candidates/:candidate_id/assessments", handlers.Assessment.ListByCandidate)

	// ─── WebSocket Monitoring ──────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/assessments/:attempt_id/monitor", handlers.Monitor.MonitorAttempt)
	}

	return router
}
