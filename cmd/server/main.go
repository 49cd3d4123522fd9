package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/skillprobe/skillprobe-backend/internal/config"
	"github.com/skillprobe/skillprobe-backend/internal/database"
	"github.com/skillprobe/skillprobe-backend/internal/face"
	"github.com/skillprobe/skillprobe-backend/internal/generator"
	"github.com/skillprobe/skillprobe-backend/internal/handler"
	"github.com/skillprobe/skillprobe-backend/internal/logger"
	"github.com/skillprobe/skillprobe-backend/internal/repository"
	"github.com/skillprobe/skillprobe-backend/internal/router"
	"github.com/skillprobe/skillprobe-backend/internal/service"
	"github.com/skillprobe/skillprobe-backend/internal/storage"
	"github.com/skillprobe/skillprobe-backend/internal/validator"
	"github.com/skillprobe/skillprobe-backend/internal/websocket"
	"github.com/skillprobe/skillprobe-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting SkillProbe Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	attemptRepo := repository.NewAttemptRepository(pool)
	candidateRepo := repository.NewCandidateRepository(pool)
	jobRepo := repository.NewJobRepository(pool)
	mcqRepo := repository.NewMCQRepository(pool)
	violationRepo := repository.NewViolationRepository(pool)
	sessionStore := repository.NewSessionStore(rdb, cfg.SessionTTL)

	// ─── Initialize External Collaborators ─────────────────────────────
	blobs := buildBlobStore(ctx, cfg, log)

	var questionGen generator.QuestionGenerator
	if cfg.GeminiAPIKey != "" {
		questionGen, err = generator.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize question generator")
		}
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, real-time question generation disabled")
	}

	comparator, err := face.NewVisionComparator(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize face comparator")
	}
	defer comparator.Close()

	// ─── Initialize Services ──────────────────────────────────────────
	locks := service.NewAttemptLocks()
	publisher := websocket.NewRedisPublisher(rdb)
	questionQueue := worker.NewQueue(rdb)

	proctoringService := service.NewProctoringService(service.ProctoringDeps{
		Attempts:          attemptRepo,
		Sessions:          sessionStore,
		Violations:        violationRepo,
		Blobs:             blobs,
		Comparator:        comparator,
		Publisher:         publisher,
		Locks:             locks,
		ImageFetchTimeout: cfg.ImageFetchTimeout,
		Logger:            log,
	})

	assessmentService := service.NewAssessmentService(service.AssessmentDeps{
		Attempts:          attemptRepo,
		Candidates:        candidateRepo,
		Jobs:              jobRepo,
		MCQs:              mcqRepo,
		Sessions:          sessionStore,
		Reconciler:        proctoringService,
		Generator:         questionGen,
		Queue:             questionQueue,
		Locks:             locks,
		SessionTTL:        cfg.SessionTTL,
		GenerationTimeout: cfg.GenerationTimeout,
		ScheduleLocation:  cfg.ScheduleLocation(),
		Logger:            log,
	})

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Assessment: handler.NewAssessmentHandler(assessmentService, log),
		Proctoring: handler.NewProctoringHandler(proctoringService, cfg.MaxUploadBytes, log),
		Monitor:    handler.NewMonitorHandler(rdb, cfg.AllowedOrigins, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	persistWorker := worker.NewQuestionPersistWorker(mcqRepo, rdb, log)
	go persistWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for the queue to drain.
	workerCancel()
	time.Sleep(2 * time.Second)

	log.Info().Msg("Shutdown complete")
}

// buildBlobStore selects the configured blob driver.
func buildBlobStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) storage.BlobStore {
	switch cfg.BlobDriver {
	case "gcs":
		var opts []option.ClientOption
		store, err := storage.NewGCSStore(ctx, cfg.GCSBucket, opts...)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize GCS blob store")
		}
		return store
	default:
		store, err := storage.NewFSStore(cfg.UploadDir, cfg.PublicBaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize filesystem blob store")
		}
		return store
	}
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
