package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/enrollment-backend/internal/config"
	"github.com/stemsi/enrollment-backend/internal/database"
	"github.com/stemsi/enrollment-backend/internal/handler"
	"github.com/stemsi/enrollment-backend/internal/lock"
	"github.com/stemsi/enrollment-backend/internal/logger"
	"github.com/stemsi/enrollment-backend/internal/repository"
	"github.com/stemsi/enrollment-backend/internal/repository/memory"
	"github.com/stemsi/enrollment-backend/internal/router"
	"github.com/stemsi/enrollment-backend/internal/service"
	"github.com/stemsi/enrollment-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("storage", cfg.StorageBackend).
		Str("lock", cfg.LockBackend).
		Msg("Starting Enrollment Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checks := database.Checks{}

	// ─── Storage ───────────────────────────────────────────────────────
	var (
		subjectRepo service.SubjectStore
		studentRepo service.StudentStore
		pool        *pgxpool.Pool
	)
	switch cfg.StorageBackend {
	case config.StorageMemory:
		store := memory.NewStore()
		subjectRepo, studentRepo = store.Subjects(), store.Students()
		log.Warn().Msg("Using in-memory storage; data is lost on restart")
	case config.StoragePostgres:
		var err error
		pool, err = database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		subjectRepo = repository.NewSubjectRepository(pool)
		studentRepo = repository.NewStudentRepository(pool)
		checks["postgres"] = database.PostgresCheck(pool)
	default:
		log.Fatal().Str("storage", cfg.StorageBackend).Msg("Unknown STORAGE_BACKEND")
	}

	// ─── Student Locks ─────────────────────────────────────────────────
	var locker lock.Locker
	switch cfg.LockBackend {
	case config.LockRedis:
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer closeRedis(rdb, log)
		locker = lock.NewRedisLocker(rdb, cfg.LockTTL, cfg.LockWait, log)
		checks["redis"] = database.RedisCheck(rdb)
	case config.LockMemory:
		locker = lock.NewKeyedMutex(cfg.LockWait)
	default:
		log.Fatal().Str("lock", cfg.LockBackend).Msg("Unknown LOCK_BACKEND")
	}

	// ─── Initialize Services ──────────────────────────────────────────
	subjectService := service.NewSubjectService(subjectRepo, log)
	studentService := service.NewStudentService(studentRepo, subjectRepo, locker, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Student: handler.NewStudentHandler(studentService),
		Subject: handler.NewSubjectHandler(subjectService, studentService),
		System:  handler.NewSystemHandler(checks, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
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

	// Stop accepting new HTTP requests; in-flight ones release their locks on return.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

func closeRedis(rdb *redis.Client, log zerolog.Logger) {
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("Redis close failed")
	}
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
