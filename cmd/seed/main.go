package main

import (
	"context"
	"time"

	"github.com/stemsi/enrollment-backend/internal/config"
	"github.com/stemsi/enrollment-backend/internal/database"
	"github.com/stemsi/enrollment-backend/internal/lock"
	"github.com/stemsi/enrollment-backend/internal/logger"
	"github.com/stemsi/enrollment-backend/internal/repository"
	"github.com/stemsi/enrollment-backend/internal/seed"
	"github.com/stemsi/enrollment-backend/internal/service"
	"github.com/stemsi/enrollment-backend/internal/validator"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat).With().Str("component", "seed").Logger()
	validator.Setup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	subjectRepo := repository.NewSubjectRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)

	subjectService := service.NewSubjectService(subjectRepo, log)
	studentService := service.NewStudentService(studentRepo, subjectRepo, lock.NewKeyedMutex(cfg.LockWait), log)

	if _, err := seed.Run(ctx, subjectService, studentService, log); err != nil {
		log.Fatal().Err(err).Msg("Seed failed")
	}
}
