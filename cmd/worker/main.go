package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"po-analytics/internal/config"
	"po-analytics/internal/database"
	"po-analytics/internal/repository"
	"po-analytics/internal/service"
	"po-analytics/internal/utils"
	"po-analytics/internal/worker"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
)

func main() {
	log := utils.GetLogger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database (optional - session expiry in the audit log)
	var db *sqlx.DB
	var uploadRepo *repository.UploadRepository
	if cfg.DBEnabled {
		db, err = database.NewMySQL(cfg)
		if err != nil {
			log.WithError(err).Warn("Failed to connect to database, audit log disabled")
		} else {
			defer db.Close()
			uploadRepo = repository.NewUploadRepository(db)
		}
	}

	// Initialize Redis; datasets and job records live there
	redisClient, err := database.NewRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	if err := os.MkdirAll(cfg.ExportPath, 0o755); err != nil {
		log.Fatalf("Failed to create export directory: %v", err)
	}

	excelService := service.NewExcelService()
	analysisService := service.NewAnalysisService(
		repository.NewRedisDatasetStore(redisClient),
		uploadRepo,
		excelService,
		cfg.SessionTTL,
		log,
	)
	exportService := service.NewExportService(
		service.NewReportService(),
		service.NewPDFService(utils.NewNumberFormatter(cfg.AppLocale)),
		service.NewCSVService(),
	)
	reportHandler := worker.NewReportTaskHandler(
		analysisService,
		exportService,
		repository.NewRedisJobStore(redisClient),
		cfg.ExportPath,
		log,
	)

	// Create Asynq server
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		},
		asynq.Config{
			Concurrency: cfg.WorkerConcurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.WithError(err).WithField("task", task.Type()).Error("Error processing task")
			}),
		},
	)

	// Register task handlers
	mux := asynq.NewServeMux()
	worker.RegisterHandlers(mux, reportHandler)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Gracefully shutting down worker...")
		srv.Shutdown()
	}()

	// Start worker
	log.WithField("concurrency", cfg.WorkerConcurrency).Info("Worker starting")
	if err := srv.Run(mux); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}

	log.Info("Worker exited")
}
