package router

import (
	"po-analytics/internal/config"
	"po-analytics/internal/handler"
	"po-analytics/internal/repository"
	"po-analytics/internal/service"
	"po-analytics/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Dependencies holds the services shared by the web and API routes. DB and Redis are
// optional; without Redis datasets live in process memory and background reports are
// disabled.
type Dependencies struct {
	Config    *config.Config
	Formatter *utils.NumberFormatter

	Datasets repository.DatasetStore
	Jobs     repository.JobStore

	// Memory is set when datasets live in process memory and need sweeping
	Memory      *repository.MemoryDatasetStore
	AsynqClient *asynq.Client

	Auth     *service.AuthService
	Excel    *service.ExcelService
	Analysis *service.AnalysisService
	Exports  *service.ExportService
}

func NewDependencies(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) *Dependencies {
	deps := &Dependencies{
		Config:    cfg,
		Formatter: utils.NewNumberFormatter(cfg.AppLocale),
		Excel:     service.NewExcelService(),
	}

	if rdb != nil {
		deps.Datasets = repository.NewRedisDatasetStore(rdb)
		deps.Jobs = repository.NewRedisJobStore(rdb)
		deps.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		})
	} else {
		deps.Memory = repository.NewMemoryDatasetStore()
		deps.Datasets = deps.Memory
	}

	var uploadRepo *repository.UploadRepository
	var userRepo *repository.UserRepository
	if db != nil {
		uploadRepo = repository.NewUploadRepository(db)
		userRepo = repository.NewUserRepository(db)
	}

	deps.Auth = service.NewAuthService(userRepo, cfg)
	deps.Analysis = service.NewAnalysisService(deps.Datasets, uploadRepo, deps.Excel, cfg.SessionTTL, utils.GetLogger())
	deps.Exports = service.NewExportService(
		service.NewReportService(),
		service.NewPDFService(deps.Formatter),
		service.NewCSVService(),
	)

	return deps
}

// Close releases the asynq client, if any
func (d *Dependencies) Close() error {
	if d.AsynqClient != nil {
		return d.AsynqClient.Close()
	}
	return nil
}

func Setup(app *fiber.App, deps *Dependencies) {
	cfg := deps.Config

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":          "ok",
			"app":             cfg.AppName,
			"background_jobs": deps.AsynqClient != nil,
			"timestamp":       utils.GetCurrentTimestamp(),
		})
	})

	// Web routes (HTML)
	web := app.Group("")
	setupWebRoutes(web, deps)

	// API routes (JSON)
	api := app.Group("/api/v1")
	SetupAPIRoutes(api, deps)
}

func setupWebRoutes(router fiber.Router, deps *Dependencies) {
	webHandler := handler.NewWebHandler(deps.Analysis, deps.Formatter, deps.Config.AppName, deps.Config.UploadMaxSize)
	exportHandler := handler.NewExportHandler(deps.Analysis, deps.Exports)

	router.Get("/", webHandler.Index)
	router.Post("/upload", webHandler.Upload)
	router.Get("/analysis/:code", webHandler.Analysis)
	router.Get("/analysis/:code/download/:format", exportHandler.Download)
}
