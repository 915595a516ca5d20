package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"po-analytics/internal/config"
	"po-analytics/internal/database"
	"po-analytics/internal/router"
	"po-analytics/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

const sweepInterval = 5 * time.Minute

func main() {
	log := utils.GetLogger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database (optional - upload audit log and accounts)
	var db *sqlx.DB
	if cfg.DBEnabled {
		db, err = database.NewMySQL(cfg)
		if err != nil {
			log.WithError(err).Warn("Failed to connect to database")
			log.Warn("Application will continue without database (audit log and accounts disabled)")
			db = nil
		} else {
			defer db.Close()
		}
	}

	// Initialize Redis (optional - shared datasets and background jobs)
	redisClient, err := database.NewRedis(cfg)
	if err != nil {
		log.WithError(err).Warn("Failed to connect to Redis")
		log.Warn("Application will continue without Redis (datasets kept in memory, background jobs disabled)")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	deps := router.NewDependencies(db, redisClient, cfg)
	defer deps.Close()

	stopSweeper := make(chan struct{})
	if deps.Memory != nil {
		go func() {
			ticker := time.NewTicker(sweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if n := deps.Memory.Sweep(); n > 0 {
						log.WithField("sessions", n).Info("Expired in-memory datasets removed")
					}
				case <-stopSweeper:
					return
				}
			}
		}()
	}

	// Initialize template engine
	engine := html.New("./views", ".html")
	engine.Reload(cfg.AppEnv == "development")

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		Views:        engine,
		BodyLimit:    cfg.UploadMaxSize,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	// Setup routes
	router.Setup(app, deps)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Gracefully shutting down...")
		close(stopSweeper)
		_ = app.Shutdown()
	}()

	// Start server
	port := fmt.Sprintf(":%s", cfg.AppPort)
	log.WithFields(logrus.Fields{
		"port":   port,
		"env":    cfg.AppEnv,
		"locale": cfg.AppLocale,
	}).Info("Server starting")
	if err := app.Listen(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Info("Server exited")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	// Check if request expects JSON
	if strings.HasPrefix(c.Path(), "/api/") || c.Accepts(fiber.MIMETextHTML) == "" {
		return utils.ErrorResponse(c, code, message, err)
	}

	// Return HTML error page
	return c.Status(code).Render("error", fiber.Map{
		"Title":   "Error",
		"Code":    code,
		"Message": message,
	}, "layouts/main")
}
