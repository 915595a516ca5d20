package router

import (
	"po-analytics/internal/handler"
	"po-analytics/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAPIRoutes(router fiber.Router, deps *Dependencies) {
	cfg := deps.Config

	// Initialize handlers
	authHandler := handler.NewAuthHandler(deps.Auth)
	uploadHandler := handler.NewUploadHandler(deps.Analysis, deps.Excel, cfg)
	analysisHandler := handler.NewAnalysisHandler(deps.Analysis)
	exportHandler := handler.NewExportHandler(deps.Analysis, deps.Exports)
	reportJobHandler := handler.NewReportJobHandler(deps.Analysis, deps.Jobs, deps.AsynqClient, cfg)

	owner := handler.SessionOwner(deps.Analysis)

	// Public routes
	auth := router.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/logout", authHandler.Logout)

	router.Get("/ranges", analysisHandler.GetRanges)

	// Protected routes
	protected := router.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/auth/me", authHandler.Me)

	// Upload routes
	uploads := protected.Group("/uploads")
	uploads.Post("/", uploadHandler.UploadFile)
	uploads.Get("/", uploadHandler.GetSessions)
	uploads.Get("/export", uploadHandler.ExportSessions)
	uploads.Get("/:code", owner, uploadHandler.GetSessionDetail)
	uploads.Delete("/:code", owner, uploadHandler.DeleteSession)

	// Analysis routes
	sessions := protected.Group("/sessions/:code")
	sessions.Get("/analysis", owner, analysisHandler.GetAnalysis)
	sessions.Get("/vendors", owner, analysisHandler.GetVendors)
	sessions.Get("/breakdown", owner, analysisHandler.GetBreakdown)
	sessions.Get("/transactions", owner, analysisHandler.GetTransactions)
	sessions.Get("/export/:format", owner, exportHandler.Download)
	sessions.Post("/reports", owner, reportJobHandler.Enqueue)

	// Report job routes
	reports := protected.Group("/reports")
	reports.Get("/:id", reportJobHandler.Status)
	reports.Get("/:id/download", reportJobHandler.Download)
}
