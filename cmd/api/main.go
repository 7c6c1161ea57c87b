package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alfredoptarigan/career-copilot/internal/config"
	"alfredoptarigan/career-copilot/internal/handlers"
	"alfredoptarigan/career-copilot/internal/logging"
	"alfredoptarigan/career-copilot/internal/metrics"
	"alfredoptarigan/career-copilot/internal/models"
	"alfredoptarigan/career-copilot/internal/repositories"
	"alfredoptarigan/career-copilot/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logging.New(cfg.Log, os.Stdout)
	log.Info().Msg("✅ Config loaded successfully")

	metrics.MustRegister()

	// Initialize history database
	db, err := config.InitHistoryDatabase(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize history database")
	}

	submissionRepo := repositories.NewSubmissionRepository(db)
	log.Info().Msg("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.DownloadPath, cfg.Server.MaxUploadSize)
	if err := storageService.EnsureDownloadDir(); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to create download directory")
	}
	resumeFetcher := services.NewResumeFetcher(storageService, services.NewPDFParserService(), cfg.Backend.HTTPTimeout, log)

	dispatcher := services.NewDispatcher(
		cfg.Backend.BaseURL,
		cfg.Backend.HTTPTimeout,
		services.WithDispatcherLogger(log),
	)
	recorder := services.NewHistoryRecorder(submissionRepo, log)
	controllerOpts := []services.ControllerOption{
		services.WithRecorder(recorder),
		services.WithControllerLogger(log),
	}

	frames := services.NewFrameBuffer()
	gate := services.NewSessionGate(frames, dispatcher, cfg.Session.LoginTransitionDelay, services.WithGateLogger(log))
	orchestrator := services.NewOrchestrator(
		gate,
		services.NewInterviewController(dispatcher, controllerOpts...),
		services.NewResumeController(dispatcher, controllerOpts...),
		services.NewVerifyController(dispatcher, services.NewEncoder(), controllerOpts...),
	)
	log.Info().Str("backend", cfg.Backend.BaseURL).Msg("✅ Services initialized successfully")

	// Initialize Handlers
	routes := handlers.Handlers{
		Session:  handlers.NewSessionHandler(orchestrator, frames),
		Workflow: handlers.NewWorkflowHandler(orchestrator, cfg.Server.MaxUploadSize),
		State:    handlers.NewStateHandler(orchestrator),
		History:  handlers.NewHistoryHandler(submissionRepo),
		Resume:   handlers.NewResumeHandler(orchestrator, resumeFetcher),
	}
	log.Info().Msg("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Career Copilot API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Backend.HTTPTimeout + 30*time.Second,
		BodyLimit:    int(cfg.Server.MaxUploadSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":        "healthy",
			"authenticated": gate.Authenticated(),
			"time":          time.Now(),
		})
	})

	routes.Register(api)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Career Copilot API",
			"version": "1.0.0",
			"tabs":    models.Workflows,
			"endpoints": []string{
				"POST /api/v1/session/frame",
				"POST /api/v1/session/login",
				"GET /api/v1/state",
				"PUT /api/v1/tab",
				"PUT /api/v1/fields",
				"POST /api/v1/file",
				"POST /api/v1/submit",
				"POST /api/v1/resume/download",
				"GET /api/v1/history",
				"GET /api/v1/history/:id",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("🛑 Shutting down server...")
		if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
			log.Error().Err(err).Msg("❌ Server forced to shutdown")
		}

	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("🚀 Server starting")

	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to start server")
	}

	// In-flight workflow requests are never cancelled; give them the
	// shutdown window to land in the history.
	drained := make(chan struct{})
	go func() {
		orchestrator.Wait()
		close(drained)
	}()
	select {
	case <-drained:
		log.Info().Msg("✅ In-flight workflows drained")
	case <-time.After(cfg.Server.ShutdownTimeout):
		log.Warn().Msg("⚠️  Exiting with workflows still in flight")
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Error: err.Error(),
		Code:  code,
	})
}
