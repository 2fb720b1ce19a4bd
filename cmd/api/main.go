package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"

	"alfredoptarigan/interview-coach/internal/bootstrap"
	"alfredoptarigan/interview-coach/internal/config"
	"alfredoptarigan/interview-coach/internal/handlers"
)

func main() {
	// Load configuration
	cfg := config.Load()
	config.SetupLogging(cfg)
	log.Info("✅ Config loaded successfully")

	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize services: %v", err)
	}
	if cfg.Gemini.APIKey == "" {
		log.Warn("⚠️  GEMINI_API_KEY is not set, evaluations will fail until it is configured")
	}
	log.Infof("✅ Evaluation pipeline ready (daily limit %d, temp dir %s)", cfg.Quota.DailyLimit, cfg.Storage.TempDir)

	evaluateHandler := handlers.NewEvaluationHandler(app.Evaluator, cfg.Quota.DailyLimit)
	healthHandler := handlers.NewHealthHandler(app.Admission)

	server := fiber.New(fiber.Config{
		AppName:      "AI Interview Coach API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    cfg.BodyLimit(),
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	server.Use(recover.New())
	server.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	server.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: "POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	handlers.Register(server, evaluateHandler, healthHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("🛑 Shutting down server...")
		if err := server.Shutdown(); err != nil {
			log.Errorf("❌ Server forced to shutdown: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Infof("🚀 Server starting on %s", addr)

	if err := server.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
