package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/eventx/internal/config"
	"github.com/joshua-takyi/eventx/internal/connect"
	"github.com/joshua-takyi/eventx/internal/container"
	"github.com/joshua-takyi/eventx/internal/routes"
)

func main() {
	// Load environment variables; real env wins over both files
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("Starting EventX API server", "environment", cfg.Environment)

	cld, err := connect.CloudinaryCredentials(cfg)
	if err != nil {
		logger.Error("Failed to connect to Cloudinary", "error", err)
		os.Exit(1)
	}
	if cld == nil {
		logger.Warn("Cloudinary is not configured, image uploads are disabled")
	}

	mongoClient, err := connect.MongoDBConnect(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to MongoDB successfully", "database", cfg.MongoDBName)

	appContainer := container.NewContainer(cfg, logger, cld, mongoClient)

	setupCtx, cancelSetup := context.WithTimeout(context.Background(), 30*time.Second)
	if err := appContainer.Repo.EnsureIndexes(setupCtx); err != nil {
		cancelSetup()
		logger.Error("Failed to create indexes", "error", err)
		os.Exit(1)
	}
	created, err := appContainer.AuthService.EnsureSuperAdmin(setupCtx, cfg.SuperAdminEmail, cfg.SuperAdminPassword)
	cancelSetup()
	if err != nil {
		logger.Error("Failed to bootstrap super admin", "error", err)
		os.Exit(1)
	}
	if created {
		logger.Info("Super admin created", "email", cfg.SuperAdminEmail)
	}

	router := routes.SetupRoutes(appContainer)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if err := connect.MongoDBDisconnect(mongoClient); err != nil {
		logger.Error("Error disconnecting from MongoDB", "error", err)
	}

	logger.Info("Server exited")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	if cfg.IsProduction() {
		// JSON logging for production
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: parseLevel(cfg.LogLevel),
		})
	} else {
		// Human-readable logging for development
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
