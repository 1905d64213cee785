// Command server runs the chat room.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Tyrowin/chatroom/internal/config"
	"github.com/Tyrowin/chatroom/internal/logging"
	"github.com/Tyrowin/chatroom/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := logging.Setup(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		slog.Error("Failed to configure logging", "error", err)
		os.Exit(1)
	}

	logger.Info("Starting chat server", "port", cfg.Port, "grace_period", cfg.GracePeriod, "metrics", cfg.MetricsEnabled)

	chatServer := server.New(cfg, logger)
	chatServer.Start()

	httpServer := server.CreateServer(cfg.Addr(), chatServer.Routes())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("Shutting down gracefully...")

	if err := server.ShutdownServer(httpServer, 10*time.Second); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	if err := chatServer.Shutdown(5 * time.Second); err != nil {
		logger.Error("Hub shutdown incomplete", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped successfully")
}
