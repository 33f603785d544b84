package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"go-model-comparator/internal/config"
	"go-model-comparator/internal/container"
	"go-model-comparator/internal/logger"
)

func main() {
	// Local development convenience; a missing .env is fine
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	server := &http.Server{
		Addr:        cfg.ServerAddress(),
		Handler:     c.Handler(),
		ReadTimeout: cfg.RequestTimeout,
		// Comparisons stream nothing; the write deadline must outlive the
		// slowest fan-out
		WriteTimeout: cfg.RequestTimeout + 30*time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"address":         cfg.ServerAddress(),
			"request_timeout": cfg.RequestTimeout.String(),
			"invoke_timeout":  cfg.InvokeTimeout.String(),
		}).Info("Starting HTTP server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Failed to start server")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
		os.Exit(1)
	}

	logger.Info("Server exited")
}
