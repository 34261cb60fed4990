package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ReplicantCoder9000/projectSoulSync/internal/api"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/config"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/platform/logger"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/store/gormstore"
)

func main() {
	// A local .env is optional; real deployments configure the
	// environment directly.
	_ = godotenv.Load()

	log := logger.New("soulsync-api")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("SoulSync API starting")

	st, err := gormstore.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Storage unavailable")
	}
	defer func() { _ = st.Close() }()

	router := api.NewRouter(st, cfg, log)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
