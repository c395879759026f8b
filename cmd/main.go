/*
Package main is the entry point for the LinguaChat Server.

It is responsible for loading configuration, initializing the global logging system,
choosing the repository backend, starting the relay Hub, setting up the HTTP server,
and gracefully handling operating system interrupt signals (SIGINT, SIGTERM)
to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linguachat/internal/app/db"
	"linguachat/internal/app/relay"
	"linguachat/internal/app/repo"
	"linguachat/internal/app/translate"
	"linguachat/internal/configs"
	"linguachat/internal/handler"
	"linguachat/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("translator_url", cfg.TranslatorURL).
		Str("baseline_language", cfg.BaselineLanguage).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Choose the repository backend: PostgreSQL when a DSN is configured,
	// otherwise the seeded in-memory demo store.
	var repository repo.Repository
	if cfg.DatabaseDSN != "" {
		pool, err := db.NewPool(cfg.DatabaseDSN)
		if err != nil {
			logx.Fatal(err, "Failed to initialize database")
		}
		defer pool.Close()

		repository = repo.NewPostgresRepository(pool)
		logx.Info("Using PostgreSQL repository")
	} else {
		repository = repo.NewSeededMemoryRepository()
		logx.Info("Using seeded in-memory repository")
	}

	// Translation collaborator client
	translator := translate.NewHTTPTranslator(cfg.TranslatorURL, cfg.TranslatorTimeout)

	// Initialize relay Hub
	hub := relay.NewHub(repository, translator, cfg.BaselineLanguage)

	// Setup HTTP server and routes
	router := handler.Router(&handler.AppDeps{
		Hub:    hub,
		Config: cfg,
		Repo:   repository,
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("LinguaChat Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	hub.Shutdown()

	logx.Info("Server gracefully stopped.")
}
