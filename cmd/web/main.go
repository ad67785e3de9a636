// Package main provides the entry point for the rubconv web server
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"rubconv/internal/api/routes"
	"rubconv/internal/api/server"
	"rubconv/internal/auth"
	"rubconv/internal/catalog"
	"rubconv/internal/config"
	"rubconv/internal/converter"
	"rubconv/internal/logging"
	"rubconv/internal/models"
	"rubconv/internal/rates"
	"rubconv/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Parse command line flags
	envFile := flag.String("env", ".env", "Path to env file")
	issueToken := flag.String("issue-token", "", "Print an operator token for the given subject and exit")
	flag.Parse()

	// Load environment file
	if err := godotenv.Load(*envFile); err != nil && *envFile == ".env" {
		log.Printf("Warning: %v", err)
	}

	// Load configuration
	cfg := &config.Config{}
	if err := cfg.LoadFromEnv(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	authService := auth.NewService(cfg.Auth)
	if *issueToken != "" {
		if err := printToken(authService, *issueToken); err != nil {
			log.Fatalf("Failed to issue token: %v", err)
		}
		return
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	gin.SetMode(cfg.API.Mode)

	// Initialize validators
	validation.Initialize()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := rates.NewClient(cfg.Upstream, nil, logger)
	lookup := catalog.NewLookup(client, logger)

	// A failed first load is retried by the form page and the scheduler
	if err := lookup.Refresh(ctx); err != nil {
		logger.Warn("Initial currency list load failed", zap.Error(err))
	}

	go func() {
		if err := lookup.StartScheduler(ctx, cfg.Catalog.RefreshSchedule); err != nil {
			logger.Error("Currency list scheduler stopped", zap.Error(err))
		}
	}()

	router, stopRoutes := routes.SetupRoutes(cfg, routes.Dependencies{
		Catalog:   lookup,
		Converter: converter.NewService(client, logger),
		Tokens:    authService,
		Logger:    logger,
	})
	defer stopRoutes()

	srv, err := server.New(cfg.API, router, logger)
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}
	if err := srv.Run(ctx); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

func printToken(svc *auth.Service, subject string) error {
	token, err := svc.GenerateToken(subject)
	if err != nil {
		return err
	}
	out, err := json.Marshal(models.TokenResponse{Token: token})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}
