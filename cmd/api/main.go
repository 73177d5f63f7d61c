/*
Package main - DBR Overtime Engine Backend Entry Point

==============================================================================
FILE: cmd/api/main.go
==============================================================================

DESCRIPTION:
    Entry point for the DBR 2026 time-registration/overtime backend: wires
    the config, database, rate table, preview cache, Danløn OAuth/GraphQL
    broker, and sync orchestrator into the HTTP router, then serves until
    an interrupt triggers a graceful shutdown.

ARCHITECTURE:
    main() → LoadAppConfig → logger.Setup → database.NewConnection
           → database.Migrate → ratetable.Loader.Load() → cache.NewStore
           → danlon.LoadConfig (+ repositories + OAuthBroker + GraphQLClient)
           → sync.NewOrchestrator → api.NewRouter → http.Server
                                                         ↓
    srv.Shutdown ← signal wait ← srv.ListenAndServe ← router.Setup()

==============================================================================
*/
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"backend/internal/api"
	"backend/internal/cache"
	"backend/internal/config"
	"backend/internal/danlon"
	"backend/internal/database"
	"backend/internal/logger"
	"backend/internal/ratetable"
	"backend/internal/repositories"
	"backend/internal/sync"
)

// previewSessionTTL is how long an uploaded-but-unsynced preview stays
// cached before C7's sweep-on-insert discards it.
const previewSessionTTL = time.Hour

func main() {
	cfg, err := config.LoadAppConfig()
	if err != nil {
		log.Fatalf("Failed to load application configuration: %v", err)
	}

	appLogger := logger.Setup(cfg.Env)

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.DBDriver)
	if err != nil {
		appLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		appLogger.Fatalf("Migration failed: %v", err)
	}

	rates, err := ratetable.NewLoader(cfg.RateTableDir).Load()
	if err != nil {
		appLogger.Fatalf("Failed to load rate table: %v", err)
	}
	appLogger.Info("rate table loaded")

	previewCache := cache.NewStore(previewSessionTTL)

	danlonConfig := danlon.LoadConfig()
	if cfg.DanlonClientSecret != "" {
		danlonConfig.ClientSecret = cfg.DanlonClientSecret
	}

	tokenRepo := repositories.NewOAuthTokenRepository(db)
	pendingRepo := repositories.NewPendingSessionRepository(db)
	payCodeRepo := repositories.NewPayCodeMappingRepository(db)
	employeeMapRepo := repositories.NewEmployeeMappingRepository(db)

	graphClient := danlon.NewGraphQLClient(danlonConfig, appLogger)
	broker := danlon.NewOAuthBroker(danlonConfig, tokenRepo, graphClient, appLogger)
	orchestrator := sync.NewOrchestrator(previewCache, payCodeRepo, employeeMapRepo, broker, graphClient, appLogger)

	previewHandler := api.NewPreviewHandler(previewCache, appLogger)
	exportHandler := api.NewExportHandler(previewCache, rates, appLogger)
	danlonHandler := api.NewDanlonHandler(broker, graphClient, tokenRepo, pendingRepo, payCodeRepo, employeeMapRepo, orchestrator, appLogger)
	healthHandler := api.NewHealthHandler(db)

	router := api.NewRouter(cfg, previewHandler, exportHandler, danlonHandler, healthHandler)
	engine := router.Setup(appLogger)

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.ServerPort),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Infof("Starting server on port %s in %s mode", strconv.Itoa(cfg.ServerPort), cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatalf("Server forced to shutdown: %v", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.Close()
	}

	appLogger.Info("Server exited properly")
}
