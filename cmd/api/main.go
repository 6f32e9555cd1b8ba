package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkwell/inkwell-backend/internal/api"
	"github.com/inkwell/inkwell-backend/internal/config"
	"github.com/inkwell/inkwell-backend/internal/log"
	"github.com/inkwell/inkwell-backend/internal/metrics"
	"github.com/inkwell/inkwell-backend/internal/repository"
	"github.com/inkwell/inkwell-backend/internal/service"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := log.NewSugar(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Infow("Starting inkwell API server",
		"env", cfg.Env,
		"addr", cfg.HTTPAddr,
	)

	metricsObj, metricsHandler, err := metrics.Setup("inkwell-api")
	if err != nil {
		logger.Fatalw("Failed to setup metrics", "error", err)
	}

	db, err := sql.Open("pgx", cfg.Database.PostgresDSN)
	if err != nil {
		logger.Fatalw("Failed to open database", "error", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.Fatalw("Database ping failed", "error", err)
	}
	logger.Infow("Database connection established")

	// Stores and services
	postStore := repository.NewPostStore(db, logger)
	blockStore := repository.NewBlockStore(db, logger)
	tagStore := repository.NewTagStore(db, logger)
	txManager := repository.NewTxManager(db)

	postSvc := service.NewPostService(postStore, blockStore, tagStore, txManager, cfg.Uploads.PathPrefix, logger, metricsObj)
	tagSvc := service.NewTagService(tagStore, logger)

	handler := api.NewHandler(postSvc, tagSvc, db, logger)
	mw := api.NewMiddleware(logger, metricsObj)
	router := handler.Routes(mw, cfg, metricsHandler)

	logger.Infow("CORS configured", "allowed_origins", cfg.Security.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Infow("API server starting", "addr", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Fatalw("Server startup failed", "error", err)
	case sig := <-shutdown:
		logger.Infow("Shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorw("Graceful shutdown failed", "error", err)
			if err := server.Close(); err != nil {
				logger.Fatalw("Forced shutdown failed", "error", err)
			}
		}
		logger.Infow("Server stopped")
	}
}
