package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goals-api/internal/config"
	"goals-api/internal/db"
	"goals-api/internal/logger"
	"goals-api/internal/server"
)

func main() {
	cfg := config.Load()
	log := logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)

	database, err := db.Connect(cfg.DBDriver, cfg.ConnString(), db.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		log.Error("❌ failed to connect DB", "error", err)
		os.Exit(1)
	}
	defer db.Close(database)

	if cfg.DBAutoMigrate {
		if err := db.RunMigrations(database.DB, cfg.DBDriver); err != nil {
			log.Error("❌ migrations failed", "error", err)
			os.Exit(1)
		}
	}

	if !cfg.AuthEnabled() {
		log.Warn("JWT_SECRET not set, /goals is unauthenticated")
	}

	handler := server.NewRouter(database, log, server.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		JWTSecret:      cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("🚀 API server is running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	log.Info("server stopped")
}
