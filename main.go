// Copyright (c) 2025 Niranjan Bala.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/niranjanbala/myavatar/cliparse"
	"github.com/niranjanbala/myavatar/db"
	"github.com/niranjanbala/myavatar/heygen"
	"github.com/niranjanbala/myavatar/middleware"
	"github.com/niranjanbala/myavatar/router"
)

func main() {
	var err error

	// Load .env if present; real env vars win
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	var dbConn *sql.DB
	if cfg.DemoMode() {
		slog.Warn("no DATABASE_URL configured, running in demo mode with in-memory data")
	} else {
		driver := "postgres"
		if cfg.DatabaseType == "sqlite" {
			driver = "sqlite"
		}

		dbConn, err = sql.Open(driver, cfg.DatabaseURL)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer dbConn.Close()

		// Verify connection
		if err := dbConn.Ping(); err != nil {
			slog.Error("database ping failed", "error", err)
			os.Exit(1)
		}

		// Create schema (tables)
		if err := db.CreateSchema(dbConn); err != nil {
			slog.Error("schema creation failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Database schema ready")
	}

	// Create router
	videos := heygen.NewClient(cfg.HeyGenAPIURL)
	mux := router.NewRouter(dbConn, cfg, videos)

	// Create server; the feed is consumed by a browser frontend on
	// another origin, so the whole mux sits behind CORS
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "demo_mode", cfg.DemoMode(), "leaderboard_mode", cfg.LeaderboardMode)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
