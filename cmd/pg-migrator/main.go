package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"thirdcoast.systems/openvidreview/internal/application"
	"thirdcoast.systems/openvidreview/internal/config"
	"thirdcoast.systems/openvidreview/internal/db"
)

func main() {
	slog.Info("Starting database migrator service")

	startupCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conf, err := config.LoadConfig(startupCtx)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	pool, err := application.OpenDBPoolWithRetry(startupCtx, *conf)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	databaseConnection, err := db.NewDatabaseConnection(startupCtx, pool)
	if err != nil {
		slog.Error("failed to create database connection", "error", err)
		os.Exit(1)
	}
	defer databaseConnection.Close()

	// Migrate, then seed the comment palette.
	if err := databaseConnection.Init(startupCtx); err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	slog.Info("Database migrations completed successfully")
}
