package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"thirdcoast.systems/openvidreview/cmd/web/auth"
	"thirdcoast.systems/openvidreview/cmd/web/internal/web"
	"thirdcoast.systems/openvidreview/internal/application"
	"thirdcoast.systems/openvidreview/internal/config"
	"thirdcoast.systems/openvidreview/internal/db"
	"thirdcoast.systems/openvidreview/internal/ingest"
	"thirdcoast.systems/openvidreview/internal/progress"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Starting web service")

	conf, err := config.LoadConfig(ctx)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if conf.DatabaseRetries <= 0 {
		conf.DatabaseRetries = 10
	}

	pool, err := application.OpenDBPoolWithRetry(ctx, *conf)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	dbc, err := db.NewDatabaseConnection(ctx, pool)
	if err != nil {
		slog.Error("failed to create database connection", "error", err)
		os.Exit(1)
	}
	defer dbc.Close()

	// Schema and palette must exist before the first request.
	if err := dbc.Init(ctx); err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	uploader, err := application.NewUploader(ctx, *conf)
	if err != nil {
		slog.Error("failed to initialize asset store", "error", err)
		os.Exit(1)
	}

	reviews := db.NewReviewStore(dbc)
	hub := progress.NewHub()

	pipeline := &ingest.Pipeline{
		Store:         reviews,
		Uploader:      uploader,
		Prober:        application.NewFrameRateProber(*conf),
		Folder:        conf.AssetStoreFolder,
		UploadTimeout: conf.UploadTimeout,
	}

	e, err := web.NewWebserver(web.Dependencies{
		SessionManager: auth.NewSessionManager(conf.SessionSecret),
		Pipeline:       pipeline,
		Hub:            hub,
		Reviews:        reviews,
		Comments:       db.NewCommentStore(dbc),
		Deleter:        application.DeleterFor(uploader),
		MaxUploadBytes: conf.MaxUploadBytes,
	})
	if err != nil {
		slog.Error("failed to create webserver", "error", err)
		os.Exit(1)
	}

	addr := ":" + strconv.Itoa(conf.WebServerPort)

	go func() {
		<-ctx.Done()
		// In-flight uploads may still be persisting.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	slog.Info("Listening", "addr", addr)
	if err := e.Start(addr); err != nil {
		if errors.Is(err, http.ErrServerClosed) || ctx.Err() != nil {
			return
		}
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
