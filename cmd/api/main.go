// Package main is the entry point for the trip planner API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/plannr/trip-planner/internal/clock"
	"github.com/plannr/trip-planner/internal/config"
	"github.com/plannr/trip-planner/internal/handler"
	"github.com/plannr/trip-planner/internal/mail"
	"github.com/plannr/trip-planner/internal/middleware"
	"github.com/plannr/trip-planner/internal/repo"
	"github.com/plannr/trip-planner/internal/service"
	"github.com/plannr/trip-planner/migrations"
	"github.com/plannr/trip-planner/spec"
)

func main() {
	// --- Config -----------------------------------------------------------
	// A .env file is optional; real environment variables take precedence.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// goose drives database/sql, so borrow a *sql.DB view of the pool.
	sqlDB := stdlib.OpenDBFromPool(pool)
	applied, err := migrations.Up(context.Background(), sqlDB)
	_ = sqlDB.Close()
	if err != nil {
		slog.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations applied", "count", applied)

	// --- Mail -------------------------------------------------------------
	var gateway mail.Gateway
	if cfg.Mail.SMTPHost != "" {
		gateway = mail.NewSMTPGateway(mail.SMTPConfig{
			Host:       cfg.Mail.SMTPHost,
			Port:       cfg.Mail.SMTPPort,
			Username:   cfg.Mail.SMTPUsername,
			Password:   cfg.Mail.SMTPPassword,
			UseSSL:     cfg.Mail.SMTPUseSSL,
			RequireTLS: cfg.Mail.SMTPRequireTLS,
		})
		slog.Info("mail gateway: smtp", "host", cfg.Mail.SMTPHost, "port", cfg.Mail.SMTPPort)
	} else {
		gateway = mail.NewLogGateway(logger)
		slog.Warn("SMTP_HOST not set; emails are logged instead of sent")
	}
	composer := mail.NewComposer(mail.ComposerConfig{
		From:       mail.Address{Name: cfg.Mail.FromName, Email: cfg.Mail.FromAddress},
		APIBaseURL: cfg.APIBaseURL,
		Location:   cfg.Location,
	})
	notifier := service.NewNotifier(composer, gateway, cfg.Mail.Concurrency, logger)

	// --- Services ---------------------------------------------------------
	clk := clock.NewSystem()
	repos := repo.NewRepos(pool)
	srv := handler.NewServer(handler.Services{
		Trips:        service.NewTripService(repo.NewTxRunner(pool), repos, notifier, clk, logger),
		Participants: service.NewParticipantService(repos, notifier, logger),
		Activities:   service.NewActivityService(repos, cfg.Location),
		Links:        service.NewLinkService(repos),
		Export:       service.NewExportService(repos, clk, cfg.Location),
	}, handler.Config{
		WebBaseURL: cfg.WebBaseURL,
		OpenAPI:    spec.OpenAPI,
		Logger:     logger,
	})

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID, RealIP, Logger, Recoverer,
	// CORS, then the body limit.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	// WriteTimeout leaves room for the invitation fan-out on trip confirmation.
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr, "timezone", cfg.Location.String())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
