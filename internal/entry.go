// Package internal provides the main application initialization and runtime
// logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/rosales/inkwell/internal/api"
	"github.com/rosales/inkwell/internal/auth"
	"github.com/rosales/inkwell/internal/mcpserver"
	"github.com/rosales/inkwell/internal/media"
	"github.com/rosales/inkwell/internal/models"
	"github.com/rosales/inkwell/internal/noteservice"
	"github.com/rosales/inkwell/internal/notify"
	"github.com/rosales/inkwell/internal/sse"
	"github.com/rosales/inkwell/internal/store"
	"github.com/rosales/inkwell/internal/summarize"
)

// Run starts the HTTP application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.Bool("summarizer_remote", cfg.Summarizer.Enabled()),
		slog.Bool("notifications", cfg.SMTP.Enabled()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize note store.
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	// Remote collaborators, injected into the service rather than held as
	// process-wide singletons.
	svc, summarizer, broker := buildServices(cfg, db)
	defer broker.Stop()

	verifier := buildVerifier(cfg)

	h := api.NewHandler(svc, summarizer, requestBodyLimit(cfg))
	apiRouter := api.NewRouter(h, verifier, http.HandlerFunc(broker.ServeHTTP))

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP starts the MCP stdio server against the same store and services.
// Logs go to stderr because the stdio transport owns stdout.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	svc, summarizer, broker := buildServices(cfg, db)
	defer broker.Stop()

	caller := models.Identity{
		ID:    cfg.Auth.LocalUser.ID,
		Email: cfg.Auth.LocalUser.Email,
	}

	logger.Info("Starting MCP server on stdio", slog.String("caller", caller.ID))
	return mcpserver.New(svc, summarizer, caller).ServeStdio()
}

// buildServices wires the store and remote collaborators into the note
// service and summarizer.
func buildServices(cfg *Config, db *store.DB) (*noteservice.Service, *summarize.Service, *sse.Broker) {
	uploader := media.NewHostClient(media.HostConfig{
		BaseURL:   cfg.Media.BaseURL,
		CloudName: cfg.Media.CloudName,
		APIKey:    cfg.Media.APIKey,
		APISecret: cfg.Media.APISecret,
		Timeout:   time.Duration(cfg.Media.TimeoutSeconds) * time.Second,
	})
	pipeline := media.NewPipeline(uploader, cfg.Media.Folder, cfg.Media.MaxUploadBytes)

	var backend summarize.Backend
	if cfg.Summarizer.Enabled() {
		backend = summarize.NewInferenceClient(summarize.InferenceConfig{
			Endpoint: cfg.Summarizer.Endpoint,
			Model:    cfg.Summarizer.Model,
			Token:    cfg.Summarizer.Token,
			Timeout:  time.Duration(cfg.Summarizer.TimeoutSeconds) * time.Second,
		})
	}
	summarizer := summarize.New(backend, time.Duration(cfg.Summarizer.TimeoutSeconds)*time.Second)

	var notifier notify.Notifier = notify.Nop{}
	if cfg.SMTP.Enabled() {
		notifier = notify.NewMailer(notify.MailerConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			From:     cfg.SMTP.From,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
		})
	}

	broker := sse.NewBroker()
	svc := noteservice.New(db, pipeline, notifier, broker)
	return svc, summarizer, broker
}

// buildVerifier selects the identity verifier for the configured auth mode.
func buildVerifier(cfg *Config) auth.Verifier {
	user := models.Identity{
		ID:    cfg.Auth.LocalUser.ID,
		Email: cfg.Auth.LocalUser.Email,
	}
	switch cfg.Auth.Mode {
	case AuthModeStatic:
		return &auth.StaticVerifier{Token: cfg.Auth.Token, User: user}
	case AuthModeRemote:
		return auth.NewRemoteVerifier(cfg.Auth.VerifyURL, 10*time.Second)
	default:
		return &auth.LocalVerifier{User: user}
	}
}

// requestBodyLimit caps a multipart note request: two attachments plus a
// margin for text fields.
func requestBodyLimit(cfg *Config) int64 {
	return cfg.Media.MaxUploadBytes*2 + (1 << 20)
}
