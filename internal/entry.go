// Package internal provides the main application initialization and runtime logic.
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

	"github.com/starford/echome/internal/api"
	"github.com/starford/echome/internal/drive"
	"github.com/starford/echome/internal/events"
	"github.com/starford/echome/internal/history"
	"github.com/starford/echome/internal/llm"
	"github.com/starford/echome/internal/metadata"
	"github.com/starford/echome/internal/notify"
	"github.com/starford/echome/internal/notion"
	"github.com/starford/echome/internal/pipeline"
)

// Run starts the HTTP service with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	initLogger(cfg)

	slog.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("output_dir", cfg.Output.Dir),
		slog.String("history_path", cfg.History.Path),
		slog.Bool("drive_enabled", cfg.Drive.Enabled()),
		slog.Bool("notion_enabled", cfg.Notion.Enabled()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Run ledger.
	db, err := history.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("init history: %w", err)
	}
	defer db.Close()

	// Progress broker.
	broker := events.NewBroker()
	defer broker.Close()

	pipe, err := buildPipeline(ctx, cfg,
		pipeline.WithLedger(db),
		pipeline.WithBroker(broker),
	)
	if err != nil {
		return err
	}

	// Build API service and router.
	handler := api.NewHandler(pipe, db)
	apiRouter := api.NewRouter(handler, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

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

	// Root trigger for schedulers that can only issue plain GETs.
	r.With(api.AuthMiddleware(cfg.Auth.AuthEnabled(), cfg.Auth.Token)).Get("/", handler.Run)

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server.
	g.Go(func() error {
		slog.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
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
			slog.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			slog.Info("Context cancelled, initiating shutdown")
		}

		slog.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	slog.Info("Server stopped successfully")
	return nil
}

// initLogger installs the structured JSON logger as the default.
func initLogger(cfg *Config) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
}

// buildPipeline wires the generator, resolver, and the optional Drive,
// Notion, and webhook collaborators from the configuration.
func buildPipeline(ctx context.Context, cfg *Config, extra ...pipeline.Option) (*pipeline.Pipeline, error) {
	client, err := llm.NewClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model)
	if err != nil {
		return nil, fmt.Errorf("init model client: %w", err)
	}
	generator := llm.NewGenerator(client)
	resolver := metadata.NewResolver(metadata.NewClassifier(client))

	opts := append([]pipeline.Option{}, extra...)

	if cfg.Drive.Enabled() {
		remote, err := drive.New(ctx, cfg.Drive.CredentialsFile, drive.Folders{
			Input:    cfg.Drive.InputFolder,
			Output:   cfg.Drive.OutputFolder,
			Approved: cfg.Drive.ApprovedFolder,
			Posted:   cfg.Drive.PostedFolder,
		})
		if err != nil {
			return nil, fmt.Errorf("init drive: %w", err)
		}
		opts = append(opts, pipeline.WithRemote(remote))
	}

	if cfg.Notion.Enabled() {
		publisher, err := notion.New(cfg.Notion.Token, cfg.Notion.DatabaseID)
		if err != nil {
			return nil, fmt.Errorf("init notion: %w", err)
		}
		opts = append(opts, pipeline.WithPublisher(publisher))
	}

	if cfg.Notify.WebhookURL != "" {
		opts = append(opts, pipeline.WithNotifier(notify.New(cfg.Notify.WebhookURL)))
	}

	return pipeline.New(generator, resolver, opts...), nil
}
