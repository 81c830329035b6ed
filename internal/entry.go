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

	"github.com/starford/dagaz/internal/api"
	"github.com/starford/dagaz/internal/calendar"
	"github.com/starford/dagaz/internal/holiday"
	"github.com/starford/dagaz/internal/ics"
	"github.com/starford/dagaz/internal/index"
	"github.com/starford/dagaz/internal/mcpserver"
	"github.com/starford/dagaz/internal/recurrence"
	"github.com/starford/dagaz/internal/sse"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger. MCP mode owns stdout, so logs go
	// to stderr there.
	logOut := os.Stdout
	if app.mcpMode {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("holiday_source", cfg.Holidays.Source),
		slog.String("log_level", cfg.App.LogLevel.String()))

	loc, err := cfg.Calendar.Location()
	if err != nil {
		return fmt.Errorf("resolve timezone: %w", err)
	}

	// Initialize SQLite snapshot.
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init snapshot: %w", err)
	}
	defer db.Close()

	// Fetch the holiday set for the current year once per session.
	provider := app.holidays
	if provider == nil {
		switch cfg.Holidays.Source {
		case HolidaySourceNager:
			provider = holiday.NewNager(cfg.Holidays.Country)
		default:
			provider = holiday.NewStatic(cfg.Holidays.Static)
		}
	}
	holidays, err := provider.Holidays(ctx, time.Now().In(loc).Year())
	if err != nil {
		logger.Warn("holiday fetch failed, continuing without holidays",
			slog.String("error", err.Error()))
		holidays = nil
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	// Build the calendar service and seed it from the snapshot.
	svc := calendar.NewService(cfg.Calendar.Categories, holidays, calendar.Options{
		Expand: recurrence.Options{
			HorizonYears: cfg.Calendar.Recurrence.HorizonYears,
			MaxInstances: cfg.Calendar.Recurrence.MaxInstances,
		},
		Location:     loc,
		ShowHolidays: true,
		Index:        db,
		OnChange:     broker.PublishChange,
		Logger:       logger,
	})

	events, err := db.LoadEvents()
	if err != nil {
		logger.Warn("snapshot load failed, starting empty", slog.String("error", err.Error()))
	} else {
		svc.Seed(events)
		logger.Info("snapshot loaded", slog.Int("event_count", len(events)))
	}

	// One-shot ICS import mode.
	if app.importPath != "" {
		return runImport(svc, app.importPath, app.importCategory, loc, logger)
	}

	// MCP stdio mode.
	if app.mcpMode {
		logger.Info("Starting MCP server on stdio")
		return mcpserver.New(svc).ServeStdio()
	}

	// Build API router.
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

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

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

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

// runImport reads an ICS file and creates an event for every VEVENT it can
// convert. Inputs the service rejects are logged and skipped.
func runImport(svc *calendar.Service, path, categoryID string, loc *time.Location, logger *slog.Logger) error {
	if categoryID == "" {
		return fmt.Errorf("import requires a category")
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read ics file: %w", err)
	}
	inputs, err := ics.Parse(body, categoryID, loc)
	if err != nil {
		return fmt.Errorf("parse ics file: %w", err)
	}

	created := 0
	for _, in := range inputs {
		if _, err := svc.CreateEvent(in); err != nil {
			logger.Warn("skipping event", slog.String("title", in.Title), slog.String("error", err.Error()))
			continue
		}
		created++
	}
	logger.Info("import finished",
		slog.String("path", path),
		slog.Int("imported", created),
		slog.Int("skipped", len(inputs)-created))
	return nil
}
