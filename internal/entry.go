// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/secondbrain/internal/api"
	"github.com/starford/secondbrain/internal/mcpserver"
	"github.com/starford/secondbrain/internal/noteservice"
	"github.com/starford/secondbrain/internal/notestore"
	"github.com/starford/secondbrain/internal/sse"
	"github.com/starford/secondbrain/internal/storage"
	"github.com/starford/secondbrain/internal/tui"
)

var (
	errConfigRequired = errors.New("config is required")
	errShutdown       = errors.New("shutdown")
)

// tagsThrottle bounds how often clients are told the tag set changed.
const tagsThrottle = 2 * time.Second

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// openProvider returns the configured persistence backend and a func that
// releases it.
func openProvider(cfg StorageConfig) (storage.Provider, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case DriverMarkdown:
		p, err := storage.NewMarkdown(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open vault: %w", err)
		}
		return p, noop, nil
	case DriverSQLite:
		p, err := storage.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return p, p.Close, nil
	case DriverMemory:
		return storage.NewMemory(), noop, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// openService wires store, provider and service, then loads the persisted
// notes. The returned func closes the provider.
func openService(ctx context.Context, app *application, opts ...noteservice.Option) (*noteservice.Service, func(), error) {
	cfg := app.config
	logger := app.logger

	provider, closeProvider, err := openProvider(cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		if err := closeProvider(); err != nil {
			logger.Error("close storage", slog.String("error", err.Error()))
		}
	}

	opts = append([]noteservice.Option{
		noteservice.WithPageSize(cfg.Notes.PageSize),
		noteservice.WithShareBaseURL(cfg.Share.BaseURL),
	}, opts...)
	svc := noteservice.NewService(notestore.New(), provider, logger, opts...)

	if err := svc.Load(ctx); err != nil {
		closer()
		return nil, nil, err
	}
	if cfg.Notes.SeedDemo {
		if _, err := svc.SeedDemo(ctx); err != nil {
			logger.Warn("seed demo notes failed", slog.String("error", err.Error()))
		}
	}
	return svc, closer, nil
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.String("storage_path", cfg.Storage.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	broker := sse.NewBroker(tagsThrottle)
	defer broker.Close()

	svc, closeService, err := openService(ctx, app, noteservice.WithPublisher(broker))
	if err != nil {
		return fmt.Errorf("init notes: %w", err)
	}
	defer closeService()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", healthHandler)
	r.Get("/health/ready", healthHandler)

	r.Mount("/api", api.NewRouter(svc, broker))

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Storage.Driver == DriverMarkdown && cfg.Storage.Watch {
		g.Go(func() error {
			err := storage.Watch(gCtx, cfg.Storage.Path, storage.DefaultDebounce, logger, func() {
				_ = svc.Reload(gCtx)
			})
			if err != nil {
				// The API keeps working without live reload.
				logger.Warn("watcher failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

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
		// Unblock the watcher once the server is gone.
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the note tools over stdio until the client disconnects.
// Logs go to stderr unless overridden, stdout carries the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}

	svc, closeService, err := openService(ctx, app)
	if err != nil {
		return fmt.Errorf("init notes: %w", err)
	}
	defer closeService()

	app.logger.Info("MCP server starting on stdio")
	return mcpserver.New(svc).ServeStdio()
}

// RunBrowse opens the terminal note browser. Logs are discarded unless a
// writer is given, the UI owns the terminal.
func RunBrowse(ctx context.Context, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(io.Discard)}, opts...))
	if err != nil {
		return err
	}

	svc, closeService, err := openService(ctx, app)
	if err != nil {
		return fmt.Errorf("init notes: %w", err)
	}
	defer closeService()

	model := tui.NewApp(tui.AppParams{Context: ctx, Service: svc})
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}
