// Package internal wires the long-running modes: the HTTP endpoint used by
// bookmarklets and the MCP stdio server.
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

	"github.com/starford/linkblog/internal/api"
	"github.com/starford/linkblog/internal/category"
	"github.com/starford/linkblog/internal/linkservice"
	"github.com/starford/linkblog/internal/mcpserver"
	"github.com/starford/linkblog/internal/sse"
	"github.com/starford/linkblog/internal/storage"
	"github.com/starford/linkblog/internal/watch"
)

var errConfigRequired = errors.New("config is required")

// Serve runs the HTTP endpoint, the categories watcher and the event
// stream until ctx is cancelled or a shutdown signal arrives.
func Serve(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("categories_path", cfg.Categories.Path),
		slog.String("drafts_dir", cfg.Drafts.Dir),
		slog.String("log_level", cfg.App.LogLevel.String()),
		slog.Bool("auth", cfg.Auth.AuthEnabled()))

	store, err := category.Open(cfg.Categories.Path)
	if err != nil {
		return fmt.Errorf("open categories: %w", err)
	}
	svc := linkservice.NewService(store)

	broker := sse.NewBroker(time.Second)
	defer broker.Close()

	handler := api.NewHandler(svc, cfg.Drafts.Drafts(), broker)
	apiRouter := api.NewRouter(handler, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

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
		if !storage.Exists(store.Path()) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"categories file missing"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return watch.Categories(gCtx, store, watch.DefaultDebounce, logger, broker.PublishCategoriesReloaded)
	})

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

		// Open event streams only end when the broker closes.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group's context once a shutdown has started so
// the watcher stops too.
var errShutdown = errors.New("shutdown")

// ServeMCP serves the MCP tools over stdin/stdout. Logs go to stderr.
func ServeMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	store, err := category.Open(cfg.Categories.Path)
	if err != nil {
		return fmt.Errorf("open categories: %w", err)
	}
	srv := mcpserver.New(linkservice.NewService(store), cfg.Drafts.Drafts(), app.version)
	logger.Info("MCP server starting", slog.String("categories_path", cfg.Categories.Path))
	return srv.ServeStdio()
}
