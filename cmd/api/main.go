package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crannies/internal/auth"
	"crannies/internal/book"
	"crannies/internal/catalog"
	"crannies/internal/collection"
	"crannies/internal/config"
	"crannies/internal/events"
	"crannies/internal/httpx"
	"crannies/internal/logging"
	"crannies/internal/store"
	"crannies/internal/upload"
	"crannies/internal/validation"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", os.Getenv(config.EnvConfigFile), "Config file (toml or yaml)")
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	kv, err := store.Open(ctx, cfg.Store.Options())
	if err != nil {
		return err
	}
	defer kv.Close()
	logger.Info("store connection OK",
		zap.String("driver", cfg.Store.Driver),
		zap.String("dsn", store.RedactDSN(cfg.Store.DSN)),
	)

	bus := events.NewBus(logger)
	defer bus.Close()

	handler, cleanup := newRouter(cfg, kv, bus, logger)
	defer cleanup()

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Addr), zap.String("env", cfg.Env))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	// Open event streams only end once the bus closes their subscriptions.
	bus.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// newRouter wires the page controllers onto a ServeMux behind the
// middleware chain. The returned func stops background work.
func newRouter(cfg config.Config, kv store.KV, bus *events.Bus, logger *zap.Logger) (http.Handler, func()) {
	if logger == nil {
		logger = zap.NewNop()
	}
	validator := validation.New()

	books := book.NewStore(kv, book.BuiltIn(), bus, logger)
	tracker := collection.NewTracker(kv, bus, logger)
	svc := catalog.NewService(books, tracker, logger)

	catalogHandler := catalog.NewHTTPHandler(svc, validator, logger, upload.DefaultMaxBytes)
	collectionHandler := collection.NewHTTPHandler(tracker, logger)
	authHandler := auth.NewHTTPHandler(validator)
	stream := events.NewStreamHandler(bus, logger)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := kv.Ping(ctx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Handle("/v1/books", httpx.MethodMux(map[string]http.HandlerFunc{
		http.MethodGet:  catalogHandler.List,
		http.MethodPost: catalogHandler.Create,
	}))
	router.Handle("/v1/books/{index}", httpx.MethodMux(map[string]http.HandlerFunc{
		http.MethodGet:    catalogHandler.Get,
		http.MethodPut:    catalogHandler.Update,
		http.MethodDelete: catalogHandler.Delete,
	}))
	router.HandleFunc("GET /v1/genres", catalogHandler.Genres)
	router.HandleFunc("GET /v1/recommended-sites", catalogHandler.RecommendedSites)

	router.HandleFunc("GET /v1/collection", collectionHandler.List)
	router.HandleFunc("GET /v1/collection/count", collectionHandler.Count)
	router.HandleFunc("POST /v1/collection/toggle", collectionHandler.Toggle)
	router.HandleFunc("GET /v1/collection/books", catalogHandler.CollectionBooks)

	router.Handle("GET /v1/events", stream)

	router.HandleFunc("GET /v1/auth/form", authHandler.Form)
	router.HandleFunc("POST /v1/auth/signup/validate", authHandler.ValidateSignup)
	router.HandleFunc("POST /v1/auth/login/validate", authHandler.ValidateLogin)
	router.HandleFunc("GET /search", authHandler.Search)

	rateLimiter := httpx.NewRateLimitMiddleware(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)

	handler := httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.ClientIDMiddleware,
		httpx.AccessLogMiddleware(logger),
		httpx.RecoveryMiddleware(logger),
		httpx.CORSMiddleware(cfg.HTTP.CORSOrigins),
		httpx.SecurityHeadersMiddleware(cfg.HTTP.EnableHSTS),
		httpx.RequestSizeLimitMiddleware(cfg.HTTP.MaxBodyBytes),
		rateLimiter.Middleware,
	)
	return handler, rateLimiter.Stop
}
