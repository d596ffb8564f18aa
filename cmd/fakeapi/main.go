// Command fakeapi serves an in-memory copy of the entity service for local
// development. Data lives only as long as the process.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"listkeeper/internal/infra/fakeapi"
	"listkeeper/internal/observability/logging"
	"listkeeper/internal/observability/tracing"
	pkgconfig "listkeeper/internal/pkg/config"
)

func main() {
	addr := flag.String("addr", pkgconfig.LoadEnvString("FAKEAPI_ADDR", ":8000"), "listen address")
	seedPath := flag.String("seed", pkgconfig.LoadEnvString("FAKEAPI_SEED", ""), "YAML seed file (optional)")
	flag.Parse()

	logger := logging.NewLogger(os.Stdout, logging.ParseLevel(os.Getenv("LOG_LEVEL")))
	slog.SetDefault(logger)

	shutdownTracing := tracing.Setup()
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	store, err := buildStore(*seedPath, logger)
	if err != nil {
		logger.Error("failed to seed store", slog.Any("error", err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           fakeapi.NewRouter(store, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("fake entity service starting",
			slog.String("addr", *addr),
			slog.String("api_prefix", fakeapi.APIPrefix))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
}

func buildStore(seedPath string, logger *slog.Logger) (*fakeapi.Store, error) {
	store := fakeapi.NewStore()
	if seedPath == "" {
		logger.Info("starting with an empty store")
		return store, nil
	}
	seed, err := fakeapi.LoadSeed(seedPath)
	if err != nil {
		return nil, err
	}
	if err := seed.Apply(store); err != nil {
		return nil, err
	}
	logger.Info("store seeded",
		slog.String("path", seedPath),
		slog.Int("users", len(seed.Users)),
		slog.Int("lists", len(seed.Lists)),
		slog.Int("articles", len(seed.Articles)))
	return store, nil
}
