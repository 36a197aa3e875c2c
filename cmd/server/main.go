package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/tgoncalves/listly/internal/api"
	"github.com/tgoncalves/listly/internal/auth"
	"github.com/tgoncalves/listly/internal/config"
	"github.com/tgoncalves/listly/internal/hooks"
	"github.com/tgoncalves/listly/internal/metrics"
	"github.com/tgoncalves/listly/internal/service"
	"github.com/tgoncalves/listly/internal/storage/sqlite"
	"github.com/tgoncalves/listly/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	store.FlushErrorHandler = func(ctx context.Context, err error) {
		metrics.CountDeferredHookFailure()
		slog.ErrorContext(ctx, "deferred hook failed after commit", "error", err)
	}
	slog.Info("Storage initialized", "database", cfg.DBPath)

	registry := hooks.NewRegistry(cfg.SyncHooks)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	listSvc := service.NewListService(store, store, registry)
	authSvc := service.NewAuthService(authenticator, jwtManager)

	handler := api.NewHandler(listSvc, authSvc)
	router := api.NewRouter(handler, jwtManager, cfg.CORSOrigin)

	// h2c allows HTTP/2 without TLS for clients that want multiplexing.
	h2cHandler := h2c.NewHandler(router, &http2.Server{})

	slog.Info("Server starting", "address", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
