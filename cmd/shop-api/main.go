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

	"github.com/jcmexdev/shopcore/internal/api/httpx"
	cartapp "github.com/jcmexdev/shopcore/internal/cart/app"
	catalogapp "github.com/jcmexdev/shopcore/internal/catalog/app"
	orderapp "github.com/jcmexdev/shopcore/internal/order/app"
	"github.com/jcmexdev/shopcore/internal/order/orderlog"
	ordersqlite "github.com/jcmexdev/shopcore/internal/order/orderlog/sqlite"
	"github.com/jcmexdev/shopcore/internal/pkg/cache"
	"github.com/jcmexdev/shopcore/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "shop-api"))
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	catalog := catalogapp.NewService()
	if err := catalogapp.Seed(ctx, catalog); err != nil {
		slog.Error("failed to seed catalog", "error", err)
		os.Exit(1)
	}

	var history *ordersqlite.Repository
	var auditLog orderlog.Repository
	if path := os.Getenv("ORDER_LOG_PATH"); path != "" {
		history, err = ordersqlite.Open(path)
		if err != nil {
			slog.Error("failed to open order log", "path", path, "error", err)
			os.Exit(1)
		}
		defer history.Close()
		auditLog = history
	}

	carts := cartapp.NewService(catalog)
	orders := orderapp.NewService(catalog, auditLog)

	var c cache.Cache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c = cache.NewRedisCache(addr, "shop")
	}

	handler := httpx.NewHandler(catalog, carts, orders, readerOrNil(history), c)
	router := httpx.NewRouter(handler)

	addr := ":" + getEnv("PORT", "8080")
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("http shutdown error", "error", err)
		}
	}()

	slog.Info("shop API running", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}

// readerOrNil keeps the handler's nil check meaningful: a nil *Repository
// stored in a non-nil interface would defeat it.
func readerOrNil(r *ordersqlite.Repository) orderlog.Reader {
	if r == nil {
		return nil
	}
	return r
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
