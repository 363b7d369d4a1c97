package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Cheertaboi/free-shipping-service/internal/api"
	"github.com/Cheertaboi/free-shipping-service/internal/config"
	"github.com/Cheertaboi/free-shipping-service/internal/repository"
	"github.com/Cheertaboi/free-shipping-service/internal/service"
	"github.com/Cheertaboi/free-shipping-service/internal/telemetry"
	"github.com/Cheertaboi/free-shipping-service/pkg/db"
)

func main() {
	logger, err := telemetry.NewLogger(os.Getenv("LOG_LEVEL"))
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	if !cfg.Configured() {
		logger.Warn("service is not configured; eligibility checks will fail",
			zap.String("order_source", string(cfg.OrderSource)),
			zap.Bool("shop_domain_set", cfg.Shopify.ShopDomain != ""),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.Telemetry)
	if err != nil {
		logger.Fatal("failed to initialise tracing", zap.Error(err))
	}

	var orders service.OrderHistoryProvider
	switch cfg.OrderSource {
	case config.OrderSourcePostgres:
		var conn *sql.DB
		conn, err = db.NewPostgresConnection(ctx, cfg.Postgres)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer conn.Close()
		orders = repository.NewPostgresOrderRepo(conn, cfg.Shopify.ShopDomain)
	default:
		orders = repository.NewShopifyOrderRepo(
			repository.ShopifyGraphQLEndpoint(cfg.Shopify.ShopDomain, cfg.Shopify.APIVersion),
			cfg.Shopify.AccessToken,
			repository.NewHTTPClient(cfg.Shopify.LookupTimeout),
		)
	}

	svc := service.NewEligibilityService(cfg, orders, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      api.NewRouter(cfg, svc, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP server Shutdown", zap.Error(err))
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown", zap.Error(err))
		}
		close(idleConnsClosed)
	}()

	logger.Info("starting free-shipping-service",
		zap.String("addr", srv.Addr),
		zap.String("order_source", string(cfg.OrderSource)),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("listen", zap.Error(err))
	}

	<-idleConnsClosed
	logger.Info("server stopped")
}
