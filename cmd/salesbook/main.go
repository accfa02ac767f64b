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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/odyssey-erp/salesbook/internal/app"
	"github.com/odyssey-erp/salesbook/internal/auth"
	"github.com/odyssey-erp/salesbook/internal/clients"
	"github.com/odyssey-erp/salesbook/internal/observability"
	"github.com/odyssey-erp/salesbook/internal/platform/cache"
	"github.com/odyssey-erp/salesbook/internal/platform/db"
	"github.com/odyssey-erp/salesbook/internal/platform/httpx"
	"github.com/odyssey-erp/salesbook/internal/products"
	"github.com/odyssey-erp/salesbook/internal/sales"
	"github.com/odyssey-erp/salesbook/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	shutdownTracing, err := observability.InitTracing(ctx, logger, cfg.OTLPEndpoint, "salesbook", cfg.AppEnv)
	if err != nil {
		logger.Error("init tracing", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("tracing shutdown", slog.Any("error", err))
		}
	}()

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if cfg.DBApplySchema {
		if err := db.ApplySchema(ctx, dbpool); err != nil {
			logger.Error("apply schema", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("schema applied")
	}

	redisClient, err := cache.New(ctx, cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	validator := httpx.NewValidator()
	tokens := auth.NewTokenManager(redisClient, cfg.TokenSecret, cfg.TokenTTL)

	authService := auth.NewService(auth.NewRepository(dbpool), tokens, logger, metrics)
	authHandler := auth.NewHandler(logger, authService, validator)

	usersService := users.NewService(users.NewRepository(dbpool), logger)
	usersHandler := users.NewHandler(logger, usersService, validator)

	clientsService := clients.NewService(clients.NewRepository(dbpool), logger, metrics)
	clientsHandler := clients.NewHandler(logger, clientsService, validator)

	productsService := products.NewService(products.NewRepository(dbpool), logger)
	productsHandler := products.NewHandler(logger, productsService, validator)

	salesService := sales.NewService(sales.NewRepository(dbpool), logger, metrics)
	salesHandler := sales.NewHandler(logger, salesService, validator)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		Metrics:         metrics,
		Tokens:          tokens,
		AuthHandler:     authHandler,
		UsersHandler:    usersHandler,
		ClientsHandler:  clientsHandler,
		ProductsHandler: productsHandler,
		SalesHandler:    salesHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      otelhttp.NewHandler(router, "salesbook"),
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
