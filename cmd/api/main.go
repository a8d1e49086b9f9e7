package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/felipe25/tienda-backend/api/routes"
	"github.com/felipe25/tienda-backend/internal/checkout"
	"github.com/felipe25/tienda-backend/internal/orders"
	product "github.com/felipe25/tienda-backend/internal/products"
	"github.com/felipe25/tienda-backend/internal/producttypes"
	"github.com/felipe25/tienda-backend/internal/suppliers"
	"github.com/felipe25/tienda-backend/internal/users"
	"github.com/felipe25/tienda-backend/pkg/config"
	"github.com/felipe25/tienda-backend/pkg/db"
	"github.com/felipe25/tienda-backend/pkg/logger"
	"github.com/felipe25/tienda-backend/pkg/metrics"
	"github.com/felipe25/tienda-backend/pkg/migrate"
	pkgredis "github.com/felipe25/tienda-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	// Redis backs the catalog cache, the rate limiter and checkout
	// idempotency. In dev the API degrades to running without it.
	redisClient, err := pkgredis.New(context.Background(), cfg.Redis)
	if err != nil {
		if cfg.App.IsProd() {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		logg.Error(context.Background(), "redis unavailable, continuing without cache", err)
		redisClient = nil
	}
	defer func() {
		closeErr := dbClient.Close()
		if redisClient != nil {
			closeErr = multierr.Append(closeErr, redisClient.Close())
		}
		if closeErr != nil {
			logg.Error(context.Background(), "error closing resources", closeErr)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	usersRepo := users.NewRepository(dbClient.DB())
	usersService, err := users.NewService(usersRepo)
	if err != nil {
		fatal(logg, "failed to create users service", err)
	}

	productsRepo := product.NewRepository(dbClient.DB())
	var productsService product.Service
	if redisClient != nil {
		productsService, err = product.NewService(productsRepo, redisClient, cfg.Catalog.CacheTTL)
	} else {
		productsService, err = product.NewService(productsRepo, nil, cfg.Catalog.CacheTTL)
	}
	if err != nil {
		fatal(logg, "failed to create products service", err)
	}

	suppliersService, err := suppliers.NewService(suppliers.NewRepository(dbClient.DB()))
	if err != nil {
		fatal(logg, "failed to create suppliers service", err)
	}

	tiposService, err := producttypes.NewService(producttypes.NewRepository(dbClient.DB()))
	if err != nil {
		fatal(logg, "failed to create product types service", err)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersService, err := orders.NewService(ordersRepo, usersRepo)
	if err != nil {
		fatal(logg, "failed to create orders service", err)
	}

	checkoutService, err := checkout.NewService(ordersRepo, usersRepo, dbClient, checkoutMetrics)
	if err != nil {
		fatal(logg, "failed to create checkout service", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.New(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			Checkout:    checkoutService,
			Orders:      ordersService,
			Products:    productsService,
			Suppliers:   suppliersService,
			Tipos:       tiposService,
			Users:       usersService,
			DB:          dbClient,
			Redis:       redisClient,
			HTTPMetrics: httpMetrics,
			Gatherer:    registry,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutdown signal received, draining requests")
		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "forced shutdown after drain timeout", err)
		}
	}
}

func fatal(logg *logger.Logger, msg string, err error) {
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
