package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/gadgetbay/gadgetbay-backend/api/routes"
	"github.com/gadgetbay/gadgetbay-backend/internal/admins"
	"github.com/gadgetbay/gadgetbay-backend/internal/interactions"
	"github.com/gadgetbay/gadgetbay-backend/internal/orders"
	"github.com/gadgetbay/gadgetbay-backend/internal/products"
	"github.com/gadgetbay/gadgetbay-backend/internal/users"
	"github.com/gadgetbay/gadgetbay-backend/internal/videos"
	"github.com/gadgetbay/gadgetbay-backend/pkg/blob"
	"github.com/gadgetbay/gadgetbay-backend/pkg/config"
	"github.com/gadgetbay/gadgetbay-backend/pkg/db"
	"github.com/gadgetbay/gadgetbay-backend/pkg/logger"
	"github.com/gadgetbay/gadgetbay-backend/pkg/metrics"
	"github.com/gadgetbay/gadgetbay-backend/pkg/migrate"
	"github.com/gadgetbay/gadgetbay-backend/pkg/redis"
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

	var redisClient *redis.Client
	if cfg.Redis.Configured() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "redis not configured, auth rate limiting disabled")
	}

	blobStore := blob.NewStore(dbClient, cfg.Media.ChunkSizeBytes())

	userService, err := users.NewService(users.NewRepository(dbClient.DB()), cfg.JWT, cfg.Password)
	exitOnErr(logg, "create users service", err)

	adminService, err := admins.NewService(admins.NewRepository(dbClient.DB()), cfg.AdminJWT, cfg.Password)
	exitOnErr(logg, "create admins service", err)

	productService, err := products.NewService(products.NewRepository(dbClient.DB()), blobStore, logg)
	exitOnErr(logg, "create products service", err)

	orderService, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, cfg.FeatureFlags, logg)
	exitOnErr(logg, "create orders service", err)

	interactionService, err := interactions.NewService(interactions.NewRepository(dbClient.DB()))
	exitOnErr(logg, "create interactions service", err)

	videoService, err := videos.NewService(blobStore, logg)
	exitOnErr(logg, "create videos service", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := routes.NewRouter(cfg, logg, routes.Deps{
		DB:             dbClient,
		Redis:          redisClient,
		HTTPMetrics:    httpMetrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		BlobStore:      blobStore,
		Users:          userService,
		Admins:         adminService,
		Products:       productService,
		Orders:         orderService,
		Interactions:   interactionService,
		Videos:         videoService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	if cfg.FeatureFlags.NonTransactionalStock {
		logg.Warn(ctx, "running with non-transactional stock decrement")
	}
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	var closeErr error
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if redisClient != nil {
		closeErr = multierr.Append(closeErr, redisClient.Close())
	}
	if closeErr != nil {
		logg.Error(ctx, "error closing resources", closeErr)
		os.Exit(1)
	}
}

func exitOnErr(logg *logger.Logger, msg string, err error) {
	if err != nil {
		logg.Error(context.Background(), msg, err)
		os.Exit(1)
	}
}
