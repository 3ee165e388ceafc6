package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/coupon"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/events"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/handlers"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/metrics"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/notify"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/session"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/store"
	"github.com/Lixing-Zhang/kart-challenge/storefront/pkg/logger"
)

// backend is a store that holds an external connection.
type backend interface {
	store.Store
	Ping(ctx context.Context) error
	Close() error
}

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting storefront server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"store", cfg.Store.Driver,
		"log_level", cfg.LogLevel,
	)

	ctx := context.Background()

	kv, checks, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		log.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	center := notify.NewCenter(log, notify.WithTTL(cfg.Notification.TTL()))

	// Initialize repositories
	productRepo := repository.NewStoredProductRepository(ctx, kv, log)
	couponRepo := repository.NewStoredCouponRepository(ctx, kv, log)

	// Initialize services
	productService := service.NewProductService(productRepo, center, log)
	couponService := service.NewCouponService(couponRepo, center, log)

	loader := coupon.NewLoader(nil)
	importSeedCoupons(ctx, log, loader, couponService, cfg.Coupon)

	var publisher events.Publisher = events.Noop{}
	if cfg.Events.Enabled() {
		publisher = events.NewKafkaPublisher(cfg.Events.KafkaBrokers, cfg.Events.KafkaOrderTopic)
		log.Info("publishing order events", "brokers", cfg.Events.KafkaBrokers, "topic", cfg.Events.KafkaOrderTopic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("failed to close event publisher", "error", err)
		}
	}()
	orderService := service.NewOrderService(publisher, log)

	m := metrics.New()

	sess := session.New(ctx, session.Deps{
		Catalog:  productService,
		Coupons:  couponService,
		Orders:   orderService,
		Store:    kv,
		Notifier: center,
		Recorder: m,
		Logger:   log,
	})

	// Create router
	router := handlers.NewRouter(handlers.RouterConfig{
		Logger:         log,
		Metrics:        m,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Health:         handlers.NewHealthHandler(log, checks),
		Products:       handlers.NewProductHandler(productService, log),
		Coupons:        handlers.NewCouponHandler(couponService, sess, loader, log),
		Cart:           handlers.NewCartHandler(sess, log),
		Orders:         handlers.NewOrderHandler(sess, log),
		Notifications:  handlers.NewNotificationHandler(center, log),
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		log.Error("server failed to start", "error", err)
		return
	}

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		return
	}

	log.Info("server stopped gracefully")
}

// openStore builds the configured store along with its health checks and a
// close function.
func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, map[string]handlers.Check, func(), error) {
	var (
		b   backend
		err error
	)

	switch cfg.Driver {
	case config.DriverRedis:
		b, err = store.NewRedis(ctx, store.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.KeyPrefix,
		})
	case config.DriverPostgres:
		b, err = store.OpenPostgres(cfg.DatabaseDSN, cfg.KeyPrefix)
	default:
		return store.NewMemory(), nil, func() {}, nil
	}
	if err != nil {
		return nil, nil, nil, err
	}

	checks := map[string]handlers.Check{cfg.Driver: b.Ping}
	return b, checks, func() { _ = b.Close() }, nil
}

// importSeedCoupons loads extra coupons from the configured sources. Failures
// are logged and the server keeps running with the coupons it already has.
func importSeedCoupons(ctx context.Context, log *slog.Logger, loader *coupon.Loader, svc *service.CouponService, cfg config.CouponConfig) {
	load := func(kind string, sources []string, fn func(context.Context, []string) ([]models.Coupon, error)) {
		if len(sources) == 0 {
			return
		}

		loadCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()

		coupons, err := fn(loadCtx, sources)
		if err != nil {
			log.Error("failed to load seed coupons", "kind", kind, "error", err)
			return
		}

		added, err := svc.ImportCoupons(ctx, coupons)
		if err != nil {
			log.Error("failed to import seed coupons", "kind", kind, "error", err)
			return
		}
		log.Info("seed coupons imported", "kind", kind, "loaded", len(coupons), "added", added)
	}

	load("url", cfg.SeedURLs, loader.LoadFromURLs)
	load("file", cfg.SeedFiles, loader.LoadFromFiles)
}
