package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	appcart "github.com/Zhima-Mochi/minishop-menu/internal/application/cart"
	appcatalog "github.com/Zhima-Mochi/minishop-menu/internal/application/catalog"
	appcheckout "github.com/Zhima-Mochi/minishop-menu/internal/application/checkout"
	"github.com/Zhima-Mochi/minishop-menu/internal/config"
	domcatalog "github.com/Zhima-Mochi/minishop-menu/internal/domain/catalog"
	domcheckout "github.com/Zhima-Mochi/minishop-menu/internal/domain/checkout"
	"github.com/Zhima-Mochi/minishop-menu/internal/domain/money"
	"github.com/Zhima-Mochi/minishop-menu/internal/infrastructure/kvstore"
	"github.com/Zhima-Mochi/minishop-menu/internal/infrastructure/memory"
	notificationworker "github.com/Zhima-Mochi/minishop-menu/internal/infrastructure/notification/worker"
	infraobs "github.com/Zhima-Mochi/minishop-menu/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/minishop-menu/internal/infrastructure/observability/oteltrace"
	"github.com/Zhima-Mochi/minishop-menu/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/minishop-menu/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/minishop-menu/internal/infrastructure/outbox"
	"github.com/Zhima-Mochi/minishop-menu/internal/infrastructure/postgres"
	"github.com/Zhima-Mochi/minishop-menu/internal/observability"
	"github.com/Zhima-Mochi/minishop-menu/internal/pkg/logging"
	httppresentation "github.com/Zhima-Mochi/minishop-menu/internal/presentation/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	baseLogger := logging.MustNewLogger(cfg.ServiceName, cfg.Env)
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	systemLogger := zaplogger.New(logging.WithTrace(baseLogger, logging.SystemTraceID, logging.SystemSpanID))
	appLogger := zaplogger.New(baseLogger)

	tel := infraobs.NewWithRegistry(oteltrace.New(cfg.ServiceName), appLogger, prometrics.New("", "", nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, tel, systemLogger); err != nil {
		systemLogger.Error("service_exit", observability.F("error", err))
		_ = baseLogger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, tel observability.Observability, log observability.Logger) error {
	// In-memory event bus carrying cart notifications to the feedback worker.
	bus := outbox.NewBus(tel.Logger())
	bus.Start(ctx)
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()
		bus.Stop(stopCtx)
	}()
	notificationworker.New(bus, tel.Logger()).Start()

	kv, closeKV, err := openKVStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeKV() }()

	reader, closeCatalog, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCatalog()

	locale := money.LookupLocale(cfg.StoreLocale)

	store := appcart.NewStore(ctx, kvstore.NewCartStorage(kv), tel,
		appcart.WithPublisher(bus),
		appcart.WithBackendName(cfg.CartBackend),
	)
	catalogService := appcatalog.NewService(reader, tel)
	checkout := appcheckout.NewUseCase(store,
		domcheckout.NewFormatter(locale, cfg.CheckoutBaseURL, cfg.StoreWhatsApp), tel)

	handler := httppresentation.NewHandler(catalogService, store, checkout, locale, tel,
		httppresentation.WithMetricsHandler(promhttp.Handler()),
	)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.Router(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http_server_start",
			observability.F("addr", server.Addr),
			observability.F("cart_backend", cfg.CartBackend),
			observability.F("locale", locale.Tag.String()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("http_server_shutdown_error", observability.F("error", err))
			return err
		}
		log.Info("http_server_stopped")
		return nil
	})
	return g.Wait()
}

func openKVStore(ctx context.Context, cfg *config.Config) (kvstore.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.CartBackend {
	case config.BackendMemory:
		return memory.NewKVStore(), noop, nil
	case config.BackendRedis:
		s, err := kvstore.NewRedisStore(ctx, cfg.RedisURL, cfg.RedisAddr, cfg.ServiceName)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		s, err := kvstore.NewFileStore(cfg.CartDataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	}
}

func openCatalog(ctx context.Context, cfg *config.Config) (domcatalog.Reader, func(), error) {
	if cfg.CatalogDSN == "" {
		return memory.NewSeededCatalogRepository(), func() {}, nil
	}
	pool, err := postgres.Connect(ctx, cfg.CatalogDSN)
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewCatalogRepository(pool), pool.Close, nil
}
