// Package api boots the fstore HTTP process: configuration, observability,
// storage, services, workflows, and the gin router.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	cataloghttp "github.com/fstore/fstore-api/internal/domains/catalog/adapters/http"
	catalogmemory "github.com/fstore/fstore-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/fstore/fstore-api/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/fstore/fstore-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/fstore/fstore-api/internal/domains/catalog/application"
	catalogdomain "github.com/fstore/fstore-api/internal/domains/catalog/domain"
	catalogports "github.com/fstore/fstore-api/internal/domains/catalog/ports"

	ordershttp "github.com/fstore/fstore-api/internal/domains/orders/adapters/http"
	ordersmemory "github.com/fstore/fstore-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/fstore/fstore-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/fstore/fstore-api/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/fstore/fstore-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/fstore/fstore-api/internal/domains/orders/application"
	ordersdomain "github.com/fstore/fstore-api/internal/domains/orders/domain"
	ordersports "github.com/fstore/fstore-api/internal/domains/orders/ports"

	"github.com/fstore/fstore-api/internal/platform/migrations"
	platformobservability "github.com/fstore/fstore-api/internal/platform/observability"
	platformpostgres "github.com/fstore/fstore-api/internal/platform/postgres"
)

const serviceName = "fstore-api"

// Run boots the fstore HTTP API with observability, storage, and workflows
// wired.
func Run(ctx context.Context) error {
	cfg := LoadConfig()
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	storage, cleanupStorage := buildStorage(ctx, logger, cfg)
	defer cleanupStorage()

	catalogService := catalogobs.New(
		catalogapp.NewService(storage.products, storage.categories),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	orderService := ordersobs.New(
		ordersapp.NewService(storage.orders),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	router := NewRouter(catalogService, orderService, orderWorkflows)
	addr := ":" + cfg.Port
	logger.Info("fstore API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("fstore API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// NewRouter assembles the gin engine with tracing middleware and all routes.
func NewRouter(catalogService catalogports.Service, orderService ordersports.Service, orderWorkflows ordersports.WorkflowOrchestrator) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	productAPI := cataloghttp.NewProductAPI(catalogService)
	productAPI.Register(router)
	orderAPI := ordershttp.NewOrderAPI(orderService, orderWorkflows)
	orderAPI.Register(router)
	return router
}

type storageSet struct {
	products   catalogports.ProductRepository
	categories catalogports.CategoryRepository
	orders     ordersports.Store
}

func buildStorage(ctx context.Context, logger *slog.Logger, cfg Config) (storageSet, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory storage with demo data")
		return buildMemoryStorage(ctx), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return buildMemoryStorage(ctx), func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to run migrations, falling back to memory", slog.String("error", err.Error()))
		return buildMemoryStorage(ctx), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return buildMemoryStorage(ctx), func() {}
	}
	logger.Info("storage configured with postgres")
	return storageSet{
		products:   catalogpostgres.NewProductRepository(db),
		categories: catalogpostgres.NewCategoryRepository(db),
		orders:     orderspostgres.NewStore(db),
	}, func() { _ = sqlDB.Close() }
}

// buildMemoryStorage seeds enough data to exercise the API without a
// database. The catalog repositories and the order store hold independent
// product sets, so stock changes made through orders are not visible in the
// catalog endpoints in this mode.
func buildMemoryStorage(ctx context.Context) storageSet {
	products := catalogmemory.NewProductRepository()
	categories := catalogmemory.NewCategoryRepository()
	orders := ordersmemory.NewStore()

	beverages := categories.Put(catalogdomain.Category{ID: 1, CategoryName: "Beverages"})
	snacks := categories.Put(catalogdomain.Category{ID: 2, CategoryName: "Snacks"})
	demo := []catalogdomain.Product{
		{ID: 1, CategoryID: &beverages.ID, ProductName: "Oolong Tea", Weight: "250g", UnitPrice: decimal.NewFromInt(12), UnitsInStock: 10},
		{ID: 2, CategoryID: &beverages.ID, ProductName: "Robusta Coffee", Weight: "500g", UnitPrice: decimal.NewFromInt(18), UnitsInStock: 25},
		{ID: 3, CategoryID: &snacks.ID, ProductName: "Rice Crackers", Weight: "120g", UnitPrice: decimal.NewFromInt(4), UnitsInStock: 40},
	}
	for _, product := range demo {
		clone := product
		_, _ = products.Save(ctx, &clone)
		orders.SeedProduct(product)
	}
	orders.SeedMember(ordersdomain.Member{ID: 1, Email: "member@fstore.local"})
	return storageSet{products: products, categories: categories, orders: orders}
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.Default()
}
