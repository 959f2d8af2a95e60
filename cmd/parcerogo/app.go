package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/agamariel/parcerogo/internal/catalog"
	"github.com/agamariel/parcerogo/internal/config"
	"github.com/agamariel/parcerogo/internal/events"
	"github.com/agamariel/parcerogo/internal/handlers"
	"github.com/agamariel/parcerogo/internal/migrations"
	"github.com/agamariel/parcerogo/internal/services"
	"github.com/agamariel/parcerogo/internal/storage"
	"github.com/agamariel/parcerogo/internal/telemetry"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	serviceName    = "parcerogo"
	serviceVersion = "0.1.0"
)

// App структура для управления приложением и его зависимостями.
type App struct {
	cfg       *config.Config
	kv        storage.KV
	publisher events.Publisher
	echo      *echo.Echo

	handler        *handlers.DeliveryHandler
	metricsHandler http.Handler
	shutdownFuncs  []telemetry.ShutdownFunc
}

// NewApp создаёт и инициализирует новое приложение.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{
		cfg: cfg,
	}

	if err := app.initTelemetry(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	if err := app.initStorage(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := app.initDependencies(); err != nil {
		return nil, fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	if err := app.initServer(); err != nil {
		return nil, fmt.Errorf("failed to initialize server: %w", err)
	}

	return app, nil
}

// initTelemetry включает метрики Prometheus и, если задан коллектор, трассировку.
func (app *App) initTelemetry(ctx context.Context) error {
	shutdownTracer, err := telemetry.InitTracerProvider(ctx, app.cfg.OTLPEndpoint, serviceName, serviceVersion)
	if err != nil {
		return err
	}
	app.shutdownFuncs = append(app.shutdownFuncs, shutdownTracer)
	if app.cfg.OTLPEndpoint != "" {
		log.Printf("Tracing exported to %s", app.cfg.OTLPEndpoint)
	}

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, serviceVersion)
	if err != nil {
		return err
	}
	app.metricsHandler = metricsHandler
	app.shutdownFuncs = append(app.shutdownFuncs, shutdownMeter)
	return nil
}

// initStorage выбирает хранилище: PostgreSQL, затем файл SQLite, иначе память.
func (app *App) initStorage(ctx context.Context) error {
	switch {
	case app.cfg.DatabaseURI != "":
		return app.initDatabase(ctx)
	case app.cfg.StorePath != "":
		kv, err := storage.OpenSQLiteKV(app.cfg.StorePath)
		if err != nil {
			return err
		}
		app.kv = kv
		log.Printf("Using SQLite store at %s", app.cfg.StorePath)
	default:
		app.kv = storage.NewMemoryKV()
		log.Println("WARNING: no DATABASE_URI or STORE_PATH configured. Orders are kept in memory only!")
	}
	return nil
}

// initDatabase подключается к PostgreSQL и выполняет миграции.
func (app *App) initDatabase(ctx context.Context) error {
	log.Println("Running database migrations...")
	sqlDB, err := sql.Open("pgx", app.cfg.DatabaseURI)
	if err != nil {
		return fmt.Errorf("unable to open database connection: %w", err)
	}
	defer sqlDB.Close()

	if err := migrations.Run(sqlDB, migrations.DialectPostgres); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Migrations completed successfully")

	dbPool, err := pgxpool.New(ctx, app.cfg.DatabaseURI)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return fmt.Errorf("unable to ping database: %w", err)
	}

	app.kv = storage.NewPostgresKV(dbPool)
	log.Println("Successfully connected to database")

	return nil
}

// newCatalogSource выбирает источник справочника по значению CATALOG_SOURCE.
func (app *App) newCatalogSource() catalog.Source {
	src := app.cfg.CatalogSource
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		log.Printf("Reading catalog from %s", src)
		return catalog.NewHTTPSource(src, app.cfg.CatalogTimeout, otelhttp.NewTransport(http.DefaultTransport))
	}
	log.Printf("Reading catalog from directory %s", src)
	return catalog.NewFSSource(os.DirFS(src))
}

// initDependencies инициализирует все зависимости приложения (storage, services, handlers).
func (app *App) initDependencies() error {
	logger := log.Default()

	if len(app.cfg.KafkaBrokers) > 0 {
		log.Printf("Publishing order events to %s on %v", app.cfg.KafkaTopic, app.cfg.KafkaBrokers)
		app.publisher = events.NewKafkaPublisher(app.cfg.KafkaBrokers, app.cfg.KafkaTopic)
	} else {
		app.publisher = events.NopPublisher{}
	}

	// Storage layer
	cat := catalog.NewLoader(app.newCatalogSource(), logger)
	store := storage.NewStore(app.kv, logger)

	// Service layer
	catalogService := services.NewCatalogService(cat, logger)
	orderService := services.NewOrderService(cat, store, app.publisher, logger)
	courierService := services.NewCourierService(cat, store, app.publisher, logger)
	paymentService := services.NewPaymentService(store, app.publisher, logger)

	// Handler layer
	app.handler = handlers.NewDeliveryHandler(catalogService, orderService, courierService, paymentService)

	return nil
}

// initServer собирает echo с маршрутами мок-бэкенда и служебными эндпоинтами.
func (app *App) initServer() error {
	metrics, err := telemetry.NewMetrics(nil)
	if err != nil {
		return err
	}

	e := handlers.NewEcho(app.handler,
		middleware.Logger(),
		middleware.Recover(),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			Generator: uuid.NewString,
		}),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		}),
		metrics.Middleware(),
	)

	e.GET("/metrics", echo.WrapHandler(app.metricsHandler))

	// Справочник из каталога раздаётся по тому же адресу, что ждёт HTTPSource
	if info, err := os.Stat(app.cfg.CatalogSource); err == nil && info.IsDir() {
		e.Static("/data", app.cfg.CatalogSource)
	}

	app.echo = e
	return nil
}

// Start запускает приложение.
func (app *App) Start(ctx context.Context) error {
	log.Printf("Starting server on %s", app.cfg.RunAddress)
	if err := app.echo.Start(app.cfg.RunAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}

// Shutdown корректно завершает работу приложения.
func (app *App) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")

	var errs []error
	if err := app.echo.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shutdown server: %w", err))
	}

	if app.publisher != nil {
		if err := app.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close publisher: %w", err))
		}
	}

	// PostgresKV закрывает и пул соединений
	if app.kv != nil {
		if err := app.kv.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		}
	}

	for _, shutdown := range app.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown telemetry: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	log.Println("Server gracefully stopped")
	return nil
}
