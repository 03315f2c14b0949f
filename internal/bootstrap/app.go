package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/locvowork/employee_details/internal/config"
	"github.com/locvowork/employee_details/internal/database"
	"github.com/locvowork/employee_details/internal/domain"
	"github.com/locvowork/employee_details/internal/handler"
	"github.com/locvowork/employee_details/internal/logger"
	"github.com/locvowork/employee_details/internal/observability/metrics"
	"github.com/locvowork/employee_details/internal/observability/tracing"
	"github.com/locvowork/employee_details/internal/repository"
	"github.com/locvowork/employee_details/internal/service"
)

const APIPrefix = "/api/v1/employee"

type App struct {
	Echo    *echo.Echo
	Service service.EmployeeService

	closers []func() error
}

func NewApp() *App {
	e := echo.New()
	e.HideBanner = true
	return &App{Echo: e}
}

// InitializeServices loads configuration, logging, tracing and the selected
// store, and builds the employee service. The seeder stops here.
func (a *App) InitializeServices(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	cfg := config.DefaultEnvConfig

	// Initialize logging
	logger.InitLogging(logger.Options{
		FilePath: cfg.LOG_FILE_PATH,
		Level:    cfg.LOG_LEVEL,
		Pretty:   cfg.LOG_PRETTY,
	})
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Endpoint:    cfg.OTEL_EXPORTER_OTLP_ENDPOINT,
		ServiceName: cfg.SERVICE_NAME,
		Environment: cfg.ENVIRONMENT,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.closers = append(a.closers, func() error { return shutdownTracing(context.Background()) })

	repo, err := a.openRepository(ctx, cfg.STORAGE_DRIVER)
	if err != nil {
		return fmt.Errorf("failed to initialize %s storage: %w", cfg.STORAGE_DRIVER, err)
	}
	logger.InfoLog(ctx, "Storage %q ready", cfg.STORAGE_DRIVER)

	a.Service = service.NewEmployeeService(repo)
	return nil
}

// Initialize wires the whole HTTP application.
func (a *App) Initialize(ctx context.Context) error {
	if err := a.InitializeServices(ctx); err != nil {
		return err
	}

	empHandler := handler.NewEmployeeHandler(a.Service)
	healthHandler := handler.NewHealthHandler(a.Service)

	// Register Middlewares
	a.RegisterMiddlewares(config.DefaultEnvConfig.CORS_ALLOWED_ORIGINS)

	// Register Routes
	a.RegisterRoutes(empHandler, healthHandler)

	return nil
}

func (a *App) openRepository(ctx context.Context, driver string) (domain.EmployeeRepository, error) {
	cfg := config.DefaultEnvConfig

	switch driver {
	case config.StorageDriverPostgres:
		db, err := database.NewPostgresDB(ctx, database.Config{
			Host:            cfg.DB_HOST,
			Port:            cfg.DB_PORT,
			User:            cfg.DB_USER,
			Password:        cfg.DB_PASSWORD,
			DBName:          cfg.DB_NAME,
			SSLMode:         cfg.DB_SSL_MODE,
			MaxOpenConns:    cfg.DB_MAX_OPEN_CONNS,
			MaxIdleConns:    cfg.DB_MAX_IDLE_CONNS,
			ConnMaxLifetime: cfg.DB_CONN_MAX_LIFETIME,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		return repository.NewSQLEmployeeRepository(db), nil

	case config.StorageDriverSQLite:
		db, err := database.NewSQLiteDB(ctx, cfg.SQLITE_PATH)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		return repository.NewSQLEmployeeRepository(db), nil

	case config.StorageDriverMemory:
		return repository.NewMemoryEmployeeRepository(), nil

	case config.StorageDriverDatastore:
		client, err := database.NewDatastoreClient(ctx, cfg.DATASTORE_PROJECT_ID)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return repository.NewDatastoreEmployeeRepository(client, cfg.DATASTORE_KIND), nil

	case config.StorageDriverElasticsearch:
		client, err := database.NewElasticClient(ctx, cfg.ELASTIC_URL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { client.Stop(); return nil })
		return repository.NewElasticEmployeeRepository(ctx, client, cfg.ELASTIC_INDEX)

	case config.StorageDriverRedis:
		client, err := database.NewRedisClient(ctx, cfg.REDIS_URL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return repository.NewRedisEmployeeRepository(client, cfg.REDIS_KEY_PREFIX), nil

	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", driver)
	}
}

func (a *App) RegisterMiddlewares(allowedOrigins []string) {
	a.Echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	a.Echo.Use(logger.RequestLogger())
	a.Echo.Use(metrics.Middleware())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))
}

func (a *App) RegisterRoutes(empHandler *handler.EmployeeHandler, healthHandler *handler.HealthHandler) {
	empHandler.Register(a.Echo.Group(APIPrefix))

	a.Echo.GET("/healthz", healthHandler.LivenessHandler)
	a.Echo.GET("/readyz", healthHandler.ReadinessHandler)
	a.Echo.GET("/metrics", metrics.Handler())
}

// Run serves HTTP until SIGINT or SIGTERM, then drains in-flight requests
// within SHUTDOWN_TIMEOUT and releases the store.
func (a *App) Run() error {
	defer a.Close()
	cfg := config.DefaultEnvConfig

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    ":" + cfg.APP_PORT,
		Handler: otelhttp.NewHandler(a.Echo, cfg.SERVICE_NAME),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoLog(ctx, "HTTP server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.InfoLog(context.Background(), "Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.SHUTDOWN_TIMEOUT)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return <-errCh
}

// Close releases stores and flushes tracing, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
