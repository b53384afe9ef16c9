// Package app assembles the farm backend: database, repositories, services,
// HTTP engine, MQTT ingest bridge and telemetry.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	farmapp "github.com/smartfarm/backend/internal/application/farm"
	identityapp "github.com/smartfarm/backend/internal/application/identity"
	"github.com/smartfarm/backend/internal/infrastructure/auth"
	"github.com/smartfarm/backend/internal/infrastructure/cache"
	"github.com/smartfarm/backend/internal/infrastructure/config"
	"github.com/smartfarm/backend/internal/infrastructure/logger"
	"github.com/smartfarm/backend/internal/infrastructure/mqttingest"
	"github.com/smartfarm/backend/internal/infrastructure/persistence"
	"github.com/smartfarm/backend/internal/infrastructure/sensorsource"
	"github.com/smartfarm/backend/internal/infrastructure/telemetry"
	"github.com/smartfarm/backend/internal/interfaces/http/handler"
	"github.com/smartfarm/backend/internal/interfaces/http/middleware"
	"github.com/smartfarm/backend/internal/interfaces/http/router"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ShutdownTimeout bounds graceful shutdown of the HTTP server
const ShutdownTimeout = 30 * time.Second

const instrumentationName = "github.com/smartfarm/backend"

// App is a fully wired server instance
type App struct {
	cfg       *config.Config
	log       *zap.Logger
	db        *persistence.Database
	ownsDB    bool
	telemetry *telemetry.Providers
	profiler  *telemetry.Profiler
	rateStore cache.RateLimitStore
	bridge    *mqttingest.Bridge
	engine    *gin.Engine
	server    *http.Server
}

// New connects to the configured database and wires the application
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithIgnoreRecordNotFoundError(true))

	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		return nil, err
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	a, err := NewWithDatabase(ctx, cfg, log, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	a.ownsDB = true
	return a, nil
}

// NewWithDatabase wires the application on an already opened database.
// SQLite schemas are created with AutoMigrate; PostgreSQL schemas are
// expected to be managed by cmd/migrate.
func NewWithDatabase(ctx context.Context, cfg *config.Config, log *zap.Logger, db *persistence.Database) (*App, error) {
	a := &App{cfg: cfg, log: log, db: db}

	if db.Driver == config.DriverSQLite {
		if err := db.AutoMigrate(); err != nil {
			return nil, err
		}
	}

	providers, err := telemetry.Setup(ctx, TelemetryConfig(cfg), log)
	if err != nil {
		return nil, fmt.Errorf("telemetry setup: %w", err)
	}
	a.telemetry = providers

	a.profiler, err = telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiling.Enabled,
		ServerAddress:     cfg.Profiling.ServerAddress,
		ApplicationName:   cfg.Profiling.ApplicationName,
		BasicAuthUser:     cfg.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Profiling.BasicAuthPassword,
		ProfileTypes:      cfg.Profiling.ProfileTypes,
	}, log)
	if err != nil {
		a.closeQuietly()
		return nil, fmt.Errorf("profiler: %w", err)
	}
	if cfg.Profiling.SpanProfiles && a.profiler.Enabled() {
		if err := providers.EnableSpanProfiles(); err != nil {
			log.Warn("Span profiles not enabled", zap.Error(err))
		}
	}

	dbSystem := "postgresql"
	if db.Driver == config.DriverSQLite {
		dbSystem = "sqlite"
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
		DBSystem:   dbSystem,
	}, log); err != nil {
		a.closeQuietly()
		return nil, fmt.Errorf("database tracing: %w", err)
	}

	var metrics *telemetry.FarmMetrics
	if providers.Enabled() {
		if metrics, err = telemetry.NewFarmMetrics(providers.Meter(instrumentationName)); err != nil {
			a.closeQuietly()
			return nil, fmt.Errorf("farm metrics: %w", err)
		}
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	fieldRepo := persistence.NewGormFieldRepository(db.DB)
	readingRepo := persistence.NewGormSensorReadingRepository(db.DB)

	source, err := sensorsource.New(cfg.Sensor, readingRepo, log)
	if err != nil {
		a.closeQuietly()
		return nil, err
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	authService.SetMetrics(metrics)
	fieldService := farmapp.NewFieldService(fieldRepo, log)
	sensorService := farmapp.NewSensorService(readingRepo, fieldRepo, source, log)
	sensorService.SetMetrics(metrics)

	if cfg.HTTP.AuthRateLimitEnabled {
		store, err := cache.NewRateLimitStoreFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(!cfg.IsProduction()),
		).CreateStore()
		if err != nil {
			a.closeQuietly()
			return nil, fmt.Errorf("rate limit store: %w", err)
		}
		a.rateStore = store
	}

	if cfg.MQTT.Enabled {
		a.bridge = mqttingest.NewBridge(cfg.MQTT, sensorService, log)
	}

	a.engine = a.newEngine(jwtService, providers, router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Field:  handler.NewFieldHandler(fieldService),
		Sensor: handler.NewSensorHandler(sensorService),
		Health: handler.NewHealthHandler(db),
	})

	a.server = &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        a.engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	return a, nil
}

// TelemetryConfig maps the telemetry section onto the exporter settings
// shared by traces, metrics and logs
func TelemetryConfig(cfg *config.Config) telemetry.Config {
	return telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}
}

func (a *App) newEngine(jwtService *auth.JWTService, providers *telemetry.Providers, h router.Handlers) *gin.Engine {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(a.cfg.HTTP.TrustedProxies); err != nil {
		a.log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(a.log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: a.cfg.Telemetry.ServiceName,
		Enabled:     providers.Enabled(),
	}))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(a.meter(providers), a.log))
	if a.profiler.Enabled() {
		engine.Use(middleware.ProfilingLabels("/health", "/api/v1/health"))
	}
	engine.Use(logger.GinMiddleware(a.log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(a.cfg.HTTP))
	engine.Use(middleware.BodyLimit(a.cfg.HTTP.MaxBodySize))

	engine.GET("/health", h.Health.Check)

	var authLimiter gin.HandlerFunc
	if a.rateStore != nil {
		authLimiter = middleware.RateLimit(middleware.RateLimitConfig{
			Store:  a.rateStore,
			Limit:  a.cfg.HTTP.AuthRateLimitRequests,
			Window: a.cfg.HTTP.AuthRateLimitWindow,
			Prefix: "auth",
			Logger: a.log,
		})
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths:  middleware.DefaultJWTConfig(jwtService).SkipPaths,
		Logger:     a.log,
	}))
	r.Register(router.FarmRoutes(h, authLimiter)...)
	r.Setup()

	return engine
}

func (a *App) meter(providers *telemetry.Providers) metric.Meter {
	if !providers.Enabled() {
		return nil
	}
	return providers.Meter(instrumentationName)
}

// Handler returns the HTTP handler, for tests and embedding
func (a *App) Handler() http.Handler {
	return a.engine
}

// Run starts the MQTT bridge and the HTTP server and blocks until ctx is
// cancelled or the server fails. It then shuts everything down within
// ShutdownTimeout.
func (a *App) Run(ctx context.Context) error {
	if a.bridge != nil {
		if err := a.bridge.Start(); err != nil {
			return err
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		a.log.Info("Server starting", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("Shutting down server...")
	case err := <-serveErr:
		runErr = fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.log.Error("Server forced to shutdown", zap.Error(err))
		runErr = errors.Join(runErr, err)
	}
	if err := a.Close(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, err)
	}

	if runErr == nil {
		a.log.Info("Server exited gracefully")
	}
	return runErr
}

// Close releases the bridge, rate limit store, profiler, telemetry and,
// when New opened it, the database
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.bridge != nil {
		a.bridge.Stop()
	}
	if err := a.profiler.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop profiler: %w", err))
	}
	if a.rateStore != nil {
		if err := a.rateStore.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close rate limit store: %w", err))
		}
	}
	if a.telemetry != nil {
		if err := a.telemetry.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown telemetry: %w", err))
		}
	}
	if a.ownsDB {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (a *App) closeQuietly() {
	_ = a.profiler.Stop()
	if a.telemetry != nil {
		_ = a.telemetry.Shutdown(context.Background())
	}
}
