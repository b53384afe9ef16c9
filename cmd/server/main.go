package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/smartfarm/backend/internal/app"
	"github.com/smartfarm/backend/internal/infrastructure/config"
	"github.com/smartfarm/backend/internal/infrastructure/logger"
	"github.com/smartfarm/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// With telemetry on, every record is also exported over OTLP
	logs, err := telemetry.NewLoggerProvider(ctx, app.TelemetryConfig(cfg), log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log = telemetry.NewBridgedLogger(log,
		telemetry.NewZapOTELCore(cfg.Telemetry.ServiceName, logs, logger.ParseLevel(cfg.Log.Level)))
	defer func() {
		_ = log.Sync()
		_ = logs.Shutdown(context.Background())
	}()

	log.Info("Starting smartfarm backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("sensor_source", cfg.Sensor.Source),
		zap.Bool("mqtt", cfg.MQTT.Enabled),
		zap.Bool("telemetry", cfg.Telemetry.Enabled),
		zap.Bool("profiling", cfg.Profiling.Enabled),
	)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}

	if err := a.Run(ctx); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		_ = log.Sync()
		_ = logs.Shutdown(context.Background())
		os.Exit(1)
	}
}
