package sensorsource

import (
	"fmt"

	"github.com/smartfarm/backend/internal/client"
	"github.com/smartfarm/backend/internal/domain/farm"
	"github.com/smartfarm/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New builds the source selected by cfg.Source
func New(cfg config.SensorConfig, readings farm.SensorReadingRepository, logger *zap.Logger) (farm.SensorSource, error) {
	switch cfg.Source {
	case config.SensorSourceStore, "":
		logger.Info("Sensor source: store")
		return NewStoreSource(readings), nil

	case config.SensorSourceMock:
		types := make([]farm.ReadingType, 0, len(cfg.MockTypes))
		for _, name := range cfg.MockTypes {
			t, err := farm.ParseReadingType(name)
			if err != nil {
				return nil, fmt.Errorf("sensor.mock_types: %w", err)
			}
			types = append(types, t)
		}
		logger.Info("Sensor source: mock",
			zap.Int("hours", cfg.MockHours),
			zap.Float64("min", cfg.MockMin),
			zap.Float64("max", cfg.MockMax),
		)
		return NewMockSource(MockConfig{Hours: cfg.MockHours, Min: cfg.MockMin, Max: cfg.MockMax, Types: types}, nil)

	case config.SensorSourceIngest:
		gw, err := client.NewGateway(client.Config{
			BaseURL: cfg.IngestURL,
			Timeout: cfg.IngestTimeout,
			Logger:  logger,
		}, client.NewMemoryTokenStore(cfg.IngestToken))
		if err != nil {
			return nil, fmt.Errorf("sensor.ingest_url: %w", err)
		}
		logger.Info("Sensor source: ingest", zap.String("url", cfg.IngestURL))
		return NewIngestSource(client.NewFarmClient(gw), cfg.IngestLimit, logger), nil

	default:
		return nil, fmt.Errorf("unknown sensor source %q", cfg.Source)
	}
}
