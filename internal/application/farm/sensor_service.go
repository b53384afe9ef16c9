package farm

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/smartfarm/backend/internal/domain/farm"
	"github.com/smartfarm/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Reading origins used as a metrics label
const (
	OriginHTTP = "http"
	OriginMQTT = "mqtt"
)

// SensorService records and lists sensor readings. Readings are not
// owner-scoped: any authenticated caller may read or write readings for
// any existing field.
type SensorService struct {
	readings farm.SensorReadingRepository
	fields   farm.FieldRepository
	source   farm.SensorSource
	logger   *zap.Logger
	metrics  *telemetry.FarmMetrics
}

// NewSensorService creates a new sensor service. source backs Latest.
func NewSensorService(
	readings farm.SensorReadingRepository,
	fields farm.FieldRepository,
	source farm.SensorSource,
	logger *zap.Logger,
) *SensorService {
	return &SensorService{
		readings: readings,
		fields:   fields,
		source:   source,
		logger:   logger,
	}
}

// SetMetrics sets the farm metrics collector
func (s *SensorService) SetMetrics(m *telemetry.FarmMetrics) {
	s.metrics = m
}

// Record appends a reading to an existing field
func (s *SensorService) Record(ctx context.Context, input RecordReadingInput) (*farm.SensorReading, error) {
	return s.record(ctx, input, OriginHTTP)
}

// RecordFrom is Record with an explicit origin label
func (s *SensorService) RecordFrom(ctx context.Context, input RecordReadingInput, origin string) (*farm.SensorReading, error) {
	return s.record(ctx, input, origin)
}

func (s *SensorService) record(ctx context.Context, input RecordReadingInput, origin string) (*farm.SensorReading, error) {
	reading, err := farm.NewSensorReading(input.FieldID, input.Type, input.Value, input.Unit, input.Timestamp)
	if err != nil {
		return nil, err
	}

	exists, err := s.fields.ExistsByID(ctx, input.FieldID)
	if err != nil {
		s.logger.Error("Failed to check field", zap.String("field_id", input.FieldID.String()), zap.Error(err))
		return nil, fmt.Errorf("check field: %w", err)
	}
	if !exists {
		return nil, errFieldNotFound
	}

	if err := s.readings.Create(ctx, reading); err != nil {
		s.logger.Error("Failed to record reading", zap.String("field_id", input.FieldID.String()), zap.Error(err))
		return nil, fmt.Errorf("record reading: %w", err)
	}

	s.metrics.RecordReading(ctx, string(reading.Type), origin)
	s.logger.Debug("Reading recorded",
		zap.String("field_id", reading.FieldID.String()),
		zap.String("type", string(reading.Type)),
		zap.Float64("value", reading.Value))
	return reading, nil
}

// ListByField returns a field's readings, newest first. It does not check
// that the field exists.
func (s *SensorService) ListByField(ctx context.Context, fieldID uuid.UUID, filter ReadingFilter) ([]*farm.SensorReading, error) {
	f, err := filter.toDomain()
	if err != nil {
		return nil, err
	}

	readings, err := s.readings.FindByField(ctx, fieldID, f)
	if err != nil {
		s.logger.Error("Failed to list readings", zap.String("field_id", fieldID.String()), zap.Error(err))
		return nil, fmt.Errorf("list readings: %w", err)
	}
	return readings, nil
}

// Latest returns the current dashboard readings for a field from the
// configured sensor source
func (s *SensorService) Latest(ctx context.Context, fieldID uuid.UUID) ([]*farm.SensorReading, error) {
	readings, err := s.source.ReadLatest(ctx, fieldID)
	if err != nil {
		s.logger.Error("Failed to read latest readings", zap.String("field_id", fieldID.String()), zap.Error(err))
		return nil, fmt.Errorf("read latest: %w", err)
	}
	return readings, nil
}
