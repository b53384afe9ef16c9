package sensorsource

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/smartfarm/backend/internal/client"
	"github.com/smartfarm/backend/internal/domain/farm"
	"go.uber.org/zap"
)

const defaultIngestLimit = 100

// IngestSource fetches readings from a remote farm ingest service through
// the client gateway.
type IngestSource struct {
	api    *client.FarmClient
	limit  int
	logger *zap.Logger
}

// NewIngestSource creates a source calling api. limit <= 0 uses 100.
func NewIngestSource(api *client.FarmClient, limit int, logger *zap.Logger) *IngestSource {
	if limit <= 0 {
		limit = defaultIngestLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestSource{api: api, limit: limit, logger: logger}
}

// ReadLatest implements farm.SensorSource
func (s *IngestSource) ReadLatest(ctx context.Context, fieldID uuid.UUID) ([]*farm.SensorReading, error) {
	remote, err := s.api.ListReadings(ctx, fieldID, client.ReadingQuery{Limit: s.limit})
	if err != nil {
		return nil, fmt.Errorf("ingest service: %w", err)
	}

	readings := make([]*farm.SensorReading, 0, len(remote))
	for _, r := range remote {
		t, err := farm.ParseReadingType(r.Type)
		if err != nil {
			s.logger.Debug("skipping ingest reading with unknown type",
				zap.String("field_id", fieldID.String()),
				zap.String("type", r.Type),
			)
			continue
		}
		readings = append(readings, &farm.SensorReading{
			ID:        r.ID,
			FieldID:   fieldID,
			Type:      t,
			Value:     r.Value,
			Unit:      r.Unit,
			Timestamp: r.Timestamp,
			CreatedAt: r.CreatedAt,
		})
	}
	return readings, nil
}

var _ farm.SensorSource = (*IngestSource)(nil)
