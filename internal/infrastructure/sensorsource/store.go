// Package sensorsource provides the farm.SensorSource implementations
// behind the latest-readings endpoint: the local store, a mock generator
// and a remote ingest service.
package sensorsource

import (
	"context"

	"github.com/google/uuid"
	"github.com/smartfarm/backend/internal/domain/farm"
)

// StoreSource reads the newest stored reading of each type
type StoreSource struct {
	readings farm.SensorReadingRepository
}

// NewStoreSource creates a source over the readings repository
func NewStoreSource(readings farm.SensorReadingRepository) *StoreSource {
	return &StoreSource{readings: readings}
}

// ReadLatest implements farm.SensorSource
func (s *StoreSource) ReadLatest(ctx context.Context, fieldID uuid.UUID) ([]*farm.SensorReading, error) {
	return s.readings.LatestByType(ctx, fieldID)
}

var _ farm.SensorSource = (*StoreSource)(nil)
