package farm

import (
	"context"

	"github.com/google/uuid"
)

// ReadingFilter narrows a reading listing. Zero values mean no filter.
type ReadingFilter struct {
	Type  ReadingType
	Limit int
}

// SensorReadingRepository persists readings
type SensorReadingRepository interface {
	Create(ctx context.Context, reading *SensorReading) error

	// FindByField lists readings for a field ordered by timestamp desc,
	// then created_at desc
	FindByField(ctx context.Context, fieldID uuid.UUID, filter ReadingFilter) ([]*SensorReading, error)

	// LatestByType returns the newest reading of each type for a field
	LatestByType(ctx context.Context, fieldID uuid.UUID) ([]*SensorReading, error)
}
