package farm

import (
	"context"

	"github.com/google/uuid"
)

// SensorSource supplies the current readings shown on a field dashboard.
// Implementations may read the local store, generate data, or call a
// remote ingest service.
type SensorSource interface {
	ReadLatest(ctx context.Context, fieldID uuid.UUID) ([]*SensorReading, error)
}
