package farm

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smartfarm/backend/internal/domain/farm"
)

// CreateFieldInput contains the input for creating a field
type CreateFieldInput struct {
	Name     string
	CropType string
	Location string
	Size     *decimal.Decimal
}

// UpdateFieldInput contains a partial field update. Nil means "not supplied".
type UpdateFieldInput struct {
	Name     *string
	CropType *string
	Location *string
	Size     *decimal.Decimal
}

// RecordReadingInput contains the input for recording a sensor reading
type RecordReadingInput struct {
	FieldID   uuid.UUID
	Type      string
	Value     *float64
	Unit      string
	Timestamp *time.Time
}

// ReadingFilter narrows a reading listing
type ReadingFilter struct {
	Type  string
	Limit int
}

// MaxReadingLimit caps how many readings one listing returns
const MaxReadingLimit = 1000

func (f ReadingFilter) toDomain() (farm.ReadingFilter, error) {
	var out farm.ReadingFilter
	if f.Type != "" {
		t, err := farm.ParseReadingType(f.Type)
		if err != nil {
			return out, err
		}
		out.Type = t
	}
	if f.Limit > 0 {
		out.Limit = min(f.Limit, MaxReadingLimit)
	}
	return out, nil
}
