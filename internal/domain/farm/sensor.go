package farm

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smartfarm/backend/internal/domain/shared"
)

// ReadingType is the kind of measurement a sensor reports
type ReadingType string

const (
	ReadingTemperature  ReadingType = "temperature"
	ReadingHumidity     ReadingType = "humidity"
	ReadingSoilMoisture ReadingType = "soilMoisture"
	ReadingLight        ReadingType = "light"
	ReadingPH           ReadingType = "ph"
	ReadingOther        ReadingType = "other"
)

// ReadingTypes lists every accepted reading type
var ReadingTypes = []ReadingType{
	ReadingTemperature,
	ReadingHumidity,
	ReadingSoilMoisture,
	ReadingLight,
	ReadingPH,
	ReadingOther,
}

var defaultUnits = map[ReadingType]string{
	ReadingTemperature:  "°C",
	ReadingHumidity:     "%",
	ReadingSoilMoisture: "%",
	ReadingLight:        "lux",
	ReadingPH:           "pH",
	ReadingOther:        "",
}

// ParseReadingType matches s case-insensitively against the known types,
// so "pH", "PH" and "ph" all parse to ReadingPH.
func ParseReadingType(s string) (ReadingType, error) {
	s = strings.TrimSpace(s)
	for _, t := range ReadingTypes {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", shared.NewValidationError("Invalid sensor type: " + s)
}

// DefaultUnit returns the unit used when a reading omits one
func (t ReadingType) DefaultUnit() string {
	return defaultUnits[t]
}

// SensorReading is a single measurement attached to a field. Readings are
// append-only.
type SensorReading struct {
	ID        uuid.UUID
	FieldID   uuid.UUID
	Type      ReadingType
	Value     float64
	Unit      string
	Timestamp time.Time
	CreatedAt time.Time
}

// NewSensorReading validates and builds a reading. A nil timestamp means
// "now" and a blank unit falls back to the type's default unit.
func NewSensorReading(fieldID uuid.UUID, readingType string, value *float64, unit string, timestamp *time.Time) (*SensorReading, error) {
	if fieldID == uuid.Nil {
		return nil, shared.NewValidationError("Field ID is required")
	}
	t, err := ParseReadingType(readingType)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, shared.NewValidationError("Value is required")
	}
	if math.IsNaN(*value) || math.IsInf(*value, 0) {
		return nil, shared.NewValidationError("Value must be a finite number")
	}

	unit = strings.TrimSpace(unit)
	if unit == "" {
		unit = t.DefaultUnit()
	}

	now := time.Now()
	ts := now
	if timestamp != nil && !timestamp.IsZero() {
		ts = *timestamp
	}

	return &SensorReading{
		ID:        uuid.New(),
		FieldID:   fieldID,
		Type:      t,
		Value:     *value,
		Unit:      unit,
		Timestamp: ts,
		CreatedAt: now,
	}, nil
}
