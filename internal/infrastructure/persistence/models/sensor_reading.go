package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/smartfarm/backend/internal/domain/farm"
)

// SensorReadingModel is the persistence model for SensorReading.
// Readings are append-only so there is no updated_at column. Field is only
// there to declare the cascading foreign key; it is never preloaded.
type SensorReadingModel struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key"`
	FieldID   uuid.UUID   `gorm:"type:uuid;not null;index:idx_sensor_readings_field_ts,priority:1"`
	Field     *FieldModel `gorm:"foreignKey:FieldID;constraint:OnDelete:CASCADE"`
	Type      string      `gorm:"type:varchar(32);not null"`
	Value     float64     `gorm:"not null"`
	Unit      string      `gorm:"type:varchar(32);not null;default:''"`
	Timestamp time.Time   `gorm:"not null;index:idx_sensor_readings_field_ts,priority:2,sort:desc"`
	CreatedAt time.Time   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SensorReadingModel) TableName() string {
	return "sensor_readings"
}

// ToDomain converts the persistence model to a domain SensorReading.
func (m *SensorReadingModel) ToDomain() *farm.SensorReading {
	return &farm.SensorReading{
		ID:        m.ID,
		FieldID:   m.FieldID,
		Type:      farm.ReadingType(m.Type),
		Value:     m.Value,
		Unit:      m.Unit,
		Timestamp: m.Timestamp,
		CreatedAt: m.CreatedAt,
	}
}

// SensorReadingModelFromDomain creates a persistence model from a domain reading.
func SensorReadingModelFromDomain(r *farm.SensorReading) *SensorReadingModel {
	return &SensorReadingModel{
		ID:        r.ID,
		FieldID:   r.FieldID,
		Type:      string(r.Type),
		Value:     r.Value,
		Unit:      r.Unit,
		Timestamp: r.Timestamp,
		CreatedAt: r.CreatedAt,
	}
}
