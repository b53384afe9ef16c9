package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/smartfarm/backend/internal/domain/farm"
)

// RecordReadingRequest represents the request body for recording a reading.
// Value is a pointer so that 0 is distinguishable from "missing".
type RecordReadingRequest struct {
	FieldID   string     `json:"fieldId" binding:"required,uuid"`
	Type      string     `json:"type" binding:"required"`
	Value     *float64   `json:"value" binding:"required"`
	Unit      string     `json:"unit" binding:"max=20"`
	Timestamp *time.Time `json:"timestamp"`
}

// ListReadingsQuery holds the optional listing filters
type ListReadingsQuery struct {
	Type  string `form:"type"`
	Limit int    `form:"limit" binding:"omitempty,gte=1"`
}

// ReadingResponse represents a sensor reading in API responses
type ReadingResponse struct {
	ID        uuid.UUID `json:"id"`
	FieldID   uuid.UUID `json:"fieldId"`
	Type      string    `json:"type"`
	Value     float64   `json:"value"`
	Unit      string    `json:"unit"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"createdAt"`
}

func toReadingResponse(r *farm.SensorReading) ReadingResponse {
	return ReadingResponse{
		ID:        r.ID,
		FieldID:   r.FieldID,
		Type:      string(r.Type),
		Value:     r.Value,
		Unit:      r.Unit,
		Timestamp: r.Timestamp,
		CreatedAt: r.CreatedAt,
	}
}

func toReadingResponses(readings []*farm.SensorReading) []ReadingResponse {
	out := make([]ReadingResponse, 0, len(readings))
	for _, r := range readings {
		out = append(out, toReadingResponse(r))
	}
	return out
}
