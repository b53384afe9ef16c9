package handler

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smartfarm/backend/internal/domain/farm"
)

// CreateFieldRequest represents the request body for creating a field.
// Size accepts a JSON number or a numeric string.
type CreateFieldRequest struct {
	Name     string           `json:"name" binding:"required,max=200"`
	CropType string           `json:"cropType" binding:"required,max=200"`
	Location string           `json:"location" binding:"required,max=200"`
	Size     *decimal.Decimal `json:"size"`
}

// UpdateFieldRequest represents a partial update. Omitted attributes keep
// their current value.
type UpdateFieldRequest struct {
	Name     *string          `json:"name" binding:"omitempty,max=200"`
	CropType *string          `json:"cropType" binding:"omitempty,max=200"`
	Location *string          `json:"location" binding:"omitempty,max=200"`
	Size     *decimal.Decimal `json:"size"`
}

// FieldResponse represents a field in API responses
type FieldResponse struct {
	ID        uuid.UUID    `json:"id"`
	OwnerID   uuid.UUID    `json:"ownerId"`
	Name      string       `json:"name"`
	CropType  string       `json:"cropType"`
	Location  string       `json:"location"`
	Size      *json.Number `json:"size"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// DeleteFieldResponse confirms a deletion
type DeleteFieldResponse struct {
	Message string `json:"message"`
}

func toFieldResponse(f *farm.Field) FieldResponse {
	resp := FieldResponse{
		ID:        f.ID,
		OwnerID:   f.OwnerID,
		Name:      f.Name,
		CropType:  f.CropType,
		Location:  f.Location,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
	if f.Size != nil {
		// Exact decimal text, emitted as a JSON number
		n := json.Number(f.Size.String())
		resp.Size = &n
	}
	return resp
}

func toFieldResponses(fields []*farm.Field) []FieldResponse {
	out := make([]FieldResponse, 0, len(fields))
	for _, f := range fields {
		out = append(out, toFieldResponse(f))
	}
	return out
}
