package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and audit timestamps shared by users and
// fields. Timestamps are kept in UTC.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity assigns a fresh ID and stamps both timestamps with the same instant
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch marks the entity as modified. UpdatedAt never moves backwards, so
// it stays at or after CreatedAt even if the clock steps back.
func (e *BaseEntity) Touch() {
	now := time.Now().UTC()
	if now.Before(e.UpdatedAt) {
		return
	}
	e.UpdatedAt = now
}
