package farm

import (
	"context"

	"github.com/google/uuid"
)

// FieldRepository persists fields. Owner-scoped lookups return
// shared.ErrNotFound both when the field is missing and when it belongs
// to someone else.
type FieldRepository interface {
	Create(ctx context.Context, field *Field) error

	// Update saves all mutable attributes of an existing field
	Update(ctx context.Context, field *Field) error

	// FindByIDForOwner finds a field by ID restricted to its owner
	FindByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*Field, error)

	// FindAllByOwner lists the owner's fields, newest first
	FindAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Field, error)

	// DeleteForOwner removes a field restricted to its owner
	DeleteForOwner(ctx context.Context, id, ownerID uuid.UUID) error

	// ExistsByID checks whether any field has the given ID
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}
