package farm

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smartfarm/backend/internal/domain/shared"
)

const maxFieldTextLength = 200

// Field is a farm plot owned by exactly one user.
type Field struct {
	shared.BaseEntity
	OwnerID  uuid.UUID
	Name     string
	CropType string
	Location string
	// Size is the area in hectares. Nil when unknown.
	Size *decimal.Decimal
}

// NewField validates the attributes and creates a field owned by ownerID.
func NewField(ownerID uuid.UUID, name, cropType, location string, size *decimal.Decimal) (*Field, error) {
	if ownerID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	name = strings.TrimSpace(name)
	cropType = strings.TrimSpace(cropType)
	location = strings.TrimSpace(location)

	if name == "" || cropType == "" || location == "" {
		return nil, shared.NewValidationError("Please provide all fields")
	}
	if err := validateText(name, cropType, location); err != nil {
		return nil, err
	}
	if err := validateSize(size); err != nil {
		return nil, err
	}

	return &Field{
		BaseEntity: shared.NewBaseEntity(),
		OwnerID:    ownerID,
		Name:       name,
		CropType:   cropType,
		Location:   location,
		Size:       size,
	}, nil
}

// FieldUpdate carries the attributes supplied in a partial update.
// Nil pointers and blank strings leave the current value in place.
type FieldUpdate struct {
	Name     *string
	CropType *string
	Location *string
	Size     *decimal.Decimal
}

// ApplyUpdate overwrites the supplied attributes. It reports whether
// anything changed; applying the same update twice changes nothing the
// second time.
func (f *Field) ApplyUpdate(u FieldUpdate) (bool, error) {
	name := supplied(u.Name, f.Name)
	cropType := supplied(u.CropType, f.CropType)
	location := supplied(u.Location, f.Location)

	if err := validateText(name, cropType, location); err != nil {
		return false, err
	}
	if err := validateSize(u.Size); err != nil {
		return false, err
	}

	changed := name != f.Name || cropType != f.CropType || location != f.Location
	f.Name, f.CropType, f.Location = name, cropType, location

	if u.Size != nil && (f.Size == nil || !f.Size.Equal(*u.Size)) {
		size := *u.Size
		f.Size = &size
		changed = true
	}

	if changed {
		f.Touch()
	}
	return changed, nil
}

// IsOwnedBy reports whether userID owns the field
func (f *Field) IsOwnedBy(userID uuid.UUID) bool {
	return f.OwnerID == userID
}

func supplied(v *string, current string) string {
	if v == nil {
		return current
	}
	if s := strings.TrimSpace(*v); s != "" {
		return s
	}
	return current
}

func validateText(values ...string) error {
	for _, v := range values {
		if len(v) > maxFieldTextLength {
			return shared.NewValidationError("Field attributes cannot exceed 200 characters")
		}
	}
	return nil
}

func validateSize(size *decimal.Decimal) error {
	if size != nil && size.IsNegative() {
		return shared.NewValidationError("Size cannot be negative")
	}
	return nil
}
