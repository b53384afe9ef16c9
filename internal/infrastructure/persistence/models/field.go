package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smartfarm/backend/internal/domain/farm"
)

// FieldModel is the persistence model for the Field domain entity.
type FieldModel struct {
	BaseModel
	OwnerID  uuid.UUID           `gorm:"type:uuid;not null;index:idx_fields_owner_id"`
	Owner    *UserModel          `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Name     string              `gorm:"type:varchar(200);not null"`
	CropType string              `gorm:"type:varchar(200);not null"`
	Location string              `gorm:"type:varchar(200);not null"`
	Size     decimal.NullDecimal `gorm:"type:decimal(12,4)"`
}

// TableName returns the table name for GORM
func (FieldModel) TableName() string {
	return "fields"
}

// ToDomain converts the persistence model to a domain Field entity.
func (m *FieldModel) ToDomain() *farm.Field {
	f := &farm.Field{
		BaseEntity: m.BaseModel.ToDomain(),
		OwnerID:    m.OwnerID,
		Name:       m.Name,
		CropType:   m.CropType,
		Location:   m.Location,
	}
	if m.Size.Valid {
		size := m.Size.Decimal
		f.Size = &size
	}
	return f
}

// FieldModelFromDomain creates a persistence model from a domain Field entity.
func FieldModelFromDomain(f *farm.Field) *FieldModel {
	m := &FieldModel{
		OwnerID:  f.OwnerID,
		Name:     f.Name,
		CropType: f.CropType,
		Location: f.Location,
	}
	m.FromDomainBaseEntity(f.BaseEntity)
	if f.Size != nil {
		m.Size = decimal.NewNullDecimal(*f.Size)
	}
	return m
}
