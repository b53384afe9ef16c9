package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/smartfarm/backend/internal/domain/farm"
	"github.com/smartfarm/backend/internal/domain/shared"
	"github.com/smartfarm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormFieldRepository implements FieldRepository using GORM
type GormFieldRepository struct {
	db *gorm.DB
}

// NewGormFieldRepository creates a new GormFieldRepository
func NewGormFieldRepository(db *gorm.DB) *GormFieldRepository {
	return &GormFieldRepository{db: db}
}

// Create persists a new field
func (r *GormFieldRepository) Create(ctx context.Context, field *farm.Field) error {
	return r.db.WithContext(ctx).Create(models.FieldModelFromDomain(field)).Error
}

// Update writes every mutable column. Owner and creation time never change.
func (r *GormFieldRepository) Update(ctx context.Context, field *farm.Field) error {
	model := models.FieldModelFromDomain(field)
	result := r.db.WithContext(ctx).
		Model(&models.FieldModel{}).
		Scopes(OwnerScope(field.OwnerID)).
		Where("id = ?", field.ID).
		Updates(map[string]any{
			"name":       model.Name,
			"crop_type":  model.CropType,
			"location":   model.Location,
			"size":       model.Size,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByIDForOwner finds a field by ID restricted to its owner
func (r *GormFieldRepository) FindByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*farm.Field, error) {
	var model models.FieldModel
	if err := r.db.WithContext(ctx).
		Scopes(OwnerScope(ownerID)).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllByOwner lists the owner's fields, newest first
func (r *GormFieldRepository) FindAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]*farm.Field, error) {
	var rows []models.FieldModel
	if err := r.db.WithContext(ctx).
		Scopes(OwnerScope(ownerID)).
		Order("created_at DESC").
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	fields := make([]*farm.Field, 0, len(rows))
	for i := range rows {
		fields = append(fields, rows[i].ToDomain())
	}
	return fields, nil
}

// DeleteForOwner removes a field restricted to its owner. The foreign key on
// sensor_readings removes the field's readings as well.
func (r *GormFieldRepository) DeleteForOwner(ctx context.Context, id, ownerID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(OwnerScope(ownerID)).
		Delete(&models.FieldModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByID checks whether any field has the given ID
func (r *GormFieldRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.FieldModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormFieldRepository implements FieldRepository
var _ farm.FieldRepository = (*GormFieldRepository)(nil)
