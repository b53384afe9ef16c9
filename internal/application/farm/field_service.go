package farm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/smartfarm/backend/internal/domain/farm"
	"github.com/smartfarm/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var errFieldNotFound = shared.NewNotFoundError("Field not found")

// FieldService manages fields on behalf of their owners. Every operation
// is scoped to ownerID; fields owned by someone else look non-existent.
type FieldService struct {
	repo   farm.FieldRepository
	logger *zap.Logger
}

// NewFieldService creates a new field service
func NewFieldService(repo farm.FieldRepository, logger *zap.Logger) *FieldService {
	return &FieldService{repo: repo, logger: logger}
}

// Create creates a field owned by ownerID
func (s *FieldService) Create(ctx context.Context, ownerID uuid.UUID, input CreateFieldInput) (*farm.Field, error) {
	field, err := farm.NewField(ownerID, input.Name, input.CropType, input.Location, input.Size)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, field); err != nil {
		s.logger.Error("Failed to create field", zap.String("owner_id", ownerID.String()), zap.Error(err))
		return nil, fmt.Errorf("create field: %w", err)
	}

	s.logger.Info("Field created",
		zap.String("field_id", field.ID.String()),
		zap.String("owner_id", ownerID.String()))
	return field, nil
}

// List returns the owner's fields, newest first
func (s *FieldService) List(ctx context.Context, ownerID uuid.UUID) ([]*farm.Field, error) {
	fields, err := s.repo.FindAllByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("Failed to list fields", zap.String("owner_id", ownerID.String()), zap.Error(err))
		return nil, fmt.Errorf("list fields: %w", err)
	}
	return fields, nil
}

// Get returns one of the owner's fields
func (s *FieldService) Get(ctx context.Context, ownerID, fieldID uuid.UUID) (*farm.Field, error) {
	return s.find(ctx, ownerID, fieldID)
}

// Update overwrites the supplied attributes of one of the owner's fields
func (s *FieldService) Update(ctx context.Context, ownerID, fieldID uuid.UUID, input UpdateFieldInput) (*farm.Field, error) {
	field, err := s.find(ctx, ownerID, fieldID)
	if err != nil {
		return nil, err
	}

	changed, err := field.ApplyUpdate(farm.FieldUpdate{
		Name:     input.Name,
		CropType: input.CropType,
		Location: input.Location,
		Size:     input.Size,
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return field, nil
	}

	if err := s.repo.Update(ctx, field); err != nil {
		// A concurrent delete wins
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errFieldNotFound
		}
		s.logger.Error("Failed to update field", zap.String("field_id", fieldID.String()), zap.Error(err))
		return nil, fmt.Errorf("update field: %w", err)
	}

	s.logger.Info("Field updated", zap.String("field_id", fieldID.String()))
	return field, nil
}

// Delete removes one of the owner's fields
func (s *FieldService) Delete(ctx context.Context, ownerID, fieldID uuid.UUID) error {
	if err := s.repo.DeleteForOwner(ctx, fieldID, ownerID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return errFieldNotFound
		}
		s.logger.Error("Failed to delete field", zap.String("field_id", fieldID.String()), zap.Error(err))
		return fmt.Errorf("delete field: %w", err)
	}

	s.logger.Info("Field deleted",
		zap.String("field_id", fieldID.String()),
		zap.String("owner_id", ownerID.String()))
	return nil
}

func (s *FieldService) find(ctx context.Context, ownerID, fieldID uuid.UUID) (*farm.Field, error) {
	field, err := s.repo.FindByIDForOwner(ctx, fieldID, ownerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errFieldNotFound
		}
		s.logger.Error("Failed to load field", zap.String("field_id", fieldID.String()), zap.Error(err))
		return nil, fmt.Errorf("find field: %w", err)
	}
	return field, nil
}
