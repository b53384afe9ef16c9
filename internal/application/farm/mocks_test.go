package farm

import (
	"context"

	"github.com/google/uuid"
	"github.com/smartfarm/backend/internal/domain/farm"
	"github.com/stretchr/testify/mock"
)

// MockFieldRepository is a mock implementation of farm.FieldRepository
type MockFieldRepository struct {
	mock.Mock
}

func (m *MockFieldRepository) Create(ctx context.Context, field *farm.Field) error {
	args := m.Called(ctx, field)
	return args.Error(0)
}

func (m *MockFieldRepository) Update(ctx context.Context, field *farm.Field) error {
	args := m.Called(ctx, field)
	return args.Error(0)
}

func (m *MockFieldRepository) FindByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*farm.Field, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*farm.Field), args.Error(1)
}

func (m *MockFieldRepository) FindAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]*farm.Field, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*farm.Field), args.Error(1)
}

func (m *MockFieldRepository) DeleteForOwner(ctx context.Context, id, ownerID uuid.UUID) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *MockFieldRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockReadingRepository is a mock implementation of farm.SensorReadingRepository
type MockReadingRepository struct {
	mock.Mock
}

func (m *MockReadingRepository) Create(ctx context.Context, reading *farm.SensorReading) error {
	args := m.Called(ctx, reading)
	return args.Error(0)
}

func (m *MockReadingRepository) FindByField(ctx context.Context, fieldID uuid.UUID, filter farm.ReadingFilter) ([]*farm.SensorReading, error) {
	args := m.Called(ctx, fieldID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*farm.SensorReading), args.Error(1)
}

func (m *MockReadingRepository) LatestByType(ctx context.Context, fieldID uuid.UUID) ([]*farm.SensorReading, error) {
	args := m.Called(ctx, fieldID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*farm.SensorReading), args.Error(1)
}

// MockSensorSource is a mock implementation of farm.SensorSource
type MockSensorSource struct {
	mock.Mock
}

func (m *MockSensorSource) ReadLatest(ctx context.Context, fieldID uuid.UUID) ([]*farm.SensorReading, error) {
	args := m.Called(ctx, fieldID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*farm.SensorReading), args.Error(1)
}
