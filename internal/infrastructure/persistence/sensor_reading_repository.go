package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/smartfarm/backend/internal/domain/farm"
	"github.com/smartfarm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSensorReadingRepository implements SensorReadingRepository using GORM
type GormSensorReadingRepository struct {
	db *gorm.DB
}

// NewGormSensorReadingRepository creates a new GormSensorReadingRepository
func NewGormSensorReadingRepository(db *gorm.DB) *GormSensorReadingRepository {
	return &GormSensorReadingRepository{db: db}
}

// Create appends a reading
func (r *GormSensorReadingRepository) Create(ctx context.Context, reading *farm.SensorReading) error {
	return r.db.WithContext(ctx).Create(models.SensorReadingModelFromDomain(reading)).Error
}

// FindByField lists readings for a field, newest measurement first.
// Readings sharing a timestamp are ordered by insertion time, newest first.
func (r *GormSensorReadingRepository) FindByField(ctx context.Context, fieldID uuid.UUID, filter farm.ReadingFilter) ([]*farm.SensorReading, error) {
	query := r.db.WithContext(ctx).
		Where("field_id = ?", fieldID).
		Scopes(newestFirst)
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []models.SensorReadingModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toReadings(rows), nil
}

// LatestByType returns the newest reading of each type for a field, in
// the order of farm.ReadingTypes.
func (r *GormSensorReadingRepository) LatestByType(ctx context.Context, fieldID uuid.UUID) ([]*farm.SensorReading, error) {
	latest := make([]*farm.SensorReading, 0, len(farm.ReadingTypes))
	for _, t := range farm.ReadingTypes {
		var rows []models.SensorReadingModel
		if err := r.db.WithContext(ctx).
			Where("field_id = ? AND type = ?", fieldID, string(t)).
			Scopes(newestFirst).
			Limit(1).
			Find(&rows).Error; err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			latest = append(latest, rows[0].ToDomain())
		}
	}
	return latest, nil
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("timestamp DESC").Order("created_at DESC")
}

func toReadings(rows []models.SensorReadingModel) []*farm.SensorReading {
	readings := make([]*farm.SensorReading, 0, len(rows))
	for i := range rows {
		readings = append(readings, rows[i].ToDomain())
	}
	return readings
}

// Ensure GormSensorReadingRepository implements SensorReadingRepository
var _ farm.SensorReadingRepository = (*GormSensorReadingRepository)(nil)
