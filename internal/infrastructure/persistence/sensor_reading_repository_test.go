package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartfarm/backend/internal/domain/farm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReading(t *testing.T, fieldID uuid.UUID, typ string, value float64, ts time.Time) *farm.SensorReading {
	t.Helper()
	r, err := farm.NewSensorReading(fieldID, typ, &value, "", &ts)
	require.NoError(t, err)
	return r
}

func TestGormSensorReadingRepository(t *testing.T) {
	ctx := context.Background()
	fieldID := uuid.New()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	seed := func(t *testing.T, repo *GormSensorReadingRepository) {
		t.Helper()
		for _, r := range []*farm.SensorReading{
			newReading(t, fieldID, "temperature", 20, base),
			newReading(t, fieldID, "temperature", 22, base.Add(2*time.Hour)),
			newReading(t, fieldID, "humidity", 55, base.Add(time.Hour)),
			newReading(t, fieldID, "pH", 6.5, base.Add(-time.Hour)),
			newReading(t, uuid.New(), "temperature", 99, base.Add(3*time.Hour)),
		} {
			require.NoError(t, repo.Create(ctx, r))
		}
	}

	t.Run("lists newest first", func(t *testing.T) {
		repo := NewGormSensorReadingRepository(newTestDB(t))
		seed(t, repo)

		readings, err := repo.FindByField(ctx, fieldID, farm.ReadingFilter{})
		require.NoError(t, err)
		require.Len(t, readings, 4)
		assert.Equal(t, 22.0, readings[0].Value)
		assert.Equal(t, 55.0, readings[1].Value)
		assert.Equal(t, 20.0, readings[2].Value)
		assert.Equal(t, farm.ReadingPH, readings[3].Type)
		assert.Equal(t, "pH", readings[3].Unit)
	})

	t.Run("same timestamp ordered by creation", func(t *testing.T) {
		repo := NewGormSensorReadingRepository(newTestDB(t))
		first := newReading(t, fieldID, "light", 100, base)
		second := newReading(t, fieldID, "light", 200, base)
		second.CreatedAt = first.CreatedAt.Add(time.Second)
		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))

		readings, err := repo.FindByField(ctx, fieldID, farm.ReadingFilter{})
		require.NoError(t, err)
		require.Len(t, readings, 2)
		assert.Equal(t, 200.0, readings[0].Value)
	})

	t.Run("filters by type and limit", func(t *testing.T) {
		repo := NewGormSensorReadingRepository(newTestDB(t))
		seed(t, repo)

		readings, err := repo.FindByField(ctx, fieldID, farm.ReadingFilter{Type: farm.ReadingTemperature, Limit: 1})
		require.NoError(t, err)
		require.Len(t, readings, 1)
		assert.Equal(t, 22.0, readings[0].Value)
	})

	t.Run("unknown field lists nothing", func(t *testing.T) {
		repo := NewGormSensorReadingRepository(newTestDB(t))

		readings, err := repo.FindByField(ctx, uuid.New(), farm.ReadingFilter{})
		require.NoError(t, err)
		assert.Empty(t, readings)
	})

	t.Run("latest per type", func(t *testing.T) {
		repo := NewGormSensorReadingRepository(newTestDB(t))
		seed(t, repo)

		latest, err := repo.LatestByType(ctx, fieldID)
		require.NoError(t, err)
		require.Len(t, latest, 3)
		assert.Equal(t, farm.ReadingTemperature, latest[0].Type)
		assert.Equal(t, 22.0, latest[0].Value)
		assert.Equal(t, farm.ReadingHumidity, latest[1].Type)
		assert.Equal(t, farm.ReadingPH, latest[2].Type)
	})
}
