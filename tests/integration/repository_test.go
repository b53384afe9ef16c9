//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smartfarm/backend/internal/domain/farm"
	"github.com/smartfarm/backend/internal/domain/identity"
	"github.com/smartfarm/backend/internal/domain/shared"
	"github.com/smartfarm/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createUser(t *testing.T, repo *persistence.GormUserRepository, email string) *identity.User {
	t.Helper()
	u, err := identity.NewUser("Grower", email, "s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestPostgres_Repositories(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()

	users := persistence.NewGormUserRepository(tdb.DB)
	fields := persistence.NewGormFieldRepository(tdb.DB)
	readings := persistence.NewGormSensorReadingRepository(tdb.DB)

	t.Run("duplicate email is a conflict regardless of case", func(t *testing.T) {
		tdb.CleanTables(t)
		createUser(t, users, "ana@farm.io")

		dup, err := identity.NewUser("Other", "ANA@farm.io", "s3cret-pass")
		require.NoError(t, err)
		assert.ErrorIs(t, users.Create(ctx, dup), shared.ErrAlreadyExists)

		found, err := users.FindByEmail(ctx, "Ana@Farm.IO")
		require.NoError(t, err)
		assert.Equal(t, "ana@farm.io", found.Email)
	})

	t.Run("fields are scoped to their owner", func(t *testing.T) {
		tdb.CleanTables(t)
		ana := createUser(t, users, "ana@farm.io")
		ben := createUser(t, users, "ben@farm.io")

		size := decimal.RequireFromString("2.5")
		f, err := farm.NewField(ana.ID, "North", "Corn", "Lot 4", &size)
		require.NoError(t, err)
		require.NoError(t, fields.Create(ctx, f))

		got, err := fields.FindByIDForOwner(ctx, f.ID, ana.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Size)
		assert.True(t, size.Equal(*got.Size))

		_, err = fields.FindByIDForOwner(ctx, f.ID, ben.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		list, err := fields.FindAllByOwner(ctx, ben.ID)
		require.NoError(t, err)
		assert.Empty(t, list)

		got.Name = "Stolen"
		got.OwnerID = ben.ID
		assert.ErrorIs(t, fields.Update(ctx, got), shared.ErrNotFound)
		assert.ErrorIs(t, fields.DeleteForOwner(ctx, f.ID, ben.ID), shared.ErrNotFound)

		require.NoError(t, fields.DeleteForOwner(ctx, f.ID, ana.ID))
		assert.ErrorIs(t, fields.DeleteForOwner(ctx, f.ID, ana.ID), shared.ErrNotFound)
	})

	t.Run("negative size is rejected by the schema", func(t *testing.T) {
		tdb.CleanTables(t)
		ana := createUser(t, users, "ana@farm.io")

		f, err := farm.NewField(ana.ID, "North", "Corn", "Lot 4", nil)
		require.NoError(t, err)
		negative := decimal.NewFromInt(-1)
		f.Size = &negative
		assert.Error(t, fields.Create(ctx, f))
	})

	t.Run("readings are newest first and cascade with their field", func(t *testing.T) {
		tdb.CleanTables(t)
		ana := createUser(t, users, "ana@farm.io")
		f, err := farm.NewField(ana.ID, "North", "Corn", "Lot 4", nil)
		require.NoError(t, err)
		require.NoError(t, fields.Create(ctx, f))

		base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
		for i, typ := range []string{"temperature", "humidity", "temperature", "pH"} {
			v := float64(20 + i)
			ts := base.Add(time.Duration(i) * time.Hour)
			r, err := farm.NewSensorReading(f.ID, typ, &v, "", &ts)
			require.NoError(t, err)
			require.NoError(t, readings.Create(ctx, r))
		}

		all, err := readings.FindByField(ctx, f.ID, farm.ReadingFilter{})
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, farm.ReadingPH, all[0].Type)
		assert.Equal(t, "pH", all[0].Unit)
		for i := 1; i < len(all); i++ {
			assert.False(t, all[i].Timestamp.After(all[i-1].Timestamp))
		}

		temps, err := readings.FindByField(ctx, f.ID, farm.ReadingFilter{Type: farm.ReadingTemperature, Limit: 1})
		require.NoError(t, err)
		require.Len(t, temps, 1)
		assert.Equal(t, 22.0, temps[0].Value)

		latest, err := readings.LatestByType(ctx, f.ID)
		require.NoError(t, err)
		assert.Len(t, latest, 3)

		require.NoError(t, fields.DeleteForOwner(ctx, f.ID, ana.ID))
		all, err = readings.FindByField(ctx, f.ID, farm.ReadingFilter{})
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("reading for a missing field violates the foreign key", func(t *testing.T) {
		v := 1.0
		r, err := farm.NewSensorReading(uuid.New(), "light", &v, "", nil)
		require.NoError(t, err)
		assert.Error(t, readings.Create(ctx, r))
	})
}
