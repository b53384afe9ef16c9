//go:build integration

// Package integration runs the farm backend against a real PostgreSQL
// started with testcontainers. Run with: go test -tags integration ./tests/...
package integration

import (
	"context"
	"testing"
	"time"

	"github.com/smartfarm/backend/internal/infrastructure/config"
	"github.com/smartfarm/backend/internal/infrastructure/migration"
	"github.com/smartfarm/backend/internal/infrastructure/persistence"
	"github.com/smartfarm/backend/migrations"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
)

const (
	testDBName     = "smartfarm_test"
	testDBUser     = "postgres"
	testDBPassword = "farm-test"
)

// TestDB is a migrated PostgreSQL database in a throwaway container
type TestDB struct {
	*persistence.Database
	Config config.DatabaseConfig
}

// NewTestDB starts a container, applies the embedded migrations and
// registers cleanup with t
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase(testDBName),
		tcpostgres.WithUsername(testDBUser),
		tcpostgres.WithPassword(testDBPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := config.DatabaseConfig{
		Driver:       config.DriverPostgres,
		Host:         host,
		Port:         port.Int(),
		User:         testDBUser,
		Password:     testDBPassword,
		DBName:       testDBName,
		SSLMode:      "disable",
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}
	db, err := persistence.NewDatabase(&cfg)
	require.NoError(t, err, "Failed to connect to database")
	t.Cleanup(func() { _ = db.Close() })

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	m, err := migration.NewFromFS(sqlDB, migrations.FS, zaptest.NewLogger(t))
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, m.Up(), "Failed to run migrations")

	return &TestDB{Database: db, Config: cfg}
}

// CleanTables empties every application table
func (tdb *TestDB) CleanTables(t *testing.T) {
	t.Helper()
	require.NoError(t, tdb.DB.Exec("TRUNCATE TABLE sensor_readings, fields, users CASCADE").Error)
}
