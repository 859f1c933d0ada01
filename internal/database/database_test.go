package database

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/readinglog/internal/config"
	"github.com/mrlokans/readinglog/internal/entities"
)

// setupTestDB creates a fresh test database
func setupTestDB(t *testing.T) (*Database, func()) {
	t.Helper()
	dbPath := "./test_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}
	return db, cleanup
}

func TestNewDatabase(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	assert.Equal(t, "sqlite", db.Dialect())
	assert.NoError(t, db.Ping(context.Background()))

	for _, table := range []string{"users", "shelves", "books", "readings", "reading_entries"} {
		assert.True(t, db.DB.Migrator().HasTable(table), table)
	}
}

func TestDatabase_ForeignKeysEnforced(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	reading := &entities.Reading{
		TotalPages: 100,
		Mode:       entities.ReadingModePages,
		StartedAt:  entities.Today(),
	}
	err := db.DB.Omit("Book", "User").Create(reading).Error
	assert.Error(t, err, "reading without an existing book and user must be rejected")
}

func TestDatabase_MigrateIsIdempotent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	assert.NoError(t, db.Migrate())
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "./a.db?"+sqliteParams, SQLiteDSN("./a.db"))
	assert.Equal(t, "file:a.db?cache=shared&"+sqliteParams, SQLiteDSN("file:a.db?cache=shared"))
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(Options{Driver: "mysql"})
	assert.ErrorContains(t, err, "unsupported database driver")

	_, err = Open(Options{Driver: config.DriverPostgres})
	assert.ErrorContains(t, err, "DSN is empty")

	_, err = Open(Options{Driver: config.DriverSQLite})
	assert.ErrorContains(t, err, "path is empty")
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.Database{
		Driver:       config.DriverPostgres,
		DSN:          "postgres://x",
		MaxOpenConns: 7,
		Debug:        true,
	})

	assert.Equal(t, config.DriverPostgres, opts.Driver)
	assert.Equal(t, "postgres://x", opts.DSN)
	assert.Equal(t, 7, opts.MaxOpenConns)
	assert.Equal(t, logger.Info, opts.LogLevel)
}
