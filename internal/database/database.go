package database

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/readinglog/internal/config"
	"github.com/mrlokans/readinglog/internal/entities"
)

// sqliteParams makes write transactions take the database lock up front
// (BEGIN IMMEDIATE) so concurrent progress recordings serialize instead of
// failing on lock upgrade.
const sqliteParams = "_txlock=immediate&_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"

type Database struct {
	DB *gorm.DB
}

// Options describes how to open the main database.
type Options struct {
	Driver          string
	Path            string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
}

// OptionsFromConfig maps the Database config group onto Options.
func OptionsFromConfig(cfg config.Database) Options {
	level := logger.Warn
	if cfg.Debug {
		level = logger.Info
	}
	return Options{
		Driver:          cfg.Driver,
		Path:            cfg.Path,
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		LogLevel:        level,
	}
}

// NewDatabase opens (and migrates) an SQLite database at dbPath.
func NewDatabase(dbPath string) (*Database, error) {
	return Open(Options{
		Driver:   config.DriverSQLite,
		Path:     dbPath,
		LogLevel: logger.Warn,
	})
}

// Open connects using the configured driver, sizes the connection pool and
// runs migrations.
func Open(opts Options) (*Database, error) {
	dialector, err := dialectorFor(opts)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(opts.LogLevel),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	database := &Database{DB: db}
	if err := database.Migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}

	log.Printf("Database initialized successfully (%s)", database.describe(opts))

	return database, nil
}

func dialectorFor(opts Options) (gorm.Dialector, error) {
	switch opts.Driver {
	case "", config.DriverSQLite:
		if opts.Path == "" {
			return nil, fmt.Errorf("sqlite database path is empty")
		}
		return sqlite.Open(SQLiteDSN(opts.Path)), nil
	case config.DriverPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres DSN is empty")
		}
		return postgres.Open(opts.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

// SQLiteDSN appends the connection parameters the tracker relies on to a
// database file path.
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + sqliteParams
}

// Migrate creates or updates every table.
func (d *Database) Migrate() error {
	err := d.DB.AutoMigrate(
		&entities.User{},
		&entities.Shelf{},
		&entities.Book{},
		&entities.Reading{},
		&entities.ReadingEntry{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Dialect returns the gorm dialector name ("sqlite" or "postgres").
func (d *Database) Dialect() string {
	return d.DB.Dialector.Name()
}

func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) describe(opts Options) string {
	if d.Dialect() == config.DriverPostgres {
		return "postgres"
	}
	return "sqlite at " + opts.Path
}
