package config

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./readinglog.db"

	// DefaultEventsSubject is the NATS subject progress events are published on
	DefaultEventsSubject = "readinglog.progress"
)
