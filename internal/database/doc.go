// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (sqlite | postgres), pool sizing, migrations
//	├── readings/        # Reading sessions, the append-only entry ledger, transactions
//	├── books/           # Book lookup for the book-level query
//	└── users/           # User registration and lookup
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.Open(database.OptionsFromConfig(cfg.Database))
//
//	// Create domain-specific repositories
//	readingsRepo := readings.NewRepository(db.DB)
//	booksRepo := books.NewRepository(db.DB)
//	usersRepo := users.NewRepository(db.DB)
//
// # Interface Implementations
//
//   - readings.Repository: implements tracker.ReadingStore
//   - books.Repository: implements tracker.BookStore
//   - users.Repository: implements auth.UserStore
//
// # Connections
//
// Repositories never hold a connection. Every call checks one out of the
// database/sql pool through db.WithContext(ctx) and returns it when the
// statement (or transaction) completes, on success and failure alike.
//
// # SQLite
//
// SQLite databases are opened with BEGIN IMMEDIATE transactions, WAL
// journaling, a busy timeout and foreign keys enabled (see SQLiteDSN).
package database
