// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - ReadingStore: Reading sessions and their ledger (internal/tracker/stores.go)
//   - BookStore: Book lookup for the tracker (internal/tracker/stores.go)
//   - ShelfStore: Shelf and book management (internal/http/stores.go)
//   - UserStore: Account persistence (internal/auth/service.go)
//   - Pinger: Database health probe (internal/http/stores.go)
//
// ## Service Interfaces
//
//   - ReadingTracker: The tracker as seen by HTTP handlers (internal/http/stores.go)
//   - ReadingCompleter: Completion sweep target (internal/tasks/complete_readings.go)
//   - Runner: Anything that can trigger a completion sweep (internal/scheduler/completion.go)
//   - Publisher: Progress event sink (internal/events/events.go)
//
// Implementations are verified at compile time in checks.go.
package interfaces
