package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/readinglog/internal/auth"
	"github.com/mrlokans/readinglog/internal/database"
	"github.com/mrlokans/readinglog/internal/database/books"
	"github.com/mrlokans/readinglog/internal/database/readings"
	"github.com/mrlokans/readinglog/internal/database/users"
	"github.com/mrlokans/readinglog/internal/events"
	"github.com/mrlokans/readinglog/internal/http"
	"github.com/mrlokans/readinglog/internal/scheduler"
	"github.com/mrlokans/readinglog/internal/tasks"
	"github.com/mrlokans/readinglog/internal/tracker"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ tracker.ReadingStore = (*readings.Repository)(nil)
var _ tracker.BookStore = (*books.Repository)(nil)
var _ http.ShelfStore = (*books.Repository)(nil)
var _ auth.UserStore = (*users.Repository)(nil)
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Progress Tracking
// =============================================================================

var _ http.ReadingTracker = (*tracker.Service)(nil)
var _ tasks.ReadingCompleter = (*tracker.Service)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ scheduler.Runner = (*tasks.Client)(nil)
var _ scheduler.Runner = tasks.InlineCompletion{}
var _ http.CompletionScheduler = (*scheduler.CompletionScheduler)(nil)

// =============================================================================
// Events
// =============================================================================

var _ events.Publisher = (*events.NatsPublisher)(nil)
var _ events.Publisher = events.NopPublisher{}
