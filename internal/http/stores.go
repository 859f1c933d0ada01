package http

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/readinglog/internal/entities"
	"github.com/mrlokans/readinglog/internal/tracker"
)

// Each controller depends on the narrow interface it uses. The concrete types
// are checked against these in internal/interfaces.

// ReadingTracker is the reading lifecycle and query surface of tracker.Service.
type ReadingTracker interface {
	StartReading(ctx context.Context, in tracker.StartReadingInput) (*entities.Reading, error)
	RecordProgress(ctx context.Context, in tracker.RecordProgressInput) (*entities.ReadingEntry, error)
	GetReadingInfo(ctx context.Context, readingID uuid.UUID, owner *uuid.UUID) (*tracker.ReadingInfo, error)
	FinishReading(ctx context.Context, readingID uuid.UUID, owner *uuid.UUID, date string) (*entities.Reading, error)
	CancelReading(ctx context.Context, readingID uuid.UUID, owner *uuid.UUID, date string) (*entities.Reading, error)
	GetBookInfo(ctx context.Context, bookID uuid.UUID, userID *uuid.UUID) (*tracker.BookInfo, error)
}

// ShelfStore provides the catalog operations behind the shelf endpoints.
type ShelfStore interface {
	CreateShelf(ctx context.Context, shelf *entities.Shelf) error
	CreateBook(ctx context.Context, book *entities.Book) error
	GetShelvesForUser(ctx context.Context, userID uuid.UUID) ([]entities.Shelf, error)
	GetShelfByID(ctx context.Context, id uuid.UUID) (*entities.Shelf, error)
	GetShelfWithBooks(ctx context.Context, id uuid.UUID) (*entities.Shelf, error)
}

// CompletionScheduler is the completion sweep schedule as seen by the API.
type CompletionScheduler interface {
	RunNow() error
	IsRunning() bool
	IsSweeping() bool
	GetNextRunTime() *time.Time
}

// Pinger reports storage reachability for the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}
