package tracker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/readinglog/internal/database/readings"
	"github.com/mrlokans/readinglog/internal/entities"
)

// ReadingStore persists reading sessions and their ledger.
type ReadingStore interface {
	CreateReading(ctx context.Context, reading *entities.Reading) error
	GetReading(ctx context.Context, id uuid.UUID) (*entities.Reading, error)
	GetEntries(ctx context.Context, readingID uuid.UUID) ([]entities.ReadingEntry, error)
	GetLatestEntry(ctx context.Context, readingID uuid.UUID) (*entities.ReadingEntry, error)
	GetReadingsForBook(ctx context.Context, bookID uuid.UUID, userID *uuid.UUID) ([]entities.Reading, error)
	GetCompletableReadings(ctx context.Context) ([]entities.Reading, error)
	MarkFinished(ctx context.Context, id uuid.UUID, date time.Time) (bool, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, date time.Time) (bool, error)
	MarkCancelled(ctx context.Context, id uuid.UUID, date time.Time) (bool, error)
	InTransaction(ctx context.Context, fn func(tx *readings.Repository) error) error
}

// BookStore looks up catalog books.
type BookStore interface {
	GetBookByID(ctx context.Context, id uuid.UUID) (*entities.Book, error)
}
