// Package readings provides database operations for reading sessions and
// their append-only ledger of progress entries.
//
// This package implements the ReadingStore interface defined in
// internal/tracker/stores.go.
//
// # Interface Implementation
//
//	var _ tracker.ReadingStore = (*Repository)(nil)
//
// # Usage
//
//	repo := readings.NewRepository(db)
//	err := repo.InTransaction(ctx, func(tx *readings.Repository) error {
//		reading, err := tx.LockReading(ctx, id)
//		...
//		if err := tx.AppendEntry(ctx, entry); err != nil {
//			return err
//		}
//		return tx.SetProgress(ctx, id, entry.Progress)
//	})
//
// # Ledger
//
// ReadingEntry rows are only ever inserted. The repository exposes no update
// or delete for them.
package readings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/readinglog/internal/entities"
)

// ErrProgressNotUpdated is returned when the progress update matched no row.
var ErrProgressNotUpdated = errors.New("reading progress update affected no rows")

// entryOrder is the documented ledger order: chronological by read date,
// then by insertion.
const entryOrder = "read_at ASC, created_at ASC, id ASC"

const openCondition = "finished_at IS NULL AND cancelled_at IS NULL"

// Repository handles all reading session and ledger database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new readings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// InTransaction runs fn inside a single database transaction. fn receives a
// repository bound to the transaction; returning an error rolls back every
// statement fn issued through it.
func (r *Repository) InTransaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// CreateReading inserts a new reading session.
func (r *Repository) CreateReading(ctx context.Context, reading *entities.Reading) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(reading).Error
}

// GetReading retrieves a reading session by ID.
func (r *Repository) GetReading(ctx context.Context, id uuid.UUID) (*entities.Reading, error) {
	var reading entities.Reading
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&reading).Error
	if err != nil {
		return nil, err
	}
	return &reading, nil
}

// LockReading retrieves a reading session and, on engines with row locks,
// holds the row for the rest of the transaction. SQLite transactions are
// opened with BEGIN IMMEDIATE and already exclude other writers.
func (r *Repository) LockReading(ctx context.Context, id uuid.UUID) (*entities.Reading, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var reading entities.Reading
	if err := query.Where("id = ?", id).First(&reading).Error; err != nil {
		return nil, err
	}
	return &reading, nil
}

// GetEntries returns every ledger entry of a reading in ledger order.
func (r *Repository) GetEntries(ctx context.Context, readingID uuid.UUID) ([]entities.ReadingEntry, error) {
	var entries []entities.ReadingEntry
	err := r.db.WithContext(ctx).
		Where("reading_id = ?", readingID).
		Order(entryOrder).
		Find(&entries).Error
	return entries, err
}

// GetLatestEntry returns the last entry of a reading in ledger order.
func (r *Repository) GetLatestEntry(ctx context.Context, readingID uuid.UUID) (*entities.ReadingEntry, error) {
	var entry entities.ReadingEntry
	err := r.db.WithContext(ctx).
		Where("reading_id = ?", readingID).
		Order("read_at DESC, created_at DESC, id DESC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetReadingsForBook returns the sessions of a book ordered by start date.
// A non-nil userID restricts the result to that user's sessions.
func (r *Repository) GetReadingsForBook(ctx context.Context, bookID uuid.UUID, userID *uuid.UUID) ([]entities.Reading, error) {
	query := r.db.WithContext(ctx).Where("book_id = ?", bookID)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var readings []entities.Reading
	err := query.Order("started_at ASC, created_at ASC").Find(&readings).Error
	return readings, err
}

// AppendEntry inserts a ledger entry.
func (r *Repository) AppendEntry(ctx context.Context, entry *entities.ReadingEntry) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error
}

// SetProgress overwrites the cached progress of a reading.
func (r *Repository) SetProgress(ctx context.Context, id uuid.UUID, progress int) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Reading{}).
		Where("id = ?", id).
		Update("progress", progress)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProgressNotUpdated
	}
	return nil
}

// MarkFinished sets finished_at on an open reading. It reports false when
// the reading does not exist or is already finished or cancelled.
func (r *Repository) MarkFinished(ctx context.Context, id uuid.UUID, date time.Time) (bool, error) {
	return r.close(ctx, id, "finished_at", date)
}

// MarkCancelled sets cancelled_at on an open reading. It reports false when
// the reading does not exist or is already finished or cancelled.
func (r *Repository) MarkCancelled(ctx context.Context, id uuid.UUID, date time.Time) (bool, error) {
	return r.close(ctx, id, "cancelled_at", date)
}

// MarkCompleted sets finished_at on an open reading only while its progress
// still sits at the limit of its mode. It reports false otherwise.
func (r *Repository) MarkCompleted(ctx context.Context, id uuid.UUID, date time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Reading{}).
		Where("id = ? AND "+openCondition, id).
		Where(r.completableCondition()).
		Update("finished_at", date)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) close(ctx context.Context, id uuid.UUID, column string, date time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Reading{}).
		Where("id = ? AND "+openCondition, id).
		Update(column, date)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) completableCondition() *gorm.DB {
	return r.db.Where("mode = ? AND progress >= total_pages", entities.ReadingModePages).
		Or("mode = ? AND progress >= ?", entities.ReadingModePercentage, entities.PercentageLimit)
}

// GetCompletableReadings returns open sessions whose progress reached the
// limit of their mode.
func (r *Repository) GetCompletableReadings(ctx context.Context) ([]entities.Reading, error) {
	var readings []entities.Reading
	err := r.db.WithContext(ctx).
		Where(openCondition).
		Where(r.completableCondition()).
		Order("started_at ASC").
		Find(&readings).Error
	return readings, err
}
