// Package tracker implements reading sessions and progress tracking.
//
// A Reading caches the progress of the most recently recorded ReadingEntry.
// RecordProgress appends the entry and overwrites the cached value inside one
// transaction, so the ledger and the cache never diverge. Concurrent
// recordings on the same reading are serialized by the database and the last
// one to commit wins, whatever its value or read date.
//
// # Usage
//
//	svc := tracker.NewService(readingsRepo, booksRepo, publisher)
//	reading, err := svc.StartReading(ctx, tracker.StartReadingInput{BookID: b, UserID: u, TotalPages: 300})
//	entry, err := svc.RecordProgress(ctx, tracker.RecordProgressInput{ReadingID: reading.ID, Progress: 42, ReadAt: "2024-01-05"})
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/readinglog/internal/database/readings"
	"github.com/mrlokans/readinglog/internal/entities"
	"github.com/mrlokans/readinglog/internal/events"
)

type StartReadingInput struct {
	BookID     uuid.UUID
	UserID     uuid.UUID
	TotalPages int
	Mode       string // "pages" when empty
}

type RecordProgressInput struct {
	ReadingID uuid.UUID
	// BookID and UserID are optional. When set they must match the reading.
	BookID   *uuid.UUID
	UserID   *uuid.UUID
	Progress int
	ReadAt   string
}

// Service manages reading sessions and their progress ledger.
type Service struct {
	readings  ReadingStore
	books     BookStore
	publisher events.Publisher
}

// NewService creates a tracker service. A nil publisher disables events.
func NewService(readingStore ReadingStore, bookStore BookStore, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		readings:  readingStore,
		books:     bookStore,
		publisher: publisher,
	}
}

// StartReading opens a new session at progress 0, started today.
func (s *Service) StartReading(ctx context.Context, in StartReadingInput) (*entities.Reading, error) {
	if in.TotalPages <= 0 {
		return nil, ErrInvalidTotalPages
	}
	mode, err := entities.ParseReadingMode(in.Mode)
	if err != nil {
		return nil, ErrInvalidMode
	}

	reading := &entities.Reading{
		ID:         uuid.New(),
		BookID:     in.BookID,
		UserID:     in.UserID,
		TotalPages: in.TotalPages,
		Progress:   0,
		Mode:       mode,
		StartedAt:  entities.Today(),
	}
	if err := s.readings.CreateReading(ctx, reading); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrUnknownReference
		}
		return nil, fmt.Errorf("failed to create reading: %w", err)
	}
	return reading, nil
}

// GetReadingInfo returns a session and its entries ordered by read date,
// then by insertion. A non-nil owner must be the session's user.
func (s *Service) GetReadingInfo(ctx context.Context, readingID uuid.UUID, owner *uuid.UUID) (*ReadingInfo, error) {
	reading, err := s.getOwnedReading(ctx, readingID, owner)
	if err != nil {
		return nil, err
	}

	entries, err := s.readings.GetEntries(ctx, readingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}

	info := &ReadingInfo{
		BookID:     reading.BookID,
		Progress:   reading.Progress,
		TotalPages: reading.TotalPages,
		Mode:       reading.Mode.String(),
		Entries:    make([]EntryView, 0, len(entries)),
	}
	for _, e := range entries {
		info.Entries = append(info.Entries, newEntryView(e))
	}
	return info, nil
}

// RecordProgress appends a ledger entry and overwrites the session's cached
// progress in a single transaction. The entry's book and user are taken from
// the session row.
func (s *Service) RecordProgress(ctx context.Context, in RecordProgressInput) (*entities.ReadingEntry, error) {
	readAt, err := entities.ParseDate(in.ReadAt)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidReadAt, in.ReadAt)
	}

	var entry *entities.ReadingEntry
	err = s.readings.InTransaction(ctx, func(tx *readings.Repository) error {
		reading, err := tx.LockReading(ctx, in.ReadingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReadingNotFound
			}
			return fmt.Errorf("failed to load reading: %w", err)
		}
		if err := checkProgress(reading, in); err != nil {
			return err
		}

		entry = &entities.ReadingEntry{
			ID:        uuid.New(),
			ReadingID: reading.ID,
			BookID:    reading.BookID,
			UserID:    reading.UserID,
			Progress:  in.Progress,
			Mode:      reading.Mode,
			ReadAt:    readAt,
		}
		if err := tx.AppendEntry(ctx, entry); err != nil {
			return fmt.Errorf("failed to append entry: %w", err)
		}
		if err := tx.SetProgress(ctx, reading.ID, in.Progress); err != nil {
			return fmt.Errorf("failed to update progress: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishProgress(ctx, entry)
	return entry, nil
}

func checkProgress(reading *entities.Reading, in RecordProgressInput) error {
	if reading.IsClosed() {
		return ErrReadingClosed
	}
	if in.Progress < 0 || in.Progress > reading.Limit() {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrProgressOutOfRange, in.Progress, reading.Limit())
	}
	if in.BookID != nil && *in.BookID != reading.BookID {
		return ErrReadingMismatch
	}
	if in.UserID != nil && *in.UserID != reading.UserID {
		return ErrReadingMismatch
	}
	return nil
}

func (s *Service) publishProgress(ctx context.Context, entry *entities.ReadingEntry) {
	event := events.ProgressRecorded{
		EntryID:   entry.ID,
		ReadingID: entry.ReadingID,
		BookID:    entry.BookID,
		UserID:    entry.UserID,
		Progress:  entry.Progress,
		Mode:      entry.Mode.String(),
		ReadAt:    entities.FormatDate(entry.ReadAt),
		Recorded:  entry.CreatedAt,
	}
	if err := s.publisher.PublishProgress(ctx, event); err != nil {
		log.Printf("[EVENTS] Failed to publish progress for reading %s: %v", entry.ReadingID, err)
	}
}

// FinishReading marks an open session finished on date ("" means today).
// A non-nil owner must be the session's user.
func (s *Service) FinishReading(ctx context.Context, readingID uuid.UUID, owner *uuid.UUID, date string) (*entities.Reading, error) {
	return s.closeReading(ctx, readingID, owner, date, s.readings.MarkFinished)
}

// CancelReading marks an open session cancelled on date ("" means today).
// A non-nil owner must be the session's user.
func (s *Service) CancelReading(ctx context.Context, readingID uuid.UUID, owner *uuid.UUID, date string) (*entities.Reading, error) {
	return s.closeReading(ctx, readingID, owner, date, s.readings.MarkCancelled)
}

func (s *Service) closeReading(
	ctx context.Context,
	readingID uuid.UUID,
	owner *uuid.UUID,
	date string,
	mark func(context.Context, uuid.UUID, time.Time) (bool, error),
) (*entities.Reading, error) {
	day := entities.Today()
	if date != "" {
		parsed, err := entities.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
		}
		day = parsed
	}

	if _, err := s.getOwnedReading(ctx, readingID, owner); err != nil {
		return nil, err
	}

	ok, err := mark(ctx, readingID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to close reading: %w", err)
	}
	if !ok {
		return nil, ErrReadingClosed
	}
	return s.getReading(ctx, readingID)
}

// GetBookInfo returns a book's catalog id and its sessions ordered by start
// date. A non-nil userID limits the sessions to that user.
func (s *Service) GetBookInfo(ctx context.Context, bookID uuid.UUID, userID *uuid.UUID) (*BookInfo, error) {
	readingsForBook, err := s.readings.GetReadingsForBook(ctx, bookID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load readings: %w", err)
	}

	book, err := s.books.GetBookByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to load book: %w", err)
	}

	info := &BookInfo{
		GoogleBooksID: book.GoogleBooksID,
		Readings:      make([]ReadingSummary, 0, len(readingsForBook)),
	}
	for _, r := range readingsForBook {
		info.Readings = append(info.Readings, newReadingSummary(r))
	}
	return info, nil
}

// getOwnedReading loads a reading and, when owner is set, checks that it
// belongs to that user. Ownership never changes after a reading is created.
func (s *Service) getOwnedReading(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (*entities.Reading, error) {
	reading, err := s.getReading(ctx, id)
	if err != nil {
		return nil, err
	}
	if owner != nil && *owner != reading.UserID {
		return nil, ErrNotReadingOwner
	}
	return reading, nil
}

func (s *Service) getReading(ctx context.Context, id uuid.UUID) (*entities.Reading, error) {
	reading, err := s.readings.GetReading(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReadingNotFound
		}
		return nil, fmt.Errorf("failed to load reading: %w", err)
	}
	return reading, nil
}
