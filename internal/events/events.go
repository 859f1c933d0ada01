// Package events publishes notifications about recorded reading progress.
//
// Publishing is best-effort: the tracker commits first and publishes after,
// so a failed publish never undoes a recorded entry.
//
// # Usage
//
//	publisher, err := events.NewNatsPublisher(events.NatsConfig{URL: cfg.Events.NatsURL, Subject: cfg.Events.Subject})
//	defer publisher.Close()
//	err = publisher.PublishProgress(ctx, events.ProgressRecorded{...})
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ProgressRecorded is emitted after a progress entry is committed.
type ProgressRecorded struct {
	EntryID   uuid.UUID `json:"entry_id"`
	ReadingID uuid.UUID `json:"reading_id"`
	BookID    uuid.UUID `json:"book_id"`
	UserID    uuid.UUID `json:"user_id"`
	Progress  int       `json:"progress"`
	Mode      string    `json:"mode"`
	ReadAt    string    `json:"read_at"`
	Recorded  time.Time `json:"recorded"`
}

// Publisher delivers tracker events to interested consumers.
type Publisher interface {
	PublishProgress(ctx context.Context, event ProgressRecorded) error
	Close() error
}

func encode(event ProgressRecorded) ([]byte, error) {
	return json.Marshal(event)
}

// NopPublisher discards every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishProgress(context.Context, ProgressRecorded) error { return nil }

func (NopPublisher) Close() error { return nil }
