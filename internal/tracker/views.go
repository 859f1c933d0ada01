package tracker

import (
	"github.com/google/uuid"

	"github.com/mrlokans/readinglog/internal/entities"
)

// EntryView is the transfer form of a ledger entry.
type EntryView struct {
	ID       uuid.UUID `json:"id"`
	Progress int       `json:"progress"`
	Mode     string    `json:"mode"`
	ReadAt   string    `json:"read_at"`
}

// ReadingInfo is a session together with its ledger in ledger order.
type ReadingInfo struct {
	BookID     uuid.UUID   `json:"book_id"`
	Progress   int         `json:"progress"`
	TotalPages int         `json:"total_pages"`
	Mode       string      `json:"mode"`
	Entries    []EntryView `json:"entries"`
}

// ReadingSummary is the transfer form of a session within a book view.
type ReadingSummary struct {
	ID          uuid.UUID `json:"id"`
	TotalPages  int       `json:"total_pages"`
	Progress    int       `json:"progress"`
	Mode        string    `json:"mode"`
	StartedAt   string    `json:"started_at"`
	FinishedAt  *string   `json:"finished_at"`
	CancelledAt *string   `json:"cancelled_at"`
}

// BookInfo is a book's catalog id and every session recorded against it.
type BookInfo struct {
	GoogleBooksID *string          `json:"google_books_id"`
	Readings      []ReadingSummary `json:"readings"`
}

func newEntryView(e entities.ReadingEntry) EntryView {
	return EntryView{
		ID:       e.ID,
		Progress: e.Progress,
		Mode:     e.Mode.String(),
		ReadAt:   entities.FormatDate(e.ReadAt),
	}
}

func newReadingSummary(r entities.Reading) ReadingSummary {
	return ReadingSummary{
		ID:          r.ID,
		TotalPages:  r.TotalPages,
		Progress:    r.Progress,
		Mode:        r.Mode.String(),
		StartedAt:   entities.FormatDate(r.StartedAt),
		FinishedAt:  entities.FormatOptionalDate(r.FinishedAt),
		CancelledAt: entities.FormatOptionalDate(r.CancelledAt),
	}
}
