package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReadingMode is the unit a reading session measures progress in.
type ReadingMode string

const (
	ReadingModePages      ReadingMode = "pages"
	ReadingModePercentage ReadingMode = "percentage"
)

// PercentageLimit is the upper bound for progress in percentage mode.
const PercentageLimit = 100

func (m ReadingMode) String() string {
	return string(m)
}

func (m ReadingMode) Valid() bool {
	return m == ReadingModePages || m == ReadingModePercentage
}

// Limit returns the maximum progress value a session in this mode accepts.
func (m ReadingMode) Limit(totalPages int) int {
	if m == ReadingModePercentage {
		return PercentageLimit
	}
	return totalPages
}

// ParseReadingMode accepts "pages" or "percentage". An empty string means pages.
func ParseReadingMode(s string) (ReadingMode, error) {
	switch ReadingMode(s) {
	case "", ReadingModePages:
		return ReadingModePages, nil
	case ReadingModePercentage:
		return ReadingModePercentage, nil
	}
	return "", fmt.Errorf("unknown reading mode %q", s)
}

// Reading is one attempt by a user at reading a book. Progress caches the
// value of the most recently recorded ReadingEntry.
type Reading struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	BookID      uuid.UUID   `gorm:"type:uuid;index;not null" json:"book_id"`
	UserID      uuid.UUID   `gorm:"type:uuid;index;not null" json:"user_id"`
	TotalPages  int         `gorm:"not null" json:"total_pages"`
	Progress    int         `gorm:"not null;default:0" json:"progress"`
	Mode        ReadingMode `gorm:"size:20;not null;default:'pages'" json:"mode"`
	StartedAt   time.Time   `gorm:"type:date;not null" json:"started_at"`
	FinishedAt  *time.Time  `gorm:"type:date" json:"finished_at"`
	CancelledAt *time.Time  `gorm:"type:date" json:"cancelled_at"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	Book    Book           `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
	User    User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Entries []ReadingEntry `gorm:"foreignKey:ReadingID" json:"entries,omitempty"`
}

func (Reading) TableName() string {
	return "readings"
}

func (r *Reading) IsFinished() bool {
	return r.FinishedAt != nil
}

func (r *Reading) IsCancelled() bool {
	return r.CancelledAt != nil
}

// IsClosed reports whether the session has reached a terminal state.
func (r *Reading) IsClosed() bool {
	return r.IsFinished() || r.IsCancelled()
}

// Limit is the maximum progress this session accepts.
func (r *Reading) Limit() int {
	return r.Mode.Limit(r.TotalPages)
}

// ReadingEntry is an immutable progress observation. Entries are only ever
// inserted; no code path updates or deletes them.
type ReadingEntry struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	ReadingID uuid.UUID   `gorm:"type:uuid;index;not null" json:"reading_id"`
	BookID    uuid.UUID   `gorm:"type:uuid;index;not null" json:"book_id"`
	UserID    uuid.UUID   `gorm:"type:uuid;index;not null" json:"user_id"`
	Progress  int         `gorm:"not null" json:"progress"`
	Mode      ReadingMode `gorm:"size:20;not null;default:'pages'" json:"mode"`
	ReadAt    time.Time   `gorm:"type:date;index;not null" json:"read_at"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	Reading Reading `gorm:"foreignKey:ReadingID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ReadingEntry) TableName() string {
	return "reading_entries"
}
