package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mrlokans/readinglog/internal/auth"
	"github.com/mrlokans/readinglog/internal/tracker"
)

// ReadingsController serves reading sessions, progress tracking and the
// book reading history.
type ReadingsController struct {
	tracker ReadingTracker
}

func NewReadingsController(t ReadingTracker) *ReadingsController {
	return &ReadingsController{tracker: t}
}

type startReadingRequest struct {
	BookID     string  `json:"book_id"`
	UserID     *string `json:"user_id"`
	TotalPages *int    `json:"total_pages"`
	Mode       string  `json:"mode"`
}

type trackProgressRequest struct {
	ReadingID string  `json:"reading_id"`
	BookID    *string `json:"book_id"`
	UserID    *string `json:"user_id"`
	Progress  *int    `json:"progress"`
	ReadAt    string  `json:"read_at"`
}

type readingRequest struct {
	ReadingID string  `json:"reading_id"`
	UserID    *string `json:"user_id"`
}

type closeReadingRequest struct {
	ReadingID string  `json:"reading_id"`
	UserID    *string `json:"user_id"`
	Date      string  `json:"date"`
}

type bookInfoRequest struct {
	BookID string  `json:"book_id"`
	UserID *string `json:"user_id"`
}

// StartReading opens a new reading session.
// POST /api/books/start-reading
func (rc *ReadingsController) StartReading(c *gin.Context) {
	var req startReadingRequest
	if !bindJSON(c, &req) {
		return
	}

	bookID, ok := parseUUIDField(c, "book_id", req.BookID)
	if !ok {
		return
	}
	userID, ok := resolveUserID(c, req.UserID)
	if !ok {
		return
	}
	if userID == nil {
		respondBadRequest(c, "user_id is required")
		return
	}
	if req.TotalPages == nil {
		respondBadRequest(c, "total_pages is required")
		return
	}

	reading, err := rc.tracker.StartReading(c.Request.Context(), tracker.StartReadingInput{
		BookID:     bookID,
		UserID:     *userID,
		TotalPages: *req.TotalPages,
		Mode:       req.Mode,
	})
	if err != nil {
		respondTrackerError(c, err, "start reading")
		return
	}

	respondCreated(c, gin.H{
		"message":    "Reading session started successfully.",
		"reading_id": reading.ID,
	})
}

// TrackProgress records a progress observation for a session.
// POST /api/books/track-progress
func (rc *ReadingsController) TrackProgress(c *gin.Context) {
	var req trackProgressRequest
	if !bindJSON(c, &req) {
		return
	}

	readingID, ok := parseUUIDField(c, "reading_id", req.ReadingID)
	if !ok {
		return
	}
	bookID, ok := parseOptionalUUIDField(c, "book_id", req.BookID)
	if !ok {
		return
	}
	userID, ok := resolveUserID(c, req.UserID)
	if !ok {
		return
	}
	if req.Progress == nil {
		respondBadRequest(c, "progress is required")
		return
	}
	if req.ReadAt == "" {
		respondBadRequest(c, "read_at is required")
		return
	}

	entry, err := rc.tracker.RecordProgress(c.Request.Context(), tracker.RecordProgressInput{
		ReadingID: readingID,
		BookID:    bookID,
		UserID:    userID,
		Progress:  *req.Progress,
		ReadAt:    req.ReadAt,
	})
	if err != nil {
		respondTrackerError(c, err, "track progress")
		return
	}

	respondCreated(c, gin.H{
		"message":  "Progress tracked successfully.",
		"entry_id": entry.ID,
	})
}

// GetReading returns a session with its progress entries.
// POST /api/books/reading
func (rc *ReadingsController) GetReading(c *gin.Context) {
	var req readingRequest
	if !bindJSON(c, &req) {
		return
	}

	readingID, ok := parseUUIDField(c, "reading_id", req.ReadingID)
	if !ok {
		return
	}
	owner, ok := resolveUserID(c, req.UserID)
	if !ok {
		return
	}

	info, err := rc.tracker.GetReadingInfo(c.Request.Context(), readingID, owner)
	if err != nil {
		respondTrackerError(c, err, "get reading")
		return
	}
	c.JSON(http.StatusOK, info)
}

// FinishReading marks a session finished.
// POST /api/books/finish-reading
func (rc *ReadingsController) FinishReading(c *gin.Context) {
	var req closeReadingRequest
	if !bindJSON(c, &req) {
		return
	}
	readingID, ok := parseUUIDField(c, "reading_id", req.ReadingID)
	if !ok {
		return
	}
	owner, ok := resolveUserID(c, req.UserID)
	if !ok {
		return
	}

	if _, err := rc.tracker.FinishReading(c.Request.Context(), readingID, owner, req.Date); err != nil {
		respondTrackerError(c, err, "finish reading")
		return
	}
	respondSuccess(c, "Reading session finished successfully.")
}

// CancelReading marks a session cancelled.
// POST /api/books/cancel-reading
func (rc *ReadingsController) CancelReading(c *gin.Context) {
	var req closeReadingRequest
	if !bindJSON(c, &req) {
		return
	}
	readingID, ok := parseUUIDField(c, "reading_id", req.ReadingID)
	if !ok {
		return
	}
	owner, ok := resolveUserID(c, req.UserID)
	if !ok {
		return
	}

	if _, err := rc.tracker.CancelReading(c.Request.Context(), readingID, owner, req.Date); err != nil {
		respondTrackerError(c, err, "cancel reading")
		return
	}
	respondSuccess(c, "Reading session cancelled successfully.")
}

// GetBookInfo returns a book's catalog id and its reading sessions.
// POST /api/books/info
func (rc *ReadingsController) GetBookInfo(c *gin.Context) {
	var req bookInfoRequest
	if !bindJSON(c, &req) {
		return
	}

	bookID, ok := parseUUIDField(c, "book_id", req.BookID)
	if !ok {
		return
	}
	userID, ok := resolveUserID(c, req.UserID)
	if !ok {
		return
	}

	info, err := rc.tracker.GetBookInfo(c.Request.Context(), bookID, userID)
	if err != nil {
		respondTrackerError(c, err, "get book info")
		return
	}
	c.JSON(http.StatusOK, info)
}

// resolveUserID combines the optional user_id field with the session user.
// A signed-in user may only act as themselves.
func resolveUserID(c *gin.Context, field *string) (*uuid.UUID, bool) {
	requested, ok := parseOptionalUUIDField(c, "user_id", field)
	if !ok {
		return nil, false
	}

	sessionUser, signedIn := auth.GetUserID(c)
	if !signedIn {
		return requested, true
	}
	if requested != nil && *requested != sessionUser {
		respondForbidden(c, "user_id does not match the signed-in user")
		return nil, false
	}
	return &sessionUser, true
}

func respondTrackerError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, tracker.ErrReadingNotFound):
		respondNotFound(c, "Reading not found.")
	case errors.Is(err, tracker.ErrBookNotFound):
		respondNotFound(c, "Book not found.")
	case errors.Is(err, tracker.ErrNotReadingOwner):
		respondForbidden(c, err.Error())
	case errors.Is(err, tracker.ErrReadingClosed):
		respondConflict(c, err.Error())
	case tracker.IsClientError(err):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, err, context)
	}
}
