package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/readinglog/internal/entities"
)

const errShelfOwner = "shelf belongs to another user"

// ShelvesController manages a user's shelves and the books on them.
type ShelvesController struct {
	store ShelfStore
}

func NewShelvesController(store ShelfStore) *ShelvesController {
	return &ShelvesController{store: store}
}

// ListShelves returns the shelves of a user.
// POST /api/shelves
func (sc *ShelvesController) ListShelves(c *gin.Context) {
	var req struct {
		UserID *string `json:"user_id"`
	}
	if !bindJSON(c, &req) {
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

	shelves, err := sc.store.GetShelvesForUser(c.Request.Context(), *userID)
	if err != nil {
		respondInternalError(c, err, "list shelves")
		return
	}
	c.JSON(http.StatusOK, gin.H{"shelves": shelves})
}

// CreateShelf creates an empty shelf.
// POST /api/shelves/create
func (sc *ShelvesController) CreateShelf(c *gin.Context) {
	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		UserID      *string `json:"user_id"`
	}
	if !bindJSON(c, &req) {
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
	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondBadRequest(c, "name is required")
		return
	}

	shelf := &entities.Shelf{
		UserID:      *userID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
	}
	if err := sc.store.CreateShelf(c.Request.Context(), shelf); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			respondBadRequest(c, "unknown user_id")
			return
		}
		respondInternalError(c, err, "create shelf")
		return
	}

	respondCreated(c, gin.H{
		"message":  "Shelf created successfully.",
		"shelf_id": shelf.ID,
	})
}

// AddBook adds a book to a shelf.
// POST /api/shelves/add-book
func (sc *ShelvesController) AddBook(c *gin.Context) {
	var req struct {
		UserID        *string `json:"user_id"`
		ShelfID       string  `json:"shelf_id"`
		Title         string  `json:"title"`
		Author        string  `json:"author"`
		ISBN13        *string `json:"isbn13"`
		ISBN10        *string `json:"isbn10"`
		GoogleBooksID *string `json:"google_books_id"`
	}
	if !bindJSON(c, &req) {
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
	shelfID, ok := parseUUIDField(c, "shelf_id", req.ShelfID)
	if !ok {
		return
	}

	shelf, err := sc.store.GetShelfByID(c.Request.Context(), shelfID)
	if err != nil {
		sc.respondShelfError(c, err, "add book")
		return
	}
	if shelf.UserID != *userID {
		respondForbidden(c, errShelfOwner)
		return
	}

	book := &entities.Book{
		UserID:        *userID,
		ShelfID:       shelfID,
		Title:         strings.TrimSpace(req.Title),
		Author:        strings.TrimSpace(req.Author),
		ISBN13:        req.ISBN13,
		ISBN10:        req.ISBN10,
		GoogleBooksID: req.GoogleBooksID,
		AddedAt:       time.Now().UTC(),
	}
	if err := sc.store.CreateBook(c.Request.Context(), book); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			respondBadRequest(c, "unknown shelf_id or user_id")
			return
		}
		respondInternalError(c, err, "add book")
		return
	}

	respondCreated(c, gin.H{
		"message": "Book added to shelf successfully.",
		"book_id": book.ID,
	})
}

// ListShelfBooks returns a shelf and its books.
// POST /api/shelves/books
func (sc *ShelvesController) ListShelfBooks(c *gin.Context) {
	var req struct {
		ShelfID string  `json:"shelf_id"`
		UserID  *string `json:"user_id"`
	}
	if !bindJSON(c, &req) {
		return
	}
	shelfID, ok := parseUUIDField(c, "shelf_id", req.ShelfID)
	if !ok {
		return
	}
	owner, ok := resolveUserID(c, req.UserID)
	if !ok {
		return
	}

	shelf, err := sc.store.GetShelfWithBooks(c.Request.Context(), shelfID)
	if err != nil {
		sc.respondShelfError(c, err, "list shelf books")
		return
	}
	if owner != nil && shelf.UserID != *owner {
		respondForbidden(c, errShelfOwner)
		return
	}

	books := shelf.Books
	if books == nil {
		books = []entities.Book{}
	}
	shelf.Books = nil
	c.JSON(http.StatusOK, gin.H{"shelf": shelf, "books": books})
}

func (sc *ShelvesController) respondShelfError(c *gin.Context, err error, context string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "Shelf not found.")
		return
	}
	respondInternalError(c, err, context)
}
