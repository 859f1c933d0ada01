// Package books provides database operations for the book catalog.
//
// This package implements the BookStore interface defined in
// internal/tracker/stores.go.
//
// # Interface Implementation
//
//	var _ tracker.BookStore = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetBookByID(ctx, id)
package books

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/readinglog/internal/entities"
)

// Repository handles book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetBookByID retrieves a book by its ID.
func (r *Repository) GetBookByID(ctx context.Context, id uuid.UUID) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// CreateShelf inserts a shelf.
func (r *Repository) CreateShelf(ctx context.Context, shelf *entities.Shelf) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(shelf).Error
}

// CreateBook inserts a book onto an existing shelf.
func (r *Repository) CreateBook(ctx context.Context, book *entities.Book) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(book).Error
}

// GetShelvesForUser lists a user's shelves ordered by name.
func (r *Repository) GetShelvesForUser(ctx context.Context, userID uuid.UUID) ([]entities.Shelf, error) {
	var shelves []entities.Shelf
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC, created_at ASC").
		Find(&shelves).Error
	return shelves, err
}

// GetShelfByID retrieves a shelf without its books.
func (r *Repository) GetShelfByID(ctx context.Context, id uuid.UUID) (*entities.Shelf, error) {
	var shelf entities.Shelf
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&shelf).Error
	if err != nil {
		return nil, err
	}
	return &shelf, nil
}

// GetShelfWithBooks retrieves a shelf and the books on it.
func (r *Repository) GetShelfWithBooks(ctx context.Context, id uuid.UUID) (*entities.Shelf, error) {
	var shelf entities.Shelf
	err := r.db.WithContext(ctx).
		Preload("Books", func(db *gorm.DB) *gorm.DB {
			return db.Order("added_at ASC, id ASC")
		}).
		Where("id = ?", id).
		First(&shelf).Error
	if err != nil {
		return nil, err
	}
	return &shelf, nil
}
