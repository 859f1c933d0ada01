package entities

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Elevated     bool      `gorm:"default:false" json:"elevated"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

type Shelf struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Name        string    `gorm:"size:256;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User  User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Books []Book `gorm:"foreignKey:ShelfID" json:"books,omitempty"`
}

func (Shelf) TableName() string {
	return "shelves"
}

type Book struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	ShelfID       uuid.UUID `gorm:"type:uuid;index;not null" json:"shelf_id"`
	Title         string    `gorm:"index;size:512" json:"title"`
	Author        string    `gorm:"index;size:256" json:"author"`
	ISBN13        *string   `gorm:"column:isbn13;size:13" json:"isbn13"`
	ISBN10        *string   `gorm:"column:isbn10;size:10" json:"isbn10"`
	GoogleBooksID *string   `gorm:"size:64" json:"google_books_id"`
	AddedAt       time.Time `json:"added_at"`

	User     User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Shelf    Shelf     `gorm:"foreignKey:ShelfID;constraint:OnDelete:CASCADE" json:"-"`
	Readings []Reading `gorm:"foreignKey:BookID" json:"readings,omitempty"`
}

func (Book) TableName() string {
	return "books"
}
