package books

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/readinglog/internal/database"
	"github.com/mrlokans/readinglog/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_books_" + t.Name() + ".db"

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}

	return NewRepository(db.DB), db.DB, cleanup
}

func TestRepository_GetBookByID(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := &entities.User{Name: "reader", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)

	shelf := &entities.Shelf{UserID: user.ID, Name: "To read"}
	require.NoError(t, repo.CreateShelf(ctx, shelf))

	googleID := "zyTCAlFPjgYC"
	book := &entities.Book{
		UserID:        user.ID,
		ShelfID:       shelf.ID,
		Title:         "The Left Hand of Darkness",
		Author:        "Ursula K. Le Guin",
		GoogleBooksID: &googleID,
		AddedAt:       time.Now(),
	}
	require.NoError(t, repo.CreateBook(ctx, book))
	assert.NotEqual(t, uuid.Nil, book.ID)

	got, err := repo.GetBookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.Title, got.Title)
	require.NotNil(t, got.GoogleBooksID)
	assert.Equal(t, googleID, *got.GoogleBooksID)
	assert.Nil(t, got.ISBN13)

	_, err = repo.GetBookByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_CreateBookRequiresShelf(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := &entities.User{Name: "reader", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)

	err := repo.CreateBook(context.Background(), &entities.Book{UserID: user.ID, ShelfID: uuid.New(), Title: "Orphan"})
	assert.Error(t, err)
}

func TestRepository_Shelves(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := &entities.User{Name: "reader", PasswordHash: "x"}
	other := &entities.User{Name: "other", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(other).Error)

	toRead := &entities.Shelf{UserID: user.ID, Name: "To read"}
	favourites := &entities.Shelf{UserID: user.ID, Name: "Favourites"}
	foreign := &entities.Shelf{UserID: other.ID, Name: "Elsewhere"}
	for _, s := range []*entities.Shelf{toRead, favourites, foreign} {
		require.NoError(t, repo.CreateShelf(ctx, s))
	}

	shelves, err := repo.GetShelvesForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, shelves, 2)
	assert.Equal(t, "Favourites", shelves[0].Name)
	assert.Equal(t, "To read", shelves[1].Name)

	first := &entities.Book{UserID: user.ID, ShelfID: toRead.ID, Title: "First", AddedAt: time.Now().Add(-time.Hour)}
	second := &entities.Book{UserID: user.ID, ShelfID: toRead.ID, Title: "Second", AddedAt: time.Now()}
	require.NoError(t, repo.CreateBook(ctx, second))
	require.NoError(t, repo.CreateBook(ctx, first))

	shelf, err := repo.GetShelfWithBooks(ctx, toRead.ID)
	require.NoError(t, err)
	require.Len(t, shelf.Books, 2)
	assert.Equal(t, "First", shelf.Books[0].Title)
	assert.Equal(t, "Second", shelf.Books[1].Title)

	_, err = repo.GetShelfWithBooks(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	bare, err := repo.GetShelfByID(ctx, foreign.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, bare.UserID)
	assert.Empty(t, bare.Books)

	_, err = repo.GetShelfByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
