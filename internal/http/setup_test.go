package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/readinglog/internal/auth"
	"github.com/mrlokans/readinglog/internal/config"
	"github.com/mrlokans/readinglog/internal/database"
	"github.com/mrlokans/readinglog/internal/database/books"
	"github.com/mrlokans/readinglog/internal/database/readings"
	"github.com/mrlokans/readinglog/internal/database/users"
	"github.com/mrlokans/readinglog/internal/entities"
	"github.com/mrlokans/readinglog/internal/tracker"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	db      *database.Database
	tracker *tracker.Service
	books   *books.Repository
	auth    *auth.Service
	user    *entities.User
	shelf   *entities.Shelf
	book    *entities.Book
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	})

	ctx := context.Background()
	userRepo := users.NewRepository(db.DB)
	bookRepo := books.NewRepository(db.DB)

	user, err := userRepo.CreateUser(ctx, "reader", "x")
	require.NoError(t, err)

	shelf := &entities.Shelf{UserID: user.ID, Name: "Currently reading"}
	require.NoError(t, bookRepo.CreateShelf(ctx, shelf))

	googleID := "nSQ3DwAAQBAJ"
	book := &entities.Book{
		UserID:        user.ID,
		ShelfID:       shelf.ID,
		Title:         "Piranesi",
		Author:        "Susanna Clarke",
		GoogleBooksID: &googleID,
		AddedAt:       time.Now(),
	}
	require.NoError(t, bookRepo.CreateBook(ctx, book))

	return &testEnv{
		db:      db,
		tracker: tracker.NewService(readings.NewRepository(db.DB), bookRepo, nil),
		books:   bookRepo,
		auth:    auth.NewService(userRepo, config.Auth{BcryptCost: 4}),
		user:    user,
		shelf:   shelf,
		book:    book,
	}
}

// router builds the unauthenticated API router for the environment.
func (e *testEnv) router() *gin.Engine {
	return NewRouter(RouterConfig{
		Tracker:     e.tracker,
		Shelves:     e.books,
		Database:    e.db,
		AuthService: e.auth,
		AuthConfig:  config.Auth{Mode: config.AuthModeNone},
		Version:     "test",
	})
}

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
