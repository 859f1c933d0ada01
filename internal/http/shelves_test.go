package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/readinglog/internal/entities"
)

func TestShelvesController(t *testing.T) {
	env := setupTestEnv(t)
	router := env.router()

	w := postJSON(router, "/api/shelves/create", fmt.Sprintf(
		`{"name":"  Science fiction ","description":"space","user_id":%q}`, env.user.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Shelf created successfully.", body["message"])
	shelfID := body["shelf_id"].(string)

	w = postJSON(router, "/api/shelves", fmt.Sprintf(`{"user_id":%q}`, env.user.ID))
	require.Equal(t, http.StatusOK, w.Code)
	shelves := decode(t, w)["shelves"].([]any)
	require.Len(t, shelves, 2)
	assert.Equal(t, "Currently reading", shelves[0].(map[string]any)["name"])
	assert.Equal(t, "Science fiction", shelves[1].(map[string]any)["name"])

	w = postJSON(router, "/api/shelves/add-book", fmt.Sprintf(
		`{"user_id":%q,"shelf_id":%q,"title":"Solaris","author":"Stanisław Lem","isbn13":"9780156027601"}`,
		env.user.ID, shelfID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bookID := decode(t, w)["book_id"].(string)

	w = postJSON(router, "/api/shelves/books", fmt.Sprintf(`{"shelf_id":%q}`, shelfID))
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, "Science fiction", body["shelf"].(map[string]any)["name"])
	books := body["books"].([]any)
	require.Len(t, books, 1)
	book := books[0].(map[string]any)
	assert.Equal(t, bookID, book["id"])
	assert.Equal(t, "9780156027601", book["isbn13"])
	assert.Nil(t, book["google_books_id"])

	// New books can be read straight away
	w = postJSON(router, "/api/books/start-reading", fmt.Sprintf(
		`{"book_id":%q,"user_id":%q,"total_pages":204}`, bookID, env.user.ID))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestShelvesController_Errors(t *testing.T) {
	env := setupTestEnv(t)
	router := env.router()

	w := postJSON(router, "/api/shelves/create", fmt.Sprintf(`{"name":"   ","user_id":%q}`, env.user.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name is required", decode(t, w)["error"])

	w = postJSON(router, "/api/shelves/create", `{"name":"Orphans"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(router, "/api/shelves/books", fmt.Sprintf(`{"shelf_id":%q}`, uuid.New()))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Shelf not found.", decode(t, w)["error"])

	w = postJSON(router, "/api/shelves/add-book", fmt.Sprintf(`{"user_id":%q,"shelf_id":"shelf"}`, env.user.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid shelf_id", decode(t, w)["error"])
}

func TestShelvesController_Ownership(t *testing.T) {
	env := setupTestEnv(t)
	router := env.router()

	other := &entities.User{Name: "neighbour", PasswordHash: "x"}
	require.NoError(t, env.db.DB.Create(other).Error)

	w := postJSON(router, "/api/shelves/add-book", fmt.Sprintf(
		`{"user_id":%q,"shelf_id":%q,"title":"Intruder"}`, other.ID, env.shelf.ID))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "shelf belongs to another user", decode(t, w)["error"])

	w = postJSON(router, "/api/shelves/add-book", fmt.Sprintf(
		`{"user_id":%q,"shelf_id":%q,"title":"Nowhere"}`, env.user.ID, uuid.New()))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = postJSON(router, "/api/shelves/books", fmt.Sprintf(`{"shelf_id":%q,"user_id":%q}`, env.shelf.ID, other.ID))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = postJSON(router, "/api/shelves/books", fmt.Sprintf(`{"shelf_id":%q,"user_id":%q}`, env.shelf.ID, env.user.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["books"].([]any), 1)
}
