package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/readinglog/internal/config"
	"github.com/mrlokans/readinglog/internal/scheduler"
	"github.com/mrlokans/readinglog/internal/tasks"
)

func completionRouter(env *testEnv, s *scheduler.CompletionScheduler) *gin.Engine {
	return NewRouter(RouterConfig{
		Tracker:     env.tracker,
		Shelves:     env.books,
		Database:    env.db,
		Completion:  s,
		AuthService: env.auth,
		AuthConfig:  config.Auth{Mode: config.AuthModeNone},
		Version:     "test",
	})
}

func TestCompletionController_RunNow(t *testing.T) {
	env := setupTestEnv(t)
	s := scheduler.NewCompletionScheduler(tasks.InlineCompletion{Completer: env.tracker}, "0 0 1 1 *")
	router := completionRouter(env, s)

	w := postJSON(router, "/api/completion/run", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code, "scheduler not started yet")

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	readingID := startReading(t, router, env, 40)
	require.Equal(t, http.StatusCreated, trackProgress(router, readingID, 40, "2024-07-14"))

	w = postJSON(router, "/api/completion/run", "")
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Equal(t, "Completion sweep started.", decode(t, w)["message"])

	assert.Eventually(t, func() bool {
		info, err := env.tracker.GetBookInfo(context.Background(), env.book.ID, nil)
		if err != nil || len(info.Readings) != 1 {
			return false
		}
		finished := info.Readings[0].FinishedAt
		return finished != nil && *finished == "2024-07-14"
	}, 2*time.Second, 20*time.Millisecond)
}

func TestCompletionController_Status(t *testing.T) {
	env := setupTestEnv(t)
	s := scheduler.NewCompletionScheduler(tasks.InlineCompletion{Completer: env.tracker}, "0 0 1 1 *")
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	w := httptest.NewRecorder()
	completionRouter(env, s).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/completion/status", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["is_running"])
	assert.Equal(t, false, body["is_sweeping"])
	assert.NotEmpty(t, body["next_run"])
}

func TestCompletionController_NotRoutedWhenDisabled(t *testing.T) {
	env := setupTestEnv(t)

	w := postJSON(env.router(), "/api/completion/run", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
