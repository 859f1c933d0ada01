package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/readinglog/internal/auth"
)

const testPassword = "correct horse battery staple"

func TestUsersController_Register(t *testing.T) {
	env := setupTestEnv(t)
	router := env.router()

	w := postJSON(router, "/api/user/register", `{"username":"alice","password":"`+testPassword+`"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Successfully registered user.", body["message"])
	assert.NotEmpty(t, body["user_id"])

	w = postJSON(router, "/api/user/register", `{"username":"alice","password":"`+testPassword+`"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = postJSON(router, "/api/user/register", `{"username":"bob","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(router, "/api/user/register", `{"username":"b o b","password":"`+testPassword+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, auth.ErrUsernameInvalid.Error(), decode(t, w)["error"])

	w = postJSON(router, "/api/user/register", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUsersController_Login(t *testing.T) {
	env := setupTestEnv(t)
	router := env.router()

	require.Equal(t, http.StatusCreated,
		postJSON(router, "/api/user/register", `{"username":"alice","password":"`+testPassword+`"}`).Code)

	w := postJSON(router, "/api/user/login", `{"username":"alice","password":"`+testPassword+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Successfully logged in user.", body["message"])
	assert.NotEmpty(t, body["user_id"])

	w = postJSON(router, "/api/user/login", `{"username":"alice","password":"wrong password!!"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Login failed.", decode(t, w)["error"])

	w = postJSON(router, "/api/user/login", `{"username":"nobody","password":"`+testPassword+`"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Login failed.", decode(t, w)["error"])
}

func TestUsersController_LoginLockout(t *testing.T) {
	env := setupTestEnv(t)
	_, err := env.auth.Register(context.Background(), "alice", testPassword)
	require.NoError(t, err)

	limiter := auth.NewLoginLimiter(auth.LoginLimiterConfig{MaxFailures: 2, Window: time.Minute, Lockout: time.Minute})
	controller := NewUsersController(env.auth, nil, limiter)
	router := gin.New()
	router.POST("/api/user/login", controller.Login)

	for i := 0; i < 2; i++ {
		w := postJSON(router, "/api/user/login", `{"username":"alice","password":"not the password"}`)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	// Correct credentials are refused while locked out
	w := postJSON(router, "/api/user/login", `{"username":"alice","password":"`+testPassword+`"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestUsersController_LogoutWithoutSessions(t *testing.T) {
	env := setupTestEnv(t)

	w := postJSON(env.router(), "/api/user/logout", `{}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Successfully logged out.", decode(t, w)["message"])
}

func TestRouter_CSRFRouteOnlyInLocalMode(t *testing.T) {
	env := setupTestEnv(t)

	w := httptest.NewRecorder()
	env.router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/user/csrf", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, strings.Contains(w.Body.String(), "csrf_token"))
}
