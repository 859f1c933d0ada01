package http

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readinglog/internal/auth"
)

// UsersController handles registration and session login.
type UsersController struct {
	service  *auth.Service
	sessions *auth.SessionManager // nil unless AUTH_MODE=local
	limiter  *auth.LoginLimiter
}

// NewUsersController creates a controller. sessions may be nil, in which case
// login only verifies credentials.
func NewUsersController(service *auth.Service, sessions *auth.SessionManager, limiter *auth.LoginLimiter) *UsersController {
	if limiter == nil {
		limiter = auth.NewLoginLimiter(auth.LoginLimiterConfig{})
	}
	return &UsersController{
		service:  service,
		sessions: sessions,
		limiter:  limiter,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a user.
// POST /api/user/register
func (uc *UsersController) Register(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := uc.service.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			respondConflict(c, "username is already taken")
		case auth.IsValidationError(err):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "register user")
		}
		return
	}

	respondCreated(c, gin.H{
		"message": "Successfully registered user.",
		"user_id": user.ID,
	})
}

// Login verifies credentials and, in local auth mode, starts a session.
// POST /api/user/login
func (uc *UsersController) Login(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req) {
		return
	}

	ip := c.ClientIP()
	if ok, retryAfter := uc.limiter.Allow(ip, req.Username); !ok {
		c.Header("Retry-After", fmt.Sprintf("%d", int(math.Ceil(retryAfter.Seconds()))))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many failed login attempts"})
		return
	}

	user, err := uc.service.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrLoginFailed) {
			uc.limiter.RecordFailure(ip, req.Username)
			respondUnauthorized(c, "Login failed.")
			return
		}
		respondInternalError(c, err, "login")
		return
	}
	uc.limiter.RecordSuccess(ip, req.Username)

	if uc.sessions != nil {
		if err := uc.sessions.CreateSession(c.Request, user); err != nil {
			respondInternalError(c, err, "create session")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully logged in user.",
		"user_id": user.ID,
	})
}

// Logout ends the current session.
// POST /api/user/logout
func (uc *UsersController) Logout(c *gin.Context) {
	if uc.sessions != nil {
		if err := uc.sessions.DestroySession(c.Request); err != nil {
			respondInternalError(c, err, "destroy session")
			return
		}
	}
	respondSuccess(c, "Successfully logged out.")
}

// CSRFToken returns the token unsafe requests must echo in X-CSRF-Token.
// GET /api/user/csrf
func (uc *UsersController) CSRFToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"csrf_token": auth.GetCSRFToken(c)})
}
