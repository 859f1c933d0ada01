package http

import (
	"github.com/mrlokans/readinglog/internal/auth"
	"github.com/mrlokans/readinglog/internal/config"
	"github.com/mrlokans/readinglog/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Tracker  ReadingTracker
	Shelves  ShelfStore
	Database *database.Database

	// Completion is nil when the scheduled sweep is disabled.
	Completion CompletionScheduler

	// Authentication. SessionManager, AuthMiddleware and CSRFSecret are
	// only set in local auth mode.
	AuthService    *auth.Service
	AuthConfig     config.Auth
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	CSRFSecret     []byte
	LoginLimiter   *auth.LoginLimiter

	// Application info
	Version string
}
