// Package auth provides user registration, login and request authentication.
//
// It supports two authentication modes:
//   - "none": requests carry user_id in their JSON bodies (default)
//   - "local": login issues a session cookie and /api/books routes require it
//
// # Configuration
//
// Set AUTH_MODE environment variable to select the mode:
//
//	AUTH_MODE=none   # Default, no auth required
//	AUTH_MODE=local  # Requires registration and login
//
// For local mode, additional configuration:
//
//	AUTH_SESSION_SECRET=<32+ chars>   # CSRF signing key, auto-generated if empty
//	AUTH_SESSION_LIFETIME=24h         # Session duration
//	AUTH_BCRYPT_COST=12               # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true          # HTTPS-only cookies
//
// # Usage
//
//	authService := auth.NewService(users.NewRepository(db.DB), cfg.Auth)
//	sessions, err := auth.NewSessionManager(sqlDB, db.Dialect(), cfg.Auth)
//	authMiddleware := auth.NewMiddleware(authService, sessions, cfg.Auth)
//	router.Use(sessions.SessionLoadSave(), authMiddleware.Handler())
//
// Extract user in handlers:
//
//	userID, ok := auth.GetUserID(c) // ok is false without a session
package auth
