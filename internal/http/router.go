package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readinglog/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.AuthConfig.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.AuthConfig.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	requireAuth := func(c *gin.Context) { c.Next() }
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
		requireAuth = cfg.AuthMiddleware.RequireAuth()
	}

	var pinger Pinger
	if cfg.Database != nil {
		pinger = cfg.Database
	}
	health := NewHealthController(pinger, cfg.Version)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	// User endpoints
	if cfg.AuthService != nil {
		users := NewUsersController(cfg.AuthService, cfg.SessionManager, cfg.LoginLimiter)
		userRoutes := router.Group("/api/user")
		userRoutes.POST("/register", users.Register)
		userRoutes.POST("/login", users.Login)
		userRoutes.POST("/logout", users.Logout)
		if len(cfg.CSRFSecret) > 0 {
			userRoutes.GET("/csrf", users.CSRFToken)
		}
	}

	// Reading endpoints
	if cfg.Tracker != nil {
		readings := NewReadingsController(cfg.Tracker)
		books := router.Group("/api/books", requireAuth)
		books.POST("/start-reading", readings.StartReading)
		books.POST("/track-progress", readings.TrackProgress)
		books.POST("/reading", readings.GetReading)
		books.POST("/finish-reading", readings.FinishReading)
		books.POST("/cancel-reading", readings.CancelReading)
		books.POST("/info", readings.GetBookInfo)
	}

	// Shelf endpoints
	if cfg.Shelves != nil {
		shelvesController := NewShelvesController(cfg.Shelves)
		shelves := router.Group("/api/shelves", requireAuth)
		shelves.POST("", shelvesController.ListShelves)
		shelves.POST("/create", shelvesController.CreateShelf)
		shelves.POST("/add-book", shelvesController.AddBook)
		shelves.POST("/books", shelvesController.ListShelfBooks)
	}

	// Completion sweep endpoints
	if cfg.Completion != nil {
		completion := NewCompletionController(cfg.Completion)
		completionRoutes := router.Group("/api/completion", requireAuth)
		completionRoutes.POST("/run", completion.RunNow)
		completionRoutes.GET("/status", completion.Status)
	}

	return router
}
