package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readinglog/internal/auth"
	"github.com/mrlokans/readinglog/internal/config"
	"github.com/mrlokans/readinglog/internal/database"
	"github.com/mrlokans/readinglog/internal/database/books"
	"github.com/mrlokans/readinglog/internal/database/readings"
	"github.com/mrlokans/readinglog/internal/database/users"
	"github.com/mrlokans/readinglog/internal/events"
	http_controllers "github.com/mrlokans/readinglog/internal/http"
	"github.com/mrlokans/readinglog/internal/scheduler"
	"github.com/mrlokans/readinglog/internal/tasks"
	"github.com/mrlokans/readinglog/internal/tracker"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App holds the wired application components.
type App struct {
	DB        *database.Database
	Tracker   *tracker.Service
	Router    *gin.Engine
	Scheduler *scheduler.CompletionScheduler // nil when the sweep is disabled

	publisher  events.Publisher
	taskClient *tasks.Client
	cancel     context.CancelFunc
}

// OpenDatabase validates the configuration, then opens and migrates the
// configured main database.
func OpenDatabase(cfg *config.Config) (*database.Database, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return database.Open(database.OptionsFromConfig(cfg.Database))
}

// NewPublisher connects to NATS when NATS_URL is set and returns a no-op
// publisher otherwise.
func NewPublisher(cfg config.Events) (events.Publisher, error) {
	if cfg.NatsURL == "" {
		log.Printf("[EVENTS] NATS_URL not set, progress events disabled")
		return events.NopPublisher{}, nil
	}
	return events.NewNatsPublisher(events.NatsConfig{
		URL:     cfg.NatsURL,
		Subject: cfg.Subject,
	})
}

// NewApp wires storage, services, background work and the router.
// Background work only starts with Start.
func NewApp(cfg *config.Config, version string) (*App, error) {
	db, err := OpenDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &App{DB: db}
	if err := app.wire(cfg, version); err != nil {
		app.close()
		return nil, err
	}
	return app, nil
}

func (a *App) wire(cfg *config.Config, version string) error {
	publisher, err := NewPublisher(cfg.Events)
	if err != nil {
		return err
	}
	a.publisher = publisher

	readingRepo := readings.NewRepository(a.DB.DB)
	bookRepo := books.NewRepository(a.DB.DB)
	userRepo := users.NewRepository(a.DB.DB)

	a.Tracker = tracker.NewService(readingRepo, bookRepo, publisher)

	// Initialize task queue if enabled
	var runner scheduler.Runner = tasks.InlineCompletion{Completer: a.Tracker}
	if cfg.Tasks.Enabled {
		a.taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.ConfigFromSettings(cfg.Tasks))
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		a.taskClient.Register(tasks.NewCompleteReadingsQueue(a.Tracker))
		runner = a.taskClient
	}

	if cfg.Completion.Enabled {
		a.Scheduler = scheduler.NewCompletionScheduler(runner, cfg.Completion.Schedule)
	} else {
		log.Printf("Completion scheduler: disabled")
	}

	routerCfg := http_controllers.RouterConfig{
		Tracker:      a.Tracker,
		Shelves:      bookRepo,
		Database:     a.DB,
		AuthService:  auth.NewService(userRepo, cfg.Auth),
		AuthConfig:   cfg.Auth,
		LoginLimiter: auth.NewLoginLimiter(auth.LoginLimiterConfig{}),
		Version:      version,
	}

	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Printf("Authentication mode: local")

		sqlDB, err := a.DB.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get SQL DB for sessions: %w", err)
		}
		sessionManager, err := auth.NewSessionManager(sqlDB, a.DB.Dialect(), cfg.Auth)
		if err != nil {
			return fmt.Errorf("failed to initialize session manager: %w", err)
		}

		csrfSecret, err := csrfSecret(cfg.Auth.SessionSecret)
		if err != nil {
			return err
		}

		routerCfg.SessionManager = sessionManager
		routerCfg.AuthMiddleware = auth.NewMiddleware(routerCfg.AuthService, sessionManager, cfg.Auth)
		routerCfg.CSRFSecret = csrfSecret
	} else {
		log.Printf("Authentication mode: none (user_id is taken from request bodies)")
	}

	if a.Scheduler != nil {
		routerCfg.Completion = a.Scheduler
	}

	a.Router = http_controllers.NewRouter(routerCfg)
	return nil
}

// csrfSecret decodes a hex secret, falls back to raw bytes, and generates
// one when unset.
func csrfSecret(configured string) ([]byte, error) {
	if configured != "" {
		if secret, err := hex.DecodeString(configured); err == nil {
			return secret, nil
		}
		return []byte(configured), nil
	}

	secret, err := auth.GenerateSessionSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSRF secret: %w", err)
	}
	log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	return hex.DecodeString(secret)
}

// Start launches the task workers and the completion scheduler.
func (a *App) Start(ctx context.Context) error {
	ctx, a.cancel = context.WithCancel(ctx)

	if a.taskClient != nil {
		a.taskClient.Start(ctx)
	}
	if a.Scheduler != nil {
		if err := a.Scheduler.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown stops background work and releases every resource.
func (a *App) Shutdown(ctx context.Context) {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.taskClient != nil {
		a.taskClient.Stop(ctx)
	}
	if a.cancel != nil {
		a.cancel()
	}
	a.close()
}

func (a *App) close() {
	if a.taskClient != nil {
		if err := a.taskClient.Close(); err != nil {
			log.Printf("Error closing task client: %v", err)
		}
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			log.Printf("Error closing event publisher: %v", err)
		}
	}
	if err := a.DB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}

// Serve runs the HTTP server until SIGINT or SIGTERM.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill -2 is SIGINT, plain kill sends SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Background work stops after in-flight requests have drained
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

// Run wires the application and serves HTTP until interrupted.
func Run(cfg *config.Config, version string) error {
	log.Printf("Starting readinglog v%s", version)

	app, err := NewApp(cfg, version)
	if err != nil {
		return err
	}
	if err := app.Start(context.Background()); err != nil {
		app.Shutdown(context.Background())
		return err
	}

	Serve(app.Router, cfg, app.Shutdown)
	return nil
}

// Migrate creates or updates the schema and exits.
func Migrate(cfg *config.Config) error {
	db, err := OpenDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Printf("Database schema is up to date")
	return nil
}

// Sweep runs one completion sweep synchronously.
func Sweep(ctx context.Context, cfg *config.Config) (int64, error) {
	db, err := OpenDatabase(cfg)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	svc := tracker.NewService(readings.NewRepository(db.DB), books.NewRepository(db.DB), nil)
	return svc.CompleteFinishedReadings(ctx)
}
