package auth

import (
	"sync"
	"time"
)

// LoginLimiter throttles failed logins per client IP and username.
type LoginLimiter struct {
	mu       sync.Mutex
	failures map[string]*failureWindow

	maxFailures int
	window      time.Duration
	lockout     time.Duration
	now         func() time.Time
}

type failureWindow struct {
	count       int
	start       time.Time
	lockedUntil time.Time
}

// LoginLimiterConfig contains configuration for the limiter.
type LoginLimiterConfig struct {
	MaxFailures int           // Failures before lockout (default: 5)
	Window      time.Duration // Window failures are counted in (default: 15m)
	Lockout     time.Duration // Lockout after MaxFailures (default: 30m)
}

// NewLoginLimiter creates a limiter, filling zero fields with defaults.
func NewLoginLimiter(cfg LoginLimiterConfig) *LoginLimiter {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}
	if cfg.Lockout <= 0 {
		cfg.Lockout = 30 * time.Minute
	}
	return &LoginLimiter{
		failures:    make(map[string]*failureWindow),
		maxFailures: cfg.MaxFailures,
		window:      cfg.Window,
		lockout:     cfg.Lockout,
		now:         time.Now,
	}
}

func limiterKey(ip, username string) string {
	return ip + ":" + username
}

// Allow reports whether a login attempt may proceed and, if not, how long
// the caller has to wait.
func (l *LoginLimiter) Allow(ip, username string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.failures[limiterKey(ip, username)]
	if !ok {
		return true, 0
	}
	if now.Before(w.lockedUntil) {
		return false, w.lockedUntil.Sub(now)
	}
	return true, 0
}

// RecordFailure counts a failed attempt and starts a lockout once the limit
// is reached inside the window.
func (l *LoginLimiter) RecordFailure(ip, username string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	key := limiterKey(ip, username)
	w, ok := l.failures[key]
	if !ok || now.Sub(w.start) > l.window {
		w = &failureWindow{start: now}
		l.failures[key] = w
	}

	w.count++
	if w.count >= l.maxFailures {
		w.lockedUntil = now.Add(l.lockout)
	}
}

// RecordSuccess forgets earlier failures.
func (l *LoginLimiter) RecordSuccess(ip, username string) {
	l.mu.Lock()
	delete(l.failures, limiterKey(ip, username))
	l.mu.Unlock()
}

// prune drops windows that have expired and are not locked. Called with mu held.
func (l *LoginLimiter) prune(now time.Time) {
	for key, w := range l.failures {
		if now.Sub(w.start) > l.window && !now.Before(w.lockedUntil) {
			delete(l.failures, key)
		}
	}
}
