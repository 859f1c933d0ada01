package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Runner triggers a completion sweep. Implemented by the task queue client
// and by tasks.InlineCompletion.
type Runner interface {
	RunCompletion(ctx context.Context, trigger string) error
}

var (
	ErrNotRunning      = errors.New("completion scheduler is not running")
	ErrSweepInProgress = errors.New("completion sweep already in progress")
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a standard five-field cron expression.
func ValidateSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("schedule is empty")
	}
	_, err := parser.Parse(schedule)
	return err
}

// CompletionScheduler periodically closes reading sessions that reached
// their progress limit.
type CompletionScheduler struct {
	runner   Runner
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isSweeping bool
	runCtx     context.Context
	cancelFunc context.CancelFunc
}

// NewCompletionScheduler creates a scheduler for the given cron schedule.
func NewCompletionScheduler(runner Runner, schedule string) *CompletionScheduler {
	return &CompletionScheduler{
		runner:   runner,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start registers the sweep job and starts the cron loop. The scheduler stops
// when ctx is cancelled.
func (s *CompletionScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runSweep(ctx, "schedule")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule completion sweep: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)
	s.runCtx = cancelCtx

	s.cron.Start()
	s.isRunning = true

	log.Printf("Completion scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running sweep and stops the scheduler.
func (s *CompletionScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	// The lock is released first: a sweep in flight needs it to finish.
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	if cancel != nil {
		cancel()
	}

	log.Printf("Completion scheduler: stopped")
}

// RunNow triggers an immediate sweep in the background. The sweep runs on
// the scheduler's context, not the caller's.
func (s *CompletionScheduler) RunNow() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return ErrNotRunning
	}
	if s.isSweeping {
		return ErrSweepInProgress
	}

	go s.runSweep(s.runCtx, "manual")
	return nil
}

// IsSweeping returns whether a sweep is in flight.
func (s *CompletionScheduler) IsSweeping() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSweeping
}

// IsRunning returns whether the scheduler is active.
func (s *CompletionScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next sweep will occur.
func (s *CompletionScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *CompletionScheduler) runSweep(ctx context.Context, trigger string) {
	s.mu.Lock()
	if s.isSweeping {
		s.mu.Unlock()
		log.Printf("Completion sweep: skipped (already running)")
		return
	}
	s.isSweeping = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSweeping = false
		s.mu.Unlock()
	}()

	if err := s.runner.RunCompletion(ctx, trigger); err != nil {
		log.Printf("Completion sweep: failed: %v", err)
	}
}
