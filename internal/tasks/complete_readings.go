package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// ReadingCompleter closes sessions whose progress reached their limit.
type ReadingCompleter interface {
	CompleteFinishedReadings(ctx context.Context) (int64, error)
}

// CompleteReadingsTask runs one completion sweep over open reading sessions.
type CompleteReadingsTask struct {
	// Trigger records what enqueued the sweep ("schedule", "manual").
	Trigger string `json:"trigger"`
}

// Config returns the queue configuration for completion sweeps.
func (t CompleteReadingsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "complete_readings",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CompleteReadingsProcessor creates a processor function for CompleteReadingsTask.
func CompleteReadingsProcessor(completer ReadingCompleter) backlite.QueueProcessor[CompleteReadingsTask] {
	return func(ctx context.Context, task CompleteReadingsTask) error {
		if completer == nil {
			return fmt.Errorf("reading completer not configured")
		}

		completed, err := completer.CompleteFinishedReadings(ctx)
		if err != nil {
			return fmt.Errorf("complete readings: %w", err)
		}

		log.Printf("[TASK] Completion sweep (%s) finished %d reading(s)", task.Trigger, completed)
		return nil
	}
}

// NewCompleteReadingsQueue creates a backlite queue for completion sweeps.
func NewCompleteReadingsQueue(completer ReadingCompleter) backlite.Queue {
	return backlite.NewQueue(CompleteReadingsProcessor(completer))
}

// RunCompletion enqueues a completion sweep on the queue.
func (c *Client) RunCompletion(_ context.Context, trigger string) error {
	if _, err := c.Add(CompleteReadingsTask{Trigger: trigger}).Save(); err != nil {
		return fmt.Errorf("enqueue completion sweep: %w", err)
	}
	return nil
}

// InlineCompletion runs sweeps synchronously when the queue is disabled.
type InlineCompletion struct {
	Completer ReadingCompleter
}

// RunCompletion runs a completion sweep in the caller's goroutine.
func (i InlineCompletion) RunCompletion(ctx context.Context, trigger string) error {
	return CompleteReadingsProcessor(i.Completer)(ctx, CompleteReadingsTask{Trigger: trigger})
}
