package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/mrlokans/readinglog/internal/entities"
)

// CompleteFinishedReadings marks every open session whose progress reached
// its mode limit as finished. The finish date is the read date of the
// session's latest entry, or today when it has none. Returns how many
// sessions were closed.
func (s *Service) CompleteFinishedReadings(ctx context.Context) (int64, error) {
	candidates, err := s.readings.GetCompletableReadings(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to find completable readings: %w", err)
	}

	var completed int64
	for _, r := range candidates {
		if err := ctx.Err(); err != nil {
			return completed, err
		}

		day := entities.Today()
		latest, err := s.readings.GetLatestEntry(ctx, r.ID)
		switch {
		case err == nil:
			day = entities.DateOf(latest.ReadAt)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return completed, fmt.Errorf("failed to load latest entry for reading %s: %w", r.ID, err)
		}

		ok, err := s.readings.MarkCompleted(ctx, r.ID, day)
		if err != nil {
			return completed, fmt.Errorf("failed to finish reading %s: %w", r.ID, err)
		}
		if ok {
			completed++
		}
	}

	if completed > 0 {
		log.Printf("Completion sweep finished %d reading(s)", completed)
	}
	return completed, nil
}
