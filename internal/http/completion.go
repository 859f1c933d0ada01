package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readinglog/internal/scheduler"
)

// CompletionController exposes the completion sweep schedule and a manual trigger.
type CompletionController struct {
	scheduler CompletionScheduler
}

func NewCompletionController(s CompletionScheduler) *CompletionController {
	return &CompletionController{scheduler: s}
}

// RunNow starts a sweep in the background.
// POST /api/completion/run
func (cc *CompletionController) RunNow(c *gin.Context) {
	if err := cc.scheduler.RunNow(); err != nil {
		switch {
		case errors.Is(err, scheduler.ErrSweepInProgress):
			respondConflict(c, "Completion sweep already in progress.")
		case errors.Is(err, scheduler.ErrNotRunning):
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Completion scheduler is not running."})
		default:
			respondInternalError(c, err, "run completion sweep")
		}
		return
	}
	c.JSON(http.StatusAccepted, SuccessResponse{Message: "Completion sweep started."})
}

// Status reports the scheduler state and the next scheduled sweep.
// GET /api/completion/status
func (cc *CompletionController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"is_running":  cc.scheduler.IsRunning(),
		"is_sweeping": cc.scheduler.IsSweeping(),
		"next_run":    cc.scheduler.GetNextRunTime(),
	})
}
