package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/fiucpc/arena/internal/database/models"
	"github.com/fiucpc/arena/internal/engine"
	"github.com/fiucpc/arena/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type submissionRequest struct {
	Username      string         `json:"username" binding:"required"`
	ProblemLetter string         `json:"problem_letter" binding:"required"`
	Verdict       models.Verdict `json:"verdict" binding:"required"`
	SubmittedAt   time.Time      `json:"submitted_at" binding:"required"`
}

// createSubmission ingests one judged submission event. Verdicts arrive
// already judged; this endpoint contains no grading logic.
func (h *Handler) createSubmission(c *gin.Context) {
	var req submissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "", err)
		return
	}

	ev, err := h.store.Ingest(req.Username, req.ProblemLetter, req.Verdict, req.SubmittedAt)
	switch {
	case err == nil:
		zap.S().Infof("submission %s accepted: %s/%s %s", ev.ID, req.Username, req.ProblemLetter, req.Verdict)
		util.Accepted(c, gin.H{"event_id": ev.ID, "period_id": ev.PeriodID}, "Submission recorded")

	case errors.Is(err, engine.ErrOutOfWindow):
		// The event is in the log for auditing but will never be scored.
		util.Error(c, http.StatusConflict, "OutOfWindow", err)

	case errors.Is(err, engine.ErrRerankConflict):
		util.Error(c, http.StatusServiceUnavailable, "RerankConflict", err)

	case errors.Is(err, engine.ErrInvalidSubmission):
		util.Error(c, http.StatusBadRequest, "", err)

	default:
		util.Error(c, http.StatusInternalServerError, "", err)
	}
}
