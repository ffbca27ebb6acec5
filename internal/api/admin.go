package api

import (
	"errors"
	"net/http"

	"github.com/fiucpc/arena/internal/database"
	"github.com/fiucpc/arena/internal/engine"
	"github.com/fiucpc/arena/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getStatus reports the engine's view of the world: the live period, the
// published snapshot versions and the log size.
func (h *Handler) getStatus(c *gin.Context) {
	eventCount, err := database.CountSubmissionEvents(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "", err)
		return
	}
	participantCount, err := database.CountParticipants(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "", err)
		return
	}

	status := gin.H{
		"period":       h.store.CurrentPeriod(),
		"problems":     h.store.Problems().Len(),
		"events":       eventCount,
		"participants": participantCount,
	}
	if snap := h.store.Leaderboard(engine.Weekly); snap != nil {
		status["weekly_version"] = snap.Version
	}
	if snap := h.store.Leaderboard(engine.AllTime); snap != nil {
		status["all_time_version"] = snap.Version
	}
	util.Success(c, status, "Status retrieved")
}

// getEvents exposes the raw submission log for auditing, including excluded
// events that were never scored.
func (h *Handler) getEvents(c *gin.Context) {
	events, err := database.GetSubmissionEvents(h.db, c.Query("username"), c.Query("period"))
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "", err)
		return
	}
	util.Success(c, events, "Events retrieved")
}

// verifyReplay re-derives both leaderboards from the log and compares them
// with what is published. Divergence means the log and the snapshots no
// longer agree, which operators must treat as an outage.
func (h *Handler) verifyReplay(c *gin.Context) {
	if err := h.store.VerifyReplay(); err != nil {
		if errors.Is(err, engine.ErrReplayDivergence) {
			util.Error(c, http.StatusInternalServerError, "ReplayDivergence", err)
			return
		}
		util.Error(c, http.StatusInternalServerError, "", err)
		return
	}
	util.Success(c, nil, "Replay matches published snapshots")
}

// rollover forces a period-transition check instead of waiting for the timer.
func (h *Handler) rollover(c *gin.Context) {
	rolled := h.store.Rollover()
	if rolled {
		zap.S().Infof("rollover forced by %s", c.GetString("caller"))
	}
	util.Success(c, gin.H{"rolled": rolled, "period": h.store.CurrentPeriod()}, "Rollover check complete")
}
