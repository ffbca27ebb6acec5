package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fiucpc/arena/internal/engine"
	"github.com/fiucpc/arena/internal/util"
	"github.com/gin-gonic/gin"
)

func periodKind(raw string) (engine.PeriodKind, error) {
	switch raw {
	case "", "weekly":
		return engine.Weekly, nil
	case "all_time":
		return engine.AllTime, nil
	}
	return "", fmt.Errorf("unknown period %q, want weekly or all_time", raw)
}

func (h *Handler) getLeaderboard(c *gin.Context) {
	kind, err := periodKind(c.Query("period"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, "", err)
		return
	}

	snap, err := h.svc.Leaderboard(kind)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "", err)
		return
	}
	util.Success(c, snap, "Leaderboard retrieved")
}

func (h *Handler) getProfile(c *gin.Context) {
	username := c.Param("username")

	profile, err := h.svc.Profile(username)
	if err != nil {
		if errors.Is(err, engine.ErrUserNotFound) {
			util.Error(c, http.StatusNotFound, "UserNotFound", err)
			return
		}
		util.Error(c, http.StatusInternalServerError, "", err)
		return
	}
	util.Success(c, profile, "Profile retrieved")
}

func (h *Handler) getContest(c *gin.Context) {
	period := h.store.CurrentPeriod()
	util.Success(c, gin.H{
		"name":     h.cfg.Competition.Name,
		"period":   period,
		"problems": h.store.Problems().Len(),
	}, "Current contest retrieved")
}

func (h *Handler) getProblems(c *gin.Context) {
	util.Success(c, h.store.Problems().Problems(), "Problem set retrieved")
}
