package api

import (
	"github.com/fiucpc/arena/internal/config"
	"github.com/fiucpc/arena/internal/engine"
	"github.com/fiucpc/arena/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewRouter creates and configures the Gin engine.
func NewRouter(cfg *config.Config, db *gorm.DB, store *engine.Store, svc *service.Service) *gin.Engine {
	r := gin.Default()

	r.Use(CORSMiddleware(cfg.CORS))

	h := NewHandler(cfg, db, store, svc)

	v1 := r.Group("/api/v1")
	{
		// Publicly accessible read surface
		v1.GET("/leaderboard", h.getLeaderboard)
		v1.GET("/profile/:username", h.getProfile)
		v1.GET("/contest", h.getContest)
		v1.GET("/problems", h.getProblems)

		// Websocket stream of snapshot publications
		v1.GET("/ws/leaderboard", h.handleLeaderboardWs)

		// Internal write surface: the judging pipeline and operators
		internal := v1.Group("/")
		internal.Use(AuthMiddleware(cfg.Ingest.JWT.Secret))
		{
			internal.POST("/submissions", h.createSubmission)

			admin := internal.Group("/admin")
			{
				admin.GET("/status", h.getStatus)
				admin.GET("/events", h.getEvents)
				admin.POST("/verify", h.verifyReplay)
				admin.POST("/rollover", h.rollover)
			}
		}
	}

	return r
}
