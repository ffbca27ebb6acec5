package api

import (
	"github.com/fiucpc/arena/internal/config"
	"github.com/fiucpc/arena/internal/engine"
	"github.com/fiucpc/arena/internal/service"
	"gorm.io/gorm"
)

// Handler holds all dependencies for the API handlers.
type Handler struct {
	cfg   *config.Config
	db    *gorm.DB
	store *engine.Store
	svc   *service.Service
}

func NewHandler(cfg *config.Config, db *gorm.DB, store *engine.Store, svc *service.Service) *Handler {
	return &Handler{
		cfg:   cfg,
		db:    db,
		store: store,
		svc:   svc,
	}
}
