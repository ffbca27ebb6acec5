package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fiucpc/arena/internal/api"
	"github.com/fiucpc/arena/internal/config"
	"github.com/fiucpc/arena/internal/contest"
	"github.com/fiucpc/arena/internal/database"
	"github.com/fiucpc/arena/internal/database/models"
	"github.com/fiucpc/arena/internal/engine"
	"github.com/fiucpc/arena/internal/service"

	"go.uber.org/zap"
)

var Version = "dev-build"

func main() {

	fmt.Fprintf(os.Stderr, "FIU CPC Arena %s - Competitive Programming Leaderboard\n\n", Version)

	// config
	var configPath string
	flag.StringVar(&configPath, "c", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// logger
	var logger *zap.Logger
	if cfg.Logger.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// database
	db, err := database.Init(cfg.Storage.Database)
	if err != nil {
		zap.S().Fatalf("failed to initialize database: %v", err)
	}
	zap.S().Info("database initialized successfully")

	// contest material
	set, err := contest.LoadProblemSet(cfg.Competition.Problems, cfg.Scoring.Weights)
	if err != nil {
		zap.S().Fatalf("failed to load problem set: %v", err)
	}
	roster, err := contest.LoadRoster(cfg.Competition.Roster)
	if err != nil {
		zap.S().Fatalf("failed to load roster: %v", err)
	}
	zap.S().Infof("loaded %d problems and %d roster entries", set.Len(), len(roster))

	// sync the roster into the participant directory
	usernames := make([]string, 0, len(roster))
	for _, p := range roster {
		err := database.UpsertParticipant(db, &models.Participant{
			Username:    p.Username,
			DisplayName: p.DisplayName,
			Country:     p.Country,
			University:  p.University,
		})
		if err != nil {
			zap.S().Fatalf("failed to upsert participant %s: %v", p.Username, err)
		}
		usernames = append(usernames, p.Username)
	}

	// scoring engine
	schedule := engine.Schedule{Anchor: cfg.Competition.Anchor.UTC(), Week: cfg.Competition.Week.Std()}
	store := engine.NewStore(db, set, schedule, cfg.Scoring.AllTimePolicy, usernames)

	// Rebuild derived state from the event log before serving anything.
	if err := store.Rebuild(); err != nil {
		zap.S().Fatalf("failed to rebuild state from event log: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go store.RunRollover(ctx)
	if interval := cfg.Verify.Interval.Std(); interval > 0 {
		go store.RunVerifier(ctx, interval)
		zap.S().Infof("replay verifier running every %s", interval)
	}

	// API
	svc := service.NewService(db, store)
	router := api.NewRouter(cfg, db, store, svc)

	go func() {
		zap.S().Infof("starting server at %s", cfg.Listen)
		if err := router.Run(cfg.Listen); err != nil {
			zap.S().Fatalf("failed to start server: %v", err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.S().Info("shutting down server...")
}
