package main

import (
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/bluedata/analytics-backend-go/internal/api"
	"github.com/bluedata/analytics-backend-go/internal/config"
	"github.com/bluedata/analytics-backend-go/internal/database"
	"github.com/bluedata/analytics-backend-go/internal/repository"
	"github.com/bluedata/analytics-backend-go/internal/service"
	"github.com/bluedata/analytics-backend-go/internal/snapshot"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	schema, err := config.LoadSchema(cfg.SchemaPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load dataset schema")
	}

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	store := snapshot.NewStore()
	pipelineService := service.NewPipelineService(
		cfg,
		schema,
		store,
		repository.NewSnapshotRepository(db),
		repository.NewModelRepository(db),
	)

	// Serve the last persisted snapshot until the first fresh run lands.
	if err := pipelineService.Restore(); err != nil {
		log.WithError(err).Warn("Failed to restore persisted snapshot")
	}

	if _, err := pipelineService.Run(time.Now().UTC()); err != nil {
		if store.Current() == nil {
			log.WithError(err).Fatal("Initial pipeline run failed with no snapshot to fall back on")
		}
		log.WithError(err).Error("Initial pipeline run failed, serving restored snapshot")
	}

	if cfg.RefreshCron != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.RefreshCron, func() {
			if _, err := pipelineService.Run(time.Now().UTC()); err != nil {
				log.WithError(err).Error("Scheduled pipeline refresh failed")
			}
		}); err != nil {
			log.WithError(err).Fatal("Invalid refresh cron expression")
		}
		c.Start()
		defer c.Stop()
	}

	handlers := api.NewHandlers(cfg, schema, store, pipelineService)
	router := api.SetupRouter(cfg, store, handlers)

	log.WithField("port", cfg.Port).Info("Server starting")
	if err := router.Run(cfg.Port); err != nil {
		log.WithError(err).Fatal("Failed to start server")
	}
}
