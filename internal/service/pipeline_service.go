package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/bluedata/analytics-backend-go/internal/config"
	"github.com/bluedata/analytics-backend-go/internal/ml"
	"github.com/bluedata/analytics-backend-go/internal/models"
	"github.com/bluedata/analytics-backend-go/internal/pipeline"
	"github.com/bluedata/analytics-backend-go/internal/repository"
	"github.com/bluedata/analytics-backend-go/internal/snapshot"
)

// ErrNotReady is returned by query services before the first successful
// pipeline run.
var ErrNotReady = errors.New("no snapshot available yet")

// PipelineService owns pipeline runs and the snapshot lifecycle. A run
// either completes and swaps the snapshot atomically, or fails and leaves
// the previous snapshot live.
type PipelineService struct {
	cfg          *config.Config
	pipe         *pipeline.Pipeline
	store        *snapshot.Store
	snapshotRepo *repository.SnapshotRepository
	modelRepo    *repository.ModelRepository
}

// NewPipelineService creates a pipeline service.
func NewPipelineService(
	cfg *config.Config,
	schema config.Schema,
	store *snapshot.Store,
	snapshotRepo *repository.SnapshotRepository,
	modelRepo *repository.ModelRepository,
) *PipelineService {
	return &PipelineService{
		cfg:          cfg,
		pipe:         pipeline.New(schema),
		store:        store,
		snapshotRepo: snapshotRepo,
		modelRepo:    modelRepo,
	}
}

// Restore loads the last persisted snapshot into the store so the process
// can answer queries before its first fresh run. Missing history is not an
// error.
func (s *PipelineService) Restore() error {
	snap, err := s.snapshotRepo.LoadLatest()
	if err != nil {
		return err
	}
	if snap == nil {
		log.Info("No persisted snapshot to restore")
		return nil
	}
	// Snapshots saved before training completed carry no models; fall
	// back to the newest persisted artifacts.
	if len(snap.Models) == 0 {
		snap.Models = s.restoreModels()
	}

	s.store.Swap(snap)
	log.WithFields(log.Fields{
		"snapshot": snap.ID,
		"records":  len(snap.Records),
		"models":   len(snap.Models),
		"age":      time.Since(snap.GeneratedAt).Round(time.Second).String(),
	}).Info("Restored persisted snapshot")
	return nil
}

func (s *PipelineService) restoreModels() map[string]*models.TrainedModel {
	restored := make(map[string]*models.TrainedModel)
	for _, name := range []string{models.ModelMissedCleaning, models.ModelVolume} {
		m, err := s.modelRepo.LoadLatest(name)
		if err != nil {
			log.WithError(err).WithField("model", name).Warn("Failed to load persisted model")
			continue
		}
		if m != nil {
			restored[name] = m
		}
	}
	if len(restored) == 0 {
		return nil
	}
	return restored
}

// Run executes the pipeline against an explicit reference time, trains the
// models, persists the result and swaps it in. Training on too little data
// is logged and skipped; the snapshot is still published without models.
func (s *PipelineService) Run(referenceTime time.Time) (*snapshot.Snapshot, error) {
	result, err := s.pipe.Run(s.cfg.DataPath, referenceTime)
	if err != nil {
		log.WithError(err).Error("Pipeline run failed, keeping previous snapshot")
		return nil, err
	}

	snap := &snapshot.Snapshot{
		ID:            uuid.NewString(),
		GeneratedAt:   time.Now().UTC(),
		ReferenceTime: result.ReferenceTime,
		Records:       result.Records,
		Diagnostics:   result.Diagnostics,
	}

	trained, err := ml.Train(result.Records, s.cfg.TrainSeed)
	switch {
	case err == nil:
		snap.Models = make(map[string]*models.TrainedModel, len(trained))
		for _, m := range trained {
			snap.Models[m.Name] = m
			if saveErr := s.modelRepo.Save(m); saveErr != nil {
				log.WithError(saveErr).Warn("Failed to persist trained model")
			}
		}
	case pipeline.KindOf(err) == pipeline.KindInsufficientData:
		log.WithError(err).Warn("Skipping model training")
	default:
		return nil, err
	}

	if err := s.snapshotRepo.Save(snap); err != nil {
		log.WithError(err).Warn("Failed to persist snapshot")
	}

	s.store.Swap(snap)
	return snap, nil
}
