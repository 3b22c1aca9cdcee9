package service

import (
	"github.com/bluedata/analytics-backend-go/internal/analytics"
	"github.com/bluedata/analytics-backend-go/internal/config"
	"github.com/bluedata/analytics-backend-go/internal/models"
	"github.com/bluedata/analytics-backend-go/internal/snapshot"
)

// Scheduling defaults: five inspections a week over a four-week horizon.
const (
	DefaultBatchSize = 5
	DefaultWeeks     = 4

	highPriorityCount = 10
)

// ScheduleService builds weekly inspection plans from the current snapshot.
type ScheduleService struct {
	cfg    *config.Config
	schema config.Schema
	store  *snapshot.Store
}

// NewScheduleService creates a schedule service.
func NewScheduleService(cfg *config.Config, schema config.Schema, store *snapshot.Store) *ScheduleService {
	return &ScheduleService{cfg: cfg, schema: schema, store: store}
}

// Plan partitions the ranked high-risk records into weekly batches. Week
// dates derive from the snapshot's reference time, so the same snapshot
// always yields the same plan.
func (s *ScheduleService) Plan(weeks, batchSize int) (*models.SchedulePlan, error) {
	snap := s.store.Current()
	if snap == nil {
		return nil, ErrNotReady
	}

	if weeks < 1 {
		weeks = DefaultWeeks
	}
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}

	ranked := analytics.RankHighRisk(snap.Records, s.cfg.RiskThreshold)
	batches := analytics.Schedule(ranked, batchSize, weeks, snap.ReferenceTime)

	highPriority := ranked
	if len(highPriority) > highPriorityCount {
		highPriority = highPriority[:highPriorityCount]
	}

	return &models.SchedulePlan{
		WeeklySchedule:          batches,
		RouteOptimization:       analytics.ZoneRoutes(ranked, s.schema.Areas),
		TotalInspectionsPlanned: len(ranked),
		EstimatedDurationWeeks:  len(batches),
		HighPriorityOutlets:     highPriority,
	}, nil
}
