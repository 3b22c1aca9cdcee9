package service

import (
	"github.com/bluedata/analytics-backend-go/internal/analytics"
	"github.com/bluedata/analytics-backend-go/internal/config"
	"github.com/bluedata/analytics-backend-go/internal/models"
	"github.com/bluedata/analytics-backend-go/internal/snapshot"
)

// OverdueDaysThreshold marks an outlet as overdue for cleaning. This is a
// recency metric for the overdue listings; risk classification always goes
// through the derived risk score instead.
const OverdueDaysThreshold = 30

// Response size caps for listing endpoints.
const (
	maxExplorationRecords = 100
	topOutletCount        = 10
	topRiskOutletCount    = 5
)

// AnalyticsService answers reporting queries against the current snapshot.
type AnalyticsService struct {
	cfg   *config.Config
	store *snapshot.Store
}

// NewAnalyticsService creates an analytics service.
func NewAnalyticsService(cfg *config.Config, store *snapshot.Store) *AnalyticsService {
	return &AnalyticsService{cfg: cfg, store: store}
}

// Summary computes the KPI rollup.
func (s *AnalyticsService) Summary() (*models.Summary, error) {
	snap := s.store.Current()
	if snap == nil {
		return nil, ErrNotReady
	}
	records := snap.Records

	byMonth, err := analytics.Aggregate(records, models.GroupByMonth)
	if err != nil {
		return nil, err
	}
	byArea, err := analytics.Aggregate(records, models.GroupByArea)
	if err != nil {
		return nil, err
	}

	monthlyGallons := make(map[string]float64, len(byMonth))
	monthlyServices := make(map[string]int, len(byMonth))
	for _, k := range analytics.SortedKeys(byMonth) {
		monthlyGallons[k] = byMonth[k].TotalGallons
		monthlyServices[k] = byMonth[k].TotalServices
	}

	var totalGallons float64
	outlets := make(map[string]struct{})
	for _, rec := range records {
		totalGallons += rec.GallonsCollected
		outlets[rec.OutletID] = struct{}{}
	}

	highRisk := analytics.RankHighRisk(records, s.cfg.RiskThreshold)
	highRiskOutlets := make(map[string]struct{}, len(highRisk))
	for _, rec := range highRisk {
		highRiskOutlets[rec.OutletID] = struct{}{}
	}

	avg := 0.0
	if len(records) > 0 {
		avg = totalGallons / float64(len(records))
	}

	return &models.Summary{
		TotalOutlets:         len(outlets),
		TotalGallons:         totalGallons,
		TotalServices:        len(records),
		AvgGallonsPerService: avg,
		HighRiskOutlets:      len(highRiskOutlets),
		MonthlyGallons:       monthlyGallons,
		MonthlyServices:      monthlyServices,
		TopRiskOutlets:       analytics.TopOutletsByRisk(records, topRiskOutletCount),
		LocationBreakdown:    byArea,
		Diagnostics:          snap.Diagnostics,
	}, nil
}

// Exploration computes the filtered exploration view.
func (s *AnalyticsService) Exploration(filter models.ExplorationFilter) (*models.Exploration, error) {
	snap := s.store.Current()
	if snap == nil {
		return nil, ErrNotReady
	}

	filtered := analytics.Filter(snap.Records, filter)

	byArea, err := analytics.Aggregate(filtered, models.GroupByArea)
	if err != nil {
		return nil, err
	}
	byCategory, err := analytics.Aggregate(filtered, models.GroupByCategory)
	if err != nil {
		return nil, err
	}

	capped := filtered
	if len(capped) > maxExplorationRecords {
		capped = capped[:maxExplorationRecords]
	}

	return &models.Exploration{
		Records:                  capped,
		OutletTypes:              analytics.DistinctCategories(snap.Records),
		Locations:                analytics.DistinctAreas(snap.Records),
		TopOutletsByVolume:       analytics.TopOutletsByVolume(filtered, topOutletCount),
		OutletsByMissedCleanings: analytics.TopOutletsByMissedCleanings(filtered, topOutletCount),
		TrendsByArea:             byArea,
		TrendsByCategory:         byCategory,
	}, nil
}

// Aggregates returns the raw bucket mapping for a group key.
func (s *AnalyticsService) Aggregates(key models.GroupKey) (map[string]models.AggregateBucket, error) {
	snap := s.store.Current()
	if snap == nil {
		return nil, ErrNotReady
	}
	return analytics.Aggregate(snap.Records, key)
}

// HighRisk returns the ranked high-risk records for a threshold; a
// negative threshold selects the configured default.
func (s *AnalyticsService) HighRisk(threshold float64) ([]models.DerivedRecord, error) {
	snap := s.store.Current()
	if snap == nil {
		return nil, ErrNotReady
	}
	if threshold < 0 {
		threshold = s.cfg.RiskThreshold
	}
	return analytics.RankHighRisk(snap.Records, threshold), nil
}
