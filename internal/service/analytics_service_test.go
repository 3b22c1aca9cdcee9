package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluedata/analytics-backend-go/internal/config"
	"github.com/bluedata/analytics-backend-go/internal/fixtures"
	"github.com/bluedata/analytics-backend-go/internal/models"
	"github.com/bluedata/analytics-backend-go/internal/pipeline"
	"github.com/bluedata/analytics-backend-go/internal/snapshot"
)

func testConfig() *config.Config {
	return &config.Config{RiskThreshold: 70, TrainSeed: 42}
}

func fixtureStore(t *testing.T, n int, seed int64) *snapshot.Store {
	t.Helper()
	ref := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	derived, diags, err := pipeline.Derive(fixtures.ServiceRecords(n, seed, ref), ref)
	require.NoError(t, err)

	store := snapshot.NewStore()
	store.Swap(&snapshot.Snapshot{
		ID:            "test",
		GeneratedAt:   ref,
		ReferenceTime: ref,
		Records:       derived,
		Diagnostics:   diags,
	})
	return store
}

func TestSummaryBeforeFirstRun(t *testing.T) {
	svc := NewAnalyticsService(testConfig(), snapshot.NewStore())

	_, err := svc.Summary()

	assert.ErrorIs(t, err, ErrNotReady)
}

func TestSummaryTotalsMatchRecords(t *testing.T) {
	store := fixtureStore(t, 150, 3)
	svc := NewAnalyticsService(testConfig(), store)

	summary, err := svc.Summary()

	require.NoError(t, err)
	records := store.Current().Records

	var gallons float64
	outlets := make(map[string]struct{})
	for _, rec := range records {
		gallons += rec.GallonsCollected
		outlets[rec.OutletID] = struct{}{}
	}

	assert.Equal(t, len(records), summary.TotalServices)
	assert.Equal(t, len(outlets), summary.TotalOutlets)
	assert.InDelta(t, gallons, summary.TotalGallons, 1e-6)
	assert.InDelta(t, gallons/float64(len(records)), summary.AvgGallonsPerService, 1e-6)

	var monthly float64
	for _, v := range summary.MonthlyGallons {
		monthly += v
	}
	assert.InDelta(t, gallons, monthly, 1e-6)
}

func TestSummaryTopRiskOutletsRankedByScore(t *testing.T) {
	ref := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	recentDate := ref.AddDate(0, 0, -25)
	staleDate := ref.AddDate(0, 0, -90)
	lowEff, highEff := 1.0, 95.0

	derived, _, err := pipeline.Derive([]models.ServiceRecord{
		{OutletID: "O-RISKY", Area: "Deira", GallonsCollected: 100, TrapCount: 1,
			MissedCount: 5, TrapEfficiency: &lowEff, CollectedAt: &recentDate},
		{OutletID: "O-STALE", Area: "Deira", GallonsCollected: 100, TrapCount: 1,
			TrapEfficiency: &highEff, CollectedAt: &staleDate},
	}, ref)
	require.NoError(t, err)
	require.Greater(t, derived[0].RiskScore, derived[1].RiskScore)

	store := snapshot.NewStore()
	store.Swap(&snapshot.Snapshot{ID: "test", ReferenceTime: ref, Records: derived})

	summary, err := NewAnalyticsService(testConfig(), store).Summary()
	require.NoError(t, err)

	// The risky outlet leads despite being serviced under 30 days ago;
	// recency-based overdue rules never shape this listing.
	require.Len(t, summary.TopRiskOutlets, 2)
	assert.Equal(t, "O-RISKY", summary.TopRiskOutlets[0].OutletID)
	assert.Equal(t, "O-STALE", summary.TopRiskOutlets[1].OutletID)
}

func TestExplorationRanksOutletsByMissedCleanings(t *testing.T) {
	ref := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	collected := ref.AddDate(0, 0, -10)

	derived, _, err := pipeline.Derive([]models.ServiceRecord{
		{OutletID: "O1", Area: "Deira", GallonsCollected: 100, TrapCount: 1, MissedCount: 1, CollectedAt: &collected},
		{OutletID: "O2", Area: "Deira", GallonsCollected: 100, TrapCount: 1, MissedCount: 4, CollectedAt: &collected},
		{OutletID: "O3", Area: "Deira", GallonsCollected: 100, TrapCount: 1, CollectedAt: &collected},
	}, ref)
	require.NoError(t, err)

	store := snapshot.NewStore()
	store.Swap(&snapshot.Snapshot{ID: "test", ReferenceTime: ref, Records: derived})

	exploration, err := NewAnalyticsService(testConfig(), store).Exploration(models.ExplorationFilter{})
	require.NoError(t, err)

	require.Len(t, exploration.OutletsByMissedCleanings, 2)
	assert.Equal(t, "O2", exploration.OutletsByMissedCleanings[0].OutletID)
	assert.Equal(t, 4, exploration.OutletsByMissedCleanings[0].MissedCleanings)
	assert.Equal(t, "O1", exploration.OutletsByMissedCleanings[1].OutletID)
}

func TestExplorationFiltersAndCaps(t *testing.T) {
	store := fixtureStore(t, 400, 3)
	svc := NewAnalyticsService(testConfig(), store)

	all, err := svc.Exploration(models.ExplorationFilter{})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(all.Records), 100)
	assert.NotEmpty(t, all.Locations)
	assert.NotEmpty(t, all.OutletTypes)

	area := all.Locations[0]
	filtered, err := svc.Exploration(models.ExplorationFilter{Area: area})
	require.NoError(t, err)
	for _, rec := range filtered.Records {
		assert.Equal(t, area, rec.Area)
	}
	// Filter options always reflect the full dataset.
	assert.Equal(t, all.Locations, filtered.Locations)
}

func TestAggregatesRejectBadKey(t *testing.T) {
	svc := NewAnalyticsService(testConfig(), fixtureStore(t, 50, 3))

	_, err := svc.Aggregates(models.GroupKey("outlet"))

	assert.Error(t, err)
}

func TestHighRiskNegativeThresholdUsesDefault(t *testing.T) {
	store := fixtureStore(t, 150, 3)
	svc := NewAnalyticsService(testConfig(), store)

	byDefault, err := svc.HighRisk(-1)
	require.NoError(t, err)
	explicit, err := svc.HighRisk(70)
	require.NoError(t, err)

	assert.Equal(t, explicit, byDefault)
	for _, rec := range byDefault {
		assert.GreaterOrEqual(t, rec.RiskScore, 70.0)
	}
}

func TestHighRiskZeroThresholdReturnsEverything(t *testing.T) {
	store := fixtureStore(t, 150, 3)
	svc := NewAnalyticsService(testConfig(), store)

	ranked, err := svc.HighRisk(0)

	require.NoError(t, err)
	assert.Len(t, ranked, len(store.Current().Records))
}
