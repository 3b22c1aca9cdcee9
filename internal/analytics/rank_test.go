package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluedata/analytics-backend-go/internal/config"
	"github.com/bluedata/analytics-backend-go/internal/models"
)

func scored(outlet, area, zone string, score float64) models.DerivedRecord {
	return models.DerivedRecord{
		ServiceRecord: models.ServiceRecord{
			OutletID:         outlet,
			Area:             area,
			Zone:             zone,
			GallonsCollected: 100,
			TrapCount:        1,
		},
		RiskScore: score,
	}
}

func TestRankHighRiskIncludesThreshold(t *testing.T) {
	records := []models.DerivedRecord{
		scored("O1", "Deira", "Zone A", 80),
		scored("O2", "Deira", "Zone A", 70),
		scored("O3", "Deira", "Zone A", 90),
		scored("O4", "Deira", "Zone A", 60),
		scored("O5", "Deira", "Zone A", 70),
	}

	ranked := RankHighRisk(records, 70)

	require.Len(t, ranked, 4)
	assert.Equal(t, "O3", ranked[0].OutletID)
	assert.Equal(t, "O1", ranked[1].OutletID)
	// Equal scores order by outlet ID.
	assert.Equal(t, "O2", ranked[2].OutletID)
	assert.Equal(t, "O5", ranked[3].OutletID)
}

func TestRankHighRiskIsDeterministic(t *testing.T) {
	records := []models.DerivedRecord{
		scored("O5", "Deira", "Zone A", 75),
		scored("O2", "Deira", "Zone A", 75),
		scored("O9", "Deira", "Zone A", 75),
		scored("O1", "Deira", "Zone A", 85),
	}

	first := RankHighRisk(records, 70)
	second := RankHighRisk(records, 70)

	assert.Equal(t, first, second)
}

func TestRankHighRiskDoesNotMutateInput(t *testing.T) {
	records := []models.DerivedRecord{
		scored("O1", "Deira", "Zone A", 60),
		scored("O2", "Deira", "Zone A", 90),
	}

	RankHighRisk(records, 70)

	assert.Equal(t, "O1", records[0].OutletID)
	assert.Equal(t, "O2", records[1].OutletID)
}

func TestSchedulePartitionsByRank(t *testing.T) {
	ranked := []models.DerivedRecord{
		scored("O1", "Deira", "Zone A", 95),
		scored("O2", "Deira", "Zone A", 90),
		scored("O3", "Deira", "Zone A", 85),
		scored("O4", "Deira", "Zone A", 80),
		scored("O5", "Deira", "Zone A", 75),
	}
	ref := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	batches := Schedule(ranked, 2, 3, ref)

	require.Len(t, batches, 3)

	assert.Equal(t, 1, batches[0].Week)
	assert.Equal(t, "2024-06-10", batches[0].StartDate)
	assert.Equal(t, "2024-06-16", batches[0].EndDate)
	require.Len(t, batches[0].Outlets, 2)
	assert.Equal(t, "O1", batches[0].Outlets[0].OutletID)
	assert.Equal(t, "O2", batches[0].Outlets[1].OutletID)

	assert.Equal(t, "2024-06-17", batches[1].StartDate)
	assert.Equal(t, "O3", batches[1].Outlets[0].OutletID)

	// Week 3 gets the single remaining outlet.
	require.Len(t, batches[2].Outlets, 1)
	assert.Equal(t, "O5", batches[2].Outlets[0].OutletID)
}

func TestScheduleShortSequenceLeavesEmptyWeeks(t *testing.T) {
	ranked := []models.DerivedRecord{scored("O1", "Deira", "Zone A", 95)}
	ref := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	batches := Schedule(ranked, 5, 4, ref)

	require.Len(t, batches, 4)
	assert.Len(t, batches[0].Outlets, 1)
	for _, b := range batches[1:] {
		assert.Empty(t, b.Outlets)
	}
}

func TestScheduleRejectsInvalidParameters(t *testing.T) {
	ref := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, Schedule(nil, 0, 4, ref))
	assert.Nil(t, Schedule(nil, 5, 0, ref))
}

func TestZoneRoutesSummarizePerZone(t *testing.T) {
	areas := config.DefaultSchema().Areas
	ranked := []models.DerivedRecord{
		scored("O1", "Deira", "Zone A", 95),
		scored("O2", "Downtown", "Zone A", 90),
		scored("O3", "Jumeirah", "Zone B", 85),
	}

	routes := ZoneRoutes(ranked, areas)

	require.Len(t, routes, 2)
	assert.Equal(t, "Zone A", routes[0].Zone)
	assert.Equal(t, 2, routes[0].OutletCount)
	assert.Equal(t, 200.0, routes[0].TotalGallons)
	// Deira to Downtown is a few kilometres apart.
	assert.Greater(t, routes[0].RouteKm, 0.0)
	assert.Less(t, routes[0].RouteKm, 50.0)

	assert.Equal(t, "Zone B", routes[1].Zone)
	assert.Equal(t, 1, routes[1].OutletCount)
	assert.Zero(t, routes[1].RouteKm)
}

func TestZoneRoutesUnknownAreaFallsBack(t *testing.T) {
	areas := config.DefaultSchema().Areas
	ranked := []models.DerivedRecord{
		scored("O1", "Nowhere", "Zone A", 95),
		scored("O2", "Nowhere Else", "Zone A", 90),
	}

	routes := ZoneRoutes(ranked, areas)

	require.Len(t, routes, 1)
	// Both fall back to the same coordinate, so the leg length is zero.
	assert.Zero(t, routes[0].RouteKm)
}
