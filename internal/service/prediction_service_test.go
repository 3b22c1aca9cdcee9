package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluedata/analytics-backend-go/internal/fixtures"
	"github.com/bluedata/analytics-backend-go/internal/ml"
	"github.com/bluedata/analytics-backend-go/internal/models"
	"github.com/bluedata/analytics-backend-go/internal/pipeline"
	"github.com/bluedata/analytics-backend-go/internal/snapshot"
)

func trainedStore(t *testing.T, n int) *snapshot.Store {
	t.Helper()
	ref := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	derived, _, err := pipeline.Derive(fixtures.ServiceRecords(n, 3, ref), ref)
	require.NoError(t, err)

	trained, err := ml.Train(derived, 42)
	require.NoError(t, err)

	byName := make(map[string]*models.TrainedModel, len(trained))
	for _, m := range trained {
		byName[m.Name] = m
	}

	store := snapshot.NewStore()
	store.Swap(&snapshot.Snapshot{
		ID:            "test",
		ReferenceTime: ref,
		Records:       derived,
		Models:        byName,
	})
	return store
}

func TestReportBeforeFirstRun(t *testing.T) {
	svc := NewPredictionService(snapshot.NewStore())

	_, err := svc.Report()

	assert.ErrorIs(t, err, ErrNotReady)
}

func TestReportWithoutTrainedModels(t *testing.T) {
	svc := NewPredictionService(fixtureStore(t, 150, 3))

	_, err := svc.Report()

	assert.ErrorIs(t, err, ErrModelsNotTrained)
}

func TestReportPredictsPerOutlet(t *testing.T) {
	svc := NewPredictionService(trainedStore(t, 300))

	report, err := svc.Report()

	require.NoError(t, err)
	require.NotEmpty(t, report.Predictions)
	assert.LessOrEqual(t, len(report.Predictions), 50)

	seen := make(map[string]bool)
	for i, p := range report.Predictions {
		assert.False(t, seen[p.OutletID], "outlet %s appears twice", p.OutletID)
		seen[p.OutletID] = true
		if i > 0 {
			assert.Less(t, report.Predictions[i-1].OutletID, p.OutletID)
		}
		assert.GreaterOrEqual(t, p.MissedCleaningProbability, 0.0)
		assert.LessOrEqual(t, p.MissedCleaningProbability, 1.0)
	}

	assert.Contains(t, report.ModelAccuracy, models.ModelMissedCleaning)
	assert.Contains(t, report.ModelAccuracy, models.ModelVolume)
	assert.Contains(t, report.FeatureImportance, models.ModelMissedCleaning)
}
