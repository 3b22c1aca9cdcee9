package ml

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluedata/analytics-backend-go/internal/fixtures"
	"github.com/bluedata/analytics-backend-go/internal/models"
	"github.com/bluedata/analytics-backend-go/internal/pipeline"
)

func trainingRecords(t *testing.T, n int, seed int64) []models.DerivedRecord {
	t.Helper()
	ref := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	derived, _, err := pipeline.Derive(fixtures.ServiceRecords(n, seed, ref), ref)
	require.NoError(t, err)
	require.Len(t, derived, n)
	return derived
}

func TestTrainRefusesSmallDatasets(t *testing.T) {
	records := trainingRecords(t, 50, 1)

	modelsOut, err := Train(records, 42)

	require.Error(t, err)
	assert.Equal(t, pipeline.KindInsufficientData, pipeline.KindOf(err))
	assert.Nil(t, modelsOut)
}

func TestTrainProducesBothModels(t *testing.T) {
	records := trainingRecords(t, 300, 1)

	modelsOut, err := Train(records, 42)

	require.NoError(t, err)
	require.Len(t, modelsOut, 2)
	assert.Equal(t, models.ModelMissedCleaning, modelsOut[0].Name)
	assert.Equal(t, models.ModelVolume, modelsOut[1].Name)
}

func TestTrainMissedCleaningAccuracyInRange(t *testing.T) {
	records := trainingRecords(t, 300, 1)

	model, err := TrainMissedCleaning(records, 42)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, model.Accuracy, 0.0)
	assert.LessOrEqual(t, model.Accuracy, 1.0)
	assert.Len(t, model.Weights, len(model.FeatureColumns))
	assert.Len(t, model.Means, len(model.FeatureColumns))
	assert.Len(t, model.Stds, len(model.FeatureColumns))
	assert.Equal(t, int64(42), model.Seed)
}

func TestTrainIsDeterministicForSeed(t *testing.T) {
	records := trainingRecords(t, 300, 1)

	first, err := TrainMissedCleaning(records, 42)
	require.NoError(t, err)
	second, err := TrainMissedCleaning(records, 42)
	require.NoError(t, err)

	assert.Equal(t, first.Weights, second.Weights)
	assert.Equal(t, first.Intercept, second.Intercept)
	assert.Equal(t, first.Accuracy, second.Accuracy)
}

func TestTrainVolumeR2NotAboveOne(t *testing.T) {
	records := trainingRecords(t, 300, 1)

	model, err := TrainVolume(records, 42)

	require.NoError(t, err)
	assert.LessOrEqual(t, model.Accuracy, 1.0)
	assert.Greater(t, model.TargetStd, 0.0)
}

func TestImportanceSumsToOne(t *testing.T) {
	records := trainingRecords(t, 300, 1)

	model, err := TrainMissedCleaning(records, 42)
	require.NoError(t, err)

	var total float64
	for _, col := range model.FeatureColumns {
		v, ok := model.Importance[col]
		require.True(t, ok, "missing importance for %s", col)
		assert.GreaterOrEqual(t, v, 0.0)
		total += v
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestPredictClassifierReturnsProbability(t *testing.T) {
	records := trainingRecords(t, 300, 1)
	model, err := TrainMissedCleaning(records, 42)
	require.NoError(t, err)

	p, err := Predict(model, records[0])

	require.NoError(t, err)
	assert.GreaterOrEqual(t, p, 0.0)
	assert.LessOrEqual(t, p, 1.0)
}

func TestPredictValidatesModelMetadata(t *testing.T) {
	broken := &models.TrainedModel{
		Name:           models.ModelMissedCleaning,
		FeatureColumns: []string{"trapCount", "daysSinceCollection"},
		Weights:        []float64{0.1},
		Means:          []float64{0, 0},
		Stds:           []float64{1, 1},
	}

	_, err := Predict(broken, models.DerivedRecord{})

	assert.Error(t, err)
}

func TestPredictRejectsUnknownFeatureColumn(t *testing.T) {
	broken := &models.TrainedModel{
		Name:           models.ModelVolume,
		FeatureColumns: []string{"phaseOfMoon"},
		Weights:        []float64{0.1},
		Means:          []float64{0},
		Stds:           []float64{1},
		TargetStd:      1,
	}

	_, err := Predict(broken, models.DerivedRecord{})

	assert.Error(t, err)
}

func TestPredictNilModel(t *testing.T) {
	_, err := Predict(nil, models.DerivedRecord{})

	assert.Error(t, err)
}
