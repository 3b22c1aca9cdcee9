package ml

import (
	"fmt"

	"github.com/bluedata/analytics-backend-go/internal/models"
)

// Predict runs a trained model against one derived record. Classifiers
// return the positive-class probability; regressors return the predicted
// value in the original target scale.
func Predict(model *models.TrainedModel, rec models.DerivedRecord) (float64, error) {
	if model == nil {
		return 0, fmt.Errorf("no trained model available")
	}
	features, err := vectorFor(model, rec)
	if err != nil {
		return 0, err
	}

	raw := dot(model.Weights, features) + model.Intercept
	switch model.Name {
	case models.ModelMissedCleaning:
		return sigmoid(raw), nil
	case models.ModelVolume:
		return raw*model.TargetStd + model.TargetMean, nil
	default:
		return 0, fmt.Errorf("unknown model %q", model.Name)
	}
}

// vectorFor builds the standardized feature vector in the column order the
// model was trained with, validating that every column is known.
func vectorFor(model *models.TrainedModel, rec models.DerivedRecord) ([]float64, error) {
	if len(model.FeatureColumns) != len(model.Weights) ||
		len(model.FeatureColumns) != len(model.Means) ||
		len(model.FeatureColumns) != len(model.Stds) {
		return nil, fmt.Errorf("model %q has inconsistent feature metadata", model.Name)
	}

	known := map[string]bool{
		"gallonsCollected":    true,
		"trapCount":           true,
		"daysSinceCollection": true,
		"gallonsPerTrap":      true,
	}

	features := make([]float64, len(model.FeatureColumns))
	for i, col := range model.FeatureColumns {
		if !known[col] {
			return nil, fmt.Errorf("model %q expects unknown feature column %q", model.Name, col)
		}
		features[i] = (featureValue(rec, col) - model.Means[i]) / model.Stds[i]
	}
	return features, nil
}
