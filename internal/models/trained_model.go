package models

import "time"

// Model kinds.
const (
	ModelMissedCleaning = "missed_cleaning"
	ModelVolume         = "volume_prediction"
)

// TrainedModel is an immutable training artifact. A new training run
// produces a new artifact; it never mutates an existing one.
//
// FeatureColumns fixes the order in which Predict expects features.
// Means and Stds hold the standardization parameters captured at training
// time so prediction applies the same transform.
type TrainedModel struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"` // ModelMissedCleaning or ModelVolume
	FeatureColumns []string           `json:"featureColumns"`
	Weights        []float64          `json:"weights"`
	Intercept      float64            `json:"intercept"`
	Means          []float64          `json:"means"`
	Stds           []float64          `json:"stds"`
	TargetMean     float64            `json:"targetMean"` // regressor target scaling; 0/1 for classifiers
	TargetStd      float64            `json:"targetStd"`
	Accuracy       float64            `json:"accuracy"` // held-out accuracy (classifier) or R² (regressor)
	Importance     map[string]float64 `json:"featureImportance"`
	Seed           int64              `json:"seed"`
	TrainedAt      time.Time          `json:"trainedAt"`
}

// OutletPrediction is the per-outlet output of the prediction endpoint,
// computed from the outlet's most recent derived record.
type OutletPrediction struct {
	OutletID                  string  `json:"outletId"`
	Area                      string  `json:"area"`
	MissedCleaningProbability float64 `json:"missedCleaningProbability"`
	PredictedVolume           float64 `json:"predictedVolume"`
	CurrentVolume             float64 `json:"currentVolume"`
	DaysSinceCollection       int     `json:"daysSinceCollection"`
}
