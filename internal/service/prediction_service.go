package service

import (
	"errors"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/bluedata/analytics-backend-go/internal/ml"
	"github.com/bluedata/analytics-backend-go/internal/models"
	"github.com/bluedata/analytics-backend-go/internal/snapshot"
)

// ErrModelsNotTrained is returned when the snapshot carries no trained
// models, typically because the dataset was too small.
var ErrModelsNotTrained = errors.New("models are not trained")

// Per-outlet prediction cap, matching the reporting frontend's page size.
const maxPredictedOutlets = 50

// PredictionService serves model predictions from the current snapshot.
type PredictionService struct {
	store *snapshot.Store
}

// NewPredictionService creates a prediction service.
func NewPredictionService(store *snapshot.Store) *PredictionService {
	return &PredictionService{store: store}
}

// Report predicts missed-cleaning probability and next collection volume
// for each outlet, using the outlet's most recent derived record.
func (s *PredictionService) Report() (*models.PredictionReport, error) {
	snap := s.store.Current()
	if snap == nil {
		return nil, ErrNotReady
	}

	classifier := snap.Model(models.ModelMissedCleaning)
	regressor := snap.Model(models.ModelVolume)
	if classifier == nil && regressor == nil {
		return nil, ErrModelsNotTrained
	}

	latest := latestPerOutlet(snap.Records)

	predictions := make([]models.OutletPrediction, 0, len(latest))
	for _, rec := range latest {
		p := models.OutletPrediction{
			OutletID:            rec.OutletID,
			Area:                rec.Area,
			CurrentVolume:       rec.GallonsCollected,
			PredictedVolume:     rec.GallonsCollected,
			DaysSinceCollection: rec.DaysSinceCollection,
		}
		if classifier != nil {
			prob, err := ml.Predict(classifier, rec)
			if err != nil {
				log.WithError(err).WithField("outlet", rec.OutletID).Warn("Classifier prediction failed")
			} else {
				p.MissedCleaningProbability = prob
			}
		}
		if regressor != nil {
			volume, err := ml.Predict(regressor, rec)
			if err != nil {
				log.WithError(err).WithField("outlet", rec.OutletID).Warn("Volume prediction failed")
			} else {
				p.PredictedVolume = volume
			}
		}
		predictions = append(predictions, p)
		if len(predictions) == maxPredictedOutlets {
			break
		}
	}

	report := &models.PredictionReport{
		ModelAccuracy:     make(map[string]float64),
		FeatureImportance: make(map[string]map[string]float64),
		Predictions:       predictions,
	}
	if classifier != nil {
		report.ModelAccuracy[classifier.Name] = classifier.Accuracy
		report.FeatureImportance[classifier.Name] = classifier.Importance
	}
	if regressor != nil {
		report.ModelAccuracy[regressor.Name] = regressor.Accuracy
		report.FeatureImportance[regressor.Name] = regressor.Importance
	}
	return report, nil
}

// latestPerOutlet picks each outlet's most recent record (smallest days
// since collection) and returns them in ascending outlet ID order for a
// stable response.
func latestPerOutlet(records []models.DerivedRecord) []models.DerivedRecord {
	byOutlet := make(map[string]models.DerivedRecord)
	for _, rec := range records {
		cur, ok := byOutlet[rec.OutletID]
		if !ok || rec.DaysSinceCollection < cur.DaysSinceCollection {
			byOutlet[rec.OutletID] = rec
		}
	}

	out := make([]models.DerivedRecord, 0, len(byOutlet))
	for _, rec := range byOutlet {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OutletID < out[j].OutletID })
	return out
}
