package ml

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/bluedata/analytics-backend-go/internal/models"
	"github.com/bluedata/analytics-backend-go/internal/pipeline"
	"github.com/bluedata/analytics-backend-go/internal/stats"
)

// MinTrainingRecords is the minimum number of usable records required to
// train. Below this the trainer fails outright rather than producing a
// low-quality model.
const MinTrainingRecords = 100

const (
	testFraction = 0.2
	epochs       = 500

	classifierLearningRate = 0.1
	regressorLearningRate  = 0.1
)

// Feature column orders are fixed and recorded on the trained artifact so
// prediction can validate its input.
var (
	classifierFeatures = []string{"gallonsCollected", "trapCount", "daysSinceCollection", "gallonsPerTrap"}
	regressorFeatures  = []string{"trapCount", "daysSinceCollection"}
)

// Train fits both models on the derived feature table: a logistic
// classifier for missed-cleaning risk and a linear regressor for collection
// volume. Training is deterministic for a fixed seed.
func Train(records []models.DerivedRecord, seed int64) ([]*models.TrainedModel, error) {
	classifier, err := TrainMissedCleaning(records, seed)
	if err != nil {
		return nil, err
	}
	regressor, err := TrainVolume(records, seed)
	if err != nil {
		return nil, err
	}
	return []*models.TrainedModel{classifier, regressor}, nil
}

// TrainMissedCleaning fits a logistic regression predicting whether a
// record is high-risk (risk score above the canonical threshold). Accuracy
// is computed on a held-out split, never on the training set.
func TrainMissedCleaning(records []models.DerivedRecord, seed int64) (*models.TrainedModel, error) {
	if len(records) < MinTrainingRecords {
		return nil, pipeline.NewError(pipeline.KindInsufficientData,
			"missed-cleaning training needs at least %d records, got %d", MinTrainingRecords, len(records))
	}

	x := featureMatrix(records, classifierFeatures)
	y := make([]float64, len(records))
	for i, rec := range records {
		if rec.RiskScore >= pipeline.DefaultRiskThreshold {
			y[i] = 1
		}
	}

	means, stds := standardize(x)
	trainX, trainY, testX, testY := split(x, y, seed)

	weights, intercept := fitLogistic(trainX, trainY)

	correct := 0
	for i, features := range testX {
		predicted := 0.0
		if sigmoid(dot(weights, features)+intercept) > 0.5 {
			predicted = 1
		}
		if predicted == testY[i] {
			correct++
		}
	}
	accuracy := float64(correct) / float64(len(testY))

	model := &models.TrainedModel{
		ID:             uuid.NewString(),
		Name:           models.ModelMissedCleaning,
		FeatureColumns: classifierFeatures,
		Weights:        weights,
		Intercept:      intercept,
		Means:          means,
		Stds:           stds,
		TargetStd:      1,
		Accuracy:       accuracy,
		Importance:     importance(classifierFeatures, weights),
		Seed:           seed,
		TrainedAt:      time.Now().UTC(),
	}

	log.WithFields(log.Fields{"model": model.Name, "accuracy": accuracy}).Info("Model trained")
	return model, nil
}

// TrainVolume fits a linear regression predicting gallons collected. The
// stored accuracy is R² on the held-out split.
func TrainVolume(records []models.DerivedRecord, seed int64) (*models.TrainedModel, error) {
	if len(records) < MinTrainingRecords {
		return nil, pipeline.NewError(pipeline.KindInsufficientData,
			"volume training needs at least %d records, got %d", MinTrainingRecords, len(records))
	}

	x := featureMatrix(records, regressorFeatures)
	y := make([]float64, len(records))
	for i, rec := range records {
		y[i] = rec.GallonsCollected
	}

	means, stds := standardize(x)
	targetMean := stats.Mean(y)
	targetStd := stats.StdDev(y)
	if targetStd == 0 {
		targetStd = 1
	}
	scaledY := make([]float64, len(y))
	for i, v := range y {
		scaledY[i] = (v - targetMean) / targetStd
	}

	trainX, trainY, testX, testY := split(x, scaledY, seed)

	weights, intercept := fitLinear(trainX, trainY)

	// R² on the held-out split, in the original target scale.
	var ssRes, ssTot float64
	testRaw := make([]float64, len(testY))
	for i, v := range testY {
		testRaw[i] = v*targetStd + targetMean
	}
	testMean := stats.Mean(testRaw)
	for i, features := range testX {
		predicted := (dot(weights, features)+intercept)*targetStd + targetMean
		ssRes += (testRaw[i] - predicted) * (testRaw[i] - predicted)
		ssTot += (testRaw[i] - testMean) * (testRaw[i] - testMean)
	}
	r2 := 0.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}

	model := &models.TrainedModel{
		ID:             uuid.NewString(),
		Name:           models.ModelVolume,
		FeatureColumns: regressorFeatures,
		Weights:        weights,
		Intercept:      intercept,
		Means:          means,
		Stds:           stds,
		TargetMean:     targetMean,
		TargetStd:      targetStd,
		Accuracy:       r2,
		Importance:     importance(regressorFeatures, weights),
		Seed:           seed,
		TrainedAt:      time.Now().UTC(),
	}

	log.WithFields(log.Fields{"model": model.Name, "r2": r2}).Info("Model trained")
	return model, nil
}

// featureMatrix extracts the named features from each record, in order.
func featureMatrix(records []models.DerivedRecord, columns []string) [][]float64 {
	x := make([][]float64, len(records))
	for i, rec := range records {
		row := make([]float64, len(columns))
		for j, col := range columns {
			row[j] = featureValue(rec, col)
		}
		x[i] = row
	}
	return x
}

func featureValue(rec models.DerivedRecord, column string) float64 {
	switch column {
	case "gallonsCollected":
		return rec.GallonsCollected
	case "trapCount":
		return float64(rec.TrapCount)
	case "daysSinceCollection":
		return float64(rec.DaysSinceCollection)
	case "gallonsPerTrap":
		return rec.GallonsPerTrap
	default:
		return 0
	}
}

// standardize transforms x in place to zero mean and unit variance per
// column and returns the fitted means and stds.
func standardize(x [][]float64) (means, stds []float64) {
	if len(x) == 0 {
		return nil, nil
	}
	cols := len(x[0])
	means = make([]float64, cols)
	stds = make([]float64, cols)

	column := make([]float64, len(x))
	for j := 0; j < cols; j++ {
		for i := range x {
			column[i] = x[i][j]
		}
		means[j] = stats.Mean(column)
		stds[j] = stats.StdDev(column)
		if stds[j] == 0 {
			stds[j] = 1
		}
		for i := range x {
			x[i][j] = (x[i][j] - means[j]) / stds[j]
		}
	}
	return means, stds
}

// split shuffles deterministically by seed and holds out testFraction of
// the rows.
func split(x [][]float64, y []float64, seed int64) (trainX [][]float64, trainY []float64, testX [][]float64, testY []float64) {
	rng := rand.New(rand.NewSource(seed))
	idx := rng.Perm(len(x))

	testN := int(float64(len(x)) * testFraction)
	for i, k := range idx {
		if i < testN {
			testX = append(testX, x[k])
			testY = append(testY, y[k])
		} else {
			trainX = append(trainX, x[k])
			trainY = append(trainY, y[k])
		}
	}
	return trainX, trainY, testX, testY
}

// fitLogistic runs full-batch gradient descent on the logistic loss.
func fitLogistic(x [][]float64, y []float64) (weights []float64, intercept float64) {
	weights = make([]float64, len(x[0]))
	grad := make([]float64, len(weights))

	for epoch := 0; epoch < epochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}
		var gradB float64
		for i, features := range x {
			err := sigmoid(dot(weights, features)+intercept) - y[i]
			for j, v := range features {
				grad[j] += err * v
			}
			gradB += err
		}
		n := float64(len(x))
		for j := range weights {
			weights[j] -= classifierLearningRate * grad[j] / n
		}
		intercept -= classifierLearningRate * gradB / n
	}
	return weights, intercept
}

// fitLinear runs full-batch gradient descent on the squared loss.
func fitLinear(x [][]float64, y []float64) (weights []float64, intercept float64) {
	weights = make([]float64, len(x[0]))
	grad := make([]float64, len(weights))

	for epoch := 0; epoch < epochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}
		var gradB float64
		for i, features := range x {
			err := dot(weights, features) + intercept - y[i]
			for j, v := range features {
				grad[j] += err * v
			}
			gradB += err
		}
		n := float64(len(x))
		for j := range weights {
			weights[j] -= regressorLearningRate * grad[j] / n
		}
		intercept -= regressorLearningRate * gradB / n
	}
	return weights, intercept
}

// importance maps each feature to its normalized absolute weight.
func importance(columns []string, weights []float64) map[string]float64 {
	var total float64
	for _, w := range weights {
		total += math.Abs(w)
	}
	imp := make(map[string]float64, len(columns))
	for i, col := range columns {
		if total == 0 {
			imp[col] = 0
			continue
		}
		imp[col] = math.Abs(weights[i]) / total
	}
	return imp
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
