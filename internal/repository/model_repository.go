package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/bluedata/analytics-backend-go/internal/models"
)

// ModelRepository persists trained model artifacts across restarts.
// Artifacts are immutable; a new training run inserts a new row.
type ModelRepository struct {
	db *sql.DB
}

// NewModelRepository creates a new model repository.
func NewModelRepository(db *sql.DB) *ModelRepository {
	return &ModelRepository{db: db}
}

// Save stores a trained model artifact.
func (r *ModelRepository) Save(model *models.TrainedModel) error {
	payload, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("failed to serialize model %s: %w", model.Name, err)
	}

	_, err = r.db.Exec(
		`INSERT INTO trained_models (id, name, trained_at, accuracy, payload_json)
		 VALUES (?, ?, ?, ?, ?)`,
		model.ID, model.Name, model.TrainedAt, model.Accuracy, string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to save model %s: %w", model.Name, err)
	}
	return nil
}

// LoadLatest returns the most recently trained artifact with the given
// name, or nil when none exists.
func (r *ModelRepository) LoadLatest(name string) (*models.TrainedModel, error) {
	var payload string
	err := r.db.QueryRow(
		"SELECT payload_json FROM trained_models WHERE name = ? ORDER BY trained_at DESC LIMIT 1",
		name,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", name, err)
	}

	var model models.TrainedModel
	if err := json.Unmarshal([]byte(payload), &model); err != nil {
		return nil, fmt.Errorf("failed to decode model %s: %w", name, err)
	}
	return &model, nil
}
