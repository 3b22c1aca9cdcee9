package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/bluedata/analytics-backend-go/internal/snapshot"
)

// SnapshotRepository persists pipeline snapshots so a restarted process can
// serve the last good snapshot before its first re-run.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new snapshot repository.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save stores a snapshot. Older snapshots beyond the most recent few are
// pruned to bound disk growth.
func (r *SnapshotRepository) Save(snap *snapshot.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO snapshots (id, generated_at, reference_time, record_count, payload_json)
		 VALUES (?, ?, ?, ?, ?)`,
		snap.ID, snap.GeneratedAt, snap.ReferenceTime, len(snap.Records), string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	_, err = r.db.Exec(
		`DELETE FROM snapshots WHERE id NOT IN
		 (SELECT id FROM snapshots ORDER BY generated_at DESC LIMIT 5)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prune old snapshots: %w", err)
	}
	return nil
}

// LoadLatest returns the most recent stored snapshot, or nil when none
// exists yet.
func (r *SnapshotRepository) LoadLatest() (*snapshot.Snapshot, error) {
	var payload string
	err := r.db.QueryRow(
		"SELECT payload_json FROM snapshots ORDER BY generated_at DESC LIMIT 1",
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap snapshot.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}
