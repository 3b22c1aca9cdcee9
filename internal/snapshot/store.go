package snapshot

import (
	"sync/atomic"
	"time"

	"github.com/bluedata/analytics-backend-go/internal/models"
)

// Snapshot is one complete, immutable output of a pipeline run. Concurrent
// readers share it safely; a re-run replaces the whole snapshot instead of
// mutating it.
type Snapshot struct {
	ID            string                          `json:"id"`
	GeneratedAt   time.Time                       `json:"generatedAt"`
	ReferenceTime time.Time                       `json:"referenceTime"`
	Records       []models.DerivedRecord          `json:"records"`
	Diagnostics   models.Diagnostics              `json:"diagnostics"`
	Models        map[string]*models.TrainedModel `json:"models,omitempty"`
}

// Model returns the named trained model, or nil when the snapshot has none.
func (s *Snapshot) Model(name string) *models.TrainedModel {
	if s == nil {
		return nil
	}
	return s.Models[name]
}

// Store holds the current snapshot behind an atomically swapped pointer.
// Readers never block each other and never observe a partially updated
// snapshot.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Current returns the live snapshot, or nil before the first successful run.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Swap publishes a new snapshot wholesale. In-flight readers keep the
// snapshot they already hold.
func (s *Store) Swap(snap *Snapshot) {
	s.current.Store(snap)
}
