package pipeline

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bluedata/analytics-backend-go/internal/config"
	"github.com/bluedata/analytics-backend-go/internal/models"
)

// Result is the output of one pipeline run: the derived feature table every
// downstream consumer reads, plus the per-record anomaly counts.
type Result struct {
	Records       []models.DerivedRecord
	Cleaned       []models.ServiceRecord // includes records excluded from scoring for lack of a date
	Diagnostics   models.Diagnostics
	ReferenceTime time.Time
}

// Pipeline runs the batch sequence load -> normalize -> derive. Each stage
// produces a new slice; no stage mutates its predecessor's output.
type Pipeline struct {
	loader *Loader
}

// New creates a pipeline for the given schema.
func New(schema config.Schema) *Pipeline {
	return &Pipeline{loader: NewLoader(schema)}
}

// Run executes the full batch against an explicit reference time. A stage
// failure aborts the whole run; per-record anomalies are recovered locally
// and reported in the result diagnostics.
func (p *Pipeline) Run(sourcePath string, referenceTime time.Time) (*Result, error) {
	raw, err := p.loader.Load(sourcePath)
	if err != nil {
		return nil, err
	}

	cleaned, diags := Normalize(raw)

	derived, deriveDiags, err := Derive(cleaned, referenceTime)
	if err != nil {
		return nil, err
	}
	diags.Merge(deriveDiags)

	log.WithFields(log.Fields{
		"records":  len(derived),
		"dropped":  diags.DroppedNoOutletID,
		"excluded": diags.ExcludedNoDate,
		"clamped":  diags.NegativeDurations,
	}).Info("Pipeline run completed")

	return &Result{
		Records:       derived,
		Cleaned:       cleaned,
		Diagnostics:   diags,
		ReferenceTime: referenceTime,
	}, nil
}
