package pipeline

import (
	"math"
	"time"

	"github.com/bluedata/analytics-backend-go/internal/models"
)

// Risk score weights and caps. The score lives on a 0-100 scale:
//
//	risk = 0.3*min(days_since_collection, 100)
//	     + 0.4*(100 - efficiency)
//	     + 0.3*(missed_count * 10)
//
// efficiency is the trap-efficiency column when the source carries one,
// otherwise gallons-per-trap scaled by GallonsPerTrapScale and capped at
// 100. Every consumer reads RiskScore from the DerivedRecord; nothing
// downstream recomputes it.
const (
	RecencyWeight    = 0.3
	EfficiencyWeight = 0.4
	MissedWeight     = 0.3

	RecencyCapDays     = 100.0
	MissedEventWeight  = 10.0
	GallonsPerTrapScale = 10.0
)

// DefaultRiskThreshold is the high-risk cutoff on the 0-100 scale.
// Records scoring at or above it count as high risk.
const DefaultRiskThreshold = 70.0

// Derive computes the derived fields for each cleaned record against an
// explicit reference time. Records without a collection date cannot be
// scored and are excluded from the output (and counted, not deleted from
// raw aggregates kept elsewhere).
//
// The reference time must be supplied by the caller; the deriver never
// reads the ambient clock, so derivation is reproducible.
func Derive(records []models.ServiceRecord, referenceTime time.Time) ([]models.DerivedRecord, models.Diagnostics, error) {
	if referenceTime.IsZero() {
		return nil, models.Diagnostics{}, NewError(KindMissingReferenceTime, "derivation requires an explicit reference time")
	}

	derived := make([]models.DerivedRecord, 0, len(records))
	var diags models.Diagnostics

	for _, rec := range records {
		if rec.CollectedAt == nil {
			diags.ExcludedNoDate++
			continue
		}

		d := models.DerivedRecord{ServiceRecord: rec}

		days := int(math.Floor(referenceTime.Sub(*rec.CollectedAt).Hours() / 24))
		if days < 0 {
			days = 0
		}
		d.DaysSinceCollection = days

		if rec.DischargedAt != nil {
			dur := int(math.Floor(rec.DischargedAt.Sub(*rec.CollectedAt).Hours() / 24))
			if dur < 0 {
				// Discharge before collection is a data entry error:
				// clamp and flag, but keep the record scored.
				dur = 0
				diags.NegativeDurations++
			}
			d.ServiceDurationDays = &dur
		}

		d.GallonsPerTrap = rec.GallonsCollected / float64(rec.TrapCount)
		d.RiskScore = riskScore(d)
		d.Grade = models.GradeForScore(d.RiskScore)

		derived = append(derived, d)
	}

	return derived, diags, nil
}

func riskScore(d models.DerivedRecord) float64 {
	recency := math.Min(float64(d.DaysSinceCollection), RecencyCapDays)

	efficiency := math.Min(100, d.GallonsPerTrap/GallonsPerTrapScale)
	if d.TrapEfficiency != nil {
		efficiency = *d.TrapEfficiency
	}

	return RecencyWeight*recency +
		EfficiencyWeight*(100-efficiency) +
		MissedWeight*(float64(d.MissedCount)*MissedEventWeight)
}
