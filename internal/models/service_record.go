package models

import "time"

// RawRecord is one row of tabular input exactly as read from the source,
// before any coercion. All fields are strings; the normalizer owns parsing.
type RawRecord struct {
	Row            int    // 1-based source row, for diagnostics
	OutletID       string
	Area           string
	Zone           string
	Category       string
	Gallons        string
	Traps          string
	TrapEfficiency string
	MissedCount    string
	CollectedAt    string
	DischargedAt   string
}

// ServiceRecord is one cleaned service record. After normalization
// OutletID is non-empty, nominal fields default to "Unknown",
// GallonsCollected >= 0 and TrapCount >= 1.
type ServiceRecord struct {
	OutletID         string     `json:"outletId"`
	Area             string     `json:"area"`
	Zone             string     `json:"zone"`
	Category         string     `json:"category"`
	GallonsCollected float64    `json:"gallonsCollected"`
	TrapCount        int        `json:"trapCount"`
	TrapEfficiency   *float64   `json:"trapEfficiency,omitempty"` // 0-100 when the source carries it
	MissedCount      int        `json:"missedCount"`
	CollectedAt      *time.Time `json:"collectedAt,omitempty"`
	DischargedAt     *time.Time `json:"dischargedAt,omitempty"`
}

// Grade is a coarse risk bucket for reporting.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// Grade thresholds on the 0-100 risk scale, inclusive-lower/exclusive-upper.
const (
	GradeAMax = 25.0
	GradeBMax = 50.0
	GradeCMax = 75.0
)

// GradeForScore buckets a risk score into a grade. A score of exactly 25
// is a B and exactly 75 is a D.
func GradeForScore(score float64) Grade {
	switch {
	case score < GradeAMax:
		return GradeA
	case score < GradeBMax:
		return GradeB
	case score < GradeCMax:
		return GradeC
	default:
		return GradeD
	}
}

// DerivedRecord is a ServiceRecord plus computed fields. It is produced
// once per record by the deriver and never mutated afterwards. CollectedAt
// is always non-nil here; records without a collection date are excluded
// from derivation.
type DerivedRecord struct {
	ServiceRecord

	ServiceDurationDays *int    `json:"serviceDurationDays,omitempty"`
	DaysSinceCollection int     `json:"daysSinceCollection"`
	GallonsPerTrap      float64 `json:"gallonsPerTrap"`
	RiskScore           float64 `json:"riskScore"`
	Grade               Grade   `json:"grade"`
}

// ExplorationFilter narrows exploration queries by exact field match.
// Empty fields match everything.
type ExplorationFilter struct {
	Area     string `form:"area"`
	Category string `form:"category"`
}
