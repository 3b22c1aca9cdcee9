package models

// GroupKey selects the grouping field for aggregation.
type GroupKey string

const (
	GroupByArea     GroupKey = "area"
	GroupByZone     GroupKey = "zone"
	GroupByCategory GroupKey = "category"
	GroupByMonth    GroupKey = "month" // collection month, formatted 2006-01
)

// AggregateBucket holds summed and averaged metrics for one group value.
// Buckets are views rebuilt on every query, not persisted state.
type AggregateBucket struct {
	Key                     string  `json:"key"`
	TotalGallons            float64 `json:"totalGallons"`
	TotalServices           int     `json:"totalServices"`
	UniqueOutletCount       int     `json:"uniqueOutletCount"`
	MeanDaysSinceCollection float64 `json:"meanDaysSinceCollection"`
}

// OutletSummary is a per-outlet rollup used by reporting endpoints.
type OutletSummary struct {
	OutletID        string  `json:"outletId"`
	Area            string  `json:"area"`
	Zone            string  `json:"zone,omitempty"`
	Category        string  `json:"category,omitempty"`
	TotalGallons    float64 `json:"totalGallons"`
	MissedCleanings int     `json:"missedCleanings"`
	MaxDaysSince    int     `json:"maxDaysSince"`
	MaxRiskScore    float64 `json:"maxRiskScore"`
	Grade           Grade   `json:"grade"`
}
