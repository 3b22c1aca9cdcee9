package models

// WeekBatch is one week of the inspection schedule. Dates are derived from
// the pipeline reference time, so the plan is reproducible.
type WeekBatch struct {
	Week      int             `json:"week"`
	StartDate string          `json:"startDate"` // 2006-01-02
	EndDate   string          `json:"endDate"`
	Outlets   []DerivedRecord `json:"outlets"`
}

// ZoneRoute summarizes the scheduled workload for one zone, including the
// great-circle length of the visit sequence.
type ZoneRoute struct {
	Zone         string  `json:"zone"`
	OutletCount  int     `json:"outletCount"`
	TotalGallons float64 `json:"totalGallons"`
	RouteKm      float64 `json:"routeKm"`
}

// SchedulePlan is the full scheduling response.
type SchedulePlan struct {
	WeeklySchedule          []WeekBatch     `json:"weeklySchedule"`
	RouteOptimization       []ZoneRoute     `json:"routeOptimization"`
	TotalInspectionsPlanned int             `json:"totalInspectionsPlanned"`
	EstimatedDurationWeeks  int             `json:"estimatedDurationWeeks"`
	HighPriorityOutlets     []DerivedRecord `json:"highPriorityOutlets"`
}
