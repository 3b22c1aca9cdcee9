package models

// Diagnostics counts per-record anomalies recovered during a pipeline run.
// One bad row never aborts the run; it is defaulted or clamped and counted
// here instead.
type Diagnostics struct {
	RowsRead           int `json:"rowsRead"`
	DroppedNoOutletID  int `json:"droppedNoOutletId"`
	UnparseableDates   int `json:"unparseableDates"`
	UnparseableNumbers int `json:"unparseableNumbers"`
	NegativeDurations  int `json:"negativeDurations"`  // discharge before collection, clamped to 0
	ExcludedNoDate     int `json:"excludedNoDate"`     // no collection date, excluded from risk scoring
}

// Merge adds the counts of other into d.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.RowsRead += other.RowsRead
	d.DroppedNoOutletID += other.DroppedNoOutletID
	d.UnparseableDates += other.UnparseableDates
	d.UnparseableNumbers += other.UnparseableNumbers
	d.NegativeDurations += other.NegativeDurations
	d.ExcludedNoDate += other.ExcludedNoDate
}
