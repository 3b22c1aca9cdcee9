package analytics

import (
	"fmt"
	"sort"

	"github.com/bluedata/analytics-backend-go/internal/models"
	"github.com/bluedata/analytics-backend-go/internal/stats"
)

// Aggregate groups derived records by the given key and computes the fixed
// metric set: total gallons, service count, distinct outlet count and mean
// days since collection. Grouping is exact string equality on the
// post-normalization value, so "Unknown" buckets real nulls together.
//
// Empty input produces an empty mapping.
func Aggregate(records []models.DerivedRecord, key models.GroupKey) (map[string]models.AggregateBucket, error) {
	keyFn, err := groupKeyFunc(key)
	if err != nil {
		return nil, err
	}

	type acc struct {
		gallons  float64
		services int
		outlets  map[string]struct{}
		days     []float64
	}
	groups := make(map[string]*acc)

	for _, rec := range records {
		k := keyFn(rec)
		a, ok := groups[k]
		if !ok {
			a = &acc{outlets: make(map[string]struct{})}
			groups[k] = a
		}
		a.gallons += rec.GallonsCollected
		a.services++
		a.outlets[rec.OutletID] = struct{}{}
		a.days = append(a.days, float64(rec.DaysSinceCollection))
	}

	buckets := make(map[string]models.AggregateBucket, len(groups))
	for k, a := range groups {
		buckets[k] = models.AggregateBucket{
			Key:                     k,
			TotalGallons:            a.gallons,
			TotalServices:           a.services,
			UniqueOutletCount:       len(a.outlets),
			MeanDaysSinceCollection: stats.Mean(a.days),
		}
	}
	return buckets, nil
}

// SortedKeys returns the bucket keys in lexicographic order for stable
// iteration.
func SortedKeys(buckets map[string]models.AggregateBucket) []string {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func groupKeyFunc(key models.GroupKey) (func(models.DerivedRecord) string, error) {
	switch key {
	case models.GroupByArea:
		return func(r models.DerivedRecord) string { return r.Area }, nil
	case models.GroupByZone:
		return func(r models.DerivedRecord) string { return r.Zone }, nil
	case models.GroupByCategory:
		return func(r models.DerivedRecord) string { return r.Category }, nil
	case models.GroupByMonth:
		return func(r models.DerivedRecord) string { return r.CollectedAt.Format("2006-01") }, nil
	default:
		return nil, fmt.Errorf("unsupported group key %q", key)
	}
}

// Filter returns the records matching the exploration filter. Empty filter
// fields match everything.
func Filter(records []models.DerivedRecord, filter models.ExplorationFilter) []models.DerivedRecord {
	out := make([]models.DerivedRecord, 0, len(records))
	for _, rec := range records {
		if filter.Area != "" && rec.Area != filter.Area {
			continue
		}
		if filter.Category != "" && rec.Category != filter.Category {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// DistinctAreas returns the sorted distinct area values.
func DistinctAreas(records []models.DerivedRecord) []string {
	return distinct(records, func(r models.DerivedRecord) string { return r.Area })
}

// DistinctCategories returns the sorted distinct category values.
func DistinctCategories(records []models.DerivedRecord) []string {
	return distinct(records, func(r models.DerivedRecord) string { return r.Category })
}

func distinct(records []models.DerivedRecord, field func(models.DerivedRecord) string) []string {
	set := make(map[string]struct{})
	for _, rec := range records {
		set[field(rec)] = struct{}{}
	}
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// TopOutletsByVolume rolls records up per outlet and returns the n outlets
// with the highest total gallons, descending. Ties break by ascending
// outlet ID.
func TopOutletsByVolume(records []models.DerivedRecord, n int) []models.OutletSummary {
	summaries := outletSummaries(records)
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].TotalGallons != summaries[j].TotalGallons {
			return summaries[i].TotalGallons > summaries[j].TotalGallons
		}
		return summaries[i].OutletID < summaries[j].OutletID
	})
	return truncate(summaries, n)
}

// TopOutletsByRisk rolls records up per outlet and returns the n outlets
// with the highest risk score, descending. Ties break by ascending outlet
// ID. Risk ranking reads the derived score only; it never re-applies
// recency rules.
func TopOutletsByRisk(records []models.DerivedRecord, n int) []models.OutletSummary {
	summaries := outletSummaries(records)
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].MaxRiskScore != summaries[j].MaxRiskScore {
			return summaries[i].MaxRiskScore > summaries[j].MaxRiskScore
		}
		return summaries[i].OutletID < summaries[j].OutletID
	})
	return truncate(summaries, n)
}

// TopOutletsByMissedCleanings returns the n outlets with the most missed
// cleanings, descending, skipping outlets with none. Ties break by
// ascending outlet ID.
func TopOutletsByMissedCleanings(records []models.DerivedRecord, n int) []models.OutletSummary {
	var missed []models.OutletSummary
	for _, s := range outletSummaries(records) {
		if s.MissedCleanings > 0 {
			missed = append(missed, s)
		}
	}
	sort.Slice(missed, func(i, j int) bool {
		if missed[i].MissedCleanings != missed[j].MissedCleanings {
			return missed[i].MissedCleanings > missed[j].MissedCleanings
		}
		return missed[i].OutletID < missed[j].OutletID
	})
	return truncate(missed, n)
}

// OverdueOutlets returns the n outlets whose latest service is more than
// overdueDays old, most overdue first. Ties break by ascending outlet ID.
func OverdueOutlets(records []models.DerivedRecord, overdueDays, n int) []models.OutletSummary {
	var overdue []models.DerivedRecord
	for _, rec := range records {
		if rec.DaysSinceCollection > overdueDays {
			overdue = append(overdue, rec)
		}
	}

	summaries := outletSummaries(overdue)
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].MaxDaysSince != summaries[j].MaxDaysSince {
			return summaries[i].MaxDaysSince > summaries[j].MaxDaysSince
		}
		return summaries[i].OutletID < summaries[j].OutletID
	})
	return truncate(summaries, n)
}

func outletSummaries(records []models.DerivedRecord) []models.OutletSummary {
	byOutlet := make(map[string]*models.OutletSummary)
	for _, rec := range records {
		s, ok := byOutlet[rec.OutletID]
		if !ok {
			s = &models.OutletSummary{
				OutletID: rec.OutletID,
				Area:     rec.Area,
				Zone:     rec.Zone,
				Category: rec.Category,
			}
			byOutlet[rec.OutletID] = s
		}
		s.TotalGallons += rec.GallonsCollected
		s.MissedCleanings += rec.MissedCount
		if rec.DaysSinceCollection > s.MaxDaysSince {
			s.MaxDaysSince = rec.DaysSinceCollection
		}
		if rec.RiskScore > s.MaxRiskScore {
			s.MaxRiskScore = rec.RiskScore
			s.Grade = rec.Grade
		}
	}

	summaries := make([]models.OutletSummary, 0, len(byOutlet))
	for _, s := range byOutlet {
		summaries = append(summaries, *s)
	}
	return summaries
}

func truncate(summaries []models.OutletSummary, n int) []models.OutletSummary {
	if n > 0 && len(summaries) > n {
		return summaries[:n]
	}
	return summaries
}
