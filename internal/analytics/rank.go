package analytics

import (
	"sort"
	"time"

	"github.com/bluedata/analytics-backend-go/internal/config"
	"github.com/bluedata/analytics-backend-go/internal/models"
	"github.com/bluedata/analytics-backend-go/internal/spatial"
)

// RankHighRisk returns the records with risk score at or above the
// threshold, sorted descending by score. Ties break by ascending outlet ID
// so repeated runs over the same snapshot produce the same order.
func RankHighRisk(records []models.DerivedRecord, threshold float64) []models.DerivedRecord {
	ranked := make([]models.DerivedRecord, 0, len(records))
	for _, rec := range records {
		if rec.RiskScore >= threshold {
			ranked = append(ranked, rec)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].RiskScore != ranked[j].RiskScore {
			return ranked[i].RiskScore > ranked[j].RiskScore
		}
		return ranked[i].OutletID < ranked[j].OutletID
	})
	return ranked
}

// Schedule partitions the ranked records into weekly inspection batches of
// batchSize records each. Batch i gets records [i*batchSize, (i+1)*batchSize);
// when the ranked sequence runs out, later batches are smaller or empty.
// Week dates are offsets from the reference time, so the plan is
// deterministic.
func Schedule(ranked []models.DerivedRecord, batchSize, weeks int, referenceTime time.Time) []models.WeekBatch {
	if batchSize < 1 || weeks < 1 {
		return nil
	}

	batches := make([]models.WeekBatch, 0, weeks)
	for i := 0; i < weeks; i++ {
		start := referenceTime.AddDate(0, 0, i*7)
		end := start.AddDate(0, 0, 6)

		lo := i * batchSize
		hi := lo + batchSize
		if lo > len(ranked) {
			lo = len(ranked)
		}
		if hi > len(ranked) {
			hi = len(ranked)
		}

		outlets := make([]models.DerivedRecord, hi-lo)
		copy(outlets, ranked[lo:hi])

		batches = append(batches, models.WeekBatch{
			Week:      i + 1,
			StartDate: start.Format("2006-01-02"),
			EndDate:   end.Format("2006-01-02"),
			Outlets:   outlets,
		})
	}
	return batches
}

// ZoneRoutes summarizes the ranked records per zone, preserving rank order
// within each zone, and estimates the route length as the great-circle
// distance along consecutive outlet areas. Areas without configured
// coordinates fall back to the "Unknown" entry.
func ZoneRoutes(ranked []models.DerivedRecord, areas map[string]config.LatLng) []models.ZoneRoute {
	order := make([]string, 0)
	byZone := make(map[string][]models.DerivedRecord)
	for _, rec := range ranked {
		if _, ok := byZone[rec.Zone]; !ok {
			order = append(order, rec.Zone)
		}
		byZone[rec.Zone] = append(byZone[rec.Zone], rec)
	}
	sort.Strings(order)

	routes := make([]models.ZoneRoute, 0, len(order))
	for _, zone := range order {
		recs := byZone[zone]
		route := models.ZoneRoute{Zone: zone, OutletCount: len(recs)}
		for i, rec := range recs {
			route.TotalGallons += rec.GallonsCollected
			if i > 0 {
				a := areaCoord(areas, recs[i-1].Area)
				b := areaCoord(areas, rec.Area)
				route.RouteKm += spatial.HaversineDistance(a.Lat, a.Lng, b.Lat, b.Lng) / 1000
			}
		}
		routes = append(routes, route)
	}
	return routes
}

func areaCoord(areas map[string]config.LatLng, area string) config.LatLng {
	if c, ok := areas[area]; ok {
		return c
	}
	return areas["Unknown"]
}
