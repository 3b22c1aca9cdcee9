package pipeline

import (
	"strconv"
	"strings"
	"time"

	"github.com/bluedata/analytics-backend-go/internal/models"
)

// UnknownValue fills absent nominal fields so that real nulls group
// together during aggregation.
const UnknownValue = "Unknown"

// Date layouts accepted by the best-effort date parser, most specific
// first. Unparseable dates become nil rather than failing the run.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// Normalize turns raw rows into cleaned ServiceRecords.
//
// Records with an empty outlet ID are dropped; absent area/zone/category
// are repaired with "Unknown" instead. Non-numeric gallons become 0 and
// non-numeric or zero trap counts become 1, so gallons-per-trap is always
// defined downstream. Unparseable dates become nil and are counted.
func Normalize(raw []models.RawRecord) ([]models.ServiceRecord, models.Diagnostics) {
	records := make([]models.ServiceRecord, 0, len(raw))
	diags := models.Diagnostics{RowsRead: len(raw)}

	for _, r := range raw {
		if strings.TrimSpace(r.OutletID) == "" {
			diags.DroppedNoOutletID++
			continue
		}

		rec := models.ServiceRecord{
			OutletID: strings.TrimSpace(r.OutletID),
			Area:     r.Area,
			Zone:     r.Zone,
			Category: r.Category,
		}

		var ok bool
		if rec.GallonsCollected, ok = parseFloat(r.Gallons); !ok && r.Gallons != "" {
			diags.UnparseableNumbers++
		}
		traps, ok := parseFloat(r.Traps)
		if !ok && r.Traps != "" {
			diags.UnparseableNumbers++
		}
		rec.TrapCount = int(traps)

		if eff, ok := parseFloat(r.TrapEfficiency); ok && r.TrapEfficiency != "" {
			rec.TrapEfficiency = &eff
		}
		if missed, ok := parseFloat(r.MissedCount); ok {
			rec.MissedCount = int(missed)
		}

		if rec.CollectedAt, ok = parseDate(r.CollectedAt); !ok {
			diags.UnparseableDates++
		}
		if rec.DischargedAt, ok = parseDate(r.DischargedAt); !ok {
			diags.UnparseableDates++
		}

		records = append(records, Clean(rec))
	}

	return records, diags
}

// Clean enforces the post-normalization invariants on a single record.
// It is idempotent: Clean(Clean(r)) == Clean(r).
func Clean(rec models.ServiceRecord) models.ServiceRecord {
	if strings.TrimSpace(rec.Area) == "" {
		rec.Area = UnknownValue
	}
	if strings.TrimSpace(rec.Zone) == "" {
		rec.Zone = UnknownValue
	}
	if strings.TrimSpace(rec.Category) == "" {
		rec.Category = UnknownValue
	}
	if rec.GallonsCollected < 0 {
		rec.GallonsCollected = 0
	}
	if rec.TrapCount < 1 {
		rec.TrapCount = 1
	}
	if rec.MissedCount < 0 {
		rec.MissedCount = 0
	}
	if rec.TrapEfficiency != nil {
		eff := *rec.TrapEfficiency
		if eff < 0 {
			eff = 0
		}
		if eff > 100 {
			eff = 100
		}
		rec.TrapEfficiency = &eff
	}
	return rec
}

// parseFloat parses a numeric cell. The second return is false only when
// the cell is non-empty and unparseable.
func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseDate parses a date cell against the accepted layouts. The second
// return is false only when the cell is non-empty and unparseable.
func parseDate(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, true
		}
	}
	return nil, false
}
