// Package fixtures generates seeded test data. It lives outside the
// pipeline on purpose: production code never fabricates records.
package fixtures

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/bluedata/analytics-backend-go/internal/models"
)

var (
	areas      = []string{"Dubai Marina", "Downtown", "Business Bay", "Al Quoz", "Jumeirah", "Deira"}
	zones      = []string{"Zone A", "Zone B", "Zone C"}
	categories = []string{"Restaurant", "Hotel", "Cafeteria", "Supermarket"}
)

// ServiceRecords generates n cleaned service records, deterministic for a
// given seed. Collection dates spread over the 120 days before ref.
func ServiceRecords(n int, seed int64, ref time.Time) []models.ServiceRecord {
	rng := rand.New(rand.NewSource(seed))

	records := make([]models.ServiceRecord, n)
	for i := range records {
		collected := ref.AddDate(0, 0, -rng.Intn(120))
		traps := 1 + rng.Intn(5)
		records[i] = models.ServiceRecord{
			OutletID:         fmt.Sprintf("O%03d", i+1),
			Area:             areas[rng.Intn(len(areas))],
			Zone:             zones[rng.Intn(len(zones))],
			Category:         categories[rng.Intn(len(categories))],
			GallonsCollected: float64(50 + rng.Intn(2000)),
			TrapCount:        traps,
			MissedCount:      rng.Intn(4),
			CollectedAt:      &collected,
		}
	}
	return records
}
