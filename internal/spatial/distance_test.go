package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistanceSamePoint(t *testing.T) {
	assert.Zero(t, HaversineDistance(25.2048, 55.2708, 25.2048, 55.2708))
}

func TestHaversineDistanceKnownPair(t *testing.T) {
	// Dubai Marina to Deira, roughly 25 km.
	d := HaversineDistance(25.0920, 55.1381, 25.2667, 55.3000)

	assert.Greater(t, d, 20000.0)
	assert.Less(t, d, 35000.0)
}

func TestHaversineDistanceIsSymmetric(t *testing.T) {
	a := HaversineDistance(25.0920, 55.1381, 25.2667, 55.3000)
	b := HaversineDistance(25.2667, 55.3000, 25.0920, 55.1381)

	assert.InDelta(t, a, b, 1e-6)
}
