package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineZeroDistance(t *testing.T) {
	assert.Zero(t, Haversine(40.4093, 49.8671, 40.4093, 49.8671))
}

func TestHaversineSymmetry(t *testing.T) {
	d1 := Haversine(40.4093, 49.8671, 40.3777, 49.8920)
	d2 := Haversine(40.3777, 49.8920, 40.4093, 49.8671)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestHaversineSmallDisplacements(t *testing.T) {
	// One degree of latitude is ~111.19 km everywhere, so these two
	// displacements straddle a 20 m threshold.
	over := Haversine(40.0, 49.0, 40.00018, 49.0)
	under := Haversine(40.0, 49.0, 40.00017, 49.0)

	assert.Greater(t, over, 20.0)
	assert.Less(t, under, 19.0)
	assert.InDelta(t, 20.0, over, 0.1)
}

func TestHaversineKnownDistance(t *testing.T) {
	// Baku city center to Sumqayit, roughly 26 km great-circle.
	d := Haversine(40.4093, 49.8671, 40.5897, 49.6686)
	assert.InDelta(t, 26200, d, 500)
}

func TestHaversineLongitudeScalesWithLatitude(t *testing.T) {
	// The same longitude delta covers less ground away from the equator.
	atEquator := Haversine(0, 0, 0, 0.001)
	atSixty := Haversine(60, 0, 60, 0.001)
	assert.Less(t, atSixty, atEquator)
	assert.InDelta(t, atEquator/2, atSixty, atEquator*0.01)
}
