package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateBounds(t *testing.T) {
	lat := 52.379189
	lon := 4.899431
	radius := 500.0

	bounds := CalculateBounds(lat, lon, radius)

	latDiff := bounds.MaxLat - bounds.MinLat
	lonDiff := bounds.MaxLon - bounds.MinLon

	expectedLatDiff := 0.00898
	expectedLonDiff := 0.01471 // wider at this latitude

	assert.InDelta(t, expectedLatDiff, latDiff, expectedLatDiff*0.01)
	assert.InDelta(t, expectedLonDiff, lonDiff, expectedLonDiff*0.01)
	assert.Less(t, bounds.MinLat, lat)
	assert.Greater(t, bounds.MaxLat, lat)
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name      string
		lat1      float64
		lon1      float64
		lat2      float64
		lon2      float64
		expected  float64
		tolerance float64
	}{
		{
			name:      "same point",
			lat1:      52.3791,
			lon1:      4.8994,
			lat2:      52.3791,
			lon2:      4.8994,
			expected:  0,
			tolerance: 0.001,
		},
		{
			name:      "adjacent platforms use the fast path",
			lat1:      52.37918,
			lon1:      4.89943,
			lat2:      52.37935,
			lon2:      4.89972,
			expected:  27.4,
			tolerance: 1,
		},
		{
			name:      "Amsterdam to Rotterdam",
			lat1:      52.3791,
			lon1:      4.8994,
			lat2:      51.9244,
			lon2:      4.4777,
			expected:  58170,
			tolerance: 500,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Distance(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
			if math.Abs(got-tc.expected) > tc.tolerance {
				t.Errorf("Distance() = %.2f, want %.2f (±%.2f)", got, tc.expected, tc.tolerance)
			}
		})
	}
}
