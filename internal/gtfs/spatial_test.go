package gtfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raptor.opentransit.org/internal/timetable"
)

func TestStopIndex(t *testing.T) {
	tt := timetable.New()
	station := tt.AddStation("Central")
	near := tt.AddStop("near", "1", station, 52.0900, 5.1100)
	alsoNear := tt.AddStop("also_near", "2", station, 52.0903, 5.1102)
	far := tt.AddStop("far", "1", tt.AddStation("Remote"), 52.3000, 5.5000)
	tt.AddStop("no_coords", "1", tt.AddStation("Unknown"), 0, 0)

	index := NewStopIndex(tt.Stops)

	// Stops without coordinates are not indexed.
	assert.Equal(t, 3, index.Len())

	results := index.StopsNear(52.0900, 5.1100, 100)
	require.Len(t, results, 2)
	assert.Contains(t, results, near)
	assert.Contains(t, results, alsoNear)
	assert.NotContains(t, results, far)

	assert.Empty(t, index.StopsNear(51.0, 4.0, 100))
}

func TestStopIndexRadiusIsExact(t *testing.T) {
	tt := timetable.New()
	station := tt.AddStation("Line")
	center := tt.AddStop("center", "1", station, 52.0, 5.0)
	// ~111m due north; inside a 120m radius but outside 100m.
	edge := tt.AddStop("edge", "2", station, 52.001, 5.0)

	index := NewStopIndex(tt.Stops)

	within := index.StopsNear(52.0, 5.0, 120)
	assert.Contains(t, within, center)
	assert.Contains(t, within, edge)

	tight := index.StopsNear(52.0, 5.0, 100)
	assert.Contains(t, tight, center)
	assert.NotContains(t, tight, edge)
}
