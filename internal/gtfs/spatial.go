package gtfs

import (
	"github.com/tidwall/rtree"

	"raptor.opentransit.org/internal/timetable"
	"raptor.opentransit.org/internal/utils"
)

// StopIndex answers "which stops are near this point" queries over the
// finalized timetable. Build once per timetable; read-only afterward.
type StopIndex struct {
	tree rtree.RTreeG[*timetable.Stop]
}

// NewStopIndex builds a spatial index over the given stops. Stops without
// coordinates (0, 0) are skipped.
func NewStopIndex(stops []*timetable.Stop) *StopIndex {
	index := &StopIndex{}
	for _, stop := range stops {
		if stop.Lat == 0 && stop.Lon == 0 {
			continue
		}
		point := [2]float64{stop.Lon, stop.Lat}
		index.tree.Insert(point, point, stop)
	}
	return index
}

// StopsNear returns every indexed stop within radius meters of the given
// point. The bounding-box search over-approximates; results are filtered
// by exact distance.
func (index *StopIndex) StopsNear(lat, lon, radius float64) []*timetable.Stop {
	bounds := utils.CalculateBounds(lat, lon, radius)

	var stops []*timetable.Stop
	index.tree.Search(
		[2]float64{bounds.MinLon, bounds.MinLat},
		[2]float64{bounds.MaxLon, bounds.MaxLat},
		func(min, max [2]float64, stop *timetable.Stop) bool {
			if utils.Distance(lat, lon, stop.Lat, stop.Lon) <= radius {
				stops = append(stops, stop)
			}
			return true
		},
	)
	return stops
}

// Len returns the number of indexed stops.
func (index *StopIndex) Len() int {
	return index.tree.Len()
}
