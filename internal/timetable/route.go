package timetable

import "sort"

// Route groups the trips that visit an identical ordered sequence of
// stops. The grouping is what lets the search scan a whole pattern once
// per round instead of relaxing individual edges.
type Route struct {
	// ID is the dense route index assigned at pattern-grouping time.
	ID int
	// Stops is the shared ordered stop sequence of every member trip.
	Stops []*Stop
	// Trips are the member trips, unordered until orderTripsPerStopByTime
	// runs.
	Trips []*Trip

	stopPosition    map[*Stop]int
	tripsByPosition [][]*Trip
}

// StopPosition returns the position of stop in the route's stop sequence
// and whether the route serves it at all.
func (r *Route) StopPosition(stop *Stop) (int, bool) {
	pos, ok := r.stopPosition[stop]
	return pos, ok
}

// orderTripsPerStopByTime sorts, for every stop position, the member
// trips ascending by departure time at that position, with the trip hint
// as a tie-break so boarding choices are deterministic across runs.
// EarliestTripStopTime depends on this ordering. Trips are assumed not to
// overtake each other at shared stops (FIFO); if the feed violates that,
// earliest-trip selection may pick a trip that is not globally optimal.
func (r *Route) orderTripsPerStopByTime() {
	r.tripsByPosition = make([][]*Trip, len(r.Stops))
	for pos := range r.Stops {
		trips := make([]*Trip, len(r.Trips))
		copy(trips, r.Trips)
		sort.Slice(trips, func(i, j int) bool {
			di := trips[i].StopTimes[pos].Departure
			dj := trips[j].StopTimes[pos].Departure
			if di != dj {
				return di < dj
			}
			return trips[i].Hint < trips[j].Hint
		})
		r.tripsByPosition[pos] = trips
	}
}

// EarliestTripStopTime returns the stop time of the earliest trip on this
// route departing from stop at or after the given time, or nil when no
// such trip exists (or the route does not serve the stop).
func (r *Route) EarliestTripStopTime(after int, stop *Stop) *TripStopTime {
	pos, ok := r.stopPosition[stop]
	if !ok {
		return nil
	}
	trips := r.tripsByPosition[pos]
	i := sort.Search(len(trips), func(i int) bool {
		return trips[i].StopTimes[pos].Departure >= after
	})
	if i == len(trips) {
		return nil
	}
	return trips[i].StopTimes[pos]
}
