package timetable

// Trip is one scheduled vehicle run: an ordered sequence of stop visits.
type Trip struct {
	// Hint is the numeric trip/train number. Fare rules key off it.
	Hint int
	// LongName is a human-readable identifier, e.g. "IC 1234".
	LongName string
	// StopTimes are the visits of this trip in run order. The position
	// of an entry in this slice equals its Position field.
	StopTimes []*TripStopTime
}

// StopTimeAt returns the trip's visit to the given stop, or nil if the
// trip does not serve it.
func (t *Trip) StopTimeAt(stop *Stop) *TripStopTime {
	for _, tst := range t.StopTimes {
		if tst.Stop == stop {
			return tst
		}
	}
	return nil
}

// TripStopTime is one visit of a Trip to a Stop. Times are seconds since
// local midnight of the service day and may exceed 86400 for runs that
// continue past midnight.
type TripStopTime struct {
	Trip      *Trip
	Position  int
	Stop      *Stop
	Arrival   int
	Departure int
	// Fare is an optional supplement charged when alighting here.
	Fare float64
}
