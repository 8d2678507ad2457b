package raptor

import (
	"math"

	"raptor.opentransit.org/internal/timetable"
)

// Infinity is the arrival time of a stop that has not been reached.
// Feed times are seconds since midnight and stay far below this.
const Infinity = math.MaxInt32

// Label is the best known way to reach one stop: the earliest arrival
// time found so far, the trip used to get there, and the stop the trip
// (or walk) was taken from. The zero value is not meaningful; use
// newLabels to get properly initialized unreached labels.
type Label struct {
	// Arrival is the earliest known arrival time in seconds, Infinity
	// while the stop is unreached.
	Arrival int
	// Trip is the trip ridden to get here. It is nil both at origin
	// stops and for stops reached on foot; Transfer distinguishes the
	// two.
	Trip *timetable.Trip
	// Transfer is true when the stop was reached by walking from From.
	Transfer bool
	// From is the stop this label's trip or walk started at. A reached
	// label with a nil From is an origin.
	From *timetable.Stop
}

// Reached reports whether the stop has been reached at all.
func (l Label) Reached() bool {
	return l.Arrival < Infinity
}

// Dominates reports whether this label is at least as good as the other.
func (l Label) Dominates(other Label) bool {
	return l.Arrival <= other.Arrival
}

// newLabels allocates a label slice with every stop unreached.
func newLabels(stopCount int) []Label {
	labels := make([]Label, stopCount)
	for i := range labels {
		labels[i].Arrival = Infinity
	}
	return labels
}
