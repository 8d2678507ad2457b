package raptor

import (
	"raptor.opentransit.org/internal/timetable"
)

// Leg is one segment of a journey: ride a trip from one stop to another,
// or walk a transfer between them.
type Leg struct {
	From *timetable.Stop
	To   *timetable.Stop
	// Trip is nil for walking legs.
	Trip      *timetable.Trip
	Departure int
	Arrival   int
	Fare      float64
}

// IsTransfer reports whether the leg is a walk rather than a trip ride.
func (l Leg) IsTransfer() bool {
	return l.Trip == nil
}

// Journey is an ordered sequence of legs from an origin stop to a
// destination stop. It is immutable once reconstructed.
type Journey struct {
	Legs []Leg
}

// Empty reports whether the journey has no legs, which is how an
// unreachable destination is represented.
func (j Journey) Empty() bool {
	return len(j.Legs) == 0
}

// Departure returns the journey's overall departure time, or 0 for an
// empty journey.
func (j Journey) Departure() int {
	if j.Empty() {
		return 0
	}
	return j.Legs[0].Departure
}

// Arrival returns the journey's overall arrival time, or 0 for an empty
// journey.
func (j Journey) Arrival() int {
	if j.Empty() {
		return 0
	}
	return j.Legs[len(j.Legs)-1].Arrival
}

// TravelTime returns the total door-to-door duration in seconds.
func (j Journey) TravelTime() int {
	return j.Arrival() - j.Departure()
}

// Transfers returns the number of trip changes: one less than the number
// of trips ridden, never negative.
func (j Journey) Transfers() int {
	trips := 0
	for _, leg := range j.Legs {
		if !leg.IsTransfer() {
			trips++
		}
	}
	if trips <= 1 {
		return 0
	}
	return trips - 1
}

// Fare returns the sum of the fare supplements across all legs.
func (j Journey) Fare() float64 {
	var total float64
	for _, leg := range j.Legs {
		total += leg.Fare
	}
	return total
}

// BestStopAtStation returns the station's stop with the earliest arrival
// in the label table, or nil when no stop of the station was reached.
func BestStopAtStation(station *timetable.Station, labels []Label) *timetable.Stop {
	var best *timetable.Stop
	earliest := Infinity
	for _, stop := range station.Stops {
		if labels[stop.Index].Arrival < earliest {
			earliest = labels[stop.Index].Arrival
			best = stop
		}
	}
	return best
}

// ReconstructJourney walks the label table backward from the destination
// stop, following each label's from-stop until it reaches an origin label
// (one with no from-stop), and returns the legs in travel order. An
// unreached destination yields an empty journey.
func ReconstructJourney(tt *timetable.Timetable, destination *timetable.Stop, labels []Label) Journey {
	var reversed []Leg

	current := destination
	for {
		label := labels[current.Index]
		if label.From == nil {
			break
		}

		leg := Leg{
			From:    label.From,
			To:      current,
			Trip:    label.Trip,
			Arrival: label.Arrival,
		}
		if label.Transfer {
			leg.Departure = label.Arrival
			if transfer := tt.TransferBetween(label.From, current); transfer != nil {
				leg.Departure = label.Arrival - transfer.Layover
			}
		} else if label.Trip != nil {
			if boarding := label.Trip.StopTimeAt(label.From); boarding != nil {
				leg.Departure = boarding.Departure
			}
			if alighting := label.Trip.StopTimeAt(current); alighting != nil {
				leg.Fare = alighting.Fare
			}
		}

		reversed = append(reversed, leg)
		current = label.From
	}

	legs := make([]Leg, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		legs = append(legs, reversed[i])
	}
	return Journey{Legs: legs}
}

// IsDominated reports whether the candidate journey is dominated by the
// previously accepted one: the previous departs no earlier and arrives no
// later, with at least one of the two strictly better. Two journeys with
// identical departure and arrival also count as dominated so duplicates
// collapse.
func IsDominated(previous, candidate Journey) bool {
	if previous.Empty() {
		return false
	}

	prevDep, candDep := previous.Departure(), candidate.Departure()
	prevArr, candArr := previous.Arrival(), candidate.Arrival()

	if prevDep == candDep && prevArr == candArr {
		return true
	}
	return (prevDep >= candDep && prevArr < candArr) ||
		(prevDep > candDep && prevArr <= candArr)
}

// PlanJourney runs a single point query between two stations and
// reconstructs the best journey. The boolean is false when the
// destination is unreachable within the round bound.
func PlanJourney(tt *timetable.Timetable, origin, destination *timetable.Station, depSecs, maxRounds int) (Journey, bool) {
	if origin == nil || destination == nil {
		return Journey{}, false
	}

	alg := New(tt)
	labels := alg.Run(origin.Stops, destination, depSecs, maxRounds)

	stop := BestStopAtStation(destination, labels)
	if stop == nil {
		return Journey{}, false
	}
	return ReconstructJourney(tt, stop, labels), true
}
