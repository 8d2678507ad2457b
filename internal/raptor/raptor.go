// Package raptor implements round-based earliest-arrival journey planning
// over a shared, read-only timetable. Each round allows one more trip
// boarding; the engine scans whole route patterns instead of relaxing
// individual edges, which is what makes repeated queries cheap.
package raptor

import (
	"log/slog"

	"raptor.opentransit.org/internal/timetable"
)

// Algorithm is the per-query state of one round-based search. Create a
// fresh instance per query; the shared timetable is never mutated, so any
// number of Algorithm instances may run concurrently against it.
type Algorithm struct {
	tt     *timetable.Timetable
	logger *slog.Logger

	best             []Label
	destinationStops map[*timetable.Stop]struct{}
	earliestAtDest   int
	roundsRun        int
	evaluations      int
	improvements     int
}

// New creates an algorithm instance bound to the given timetable.
func New(tt *timetable.Timetable) *Algorithm {
	return &Algorithm{
		tt:     tt,
		logger: slog.Default().With(slog.String("component", "raptor")),
	}
}

// routeCandidate pairs a route with the most upstream marked stop on it,
// i.e. one entry of the queue Q built at the start of every round.
type routeCandidate struct {
	route *timetable.Route
	stop  *timetable.Stop
}

// Run executes the round-based search from the given origin stops towards
// the destination station, leaving no earlier than depSecs and boarding
// at most maxRounds trips. It returns the best label per stop, indexed by
// Stop.Index. An unreachable stop keeps Arrival == Infinity; callers must
// check that before reconstructing a journey.
func (a *Algorithm) Run(from []*timetable.Stop, to *timetable.Station, depSecs, maxRounds int) []Label {
	if maxRounds < 0 {
		// No boardings allowed: only the origin stops are reachable.
		maxRounds = 0
	}
	stopCount := a.tt.StopCount()

	bag := make([][]Label, maxRounds+1)
	for k := range bag {
		bag[k] = newLabels(stopCount)
	}
	a.best = newLabels(stopCount)
	a.earliestAtDest = Infinity
	a.roundsRun = 0
	a.evaluations = 0
	a.improvements = 0

	a.destinationStops = make(map[*timetable.Stop]struct{})
	if to != nil {
		for _, stop := range to.Stops {
			a.destinationStops[stop] = struct{}{}
		}
	}

	var marked []*timetable.Stop
	for _, stop := range from {
		bag[0][stop.Index] = Label{Arrival: depSecs}
		a.best[stop.Index] = Label{Arrival: depSecs}
		marked = append(marked, stop)
	}

	for k := 1; k <= maxRounds; k++ {
		if len(marked) == 0 {
			break
		}
		a.roundsRun = k

		candidates := a.accumulateRoutes(marked)
		tripStops := a.traverseRoutes(bag, k, candidates)
		transferStops := a.relaxTransfers(bag, k, tripStops)

		marked = unionStops(stopCount, tripStops, transferStops)
		a.logger.Debug("round complete",
			slog.Int("round", k),
			slog.Int("improved_by_trip", len(tripStops)),
			slog.Int("improved_by_transfer", len(transferStops)),
			slog.Int("marked_for_next", len(marked)))
	}

	return a.best
}

// Rounds returns how many rounds the last Run executed before the marked
// set drained or the bound was hit.
func (a *Algorithm) Rounds() int {
	return a.roundsRun
}

// accumulateRoutes builds the queue Q for the round: every route serving
// a marked stop, each paired with its most upstream marked stop so that a
// route segment is scanned at most once per round.
func (a *Algorithm) accumulateRoutes(marked []*timetable.Stop) []routeCandidate {
	entry := make(map[*timetable.Route]*timetable.Stop)
	var order []*timetable.Route
	for _, stop := range marked {
		for _, route := range a.tt.RoutesServing(stop) {
			current, ok := entry[route]
			if !ok {
				entry[route] = stop
				order = append(order, route)
				continue
			}
			currentPos, _ := route.StopPosition(current)
			stopPos, _ := route.StopPosition(stop)
			if stopPos < currentPos {
				entry[route] = stop
			}
		}
	}

	candidates := make([]routeCandidate, 0, len(order))
	for _, route := range order {
		candidates = append(candidates, routeCandidate{route: route, stop: entry[route]})
	}
	return candidates
}

// traverseRoutes walks every queued route forward from its boarding
// candidate, carrying a current trip, improving stop labels and hopping
// to strictly earlier trips where the previous round's arrival allows it.
// Returns the stops whose labels improved.
func (a *Algorithm) traverseRoutes(bag [][]Label, k int, candidates []routeCandidate) []*timetable.Stop {
	var improved []*timetable.Stop

	for _, candidate := range candidates {
		var currentTrip *timetable.Trip
		var boardingStop *timetable.Stop

		startPos, ok := candidate.route.StopPosition(candidate.stop)
		if !ok {
			continue
		}

		for pos := startPos; pos < len(candidate.route.Stops); pos++ {
			stop := candidate.route.Stops[pos]
			a.evaluations++

			if currentTrip != nil {
				arrival := currentTrip.StopTimes[pos].Arrival
				// Prune on both the stop's own best and the best known
				// arrival at the destination; a label worse than the
				// destination bound can never be on an optimal journey.
				if arrival < a.best[stop.Index].Arrival && arrival < a.earliestAtDest {
					label := Label{Arrival: arrival, Trip: currentTrip, From: boardingStop}
					bag[k][stop.Index] = label
					a.best[stop.Index] = label

					if _, isDest := a.destinationStops[stop]; isDest {
						a.earliestAtDest = arrival
					}

					a.improvements++
					improved = append(improved, stop)
				}
			}

			// Catch an earlier trip at this stop when we hold none yet,
			// or when the previous round already reached this stop early
			// enough to make the currently held departure catchable.
			previousArrival := bag[k-1][stop.Index].Arrival
			if currentTrip == nil || previousArrival <= currentTrip.StopTimes[pos].Departure {
				if earliest := candidate.route.EarliestTripStopTime(previousArrival, stop); earliest != nil && earliest.Trip != currentTrip {
					currentTrip = earliest.Trip
					boardingStop = stop
				}
			}
		}
	}

	return improved
}

// relaxTransfers extends every stop improved by a trip this round along
// its outgoing walking transfers, updating the target stop whenever the
// walk arrives strictly earlier than anything known before.
func (a *Algorithm) relaxTransfers(bag [][]Label, k int, marked []*timetable.Stop) []*timetable.Stop {
	var improved []*timetable.Stop

	for _, stop := range marked {
		arrivalHere := bag[k][stop.Index].Arrival
		for _, transfer := range a.tt.TransfersFrom(stop) {
			arrival := arrivalHere + transfer.Layover
			if arrival < a.best[transfer.To.Index].Arrival {
				label := Label{Arrival: arrival, Transfer: true, From: stop}
				bag[k][transfer.To.Index] = label
				a.best[transfer.To.Index] = label
				improved = append(improved, transfer.To)
			}
		}
	}

	return improved
}

// unionStops deduplicates the stops improved by the trip and transfer
// phases into the marked set for the next round.
func unionStops(stopCount int, lists ...[]*timetable.Stop) []*timetable.Stop {
	seen := make([]bool, stopCount)
	var union []*timetable.Stop
	for _, list := range lists {
		for _, stop := range list {
			if !seen[stop.Index] {
				seen[stop.Index] = true
				union = append(union, stop)
			}
		}
	}
	return union
}
