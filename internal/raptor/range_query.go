package raptor

import (
	"sync"

	"raptor.opentransit.org/internal/timetable"
)

// RunRangeQuery answers "all good ways to leave within a window": it runs
// one point query per distinct departure time from the origin station's
// stops inside [minDep, maxDep], latest departure first, and keeps only
// journeys not dominated by a later-departing one. Results come back in
// increasing departure order.
func RunRangeQuery(tt *timetable.Timetable, origin, destination *timetable.Station, minDep, maxDep, maxRounds int) []Journey {
	if origin == nil || destination == nil {
		return nil
	}

	departures := tt.DepartureTimesInRange(origin.Stops, minDep, maxDep)

	var accepted []Journey
	var last Journey
	for _, dep := range departures {
		journey, ok := PlanJourney(tt, origin, destination, dep, maxRounds)
		if !ok {
			continue
		}
		// Scanning latest-first means a journey can only be dominated by
		// the one accepted just before it.
		if IsDominated(last, journey) {
			continue
		}
		accepted = append(accepted, journey)
		last = journey
	}

	return reverseJourneys(accepted)
}

// RunRangeQueryParallel is RunRangeQuery with the per-departure point
// queries fanned out over the given number of workers. The timetable is
// read-only during queries, so the workers share it freely; the domination
// filter still runs sequentially in latest-first order once all queries
// have finished. workers < 2 falls back to the sequential path.
func RunRangeQueryParallel(tt *timetable.Timetable, origin, destination *timetable.Station, minDep, maxDep, maxRounds, workers int) []Journey {
	if origin == nil || destination == nil {
		return nil
	}
	if workers < 2 {
		return RunRangeQuery(tt, origin, destination, minDep, maxDep, maxRounds)
	}

	departures := tt.DepartureTimesInRange(origin.Stops, minDep, maxDep)
	results := make([]Journey, len(departures))
	found := make([]bool, len(departures))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], found[i] = PlanJourney(tt, origin, destination, departures[i], maxRounds)
			}
		}()
	}
	for i := range departures {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var accepted []Journey
	var last Journey
	for i := range departures {
		if !found[i] {
			continue
		}
		if IsDominated(last, results[i]) {
			continue
		}
		accepted = append(accepted, results[i])
		last = results[i]
	}

	return reverseJourneys(accepted)
}

func reverseJourneys(journeys []Journey) []Journey {
	for i, j := 0, len(journeys)-1; i < j; i, j = i+1, j-1 {
		journeys[i], journeys[j] = journeys[j], journeys[i]
	}
	return journeys
}
