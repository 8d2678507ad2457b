package raptor

import (
	"fmt"
	"testing"

	"raptor.opentransit.org/internal/timetable"
)

// Test fixture: three stations on a line plus a detour. Trip 101 runs
// A -> C, trip 202 runs C -> F, trip 303 runs C -> X -> F, and a second
// set of trips (111/212/313) repeats the same patterns one hour later.
// Platforms within a station are connected by short walking transfers.
const testLayover = 30

type visit struct {
	station  string
	platform string
	time     int
	fare     float64
}

type tripSpec struct {
	hint   int
	visits []visit
}

func defaultTrips() []tripSpec {
	var specs []tripSpec
	for _, offset := range []struct{ trip, time int }{{0, 0}, {10, 3600}} {
		specs = append(specs,
			tripSpec{hint: offset.trip + 101, visits: []visit{
				{station: "A", platform: "0", time: offset.time + 100},
				{station: "C", platform: "1", time: offset.time + 600},
			}},
			tripSpec{hint: offset.trip + 202, visits: []visit{
				{station: "C", platform: "2", time: offset.time + 660},
				{station: "F", platform: "0", time: offset.time + 1500},
			}},
			tripSpec{hint: offset.trip + 303, visits: []visit{
				{station: "C", platform: "2", time: offset.time + 900},
				{station: "X", platform: "0", time: offset.time + 1200},
				{station: "F", platform: "0", time: offset.time + 1800},
			}},
		)
	}
	return specs
}

func buildFixture(t *testing.T, specs []tripSpec) *timetable.Timetable {
	t.Helper()

	tt := timetable.New()
	for _, spec := range specs {
		trip := tt.AddTrip(spec.hint, fmt.Sprintf("Train %d", spec.hint))
		for _, v := range spec.visits {
			station := tt.AddStation(v.station)
			stop := tt.AddStop(v.station+"_"+v.platform, v.platform, station, 0, 0)
			tt.AddStopTime(trip, stop, v.time, v.time, v.fare)
		}
	}

	for _, station := range tt.Stations {
		for i := 0; i < len(station.Stops); i++ {
			for j := i + 1; j < len(station.Stops); j++ {
				tt.AddTransferPair(station.Stops[i], station.Stops[j], testLayover)
			}
		}
	}

	tt.Finalize()
	return tt
}

func buildDefaultFixture(t *testing.T) *timetable.Timetable {
	t.Helper()
	return buildFixture(t, defaultTrips())
}

// tripHints maps a journey's trip legs to their trip hints, skipping
// walking legs.
func tripHints(j Journey) []int {
	var hints []int
	for _, leg := range j.Legs {
		if !leg.IsTransfer() {
			hints = append(hints, leg.Trip.Hint)
		}
	}
	return hints
}
