// Package timetable defines the transit timetable the journey planner
// queries: stations, stops, trips, routes and transfers, plus the lookup
// indices built once at construction time.
//
// A Timetable is mutable while it is being populated and becomes
// read-only once Finalize has run. Finalized timetables may be shared by
// any number of concurrent queries without synchronization; queries keep
// all of their mutable state (labels, marked sets) on their own side.
package timetable

import (
	"sort"
	"strings"
)

// Timetable is the aggregate root owning all timetable entities and the
// derived lookup indices.
type Timetable struct {
	Stations      []*Station
	Stops         []*Stop
	Trips         []*Trip
	TripStopTimes []*TripStopTime
	Routes        []*Route
	Transfers     []*Transfer

	stationsByName map[string]*Station
	stopsByID      map[string]*Stop
	routesByStop   map[*Stop][]*Route
	transfersFrom  map[*Stop][]*Transfer
}

// New creates an empty timetable ready to be populated.
func New() *Timetable {
	return &Timetable{
		stationsByName: make(map[string]*Station),
		stopsByID:      make(map[string]*Stop),
		routesByStop:   make(map[*Stop][]*Route),
		transfersFrom:  make(map[*Stop][]*Transfer),
	}
}

// AddStation returns the station with the given name, creating it if it
// does not exist yet. Stations are deduplicated by name.
func (tt *Timetable) AddStation(name string) *Station {
	if existing, ok := tt.stationsByName[name]; ok {
		return existing
	}
	station := &Station{Name: name}
	tt.Stations = append(tt.Stations, station)
	tt.stationsByName[name] = station
	return station
}

// AddStop registers a stop under the given station. Re-adding an existing
// stop ID returns the already registered stop.
func (tt *Timetable) AddStop(id, platformCode string, station *Station, lat, lon float64) *Stop {
	if existing, ok := tt.stopsByID[id]; ok {
		return existing
	}
	stop := &Stop{
		ID:           id,
		Index:        len(tt.Stops),
		Station:      station,
		PlatformCode: platformCode,
		Lat:          lat,
		Lon:          lon,
	}
	station.addStop(stop)
	tt.Stops = append(tt.Stops, stop)
	tt.stopsByID[id] = stop
	// Every stop gets a transfer entry, possibly empty, so that lookups
	// never have to distinguish "no transfers" from "unknown stop".
	if _, ok := tt.transfersFrom[stop]; !ok {
		tt.transfersFrom[stop] = nil
	}
	return stop
}

// AddTrip registers a new empty trip.
func (tt *Timetable) AddTrip(hint int, longName string) *Trip {
	trip := &Trip{Hint: hint, LongName: longName}
	tt.Trips = append(tt.Trips, trip)
	return trip
}

// AddStopTime appends the next visit to a trip. Visits must be added in
// run order; the position index is assigned from the trip's current
// length. Time monotonicity within the trip is the feed's contract and is
// not validated here.
func (tt *Timetable) AddStopTime(trip *Trip, stop *Stop, arrival, departure int, fare float64) *TripStopTime {
	tst := &TripStopTime{
		Trip:      trip,
		Position:  len(trip.StopTimes),
		Stop:      stop,
		Arrival:   arrival,
		Departure: departure,
		Fare:      fare,
	}
	trip.StopTimes = append(trip.StopTimes, tst)
	tt.TripStopTimes = append(tt.TripStopTimes, tst)
	return tst
}

// AddTransfer registers a directed transfer edge.
func (tt *Timetable) AddTransfer(from, to *Stop, layover int) *Transfer {
	transfer := &Transfer{From: from, To: to, Layover: layover}
	tt.Transfers = append(tt.Transfers, transfer)
	tt.transfersFrom[from] = append(tt.transfersFrom[from], transfer)
	return transfer
}

// AddTransferPair registers transfers in both directions with the same
// layover. Feeds usually state each walking connection only once.
func (tt *Timetable) AddTransferPair(a, b *Stop, layover int) {
	tt.AddTransfer(a, b, layover)
	tt.AddTransfer(b, a, layover)
}

// Finalize builds the route pattern index: trips are grouped by their
// exact ordered stop sequence, each group's trips are sorted by departure
// time at every stop position, and the stop-to-routes index is built.
// Call it exactly once, after all entities are added and before the first
// query.
func (tt *Timetable) Finalize() {
	byPattern := make(map[string]*Route)
	for _, trip := range tt.Trips {
		if len(trip.StopTimes) == 0 {
			continue
		}
		key := patternKey(trip)
		route, ok := byPattern[key]
		if !ok {
			route = &Route{
				ID:           len(tt.Routes),
				stopPosition: make(map[*Stop]int, len(trip.StopTimes)),
			}
			for pos, tst := range trip.StopTimes {
				route.Stops = append(route.Stops, tst.Stop)
				route.stopPosition[tst.Stop] = pos
			}
			byPattern[key] = route
			tt.Routes = append(tt.Routes, route)
		}
		route.Trips = append(route.Trips, trip)
	}

	for _, route := range tt.Routes {
		route.orderTripsPerStopByTime()
		for _, stop := range route.Stops {
			tt.routesByStop[stop] = append(tt.routesByStop[stop], route)
		}
	}
}

func patternKey(trip *Trip) string {
	ids := make([]string, len(trip.StopTimes))
	for i, tst := range trip.StopTimes {
		ids[i] = tst.Stop.ID
	}
	return strings.Join(ids, "\x1f")
}

// Station returns the station with the given name, or nil.
func (tt *Timetable) Station(name string) *Station {
	return tt.stationsByName[name]
}

// Stop returns the stop with the given feed ID, or nil.
func (tt *Timetable) Stop(id string) *Stop {
	return tt.stopsByID[id]
}

// StopCount returns the number of stops; stop indices are dense in
// [0, StopCount).
func (tt *Timetable) StopCount() int {
	return len(tt.Stops)
}

// RoutesServing returns the routes whose pattern includes the stop.
func (tt *Timetable) RoutesServing(stop *Stop) []*Route {
	return tt.routesByStop[stop]
}

// TransfersFrom returns the outgoing transfers of a stop. The slice is
// nil for stops without transfers.
func (tt *Timetable) TransfersFrom(stop *Stop) []*Transfer {
	return tt.transfersFrom[stop]
}

// TransferBetween returns the transfer edge from one stop to another, or
// nil when none exists.
func (tt *Timetable) TransferBetween(from, to *Stop) *Transfer {
	for _, transfer := range tt.transfersFrom[from] {
		if transfer.To == to {
			return transfer
		}
	}
	return nil
}

// DepartureTimesInRange returns the distinct departure times, in
// decreasing order, of trips leaving any of the given stops within
// [minDep, maxDep]. The range query scans these latest-first so that the
// domination filter only has to compare adjacent results.
func (tt *Timetable) DepartureTimesInRange(stops []*Stop, minDep, maxDep int) []int {
	member := make(map[*Stop]struct{}, len(stops))
	for _, stop := range stops {
		member[stop] = struct{}{}
	}
	seen := make(map[int]struct{})
	var times []int
	for _, tst := range tt.TripStopTimes {
		if _, ok := member[tst.Stop]; !ok {
			continue
		}
		if tst.Departure < minDep || tst.Departure > maxDep {
			continue
		}
		if _, ok := seen[tst.Departure]; ok {
			continue
		}
		seen[tst.Departure] = struct{}{}
		times = append(times, tst.Departure)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(times)))
	return times
}
