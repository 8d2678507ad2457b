package gtfs

import (
	"time"

	"github.com/OneBusAway/go-gtfs"

	"raptor.opentransit.org/internal/timetable"
	"raptor.opentransit.org/internal/utils"
)

// BuildTimetable converts parsed GTFS static data into the finalized
// timetable the search engine queries. Stops are grouped into stations by
// their parent station (falling back to the stop's own name), trips are
// filtered to the configured service date, and transfers come from the
// feed plus in-station platform walks.
func BuildTimetable(staticData *gtfs.Static, config Config) *timetable.Timetable {
	tt := timetable.New()

	addStop := func(feedStop *gtfs.Stop) *timetable.Stop {
		station := tt.AddStation(stationName(feedStop))
		var lat, lon float64
		if feedStop.Latitude != nil {
			lat = *feedStop.Latitude
		}
		if feedStop.Longitude != nil {
			lon = *feedStop.Longitude
		}
		return tt.AddStop(feedStop.Id, platformCode(feedStop), station, lat, lon)
	}

	for i := range staticData.Trips {
		feedTrip := &staticData.Trips[i]
		if !config.ServiceDate.IsZero() && !serviceActiveOn(feedTrip.Service, config.ServiceDate) {
			continue
		}
		if len(feedTrip.StopTimes) == 0 {
			continue
		}

		hint := tripHint(feedTrip.ID)
		trip := tt.AddTrip(hint, tripLongName(feedTrip))
		fare := config.FareRules[hint]
		for j := range feedTrip.StopTimes {
			st := &feedTrip.StopTimes[j]
			stop := addStop(st.Stop)
			// The first visit never charges a supplement; you pay when
			// alighting, not when boarding.
			visitFare := fare
			if j == 0 {
				visitFare = 0
			}
			tt.AddStopTime(trip, stop,
				int(st.ArrivalTime/time.Second),
				int(st.DepartureTime/time.Second),
				visitFare)
		}
	}

	addFeedTransfers(tt, staticData, config)
	addPlatformTransfers(tt, config)
	if config.GenerateTransfers {
		generateNearbyTransfers(tt, config)
	}

	tt.Finalize()
	return tt
}

// addFeedTransfers applies transfers.txt, both directions, since feeds
// usually state each walking connection only once.
func addFeedTransfers(tt *timetable.Timetable, staticData *gtfs.Static, config Config) {
	for i := range staticData.Transfers {
		feedTransfer := &staticData.Transfers[i]
		from := tt.Stop(feedTransfer.From.Id)
		to := tt.Stop(feedTransfer.To.Id)
		if from == nil || to == nil || from == to {
			continue
		}
		layover := config.layover()
		if feedTransfer.MinTransferTime != nil {
			layover = int(*feedTransfer.MinTransferTime)
		}
		if tt.TransferBetween(from, to) == nil {
			tt.AddTransfer(from, to, layover)
		}
		if tt.TransferBetween(to, from) == nil {
			tt.AddTransfer(to, from, layover)
		}
	}
}

// addPlatformTransfers connects every pair of platforms within a station.
func addPlatformTransfers(tt *timetable.Timetable, config Config) {
	for _, station := range tt.Stations {
		for i := 0; i < len(station.Stops); i++ {
			for j := i + 1; j < len(station.Stops); j++ {
				a, b := station.Stops[i], station.Stops[j]
				if tt.TransferBetween(a, b) == nil {
					tt.AddTransfer(a, b, config.layover())
				}
				if tt.TransferBetween(b, a) == nil {
					tt.AddTransfer(b, a, config.layover())
				}
			}
		}
	}
}

// walkingSpeed is a conservative pedestrian pace in meters per second.
const walkingSpeed = 1.4

// generateNearbyTransfers synthesizes walking transfers between stops of
// different stations within MaxTransferDistance of each other, for feeds
// without a transfers.txt.
func generateNearbyTransfers(tt *timetable.Timetable, config Config) {
	index := NewStopIndex(tt.Stops)
	for _, stop := range tt.Stops {
		if stop.Lat == 0 && stop.Lon == 0 {
			continue
		}
		for _, nearby := range index.StopsNear(stop.Lat, stop.Lon, config.MaxTransferDistance) {
			if nearby == stop || nearby.Station == stop.Station {
				continue
			}
			if tt.TransferBetween(stop, nearby) != nil {
				continue
			}
			walk := int(utils.Distance(stop.Lat, stop.Lon, nearby.Lat, nearby.Lon) / walkingSpeed)
			if walk < config.layover() {
				walk = config.layover()
			}
			tt.AddTransfer(stop, nearby, walk)
		}
	}
}

func stationName(stop *gtfs.Stop) string {
	root := stop.Root()
	if root.Name != "" {
		return root.Name
	}
	return root.Id
}

func platformCode(stop *gtfs.Stop) string {
	if stop.PlatformCode != "" {
		return stop.PlatformCode
	}
	if stop.Code != "" {
		return stop.Code
	}
	return "?"
}

func tripLongName(trip *gtfs.ScheduledTrip) string {
	if trip.ShortName != "" {
		return trip.ShortName
	}
	if trip.Headsign != "" {
		return trip.Headsign
	}
	return trip.ID
}

// tripHint extracts the numeric train number from a trip ID by
// concatenating its digits, e.g. "IC-1234-a" yields 1234.
func tripHint(id string) int {
	hint := 0
	for _, r := range id {
		if r < '0' || r > '9' {
			continue
		}
		if hint > (1<<62)/10 {
			break
		}
		hint = hint*10 + int(r-'0')
	}
	return hint
}

func serviceActiveOn(service *gtfs.Service, date time.Time) bool {
	if service == nil {
		return true
	}
	for _, removed := range service.RemovedDates {
		if sameDay(removed, date) {
			return false
		}
	}
	for _, added := range service.AddedDates {
		if sameDay(added, date) {
			return true
		}
	}
	if date.Before(service.StartDate) || date.After(service.EndDate) {
		return false
	}
	switch date.Weekday() {
	case time.Monday:
		return service.Monday
	case time.Tuesday:
		return service.Tuesday
	case time.Wednesday:
		return service.Wednesday
	case time.Thursday:
		return service.Thursday
	case time.Friday:
		return service.Friday
	case time.Saturday:
		return service.Saturday
	default:
		return service.Sunday
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
