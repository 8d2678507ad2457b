package timetable

import "fmt"

// Station is a named physical location grouping one or more Stops.
// Stations are deduplicated by name: adding a station with an existing
// name returns the existing instance.
type Station struct {
	Name  string
	Stops []*Stop
}

func (s *Station) addStop(stop *Stop) {
	s.Stops = append(s.Stops, stop)
}

// Stop is a boardable platform at a Station.
type Stop struct {
	// ID is the feed-assigned stop identifier.
	ID string
	// Index is the dense index assigned by the owning Timetable. Query
	// state (labels, marked sets) is addressed by this index.
	Index int
	// Station is the owning station. Every stop belongs to exactly one.
	Station *Station
	// PlatformCode identifies the platform within the station ("?" when
	// the feed does not say).
	PlatformCode string
	Lat          float64
	Lon          float64
}

// DisplayID combines the station name and platform code into a
// human-readable identifier, e.g. "Rotterdam Centraal-12".
func (s *Stop) DisplayID() string {
	return fmt.Sprintf("%s-%s", s.Station.Name, s.PlatformCode)
}
