package gtfs

import (
	"time"

	"raptor.opentransit.org/internal/appconf"
)

// Config holds GTFS configuration for the manager.
type Config struct {
	GtfsURL               string
	StaticAuthHeaderKey   string
	StaticAuthHeaderValue string
	DataPath              string
	Env                   appconf.Environment
	Verbose               bool

	// ServiceDate selects which day's trips go into the timetable. The
	// zero value keeps every trip regardless of its service calendar.
	ServiceDate time.Time

	// DefaultLayover is the walking cost in seconds for transfers the
	// feed declares without a min_transfer_time.
	DefaultLayover int

	// GenerateTransfers synthesizes walking transfers between stops of
	// different stations that lie within MaxTransferDistance meters, for
	// feeds that ship no transfers.txt.
	GenerateTransfers   bool
	MaxTransferDistance float64

	// FareRules maps a trip hint (train number) to the supplement charged
	// when riding it. Feeds carry these out of band.
	FareRules map[int]float64
}

// DefaultLayoverSeconds is used when Config.DefaultLayover is zero.
const DefaultLayoverSeconds = 120

func (config Config) layover() int {
	if config.DefaultLayover > 0 {
		return config.DefaultLayover
	}
	return DefaultLayoverSeconds
}
