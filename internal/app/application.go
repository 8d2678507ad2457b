// Package app wires together the dependencies shared by HTTP handlers,
// helpers, and middleware.
package app

import (
	"log/slog"

	"raptor.opentransit.org/internal/appconf"
	"raptor.opentransit.org/internal/clock"
	"raptor.opentransit.org/internal/gtfs"
	"raptor.opentransit.org/internal/metrics"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config      appconf.Config
	GtfsConfig  gtfs.Config
	Logger      *slog.Logger
	GtfsManager *gtfs.Manager
	Clock       clock.Clock
	Metrics     *metrics.Metrics
}
