package gtfs

import (
	"raptor.opentransit.org/internal/timetable"
)

// NewManagerForTesting wraps a pre-built timetable in a Manager without
// fetching a feed or starting the refresh goroutine.
func NewManagerForTesting(tt *timetable.Timetable) *Manager {
	manager := &Manager{
		config:       Config{GtfsURL: "testdata"},
		isLocalFile:  true,
		shutdownChan: make(chan struct{}),
	}
	manager.setTimetable(tt)
	return manager
}

// MockSetUnhealthy marks the manager as unhealthy so handlers can be
// tested against a degraded data source.
func (manager *Manager) MockSetUnhealthy() {
	manager.staticMutex.Lock()
	defer manager.staticMutex.Unlock()
	manager.isHealthy = false
}
