package gtfs

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"raptor.opentransit.org/internal/logging"
	"raptor.opentransit.org/internal/metrics"
	"raptor.opentransit.org/internal/timetable"
	"raptor.opentransit.org/internal/timetabledb"
)

// Manager owns the active timetable and its spatial index, refreshes them
// from the configured feed, and hands out read-only references to
// queries. The timetable itself is never mutated after Finalize; refresh
// builds a new one and swaps the reference under the write lock.
type Manager struct {
	config      Config
	isLocalFile bool

	staticMutex       sync.RWMutex
	staticUpdateMutex sync.Mutex

	tt          *timetable.Timetable
	stopIndex   *StopIndex
	lastUpdated time.Time
	isHealthy   bool

	snapshots *timetabledb.Client

	appMetrics *metrics.Metrics

	shutdownChan chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// InitGTFSManager loads the feed, builds the timetable, and starts the
// periodic refresh goroutine for remote sources. When the feed cannot be
// loaded but a snapshot from an earlier run exists, the manager starts
// from the snapshot instead of failing.
func InitGTFSManager(config Config) (*Manager, error) {
	manager := &Manager{
		config:       config,
		isLocalFile:  !strings.HasPrefix(config.GtfsURL, "http://") && !strings.HasPrefix(config.GtfsURL, "https://"),
		shutdownChan: make(chan struct{}),
	}

	logger := slog.Default().With(slog.String("component", "gtfs_manager"))

	if config.DataPath != "" {
		snapshots, err := timetabledb.NewClient(timetabledb.NewConfig(config.DataPath, config.Env, config.Verbose))
		if err != nil {
			return nil, fmt.Errorf("failed to open timetable snapshot store: %w", err)
		}
		manager.snapshots = snapshots
	}

	if err := manager.refresh(context.Background()); err != nil {
		tt, loadErr := manager.loadSnapshot(context.Background())
		if loadErr != nil {
			if manager.snapshots != nil {
				logging.SafeCloseWithLogging(manager.snapshots, logger, "snapshot_store")
			}
			return nil, fmt.Errorf("failed to load GTFS data: %w", err)
		}
		logging.LogOperation(logger, "feed_unavailable_starting_from_snapshot",
			slog.String("source", config.GtfsURL),
			slog.String("error", err.Error()))
		manager.setTimetable(tt)
	}

	manager.wg.Add(1)
	go manager.updateStaticGTFS()

	return manager, nil
}

// SetMetrics attaches application metrics. Call before serving traffic.
func (manager *Manager) SetMetrics(m *metrics.Metrics) {
	manager.staticMutex.Lock()
	defer manager.staticMutex.Unlock()
	manager.appMetrics = m
	if m != nil && manager.tt != nil {
		m.TimetableStops.Set(float64(manager.tt.StopCount()))
		m.TimetableTrips.Set(float64(len(manager.tt.Trips)))
	}
}

// Timetable returns the active timetable. The returned value is read-only
// and safe to query concurrently; callers must not hold it across feed
// refreshes if they need the newest data.
func (manager *Manager) Timetable() *timetable.Timetable {
	manager.staticMutex.RLock()
	defer manager.staticMutex.RUnlock()
	return manager.tt
}

// StopIndex returns the spatial index over the active timetable's stops.
func (manager *Manager) StopIndex() *StopIndex {
	manager.staticMutex.RLock()
	defer manager.staticMutex.RUnlock()
	return manager.stopIndex
}

// IsHealthy reports whether the manager holds a queryable timetable.
func (manager *Manager) IsHealthy() bool {
	manager.staticMutex.RLock()
	defer manager.staticMutex.RUnlock()
	return manager.isHealthy && manager.tt != nil
}

// LastUpdated returns when the active timetable was installed.
func (manager *Manager) LastUpdated() time.Time {
	manager.staticMutex.RLock()
	defer manager.staticMutex.RUnlock()
	return manager.lastUpdated
}

// PingSnapshotStore checks connectivity to the snapshot database. Managers
// running without a snapshot store always report success.
func (manager *Manager) PingSnapshotStore(ctx context.Context) error {
	if manager.snapshots == nil {
		return nil
	}
	return manager.snapshots.DB.PingContext(ctx)
}

// ForceUpdate re-fetches the feed and hot-swaps the timetable. Concurrent
// queries keep using the old timetable until the swap completes.
func (manager *Manager) ForceUpdate(ctx context.Context) error {
	manager.staticUpdateMutex.Lock()
	defer manager.staticUpdateMutex.Unlock()
	return manager.refresh(ctx)
}

// Shutdown stops the refresh goroutine and closes the snapshot store.
func (manager *Manager) Shutdown() {
	manager.shutdownOnce.Do(func() {
		close(manager.shutdownChan)
	})
	manager.wg.Wait()

	if manager.snapshots != nil {
		logger := slog.Default().With(slog.String("component", "gtfs_manager"))
		logging.SafeCloseWithLogging(manager.snapshots, logger, "snapshot_store")
	}
}

func (manager *Manager) refresh(ctx context.Context) error {
	logger := slog.Default().With(slog.String("component", "gtfs_updater"))

	staticData, raw, err := loadGTFSData(manager.config.GtfsURL, manager.isLocalFile, manager.config)
	if err != nil {
		manager.observeRefresh("error")
		logging.LogError(logger, "Error updating GTFS data", err,
			slog.String("source", manager.config.GtfsURL))
		return err
	}

	if err := ctx.Err(); err != nil {
		manager.observeRefresh("canceled")
		return err
	}

	tt := BuildTimetable(staticData, manager.config)
	manager.setTimetable(tt)
	manager.observeRefresh("ok")

	logging.LogOperation(logger, "timetable_updated",
		slog.String("source", manager.config.GtfsURL),
		slog.Int("stations", len(tt.Stations)),
		slog.Int("stops", tt.StopCount()),
		slog.Int("trips", len(tt.Trips)),
		slog.Int("routes", len(tt.Routes)))

	if manager.snapshots != nil {
		hash := sha256.Sum256(raw)
		if err := manager.snapshots.SaveTimetable(ctx, tt, hex.EncodeToString(hash[:]), manager.config.GtfsURL); err != nil {
			// The in-memory timetable is already live; a failed snapshot
			// only costs the next restart a re-download.
			logging.LogError(logger, "Failed to save timetable snapshot", err)
		}
	}

	return nil
}

func (manager *Manager) loadSnapshot(ctx context.Context) (*timetable.Timetable, error) {
	if manager.snapshots == nil {
		return nil, sql.ErrNoRows
	}
	return manager.snapshots.LoadTimetable(ctx)
}

func (manager *Manager) setTimetable(tt *timetable.Timetable) {
	index := NewStopIndex(tt.Stops)

	manager.staticMutex.Lock()
	defer manager.staticMutex.Unlock()

	manager.tt = tt
	manager.stopIndex = index
	manager.lastUpdated = time.Now()
	manager.isHealthy = true

	if manager.appMetrics != nil {
		manager.appMetrics.TimetableStops.Set(float64(tt.StopCount()))
		manager.appMetrics.TimetableTrips.Set(float64(len(tt.Trips)))
	}
}

func (manager *Manager) observeRefresh(status string) {
	manager.staticMutex.RLock()
	m := manager.appMetrics
	manager.staticMutex.RUnlock()
	if m != nil {
		m.FeedRefreshesTotal.WithLabelValues(status).Inc()
	}
}

// updateStaticGTFS refreshes the feed on a regular schedule. Local files
// are loaded once and never re-read.
func (manager *Manager) updateStaticGTFS() {
	defer manager.wg.Done()

	logger := slog.Default().With(slog.String("component", "gtfs_static_updater"))

	if manager.isLocalFile {
		logging.LogOperation(logger, "gtfs_source_is_local_file_skipping_periodic_updates",
			slog.String("source", manager.config.GtfsURL))
		return
	}

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			err := manager.ForceUpdate(ctx)
			cancel()

			if err != nil {
				logging.LogError(logger, "Error updating GTFS data", err,
					slog.String("source", manager.config.GtfsURL))
			}

		case <-manager.shutdownChan:
			logging.LogOperation(logger, "shutting_down_static_gtfs_updates")
			return
		}
	}
}
