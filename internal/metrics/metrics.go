// Package metrics provides Prometheus metrics for the journey planner.
package metrics

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Registry is the Prometheus registry for this metrics instance
	Registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Journey planning metrics
	JourneyQueriesTotal  *prometheus.CounterVec
	JourneyQueryDuration *prometheus.HistogramVec
	SearchRounds         prometheus.Histogram

	// Timetable metrics
	TimetableStops     prometheus.Gauge
	TimetableTrips     prometheus.Gauge
	FeedRefreshesTotal *prometheus.CounterVec

	// Snapshot store metrics
	DBConnectionsOpen  prometheus.Gauge
	DBConnectionsInUse prometheus.Gauge
	DBWaitSecondsTotal prometheus.Counter

	logger *slog.Logger

	// collectorStarted prevents spawning multiple collector goroutines
	collectorStarted atomic.Bool
	cancel           context.CancelFunc
	wg               sync.WaitGroup
}

// New creates and registers all application metrics with a new registry.
func New() *Metrics {
	return NewWithLogger(nil)
}

// NewWithLogger creates metrics with a logger for error reporting.
func NewWithLogger(logger *slog.Logger) *Metrics {
	registry := prometheus.NewRegistry()

	httpRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "raptor_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "raptor_http_request_duration_seconds",
			Help:    "HTTP request latency distribution",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	journeyQueriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "raptor_journey_queries_total",
			Help: "Total number of journey planning queries",
		},
		[]string{"kind", "status"},
	)

	journeyQueryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "raptor_journey_query_duration_seconds",
			Help:    "Journey planning query latency distribution",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"kind"},
	)

	searchRounds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "raptor_search_rounds",
		Help:    "Rounds executed per point query before the marked set drained",
		Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10},
	})

	timetableStops := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "raptor_timetable_stops",
		Help: "Number of stops in the active timetable",
	})

	timetableTrips := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "raptor_timetable_trips",
		Help: "Number of trips in the active timetable",
	})

	feedRefreshesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "raptor_feed_refreshes_total",
			Help: "Total number of feed refresh attempts",
		},
		[]string{"status"},
	)

	dbConnectionsOpen := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "raptor_db_connections_open",
		Help: "Number of open snapshot store connections",
	})

	dbConnectionsInUse := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "raptor_db_connections_in_use",
		Help: "Number of snapshot store connections currently in use",
	})

	dbWaitSecondsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "raptor_db_wait_seconds_total",
		Help: "Total time blocked waiting for a snapshot store connection",
	})

	registry.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		journeyQueriesTotal,
		journeyQueryDuration,
		searchRounds,
		timetableStops,
		timetableTrips,
		feedRefreshesTotal,
		dbConnectionsOpen,
		dbConnectionsInUse,
		dbWaitSecondsTotal,
	)

	return &Metrics{
		Registry:             registry,
		HTTPRequestsTotal:    httpRequestsTotal,
		HTTPRequestDuration:  httpRequestDuration,
		JourneyQueriesTotal:  journeyQueriesTotal,
		JourneyQueryDuration: journeyQueryDuration,
		SearchRounds:         searchRounds,
		TimetableStops:       timetableStops,
		TimetableTrips:       timetableTrips,
		FeedRefreshesTotal:   feedRefreshesTotal,
		DBConnectionsOpen:    dbConnectionsOpen,
		DBConnectionsInUse:   dbConnectionsInUse,
		DBWaitSecondsTotal:   dbWaitSecondsTotal,
		logger:               logger,
	}
}

// ObserveJourneyQuery records the outcome and latency of one planning
// query. kind is "point" or "range".
func (m *Metrics) ObserveJourneyQuery(kind, status string, elapsed time.Duration) {
	m.JourneyQueriesTotal.WithLabelValues(kind, status).Inc()
	m.JourneyQueryDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// StartDBStatsCollector starts a goroutine that periodically collects
// snapshot store connection pool statistics. Idempotent; call Shutdown to
// stop the collector.
func (m *Metrics) StartDBStatsCollector(db *sql.DB, interval time.Duration) {
	if db == nil {
		return
	}

	if !m.collectorStarted.CompareAndSwap(false, true) {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	var lastWaitDuration time.Duration

	// Add to WaitGroup before exposing cancel to avoid a race with Shutdown
	m.wg.Add(1)
	m.cancel = cancel

	go func() {
		defer m.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				if m.logger != nil {
					m.logger.Error("panic in DB stats collector", "error", r)
				}
			}
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				stats := db.Stats()
				m.DBConnectionsOpen.Set(float64(stats.OpenConnections))
				m.DBConnectionsInUse.Set(float64(stats.InUse))

				waitDelta := stats.WaitDuration - lastWaitDuration
				if waitDelta > 0 {
					m.DBWaitSecondsTotal.Add(waitDelta.Seconds())
				}
				lastWaitDuration = stats.WaitDuration

			case <-ctx.Done():
				return
			}
		}
	}()
}

// Shutdown stops the DB stats collector goroutine and waits for it to
// exit. Safe to call multiple times.
func (m *Metrics) Shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}
