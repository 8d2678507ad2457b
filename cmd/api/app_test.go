package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3" // CGo-based SQLite driver
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raptor.opentransit.org/internal/app"
	"raptor.opentransit.org/internal/appconf"
	"raptor.opentransit.org/internal/clock"
	"raptor.opentransit.org/internal/gtfs"
	"raptor.opentransit.org/internal/metrics"
	"raptor.opentransit.org/internal/timetable"
)

func TestParseAPIKeys(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Single key",
			input:    "test-key",
			expected: []string{"test-key"},
		},
		{
			name:     "Multiple keys",
			input:    "key1,key2,key3",
			expected: []string{"key1", "key2", "key3"},
		},
		{
			name:     "Keys with spaces",
			input:    " key1 , key2 , key3 ",
			expected: []string{"key1", "key2", "key3"},
		},
		{
			name:     "Empty string",
			input:    "",
			expected: []string{},
		},
		{
			name:     "Trailing comma",
			input:    "key1,",
			expected: []string{"key1", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseAPIKeys(tt.input))
		})
	}
}

func newTestApplication(t *testing.T) *app.Application {
	t.Helper()

	tt := timetable.New()
	station := tt.AddStation("Central")
	tt.AddStop("central_1", "1", station, 52.09, 5.11)
	tt.Finalize()

	manager := gtfs.NewManagerForTesting(tt)
	t.Cleanup(manager.Shutdown)

	appMetrics := metrics.New()
	t.Cleanup(appMetrics.Shutdown)

	return &app.Application{
		Config:      appconf.NewConfig(8080, appconf.Test, []string{"test"}, 100, false),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		GtfsManager: manager,
		Clock:       clock.RealClock{},
		Metrics:     appMetrics,
	}
}

func TestCreateServer(t *testing.T) {
	coreApp := newTestApplication(t)

	srv, api := CreateServer(coreApp, coreApp.Config)
	defer api.Shutdown()

	assert.Equal(t, ":8080", srv.Addr)
	assert.NotNil(t, srv.Handler)
	assert.Equal(t, time.Minute, srv.IdleTimeout)
	assert.Equal(t, 5*time.Second, srv.ReadTimeout)
	assert.Equal(t, 10*time.Second, srv.WriteTimeout)
}

func TestCreateServerHandlerResponds(t *testing.T) {
	coreApp := newTestApplication(t)

	srv, api := CreateServer(coreApp, coreApp.Config)
	defer api.Shutdown()

	req := httptest.NewRequest(http.MethodGet, "/api/where/current-time.json?key=test", nil)
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w = httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBuildApplicationErrorHandling(t *testing.T) {
	cfg := appconf.NewConfig(4000, appconf.Test, []string{"test"}, 100, false)

	gtfsCfg := gtfs.Config{
		GtfsURL: filepath.Join(t.TempDir(), "nonexistent.zip"),
		Env:     appconf.Test,
	}

	_, err := BuildApplication(cfg, gtfsCfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize GTFS manager")
}
