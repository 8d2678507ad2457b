package restapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"raptor.opentransit.org/internal/app"
	"raptor.opentransit.org/internal/appconf"
	"raptor.opentransit.org/internal/clock"
	"raptor.opentransit.org/internal/gtfs"
	"raptor.opentransit.org/internal/timetable"
)

// testTimetable builds a small network: trip 101 runs A to C, trip 202 runs
// C to F from another platform, reachable via a 30 second platform walk.
func testTimetable() *timetable.Timetable {
	tt := timetable.New()
	stationA := tt.AddStation("A")
	stationC := tt.AddStation("C")
	stationF := tt.AddStation("F")

	a := tt.AddStop("a_1", "1", stationA, 52.0900, 5.1100)
	c1 := tt.AddStop("c_1", "1", stationC, 52.1000, 5.1200)
	c2 := tt.AddStop("c_2", "2", stationC, 52.1001, 5.1201)
	f := tt.AddStop("f_1", "1", stationF, 52.1100, 5.1300)

	trip101 := tt.AddTrip(101, "Sprinter 101")
	tt.AddStopTime(trip101, a, 100, 100, 0)
	tt.AddStopTime(trip101, c1, 600, 600, 0)

	trip202 := tt.AddTrip(202, "Sprinter 202")
	tt.AddStopTime(trip202, c2, 660, 660, 0)
	tt.AddStopTime(trip202, f, 1500, 1500, 0)

	tt.AddTransferPair(c1, c2, 30)
	tt.Finalize()
	return tt
}

func newTestAPI(t *testing.T) *RestAPI {
	t.Helper()

	manager := gtfs.NewManagerForTesting(testTimetable())
	t.Cleanup(manager.Shutdown)

	application := &app.Application{
		Config:      appconf.NewConfig(0, appconf.Test, []string{"test"}, 100, false),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		GtfsManager: manager,
		Clock:       clock.NewMockClock(time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)),
	}

	api := New(application)
	t.Cleanup(api.Shutdown)
	return api
}

func serveRequest(t *testing.T, api *RestAPI, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func dataField(t *testing.T, body map[string]interface{}, key string) interface{} {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object")
	value, ok := data[key]
	require.True(t, ok, "data has no %q field", key)
	return value
}
