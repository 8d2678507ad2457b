package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStationHandler(t *testing.T) {
	api := newTestAPI(t)

	rec := serveRequest(t, api, "/api/where/station/C?key=test")
	require.Equal(t, http.StatusOK, rec.Code)

	entry, ok := dataField(t, decodeBody(t, rec), "entry").(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "C", entry["name"])

	stops, ok := entry["stops"].([]interface{})
	require.True(t, ok)
	assert.Len(t, stops, 2)
}

func TestStationHandlerNotFound(t *testing.T) {
	api := newTestAPI(t)

	rec := serveRequest(t, api, "/api/where/station/Nowhere?key=test")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStopHandler(t *testing.T) {
	api := newTestAPI(t)

	rec := serveRequest(t, api, "/api/where/stop/c_2?key=test")
	require.Equal(t, http.StatusOK, rec.Code)

	entry, ok := dataField(t, decodeBody(t, rec), "entry").(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "c_2", entry["id"])
	assert.Equal(t, "C-2", entry["displayId"])
	assert.Equal(t, "2", entry["platformCode"])
}

func TestStopHandlerNotFound(t *testing.T) {
	api := newTestAPI(t)

	rec := serveRequest(t, api, "/api/where/stop/zzz?key=test")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStopsForLocationHandler(t *testing.T) {
	api := newTestAPI(t)

	rec := serveRequest(t, api, "/api/where/stops-for-location.json?key=test&lat=52.1000&lon=5.1200&radius=100")
	require.Equal(t, http.StatusOK, rec.Code)

	list, ok := dataField(t, decodeBody(t, rec), "list").([]interface{})
	require.True(t, ok)
	require.Len(t, list, 2)

	stop := list[0].(map[string]interface{})
	assert.Equal(t, "C", stop["station"])
}

func TestStopsForLocationHandlerValidatesCoordinates(t *testing.T) {
	api := newTestAPI(t)

	rec := serveRequest(t, api, "/api/where/stops-for-location.json?key=test&lat=notanumber&lon=5.12")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	fieldErrors, ok := body["fieldErrors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fieldErrors, "lat")

	rec = serveRequest(t, api, "/api/where/stops-for-location.json?key=test&lat=52.1&lon=5.12&radius=99999")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCurrentTimeHandler(t *testing.T) {
	api := newTestAPI(t)

	rec := serveRequest(t, api, "/api/where/current-time.json?key=test")
	require.Equal(t, http.StatusOK, rec.Code)

	entry, ok := decodeBody(t, rec)["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(api.Clock.NowUnixMilli()), entry["time"])
	assert.NotEmpty(t, entry["readableTime"])
}

func TestCurrentTimeHandlerUnhealthy(t *testing.T) {
	api := newTestAPI(t)
	api.GtfsManager.MockSetUnhealthy()

	rec := serveRequest(t, api, "/api/where/current-time.json?key=test")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	api := newTestAPI(t)

	rec := serveRequest(t, api, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestHealthHandlerUnhealthyManager(t *testing.T) {
	api := newTestAPI(t)
	api.GtfsManager.MockSetUnhealthy()

	rec := serveRequest(t, api, "/health")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "starting", decodeBody(t, rec)["status"])
}
