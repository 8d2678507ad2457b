package webui

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"raptor.opentransit.org/internal/app"
	"raptor.opentransit.org/internal/appconf"
	"raptor.opentransit.org/internal/gtfs"
	"raptor.opentransit.org/internal/timetable"
)

func newTestWebUI(env appconf.Environment) *WebUI {
	tt := timetable.New()
	station := tt.AddStation("Central")
	tt.AddStop("central_1", "1", station, 52.09, 5.11)
	tt.Finalize()

	return New(&app.Application{
		Config:      appconf.Config{Env: env},
		GtfsManager: gtfs.NewManagerForTesting(tt),
	})
}

func TestDebugIndexHandlerProductionReturns404(t *testing.T) {
	webUI := newTestWebUI(appconf.Production)

	req := httptest.NewRequest(http.MethodGet, "/debug?dataType=stations", nil)
	rr := httptest.NewRecorder()

	webUI.debugIndexHandler(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDebugIndexHandlerRendersStations(t *testing.T) {
	webUI := newTestWebUI(appconf.Development)

	req := httptest.NewRequest(http.MethodGet, "/debug?dataType=stations", nil)
	rr := httptest.NewRecorder()

	webUI.debugIndexHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Central")
}

func TestDebugIndexHandlerUnknownDataType(t *testing.T) {
	webUI := newTestWebUI(appconf.Development)

	req := httptest.NewRequest(http.MethodGet, "/debug?dataType=bogus", nil)
	rr := httptest.NewRecorder()

	webUI.debugIndexHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Choose a data type")
}
