package restapi

import (
	"net/http"

	"raptor.opentransit.org/internal/models"
)

// currentTimeHandler writes a JSON response with information about the
// current server time.
func (api *RestAPI) currentTimeHandler(w http.ResponseWriter, r *http.Request) {
	if !api.GtfsManager.IsHealthy() {
		http.Error(w, "Service Unavailable: timetable invalid", http.StatusServiceUnavailable)
		return
	}

	timeData := models.NewCurrentTimeData(api.Clock.Now())
	response := models.NewOKResponse(timeData, api.Clock)

	api.sendResponse(w, r, response)
}
