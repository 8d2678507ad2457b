package restapi

import (
	"net/http"

	"raptor.opentransit.org/internal/models"
)

func (api *RestAPI) stationHandler(w http.ResponseWriter, r *http.Request) {
	if api.RequestHasInvalidAPIKey(r) {
		api.sendUnauthorized(w, r)
		return
	}
	if !api.GtfsManager.IsHealthy() {
		api.sendError(w, r, http.StatusServiceUnavailable, "timetable unavailable")
		return
	}

	name := r.PathValue("name")
	if name == "" {
		api.validationErrorResponse(w, r, map[string][]string{
			"name": {"station name is required"},
		})
		return
	}

	station := api.GtfsManager.Timetable().Station(name)
	if station == nil {
		api.sendNotFound(w, r)
		return
	}

	response := models.NewEntryResponse(models.NewStationModel(station), api.Clock)
	api.sendResponse(w, r, response)
}
