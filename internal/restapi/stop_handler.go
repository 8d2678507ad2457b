package restapi

import (
	"net/http"

	"raptor.opentransit.org/internal/models"
)

func (api *RestAPI) stopHandler(w http.ResponseWriter, r *http.Request) {
	if api.RequestHasInvalidAPIKey(r) {
		api.sendUnauthorized(w, r)
		return
	}
	if !api.GtfsManager.IsHealthy() {
		api.sendError(w, r, http.StatusServiceUnavailable, "timetable unavailable")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		api.validationErrorResponse(w, r, map[string][]string{
			"id": {"stop id is required"},
		})
		return
	}

	stop := api.GtfsManager.Timetable().Stop(id)
	if stop == nil {
		api.sendNotFound(w, r)
		return
	}

	response := models.NewEntryResponse(models.NewStopModel(stop), api.Clock)
	api.sendResponse(w, r, response)
}
