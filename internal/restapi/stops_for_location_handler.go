package restapi

import (
	"net/http"
	"strconv"

	"raptor.opentransit.org/internal/models"
)

const (
	defaultSearchRadiusMeters = 500.0
	maxSearchRadiusMeters     = 10000.0
)

func (api *RestAPI) stopsForLocationHandler(w http.ResponseWriter, r *http.Request) {
	if api.RequestHasInvalidAPIKey(r) {
		api.sendUnauthorized(w, r)
		return
	}
	if !api.GtfsManager.IsHealthy() {
		api.sendError(w, r, http.StatusServiceUnavailable, "timetable unavailable")
		return
	}

	query := r.URL.Query()
	fieldErrors := map[string][]string{}

	lat, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		fieldErrors["lat"] = []string{"latitude must be a number between -90 and 90"}
	}
	lon, err := strconv.ParseFloat(query.Get("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		fieldErrors["lon"] = []string{"longitude must be a number between -180 and 180"}
	}

	radius := defaultSearchRadiusMeters
	if raw := query.Get("radius"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil || radius <= 0 || radius > maxSearchRadiusMeters {
			fieldErrors["radius"] = []string{"radius must be a positive number of meters, at most 10000"}
		}
	}

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	stops := api.GtfsManager.StopIndex().StopsNear(lat, lon, radius)

	response := models.NewListResponse(models.NewStopModels(stops), api.Clock)
	api.sendResponse(w, r, response)
}
