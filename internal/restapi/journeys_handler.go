package restapi

import (
	"net/http"
	"runtime"
	"time"

	"raptor.opentransit.org/internal/models"
	"raptor.opentransit.org/internal/raptor"
)

// journeysHandler answers range queries: every non-dominated journey whose
// departure falls inside the requested window.
func (api *RestAPI) journeysHandler(w http.ResponseWriter, r *http.Request) {
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

	fromName := query.Get("from")
	if fromName == "" {
		fieldErrors["from"] = []string{"origin station name is required"}
	}
	toName := query.Get("to")
	if toName == "" {
		fieldErrors["to"] = []string{"destination station name is required"}
	}

	minDeparture, err := parseTimeOfDayParam(query.Get("minDeparture"))
	if err != nil {
		fieldErrors["minDeparture"] = []string{err.Error()}
	}
	maxDeparture, err := parseTimeOfDayParam(query.Get("maxDeparture"))
	if err != nil {
		fieldErrors["maxDeparture"] = []string{err.Error()}
	}
	if len(fieldErrors) == 0 && maxDeparture < minDeparture {
		fieldErrors["maxDeparture"] = []string{"must not be earlier than minDeparture"}
	}

	maxRounds, err := parseMaxRoundsParam(query.Get("maxRounds"))
	if err != nil {
		fieldErrors["maxRounds"] = []string{err.Error()}
	}

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	tt := api.GtfsManager.Timetable()
	origin := tt.Station(fromName)
	destination := tt.Station(toName)
	if origin == nil || destination == nil {
		api.sendNotFound(w, r)
		return
	}

	start := time.Now()
	var journeys []raptor.Journey
	if query.Get("parallel") == "true" {
		workers := runtime.GOMAXPROCS(0)
		journeys = raptor.RunRangeQueryParallel(tt, origin, destination, minDeparture, maxDeparture, maxRounds, workers)
	} else {
		journeys = raptor.RunRangeQuery(tt, origin, destination, minDeparture, maxDeparture, maxRounds)
	}
	api.observeJourneyQuery("range", len(journeys) > 0, time.Since(start))

	response := models.NewListResponse(models.NewJourneyModels(journeys), api.Clock)
	api.sendResponse(w, r, response)
}
