package restapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"raptor.opentransit.org/internal/models"
	"raptor.opentransit.org/internal/raptor"
	"raptor.opentransit.org/internal/utils"
)

const (
	defaultMaxRounds = 8
	maxRoundsLimit   = 16
)

func (api *RestAPI) journeyHandler(w http.ResponseWriter, r *http.Request) {
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

	departure, err := parseTimeOfDayParam(query.Get("departure"))
	if err != nil {
		fieldErrors["departure"] = []string{err.Error()}
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
	journey, ok := raptor.PlanJourney(tt, origin, destination, departure, maxRounds)
	api.observeJourneyQuery("single", ok, time.Since(start))

	if !ok {
		api.sendError(w, r, http.StatusNotFound, "no journey found")
		return
	}

	response := models.NewEntryResponse(models.NewJourneyModel(journey), api.Clock)
	api.sendResponse(w, r, response)
}

func (api *RestAPI) observeJourneyQuery(kind string, found bool, elapsed time.Duration) {
	if api.Metrics == nil {
		return
	}
	status := "found"
	if !found {
		status = "not_found"
	}
	api.Metrics.ObserveJourneyQuery(kind, status, elapsed)
}

// parseTimeOfDayParam accepts either "HH:MM:SS" or plain seconds since
// midnight.
func parseTimeOfDayParam(value string) (int, error) {
	if secs, err := strconv.Atoi(value); err == nil {
		return secs, nil
	}
	return utils.ParseTimeOfDay(value)
}

func parseIntParam(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}

// parseMaxRoundsParam bounds the client-supplied round count: each round
// allocates a full label array, so unbounded values are a memory hazard and
// non-positive ones are meaningless.
func parseMaxRoundsParam(value string) (int, error) {
	rounds, err := parseIntParam(value, defaultMaxRounds)
	if err != nil || rounds < 1 || rounds > maxRoundsLimit {
		return 0, fmt.Errorf("must be an integer between 1 and %d", maxRoundsLimit)
	}
	return rounds, nil
}
