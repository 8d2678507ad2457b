package restapi

import (
	"encoding/json"
	"net/http"

	"raptor.opentransit.org/internal/logging"
)

// HealthResponse represents the JSON response from the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// healthHandler verifies the timetable and snapshot store are usable.
// It returns 503 Service Unavailable until the manager holds a queryable
// timetable, which keeps load balancers from routing traffic to cold
// instances still loading their feed.
func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Liveness: is the basic infrastructure initialized?
	if api.Application == nil || api.GtfsManager == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status: "unavailable",
			Detail: "transit data manager not initialized",
		})
		return
	}

	// Readiness: is a timetable loaded and indexed?
	if !api.GtfsManager.IsHealthy() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status: "starting",
			Detail: "timetable is being loaded and indexed",
		})
		return
	}

	// Connectivity: is the snapshot store reachable?
	if err := api.GtfsManager.PingSnapshotStore(r.Context()); err != nil {
		logging.LogError(api.Logger, "snapshot store ping failed", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status: "unavailable",
			Detail: "snapshot database connection failed",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(HealthResponse{
		Status: "ok",
	})
}
