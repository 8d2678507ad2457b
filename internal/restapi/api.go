// Package restapi exposes the journey planner over HTTP.
package restapi

import (
	"net/http"
	"time"

	"raptor.opentransit.org/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
}

// New creates a RestAPI with an initialized per-key rate limiter.
func New(application *app.Application) *RestAPI {
	return &RestAPI{
		Application: application,
		rateLimiter: NewRateLimitMiddleware(application.Config.RateLimit, time.Second, nil, application.Clock),
	}
}

// SetRoutes registers all API endpoints on the mux.
func (api *RestAPI) SetRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/plan/journey.json", api.journeyHandler)
	mux.HandleFunc("GET /api/plan/journeys.json", api.journeysHandler)
	mux.HandleFunc("GET /api/where/current-time.json", api.currentTimeHandler)
	mux.HandleFunc("GET /api/where/station/{name}", api.stationHandler)
	mux.HandleFunc("GET /api/where/stop/{id}", api.stopHandler)
	mux.HandleFunc("GET /api/where/stops-for-location.json", api.stopsForLocationHandler)
	mux.HandleFunc("GET /health", api.healthHandler)
}

// Handler routes the API endpoints and wraps them in the standard
// middleware chain.
func (api *RestAPI) Handler() http.Handler {
	mux := http.NewServeMux()
	api.SetRoutes(mux)
	return api.Middleware(mux)
}

// Middleware wraps an arbitrary handler in the standard middleware chain:
// request IDs, request logging, metrics, rate limiting, compression, and
// cache control, applied outermost first.
func (api *RestAPI) Middleware(handler http.Handler) http.Handler {
	handler = CacheControlMiddleware(0, handler)
	handler = CompressionMiddleware(handler)
	handler = api.rateLimiter.Handler()(handler)
	handler = MetricsHandler(api.Metrics)(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	handler = RequestIDMiddleware(handler)
	return handler
}

// Shutdown stops the rate limiter's background cleanup goroutine.
func (api *RestAPI) Shutdown() {
	api.rateLimiter.Stop()
}
