// Package webui serves the developer-facing debug pages.
package webui

import (
	"net/http"

	"raptor.opentransit.org/internal/app"
)

type WebUI struct {
	*app.Application
}

// New creates a WebUI backed by the shared application dependencies.
func New(application *app.Application) *WebUI {
	return &WebUI{Application: application}
}

// SetRoutes registers the web UI endpoints on the mux.
func (webUI *WebUI) SetRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /debug", webUI.debugIndexHandler)
}
