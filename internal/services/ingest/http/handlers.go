// Package http provides http transport for ingest
package http

import (
	stdhttp "net/http"

	"incidencia/internal/modkit/httpkit"
	"incidencia/internal/platform/net/middleware"
	"incidencia/internal/services/ingest/domain"
)

// Register mounts the ingest endpoints; refresh sits behind auth
func Register(r httpkit.Router, svc domain.RefresherPort, auth middleware.Authenticator) {
	h := &handlers{svc: svc}

	// current snapshot and last attempt
	httpkit.Get(r, "/status", h.status)

	httpkit.Protected(r, auth, func(pr httpkit.Router) {
		// fetch the sheet now, bypassing conditional GET
		httpkit.Post(pr, "/refresh", h.refresh)
	})
}

type handlers struct{ svc domain.RefresherPort }

// @Summary Ingest status
// @Tags Ingest
// @Produce json
// @Success 200 {object} domain.Status "ok"
// @Router /ingest/status [get]
func (h *handlers) status(_ *stdhttp.Request) (any, error) {
	return h.svc.Status(), nil
}

// @Summary Refresh the incident data now
// @Tags Ingest
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.RefreshResult "ok"
// @Failure 401 {object} httpkit.Envelope "missing or wrong token"
// @Failure 502 {object} httpkit.Envelope "sheet unavailable"
// @Router /ingest/refresh [post]
func (h *handlers) refresh(r *stdhttp.Request) (any, error) {
	return h.svc.Refresh(r.Context(), true)
}
