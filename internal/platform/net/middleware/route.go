package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// routePattern returns chi's matched pattern (e.g. /api/v1/pivot/sessions/{id})
// so metrics labels stay bounded; unmatched requests collapse to "unmatched"
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
