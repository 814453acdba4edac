package http

import httpSwagger "github.com/swaggo/http-swagger"

// MountSwagger serves the swagger UI under prefix when enabled. The UI loads
// its document from docURL.
func MountSwagger(r Router, prefix, docURL string, enabled bool) {
	if !enabled {
		return
	}
	r.Handle(prefix+"/*", httpSwagger.Handler(
		httpSwagger.URL(docURL),
		httpSwagger.DocExpansion("list"),
	))
}
