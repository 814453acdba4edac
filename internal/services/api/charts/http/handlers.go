// Package http provides http transport for charts
package http

import (
	stdhttp "net/http"

	"incidencia/internal/modkit/httpkit"
	"incidencia/internal/services/api/charts/domain"
	svc "incidencia/internal/services/api/charts/service"
)

// Register mounts chart endpoints on the given router
func Register(r httpkit.Router, s *svc.Service) {
	h := &handlers{svc: s}

	// drop-down values for the whole snapshot
	httpkit.Get(r, "/options", h.options)

	httpkit.PostOptionalJSON[domain.Query](r, "/summary", h.summary)
	httpkit.PostOptionalJSON[domain.TopInput](r, "/municipalities", h.municipalities)
	httpkit.PostOptionalJSON[domain.Query](r, "/annual", h.annual)
	httpkit.PostOptionalJSON[domain.Query](r, "/crime-types", h.crimeTypes)
	httpkit.PostOptionalJSON[domain.Query](r, "/crime-types/by-year", h.crimeTypesByYear)

	// map layers
	httpkit.PostOptionalJSON[domain.MarkersInput](r, "/markers", h.markers)
	httpkit.PostOptionalJSON[domain.HeatmapInput](r, "/heatmap", h.heatmap)
}

type handlers struct{ svc *svc.Service }

// @Summary Filter options
// @Tags Charts
// @Produce json
// @Success 200 {object} domain.Options "ok"
// @Router /charts/options [get]
func (h *handlers) options(r *stdhttp.Request) (any, error) {
	return h.svc.Options(r.Context())
}

// @Summary Records and victims
// @Tags Charts
// @Accept json
// @Produce json
// @Param payload body domain.Query false "Criteria"
// @Success 200 {object} domain.SummaryResult "ok"
// @Router /charts/summary [post]
func (h *handlers) summary(r *stdhttp.Request, in domain.Query) (any, error) {
	return h.svc.Summary(r.Context(), in)
}

// @Summary Top municipalities by victims
// @Tags Charts
// @Accept json
// @Produce json
// @Param payload body domain.TopInput false "Criteria and limit"
// @Success 200 {object} domain.StackedResult "ok"
// @Router /charts/municipalities [post]
func (h *handlers) municipalities(r *stdhttp.Request, in domain.TopInput) (any, error) {
	return h.svc.Municipalities(r.Context(), in)
}

// @Summary Victims per year, metro area versus interior
// @Tags Charts
// @Accept json
// @Produce json
// @Param payload body domain.Query false "Criteria"
// @Success 200 {object} domain.StackedResult "ok"
// @Router /charts/annual [post]
func (h *handlers) annual(r *stdhttp.Request, in domain.Query) (any, error) {
	return h.svc.Annual(r.Context(), in)
}

// @Summary Victims per municipality by crime type
// @Tags Charts
// @Accept json
// @Produce json
// @Param payload body domain.Query false "Criteria"
// @Success 200 {object} domain.StackedResult "ok"
// @Router /charts/crime-types [post]
func (h *handlers) crimeTypes(r *stdhttp.Request, in domain.Query) (any, error) {
	return h.svc.CrimeTypes(r.Context(), in)
}

// @Summary Records per year by crime type
// @Tags Charts
// @Accept json
// @Produce json
// @Param payload body domain.Query false "Criteria"
// @Success 200 {object} domain.StackedResult "ok"
// @Router /charts/crime-types/by-year [post]
func (h *handlers) crimeTypesByYear(r *stdhttp.Request, in domain.Query) (any, error) {
	return h.svc.CrimeTypesByYear(r.Context(), in)
}

// @Summary Map markers
// @Tags Charts
// @Accept json
// @Produce json
// @Param payload body domain.MarkersInput false "Criteria, years and crime types"
// @Success 200 {object} domain.MarkersResult "ok"
// @Router /charts/markers [post]
func (h *handlers) markers(r *stdhttp.Request, in domain.MarkersInput) (any, error) {
	return h.svc.Markers(r.Context(), in)
}

// @Summary Heat layer
// @Tags Charts
// @Accept json
// @Produce json
// @Param payload body domain.HeatmapInput false "Criteria and weighting"
// @Success 200 {object} domain.HeatmapResult "ok"
// @Router /charts/heatmap [post]
func (h *handlers) heatmap(r *stdhttp.Request, in domain.HeatmapInput) (any, error) {
	return h.svc.Heatmap(r.Context(), in)
}
