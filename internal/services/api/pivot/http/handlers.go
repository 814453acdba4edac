// Package http provides http transport for pivot sessions
package http

import (
	stdhttp "net/http"

	"incidencia/internal/core/filter"
	"incidencia/internal/modkit/httpkit"
	"incidencia/internal/platform/logger"
	"incidencia/internal/services/api/pivot/domain"
)

// Register mounts the session endpoints on r
func Register(r httpkit.Router, svc domain.SessionPort) {
	h := &handlers{svc: svc}

	// body is optional; defaults apply when omitted
	httpkit.PostOptionalJSON[domain.CreateInput](r, "/sessions", h.create)

	httpkit.Get(r, "/sessions/{id}", h.get)
	httpkit.Delete(r, "/sessions/{id}", h.remove)
	httpkit.PutJSON[domain.CrimeTypesInput](r, "/sessions/{id}/crime-types", h.crimeTypes)
	httpkit.PutJSON[filter.Criteria](r, "/sessions/{id}/filter", h.filter)
	httpkit.PostJSON[domain.ToggleRowInput](r, "/sessions/{id}/rows/toggle", h.toggleRow)
	httpkit.PostJSON[domain.ToggleYearInput](r, "/sessions/{id}/years/toggle", h.toggleYear)
}

type handlers struct{ svc domain.SessionPort }

func sessionOf(r *stdhttp.Request) (*stdhttp.Request, string) {
	id := httpkit.Param(r, "id")
	return r.WithContext(logger.WithSession(r.Context(), id)), id
}

// @Summary Open a pivot session
// @Tags Pivot
// @Accept json
// @Produce json
// @Param payload body domain.CreateInput false "Initial selection"
// @Success 201 {object} domain.View "created"
// @Router /pivot/sessions [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	v, err := h.svc.Create(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(v), nil
}

// @Summary Render a pivot session
// @Tags Pivot
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} domain.View "ok"
// @Failure 404 {object} httpkit.Envelope "unknown or expired session"
// @Router /pivot/sessions/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	r, id := sessionOf(r)
	return h.svc.Get(r.Context(), id)
}

// @Summary Close a pivot session
// @Tags Pivot
// @Param id path string true "Session id"
// @Success 204 "closed"
// @Failure 404 {object} httpkit.Envelope "unknown session"
// @Router /pivot/sessions/{id} [delete]
func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	r, id := sessionOf(r)
	if err := h.svc.Delete(r.Context(), id); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

// @Summary Replace the crime type selection
// @Tags Pivot
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param payload body domain.CrimeTypesInput true "Selection"
// @Success 200 {object} domain.View "ok"
// @Router /pivot/sessions/{id}/crime-types [put]
func (h *handlers) crimeTypes(r *stdhttp.Request, in domain.CrimeTypesInput) (any, error) {
	r, id := sessionOf(r)
	return h.svc.SetCrimeTypes(r.Context(), id, in)
}

// @Summary Replace the dashboard filter
// @Tags Pivot
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param payload body filter.Criteria true "Criteria"
// @Success 200 {object} domain.View "ok"
// @Router /pivot/sessions/{id}/filter [put]
func (h *handlers) filter(r *stdhttp.Request, c filter.Criteria) (any, error) {
	r, id := sessionOf(r)
	return h.svc.SetFilter(r.Context(), id, c)
}

// @Summary Expand or collapse a row
// @Tags Pivot
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param payload body domain.ToggleRowInput true "Row"
// @Success 200 {object} domain.ToggleResult "ok"
// @Router /pivot/sessions/{id}/rows/toggle [post]
func (h *handlers) toggleRow(r *stdhttp.Request, in domain.ToggleRowInput) (any, error) {
	r, id := sessionOf(r)
	return h.svc.ToggleRow(r.Context(), id, in)
}

// @Summary Expand or collapse a year column
// @Tags Pivot
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param payload body domain.ToggleYearInput true "Year"
// @Success 200 {object} domain.ToggleResult "ok"
// @Router /pivot/sessions/{id}/years/toggle [post]
func (h *handlers) toggleYear(r *stdhttp.Request, in domain.ToggleYearInput) (any, error) {
	r, id := sessionOf(r)
	return h.svc.ToggleYear(r.Context(), id, in)
}
