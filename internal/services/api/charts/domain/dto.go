// Package domain holds charts API inputs and outputs
package domain

import (
	"incidencia/internal/core/charts"
	"incidencia/internal/core/filter"
	"incidencia/internal/core/incident"
)

// DefaultTop is how many municipalities the ranking shows by default
const DefaultTop = 10

// Query narrows the snapshot with the dashboard criteria
type Query struct {
	Filter filter.Criteria `json:"filter"`
}

// TopInput ranks municipalities by victims
type TopInput struct {
	Query
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=125"`
}

// MarkersInput picks map points by year and crime type checkbox
type MarkersInput struct {
	Query
	Years      []incident.Year `json:"years,omitempty"`
	CrimeTypes []string        `json:"crime_types,omitempty" validate:"max=16,dive,nonblank"`
}

// HeatmapInput chooses between concentration and victim weighting
type HeatmapInput struct {
	Query
	Weighted bool `json:"weighted"`
}

// Result tags a chart with the snapshot it was computed from
type Result[T any] struct {
	Version uint64 `json:"version"`
	Records int    `json:"records"`
	Chart   T      `json:"chart"`
}

// Options feeds the dashboard drop-downs
type Options struct {
	Version        uint64          `json:"version"`
	Municipalities []string        `json:"municipalities"`
	CrimeTypes     []string        `json:"crime_types"`
	Years          []incident.Year `json:"years"`
	Defaults       filter.Criteria `json:"defaults"`
}

// Named chart results, for the swagger annotations
type (
	SummaryResult = Result[charts.Summary]
	StackedResult = Result[charts.Stacked]
	MarkersResult = Result[[]charts.Marker]
	HeatmapResult = Result[charts.Heatmap]
)
