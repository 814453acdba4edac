// Package domain defines the pivot session API types
package domain

import (
	"time"

	"incidencia/internal/core/filter"
	"incidencia/internal/core/incident"
	"incidencia/internal/core/pivot"
)

// CreateInput seeds a new session; every field is optional
type CreateInput struct {
	CrimeTypes []string         `json:"crime_types,omitempty"`
	Filter     *filter.Criteria `json:"filter,omitempty"`
}

// CrimeTypesInput replaces the crime type selection. An empty list keeps
// every record.
type CrimeTypesInput struct {
	CrimeTypes []string `json:"crime_types"`
}

// ToggleRowInput names a zone, municipality or crime type row
type ToggleRowInput struct {
	ID string `json:"id" validate:"required,nonblank"`
}

// ToggleYearInput names a year column; 0 is the unknown-year column
type ToggleYearInput struct {
	Year *incident.Year `json:"year" validate:"required,min=0,max=9999"`
}

// View is a rendered session
type View struct {
	ID            string          `json:"id"`
	Version       uint64          `json:"version"`
	CrimeTypes    []string        `json:"crime_types"`
	Filter        filter.Criteria `json:"filter"`
	ExpandedRows  []string        `json:"expanded_rows"`
	ExpandedYears []incident.Year `json:"expanded_years"`
	ExpiresAt     time.Time       `json:"expires_at"`
	Table         pivot.Table     `json:"table"`
}

// ToggleResult is a View plus what the toggle did. Applied is false when
// the id or year was unknown and nothing changed.
type ToggleResult struct {
	Applied  bool `json:"applied"`
	Expanded bool `json:"expanded"`
	View
}
