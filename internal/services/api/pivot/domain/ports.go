package domain

import (
	"context"

	"incidencia/internal/core/filter"
)

// SessionPort drives pivot sessions
type SessionPort interface {
	Create(ctx context.Context, in CreateInput) (View, error)
	Get(ctx context.Context, id string) (View, error)
	SetCrimeTypes(ctx context.Context, id string, in CrimeTypesInput) (View, error)
	SetFilter(ctx context.Context, id string, c filter.Criteria) (View, error)
	ToggleRow(ctx context.Context, id string, in ToggleRowInput) (ToggleResult, error)
	ToggleYear(ctx context.Context, id string, in ToggleYearInput) (ToggleResult, error)
	Delete(ctx context.Context, id string) error
}
