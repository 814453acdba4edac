// Package service computes chart data from the live snapshot
package service

import (
	"context"
	"sort"

	"incidencia/internal/core/charts"
	"incidencia/internal/core/filter"
	"incidencia/internal/core/incident"
	"incidencia/internal/core/pivot"
	"incidencia/internal/platform/logger"
	"incidencia/internal/services/api/charts/domain"
	ingdom "incidencia/internal/services/ingest/domain"
)

// Service is the charts service
type Service struct {
	snaps ingdom.SnapshotPort
}

// New constructs the charts service
func New(snaps ingdom.SnapshotPort) *Service {
	if snaps == nil {
		panic("charts.Service requires a non nil SnapshotPort")
	}
	return &Service{snaps: snaps}
}

// load applies q to the current snapshot
func (s *Service) load(ctx context.Context, q domain.Query, chart string) (uint64, []incident.Record) {
	snap := s.snaps.Current()
	recs := filter.Apply(snap.Records, q.Filter)
	logger.C(ctx).Debug().
		Str("chart", chart).
		Uint64("version", snap.Version).
		Int("records", len(recs)).
		Msg("charts: computing")
	return snap.Version, recs
}

func result[T any](version uint64, recs []incident.Record, chart T) domain.Result[T] {
	return domain.Result[T]{Version: version, Records: len(recs), Chart: chart}
}

// Summary counts records and victims
func (s *Service) Summary(ctx context.Context, q domain.Query) (domain.SummaryResult, error) {
	v, recs := s.load(ctx, q, "summary")
	return result(v, recs, charts.Summarize(recs)), nil
}

// Municipalities ranks municipalities by victims, stacked by year
func (s *Service) Municipalities(ctx context.Context, in domain.TopInput) (domain.StackedResult, error) {
	n := in.Limit
	if n <= 0 {
		n = domain.DefaultTop
	}
	v, recs := s.load(ctx, in.Query, "municipalities")
	return result(v, recs, charts.TopMunicipalities(recs, n)), nil
}

// Annual splits victims per year between the metro area and the interior
func (s *Service) Annual(ctx context.Context, q domain.Query) (domain.StackedResult, error) {
	v, recs := s.load(ctx, q, "annual")
	return result(v, recs, charts.AnnualByMetro(recs)), nil
}

// CrimeTypes stacks victims per municipality by crime type
func (s *Service) CrimeTypes(ctx context.Context, q domain.Query) (domain.StackedResult, error) {
	v, recs := s.load(ctx, q, "crime-types")
	return result(v, recs, charts.CrimeTypesByMunicipality(recs)), nil
}

// CrimeTypesByYear stacks record counts per year by crime type
func (s *Service) CrimeTypesByYear(ctx context.Context, q domain.Query) (domain.StackedResult, error) {
	v, recs := s.load(ctx, q, "crime-types-by-year")
	return result(v, recs, charts.CrimeTypesByYear(recs)), nil
}

// Markers returns the map points
func (s *Service) Markers(ctx context.Context, in domain.MarkersInput) (domain.MarkersResult, error) {
	v, recs := s.load(ctx, in.Query, "markers")
	return result(v, recs, charts.Markers(recs, in.Years, pivot.NewCrimeTypeSet(in.CrimeTypes...))), nil
}

// Heatmap returns the heat layer points
func (s *Service) Heatmap(ctx context.Context, in domain.HeatmapInput) (domain.HeatmapResult, error) {
	v, recs := s.load(ctx, in.Query, "heatmap")
	return result(v, recs, charts.HeatmapOf(recs, in.Weighted)), nil
}

// Options lists what the drop-downs can offer for the whole snapshot
func (s *Service) Options(_ context.Context) (domain.Options, error) {
	snap := s.snaps.Current()
	seen := map[incident.Year]bool{}
	years := []incident.Year{}
	for _, r := range snap.Records {
		if r.Year.Known() && !seen[r.Year] {
			seen[r.Year] = true
			years = append(years, r.Year)
		}
	}
	sort.Slice(years, func(i, j int) bool { return years[i] < years[j] })

	out := domain.Options{
		Version:        snap.Version,
		Municipalities: filter.Municipalities(snap.Records),
		CrimeTypes:     filter.CrimeTypes(snap.Records),
		Years:          years,
		Defaults:       filter.Defaults(),
	}
	if out.Municipalities == nil {
		out.Municipalities = []string{}
	}
	if out.CrimeTypes == nil {
		out.CrimeTypes = []string{}
	}
	return out, nil
}
