package service

import (
	"context"
	"testing"

	"incidencia/internal/core/charts"
	"incidencia/internal/core/filter"
	"incidencia/internal/core/incident"
	"incidencia/internal/services/api/charts/domain"
	ingdom "incidencia/internal/services/ingest/domain"
)

type snaps struct{ s ingdom.Snapshot }

func (f snaps) Current() ingdom.Snapshot { return f.s }

func fixture() *Service {
	recs := []incident.Record{
		{Municipality: "Guadalajara", CrimeType: "Feminicidio", Year: 2023, Month: 1, Victims: 1, Lat: 20.6, Lon: -103.3, HasCoordinates: true},
		{Municipality: "Zapopan", CrimeType: "Violación", Year: 2024, Month: 5, Victims: 2, Lat: 20.7, Lon: -103.4, HasCoordinates: true},
		{Municipality: "Zapopan", CrimeType: "Violencia familiar", Year: 2024, Month: 7, Victims: 1},
		{Municipality: "Colotlán", CrimeType: "Feminicidio", Year: 2022, Month: 2, Victims: 1, Lat: 22.1, Lon: -103.2, HasCoordinates: true},
	}
	return New(snaps{ingdom.Snapshot{Version: 9, Records: recs}})
}

func TestSummaryAndFilter(t *testing.T) {
	s := fixture()
	ctx := context.Background()

	all, _ := s.Summary(ctx, domain.Query{})
	if all.Version != 9 || all.Records != 4 || all.Chart.Victims != 5 {
		t.Fatalf("summary = %+v", all)
	}

	zap, _ := s.Summary(ctx, domain.Query{Filter: filter.Criteria{Municipality: "Zapopan"}})
	if zap.Records != 2 || zap.Chart.Victims != 3 {
		t.Fatalf("zapopan summary = %+v", zap)
	}
}

func TestMunicipalitiesLimit(t *testing.T) {
	s := fixture()
	res, _ := s.Municipalities(context.Background(), domain.TopInput{Limit: 1})
	if len(res.Chart.Categories) != 1 || res.Chart.Categories[0] != "Zapopan" {
		t.Fatalf("categories = %v", res.Chart.Categories)
	}

	res, _ = s.Municipalities(context.Background(), domain.TopInput{})
	if len(res.Chart.Categories) != 3 {
		t.Fatalf("default limit categories = %v", res.Chart.Categories)
	}
}

func TestAnnualSplitsInterior(t *testing.T) {
	res, _ := fixture().Annual(context.Background(), domain.Query{})
	var interior []int
	for _, ser := range res.Chart.Series {
		if ser.Label == charts.InteriorLabel {
			interior = ser.Values
		}
	}
	// years 2022, 2023, 2024; only Colotlán is outside the metro area
	if len(interior) != 3 || interior[0] != 1 || interior[1] != 0 || interior[2] != 0 {
		t.Fatalf("interior = %v", interior)
	}
}

func TestMarkersAndHeatmap(t *testing.T) {
	s := fixture()
	ctx := context.Background()

	cases := []struct {
		name string
		in   domain.MarkersInput
		want int
	}{
		{"all located", domain.MarkersInput{}, 3},
		{"by year", domain.MarkersInput{Years: []incident.Year{2024}}, 1},
		{"by crime type", domain.MarkersInput{CrimeTypes: []string{"feminicidio"}}, 2},
		{"filtered out", domain.MarkersInput{Query: domain.Query{Filter: filter.Criteria{Municipality: "Tonala"}}}, 0},
	}
	for _, c := range cases {
		res, _ := s.Markers(ctx, c.in)
		if len(res.Chart) != c.want {
			t.Fatalf("%s: markers = %d, want %d", c.name, len(res.Chart), c.want)
		}
	}

	h, _ := s.Heatmap(ctx, domain.HeatmapInput{Weighted: true})
	if len(h.Chart.Points) != 3 || h.Chart.Max != 2 {
		t.Fatalf("weighted heatmap = %+v", h.Chart)
	}
}

func TestOptions(t *testing.T) {
	o, _ := fixture().Options(context.Background())
	if len(o.Municipalities) != 3 || o.Municipalities[0] != "Colotlán" {
		t.Fatalf("municipalities = %v", o.Municipalities)
	}
	if len(o.Years) != 3 || o.Years[0] != 2022 || o.Years[2] != 2024 {
		t.Fatalf("years = %v", o.Years)
	}
	if o.Defaults.StartYear != filter.DefaultStartYear {
		t.Fatalf("defaults = %+v", o.Defaults)
	}

	empty, _ := New(snaps{}).Options(context.Background())
	if empty.Municipalities == nil || empty.CrimeTypes == nil || len(empty.Years) != 0 {
		t.Fatalf("empty options = %+v", empty)
	}
}
