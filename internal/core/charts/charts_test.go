package charts

import (
	"reflect"
	"testing"

	"incidencia/internal/core/incident"
	"incidencia/internal/core/pivot"
)

func rec(mun, crime string, y incident.Year, victims int) incident.Record {
	return incident.Record{Municipality: mun, CrimeType: crime, Year: y, Month: 1, Victims: victims}
}

func sample() []incident.Record {
	return []incident.Record{
		rec("Zapopan", "Feminicidio", 2023, 2),
		rec("Guadalajara", "Violencia familiar", 2023, 1),
		rec("ZAPOPAN", "Violación", 2024, 1),
		rec("Tlajomulco de Zuñiga", "Robo", 2024, 3),
		rec("Ameca", "Abuso sexual infantil", 2022, 1),
		rec("Zapopan", "Feminicidio", 2024, 1),
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize(sample())
	if got != (Summary{Records: 6, Victims: 9}) {
		t.Fatalf("Summarize = %+v", got)
	}
	if got := Summarize(nil); got != (Summary{}) {
		t.Fatalf("Summarize(nil) = %+v", got)
	}
}

func TestMetroBucket(t *testing.T) {
	cases := map[string]string{
		"zapopan":               "Zapopan",
		"  TONALÁ ":             "Tonala",
		"Tlajomulco de Zuniga":  "Tlajomulco de Zúñiga",
		"Ameca":                 InteriorLabel,
		"":                      InteriorLabel,
		"San Pedro Tlaquepaque": "San Pedro Tlaquepaque",
	}
	for in, want := range cases {
		if got := MetroBucket(in); got != want {
			t.Errorf("MetroBucket(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTopMunicipalities(t *testing.T) {
	got := TopMunicipalities(sample(), 2)
	if !reflect.DeepEqual(got.Categories, []string{"Zapopan", "Tlajomulco de Zuñiga"}) {
		t.Fatalf("categories = %v", got.Categories)
	}
	var labels []string
	for _, s := range got.Series {
		labels = append(labels, s.Label)
	}
	if !reflect.DeepEqual(labels, []string{"2022", "2023", "2024"}) {
		t.Fatalf("series labels = %v", labels)
	}
	// the ZAPOPAN spelling is its own municipality here
	if !reflect.DeepEqual(got.Series[2].Values, []int{1, 3}) {
		t.Fatalf("2024 values = %v", got.Series[2].Values)
	}
	if got.Series[1].Color != "#9B59B6" {
		t.Fatalf("2023 color = %q", got.Series[1].Color)
	}
	if all := TopMunicipalities(sample(), 0); len(all.Categories) != 5 {
		t.Fatalf("n=0 kept %d categories", len(all.Categories))
	}
}

func TestAnnualByMetro(t *testing.T) {
	got := AnnualByMetro(sample())
	if !reflect.DeepEqual(got.Categories, []string{"2022", "2023", "2024"}) {
		t.Fatalf("categories = %v", got.Categories)
	}
	if len(got.Series) != len(MetroMunicipalities)+1 {
		t.Fatalf("series = %d", len(got.Series))
	}
	byLabel := map[string][]int{}
	for _, s := range got.Series {
		byLabel[s.Label] = s.Values
	}
	if !reflect.DeepEqual(byLabel["Zapopan"], []int{0, 2, 2}) {
		t.Fatalf("Zapopan = %v", byLabel["Zapopan"])
	}
	if !reflect.DeepEqual(byLabel["Tlajomulco de Zúñiga"], []int{0, 0, 3}) {
		t.Fatalf("Tlajomulco = %v", byLabel["Tlajomulco de Zúñiga"])
	}
	if !reflect.DeepEqual(byLabel[InteriorLabel], []int{1, 0, 0}) {
		t.Fatalf("interior = %v", byLabel[InteriorLabel])
	}
	if got.Series[len(got.Series)-1].Color != interiorColor {
		t.Fatalf("interior color = %q", got.Series[len(got.Series)-1].Color)
	}
}

func TestCrimeTypesByMunicipality(t *testing.T) {
	got := CrimeTypesByMunicipality(sample())
	if !reflect.DeepEqual(got.Categories, []string{"Guadalajara", "Zapopan", "Tlajomulco de Zúñiga", InteriorLabel}) {
		t.Fatalf("categories = %v", got.Categories)
	}
	byLabel := map[string][]int{}
	for _, s := range got.Series {
		byLabel[s.Label] = s.Values
	}
	if !reflect.DeepEqual(byLabel["Feminicidio"], []int{0, 3, 0, 0}) {
		t.Fatalf("Feminicidio = %v", byLabel["Feminicidio"])
	}
	if !reflect.DeepEqual(byLabel["Desconocido"], []int{0, 0, 3, 0}) {
		t.Fatalf("Desconocido = %v", byLabel["Desconocido"])
	}
}

func TestCrimeTypesByYear(t *testing.T) {
	got := CrimeTypesByYear(sample()[:2])
	if !reflect.DeepEqual(got.Categories, []string{"2023"}) {
		t.Fatalf("categories = %v", got.Categories)
	}
	// counts incidents, and the unknown bucket is omitted when empty
	if len(got.Series) != len(incident.CanonicalCrimeTypes) {
		t.Fatalf("series = %d", len(got.Series))
	}
	for _, s := range got.Series {
		if s.Label == "Feminicidio" && s.Values[0] != 1 {
			t.Fatalf("Feminicidio = %v", s.Values)
		}
	}
}

func TestShapeOf(t *testing.T) {
	cases := map[string]Shape{
		"Violencia Familiar":               ShapeTriangle,
		"ABUSO SEXUAL INFANTIL":            ShapeSquare,
		"Violación":                        ShapeCircle,
		"Feminicidio":                      ShapeStar,
		"Violencia familiar y feminicidio": ShapeTriangle,
		"Robo":                             ShapeCircle,
	}
	for in, want := range cases {
		if got := ShapeOf(in); got != want {
			t.Errorf("ShapeOf(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMarkers(t *testing.T) {
	rs := []incident.Record{
		{Municipality: "Zapopan", CrimeType: "Feminicidio", Year: 2023, Victims: 1, Lat: 20.7, Lon: -103.4, HasCoordinates: true},
		{Municipality: "Zapopan", CrimeType: "Feminicidio", Year: 2024, Victims: 1, Lat: 20.7, Lon: -103.4, HasCoordinates: true},
		{Municipality: "Zapopan", CrimeType: "Robo", Year: 2023, Victims: 1, Lat: 20.7, Lon: -103.4, HasCoordinates: true},
		{Municipality: "Zapopan", CrimeType: "Feminicidio", Year: 2023, Victims: 1},
	}
	got := Markers(rs, []incident.Year{2023}, pivot.DefaultCrimeTypes())
	if len(got) != 1 {
		t.Fatalf("markers = %+v", got)
	}
	if got[0].Shape != ShapeStar || got[0].Color != "#9B59B6" {
		t.Fatalf("marker = %+v", got[0])
	}
	if all := Markers(rs, nil, pivot.NewCrimeTypeSet()); len(all) != 3 {
		t.Fatalf("unfiltered markers = %d", len(all))
	}
	if YearColor(2030) != DefaultYearColor {
		t.Fatalf("unknown year color = %q", YearColor(2030))
	}
}

func TestHeatmapOf(t *testing.T) {
	rs := []incident.Record{
		{Victims: 4, Lat: 1, Lon: 1, HasCoordinates: true},
		{Victims: 2, Lat: 2, Lon: 2, HasCoordinates: true},
		{Victims: 9},
	}
	flat := HeatmapOf(rs, false)
	if len(flat.Points) != 2 || flat.Max != 1 {
		t.Fatalf("concentration = %+v", flat)
	}
	w := HeatmapOf(rs, true)
	if w.Max != 4 || w.Points[1].Intensity != 2 {
		t.Fatalf("weighted = %+v", w)
	}
	if empty := HeatmapOf(nil, true); empty.Points == nil || empty.Max != 0 {
		t.Fatalf("empty = %+v", empty)
	}
}
