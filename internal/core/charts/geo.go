package charts

import (
	"slices"
	"strings"

	"incidencia/internal/core/incident"
	"incidencia/internal/core/normalize"
	"incidencia/internal/core/pivot"
)

// Shape is the map icon of a crime type
type Shape string

const (
	ShapeTriangle Shape = "triangle"
	ShapeSquare   Shape = "square"
	ShapeCircle   Shape = "circle"
	ShapeStar     Shape = "star"
)

var shapeOrder = []struct {
	term  string
	shape Shape
}{
	{incident.FamilyViolence, ShapeTriangle},
	{incident.ChildSexualAbuse, ShapeSquare},
	{incident.Rape, ShapeCircle},
	{incident.Femicide, ShapeStar},
}

// ShapeOf picks the icon by the first canonical term the folded crime type
// contains
func ShapeOf(crimeType string) Shape {
	k := normalize.Fold(crimeType)
	for _, s := range shapeOrder {
		if strings.Contains(k, s.term) {
			return s.shape
		}
	}
	return ShapeCircle
}

// Marker is one map point
type Marker struct {
	Lat           float64       `json:"lat"`
	Lon           float64       `json:"lon"`
	Shape         Shape         `json:"shape"`
	Color         string        `json:"color"`
	Reference     string        `json:"reference,omitempty"`
	Municipality  string        `json:"municipality"`
	Neighborhood  string        `json:"neighborhood,omitempty"`
	CrimeType     string        `json:"crime_type"`
	Year          incident.Year `json:"year"`
	Victims       int           `json:"victims"`
	Hour          string        `json:"hour,omitempty"`
	AffectedAsset string        `json:"affected_asset,omitempty"`
}

// Markers keeps records with coordinates whose year is in years (all when
// empty) and whose crime type matches crimeTypes
func Markers(records []incident.Record, years []incident.Year, crimeTypes pivot.CrimeTypeSet) []Marker {
	out := []Marker{}
	for _, r := range records {
		if !located(r) {
			continue
		}
		if len(years) > 0 && !slices.Contains(years, r.Year) {
			continue
		}
		if !crimeTypes.Matches(r.CrimeType) {
			continue
		}
		out = append(out, Marker{
			Lat:           r.Lat,
			Lon:           r.Lon,
			Shape:         ShapeOf(r.CrimeType),
			Color:         YearColor(r.Year),
			Reference:     r.Reference,
			Municipality:  r.Municipality,
			Neighborhood:  r.Neighborhood,
			CrimeType:     r.CrimeType,
			Year:          r.Year,
			Victims:       victims(r),
			Hour:          r.Hour,
			AffectedAsset: r.AffectedAsset,
		})
	}
	return out
}

// HeatPoint is a weighted coordinate
type HeatPoint struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Intensity float64 `json:"intensity"`
}

// Heatmap is a heat layer plus the peak intensity used to normalise it
type Heatmap struct {
	Points []HeatPoint `json:"points"`
	Max    float64     `json:"max"`
}

// HeatmapOf weights each located record 1 (concentration) or by victims
func HeatmapOf(records []incident.Record, weighted bool) Heatmap {
	h := Heatmap{Points: []HeatPoint{}}
	for _, r := range records {
		if !located(r) {
			continue
		}
		w := 1.0
		if weighted {
			w = float64(victims(r))
		}
		h.Points = append(h.Points, HeatPoint{Lat: r.Lat, Lon: r.Lon, Intensity: w})
		h.Max = max(h.Max, w)
	}
	return h
}

func located(r incident.Record) bool {
	return r.HasCoordinates && r.Lat != 0 && r.Lon != 0
}
