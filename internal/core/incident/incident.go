// Package incident defines the canonical incident record shared by ingest,
// the pivot engine and the chart aggregations
package incident

import (
	"strconv"
	"strings"

	"incidencia/internal/core/normalize"
)

// Sentinel labels for fields the source left blank
const (
	NoZone         = "Sin zona"
	NoMunicipality = "Sin municipio"
	NoCrimeType    = "Sin delito"
	NoNeighborhood = "NO DISPONIBLE"
	NoYear         = "Sin año"
	NoMonth        = "Sin mes"
)

// Year is a calendar year; zero means unknown
type Year int

// MaxYear is the last year a record may carry
const MaxYear Year = 9999

// Known reports whether y carries a real year
func (y Year) Known() bool { return y > 0 && y <= MaxYear }

// String returns the year or the NoYear sentinel
func (y Year) String() string {
	if !y.Known() {
		return NoYear
	}
	return strconv.Itoa(int(y))
}

// Month is 1..12; zero means unknown
type Month int

// Months lists the twelve months in calendar order
var Months = [12]Month{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

var monthNames = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// Known reports whether m is 1..12
func (m Month) Known() bool { return m >= 1 && m <= 12 }

// String returns the Spanish month name or the NoMonth sentinel
func (m Month) String() string {
	if !m.Known() {
		return NoMonth
	}
	return monthNames[m-1]
}

// Short returns the three letter column label, "Ene" for January
func (m Month) Short() string {
	if !m.Known() {
		return NoMonth
	}
	return monthNames[m-1][:3]
}

var monthByKey = func() map[string]Month {
	out := make(map[string]Month, 12)
	for i, n := range monthNames {
		out[normalize.Fold(n)] = Month(i + 1)
	}
	return out
}()

// ParseMonth accepts a Spanish month name in any case or accenting, or a
// number 1..12. Anything else is the unknown month.
func ParseMonth(s string) Month {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		if m := Month(n); m.Known() {
			return m
		}
		return 0
	}
	return monthByKey[normalize.Fold(s)]
}

// ParseYear accepts an integer in 1..MaxYear; anything else is the unknown year
func ParseYear(s string) Year {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !Year(n).Known() {
		return 0
	}
	return Year(n)
}

// Record is one incident. Records are values and never mutated once ingested.
type Record struct {
	Reference      string  `json:"reference"`
	Zone           string  `json:"zone"`
	Municipality   string  `json:"municipality"`
	CrimeType      string  `json:"crime_type"`
	Neighborhood   string  `json:"neighborhood"`
	Year           Year    `json:"year"`
	Month          Month   `json:"month"`
	Victims        int     `json:"victims"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	HasCoordinates bool    `json:"has_coordinates"`
	Hour           string  `json:"hour,omitempty"`
	AffectedAsset  string  `json:"affected_asset,omitempty"`
	Link           string  `json:"link,omitempty"`
}

// Normalize cleans every label and fills blanks with the sentinels. It
// never rejects a record.
func Normalize(r Record) Record {
	r.Reference = normalize.Clean(r.Reference)
	r.Zone = orSentinel(r.Zone, NoZone)
	r.Municipality = orSentinel(r.Municipality, NoMunicipality)
	r.CrimeType = orSentinel(r.CrimeType, NoCrimeType)
	r.Neighborhood = orSentinel(r.Neighborhood, NoNeighborhood)
	r.Hour = normalize.Clean(r.Hour)
	r.AffectedAsset = normalize.Clean(r.AffectedAsset)
	r.Link = strings.TrimSpace(r.Link)
	if !r.Year.Known() {
		r.Year = 0
	}
	if !r.Month.Known() {
		r.Month = 0
	}
	if r.Victims <= 0 {
		r.Victims = 1
	}
	r.HasCoordinates = r.Lat != 0 && r.Lon != 0
	return r
}

// NormalizeAll returns normalized copies of rs
func NormalizeAll(rs []Record) []Record {
	out := make([]Record, len(rs))
	for i, r := range rs {
		out[i] = Normalize(r)
	}
	return out
}

func orSentinel(s, sentinel string) string {
	if s = normalize.Clean(s); s == "" {
		return sentinel
	}
	return s
}
