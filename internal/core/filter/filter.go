// Package filter applies the dashboard criteria (municipality, crime type,
// year/month window and year checkboxes) to a record set
package filter

import (
	"slices"

	"incidencia/internal/core/incident"
)

// Default year window of the dashboard controls
const (
	DefaultStartYear incident.Year = 2018
	DefaultEndYear   incident.Year = 2025
)

// Criteria mirrors the dashboard controls. Zero fields do not filter.
type Criteria struct {
	Municipality string          `json:"municipality,omitempty"`
	CrimeType    string          `json:"crime_type,omitempty"`
	StartYear    incident.Year   `json:"start_year,omitempty"`
	EndYear      incident.Year   `json:"end_year,omitempty"`
	StartMonth   incident.Month  `json:"start_month,omitempty" validate:"omitempty,min=1,max=12"`
	EndMonth     incident.Month  `json:"end_month,omitempty" validate:"omitempty,min=1,max=12"`
	Years        []incident.Year `json:"years,omitempty"`
}

// Defaults is the cleared dashboard: 2018..2025, every month
func Defaults() Criteria {
	return Criteria{StartYear: DefaultStartYear, EndYear: DefaultEndYear, StartMonth: 1, EndMonth: 12}
}

// IsZero reports whether c filters nothing
func (c Criteria) IsZero() bool {
	return c.Municipality == "" && c.CrimeType == "" &&
		c.StartYear == 0 && c.EndYear == 0 &&
		c.StartMonth == 0 && c.EndMonth == 0 && len(c.Years) == 0
}

// Match reports whether r passes c. Municipality and crime type compare
// exactly. The month window only bites on the boundary years of a multi
// year range and on the whole range when start and end share a year;
// records with an unknown month always pass it.
func (c Criteria) Match(r incident.Record) bool {
	if c.Municipality != "" && r.Municipality != c.Municipality {
		return false
	}
	if c.CrimeType != "" && r.CrimeType != c.CrimeType {
		return false
	}
	if c.StartYear != 0 && r.Year < c.StartYear {
		return false
	}
	if c.EndYear != 0 && r.Year > c.EndYear {
		return false
	}
	if len(c.Years) > 0 && !slices.Contains(c.Years, r.Year) {
		return false
	}
	return c.matchMonth(r)
}

func (c Criteria) matchMonth(r incident.Record) bool {
	if !r.Month.Known() {
		return true
	}
	start, end := c.StartMonth, c.EndMonth
	if start == 0 {
		start = 1
	}
	if end == 0 {
		end = 12
	}
	if c.StartYear != 0 && c.StartYear == c.EndYear {
		return r.Month >= start && r.Month <= end
	}
	switch {
	case c.StartYear != 0 && r.Year == c.StartYear:
		return r.Month >= start
	case c.EndYear != 0 && r.Year == c.EndYear:
		return r.Month <= end
	}
	return true
}

// Apply returns the records passing c in their original order
func Apply(records []incident.Record, c Criteria) []incident.Record {
	if c.IsZero() {
		return records
	}
	out := make([]incident.Record, 0, len(records))
	for _, r := range records {
		if c.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Municipalities lists the distinct municipalities, sorted, for the
// dashboard drop-down
func Municipalities(records []incident.Record) []string {
	return distinct(records, func(r incident.Record) string { return r.Municipality })
}

// CrimeTypes lists the distinct crime types, sorted
func CrimeTypes(records []incident.Record) []string {
	return distinct(records, func(r incident.Record) string { return r.CrimeType })
}

func distinct(records []incident.Record, key func(incident.Record) string) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range records {
		k := key(r)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
