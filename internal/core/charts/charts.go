// Package charts turns a filtered record set into the series behind the
// dashboard charts and map layers
package charts

import (
	"cmp"
	"slices"

	"incidencia/internal/core/incident"
	"incidencia/internal/core/normalize"
)

// InteriorLabel buckets every municipality outside the metro area
const InteriorLabel = "Interior del estado"

// MetroMunicipalities are the nine municipalities of the Guadalajara
// metropolitan area, in chart order
var MetroMunicipalities = []string{
	"Guadalajara",
	"Zapopan",
	"San Pedro Tlaquepaque",
	"Tlajomulco de Zúñiga",
	"Tonala",
	"El Salto",
	"Juanacatlán",
	"Ixtlahuacan de los Membrillos",
	"Zapotlanejo",
}

var metroIndex = func() map[string]string {
	m := make(map[string]string, len(MetroMunicipalities))
	for _, name := range MetroMunicipalities {
		m[normalize.Fold(name)] = name
	}
	return m
}()

// MetroBucket returns the metro display name of municipality, or
// InteriorLabel
func MetroBucket(municipality string) string {
	if name, ok := metroIndex[normalize.Fold(municipality)]; ok {
		return name
	}
	return InteriorLabel
}

// Series is one stacked dataset: a label and one value per category
type Series struct {
	Label  string `json:"label"`
	Color  string `json:"color,omitempty"`
	Values []int  `json:"values"`
}

// Stacked is a stacked bar chart
type Stacked struct {
	Categories []string `json:"categories"`
	Series     []Series `json:"series"`
}

// Summary is the headline counter pair
type Summary struct {
	Records int `json:"records"`
	Victims int `json:"victims"`
}

// Summarize counts records and victims
func Summarize(records []incident.Record) Summary {
	s := Summary{Records: len(records)}
	for _, r := range records {
		s.Victims += victims(r)
	}
	return s
}

// TopMunicipalities ranks municipalities by victims and keeps the first n,
// stacked by year. Ties keep first-seen order. n <= 0 keeps all.
func TopMunicipalities(records []incident.Record, n int) Stacked {
	type entry struct {
		name    string
		victims int
		byYear  map[incident.Year]int
	}
	var order []*entry
	idx := map[string]*entry{}
	years := map[incident.Year]bool{}
	for _, r := range records {
		e, ok := idx[r.Municipality]
		if !ok {
			e = &entry{name: r.Municipality, byYear: map[incident.Year]int{}}
			idx[r.Municipality] = e
			order = append(order, e)
		}
		v := victims(r)
		e.victims += v
		e.byYear[r.Year] += v
		years[r.Year] = true
	}
	slices.SortStableFunc(order, func(a, b *entry) int { return cmp.Compare(b.victims, a.victims) })
	if n > 0 && len(order) > n {
		order = order[:n]
	}

	out := Stacked{Categories: make([]string, len(order))}
	for i, e := range order {
		out.Categories[i] = e.name
	}
	for _, y := range sortedYears(years) {
		s := Series{Label: y.String(), Color: YearColor(y), Values: make([]int, len(order))}
		for i, e := range order {
			s.Values[i] = e.byYear[y]
		}
		out.Series = append(out.Series, s)
	}
	return out
}

// AnnualByMetro stacks victims per year across the metro municipalities
// plus the interior bucket. Categories are years ascending.
func AnnualByMetro(records []incident.Record) Stacked {
	buckets := append(slices.Clone(MetroMunicipalities), InteriorLabel)
	byYear := map[incident.Year]map[string]int{}
	for _, r := range records {
		m := byYear[r.Year]
		if m == nil {
			m = map[string]int{}
			byYear[r.Year] = m
		}
		m[MetroBucket(r.Municipality)] += victims(r)
	}
	years := sortedYears(keys(byYear))

	out := Stacked{Categories: make([]string, len(years))}
	for i, y := range years {
		out.Categories[i] = y.String()
	}
	for i, b := range buckets {
		s := Series{Label: b, Color: metroColor(i, b), Values: make([]int, len(years))}
		for j, y := range years {
			s.Values[j] = byYear[y][b]
		}
		out.Series = append(out.Series, s)
	}
	return out
}

// CrimeTypesByMunicipality stacks victims per metro bucket by canonical
// crime type. Buckets without records are left out.
func CrimeTypesByMunicipality(records []incident.Record) Stacked {
	counts := map[string]map[string]int{}
	for _, r := range records {
		b := MetroBucket(r.Municipality)
		m := counts[b]
		if m == nil {
			m = map[string]int{}
			counts[b] = m
		}
		m[incident.CanonicalCrimeType(r.CrimeType)] += victims(r)
	}
	var cats []string
	for _, b := range append(slices.Clone(MetroMunicipalities), InteriorLabel) {
		if _, ok := counts[b]; ok {
			cats = append(cats, b)
		}
	}
	return stackByCrime(cats, func(cat, crime string) int { return counts[cat][crime] })
}

// CrimeTypesByYear counts incidents (not victims) per year by canonical
// crime type
func CrimeTypesByYear(records []incident.Record) Stacked {
	counts := map[incident.Year]map[string]int{}
	for _, r := range records {
		m := counts[r.Year]
		if m == nil {
			m = map[string]int{}
			counts[r.Year] = m
		}
		m[incident.CanonicalCrimeType(r.CrimeType)]++
	}
	years := sortedYears(keys(counts))
	cats := make([]string, len(years))
	byLabel := make(map[string]incident.Year, len(years))
	for i, y := range years {
		cats[i] = y.String()
		byLabel[cats[i]] = y
	}
	return stackByCrime(cats, func(cat, crime string) int { return counts[byLabel[cat]][crime] })
}

func stackByCrime(cats []string, value func(cat, crime string) int) Stacked {
	out := Stacked{Categories: cats}
	for _, crime := range append(slices.Clone(incident.CanonicalCrimeTypes), incident.UnknownCrimeType) {
		s := Series{Label: incident.CrimeTypeLabel(crime), Color: crimeColors[crime], Values: make([]int, len(cats))}
		total := 0
		for i, c := range cats {
			s.Values[i] = value(c, crime)
			total += s.Values[i]
		}
		if crime == incident.UnknownCrimeType && total == 0 {
			continue
		}
		out.Series = append(out.Series, s)
	}
	return out
}

func victims(r incident.Record) int {
	if r.Victims < 1 {
		return 1
	}
	return r.Victims
}

func keys[V any](m map[incident.Year]V) map[incident.Year]bool {
	out := make(map[incident.Year]bool, len(m))
	for k := range m {
		out[k] = true
	}
	return out
}

// sortedYears orders known years ascending with the unknown year last
func sortedYears(set map[incident.Year]bool) []incident.Year {
	out := make([]incident.Year, 0, len(set))
	for y := range set {
		out = append(out, y)
	}
	slices.SortFunc(out, func(a, b incident.Year) int {
		switch {
		case a.Known() == b.Known():
			return cmp.Compare(a, b)
		case a.Known():
			return -1
		default:
			return 1
		}
	})
	return out
}
