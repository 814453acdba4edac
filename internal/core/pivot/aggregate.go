package pivot

import (
	"strings"

	"incidencia/internal/core/incident"
	"incidencia/internal/core/normalize"
	"incidencia/internal/platform/logger"
)

// CrimeTypeSet is the folded crime type selection. The zero value is the
// empty selection, which keeps every record.
type CrimeTypeSet struct {
	terms []string
}

// NewCrimeTypeSet folds each type to lowercase without accents, dropping
// blanks and duplicates; first occurrence order is kept
func NewCrimeTypeSet(types ...string) CrimeTypeSet {
	var s CrimeTypeSet
	seen := map[string]bool{}
	for _, t := range types {
		k := normalize.Fold(t)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		s.terms = append(s.terms, k)
	}
	return s
}

// DefaultCrimeTypes selects the four canonical crime types
func DefaultCrimeTypes() CrimeTypeSet { return NewCrimeTypeSet(incident.CanonicalCrimeTypes...) }

// Terms returns the folded terms
func (s CrimeTypeSet) Terms() []string { return append([]string(nil), s.terms...) }

// Empty reports whether nothing is selected
func (s CrimeTypeSet) Empty() bool { return len(s.terms) == 0 }

// Matches reports whether the folded crimeType contains any selected term.
// A record matching several terms is still one match.
func (s CrimeTypeSet) Matches(crimeType string) bool {
	if s.Empty() {
		return true
	}
	k := normalize.Fold(crimeType)
	for _, t := range s.terms {
		if strings.Contains(k, t) {
			return true
		}
	}
	return false
}

// Aggregate builds a verified tree from the records whose crime type matches
// selected. Records are placed under their own literal crime type, not the
// term that matched. Blank fields fall into the sentinel groups.
func Aggregate(records []incident.Record, selected CrimeTypeSet) *Tree {
	t := &Tree{
		Root:     newNode(LevelRegion, RegionLabel),
		Selected: selected,
		rows:     map[string]*Node{},
	}

	for i := range records {
		r := &records[i]
		if !selected.Matches(r.CrimeType) {
			continue
		}
		zone := orSentinel(r.Zone, incident.NoZone)
		mun := orSentinel(r.Municipality, incident.NoMunicipality)
		crime := orSentinel(r.CrimeType, incident.NoCrimeType)
		hood := orSentinel(r.Neighborhood, incident.NoNeighborhood)
		y, m := r.Year, r.Month
		if !y.Known() {
			y = 0
		}
		if !m.Known() {
			m = 0
		}

		zn := t.Root.child(LevelZone, zone)
		mn := zn.child(LevelMunicipality, mun)
		cn := mn.child(LevelCrimeType, crime)
		hn := cn.child(LevelNeighborhood, hood)
		for _, n := range [...]*Node{t.Root, zn, mn, cn, hn} {
			n.add(y, m)
		}

		t.index(ZoneRowID(zone), zn)
		t.index(MunicipalityRowID(zone, mun), mn)
		t.index(CrimeTypeRowID(zone, mun, crime), cn)
	}
	t.collectYears()

	if err := t.Verify(); err != nil {
		logger.Named("pivot").Error().Err(err).Msg("aggregation invariant violated")
	}
	return t
}

// index keeps the first node registered for id; distinct names that
// sanitize to the same id share the first one's expansion state
func (t *Tree) index(id string, n *Node) {
	if _, ok := t.rows[id]; !ok {
		t.rows[id] = n
	}
}

func orSentinel(s, sentinel string) string {
	if s = strings.TrimSpace(s); s == "" {
		return sentinel
	}
	return s
}
