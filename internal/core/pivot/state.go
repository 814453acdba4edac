package pivot

import (
	"sort"

	"incidencia/internal/core/incident"
)

// expansion is a trie over sanitized row path segments. A node present
// under its parent is an expanded row; absence means collapsed. A row can
// only be present while every ancestor is, so no expanded descendant is
// ever orphaned behind a collapsed parent.
type expansion struct {
	children map[string]*expansion
}

func (e *expansion) get(seg string) (*expansion, bool) {
	c, ok := e.children[seg]
	return c, ok
}

// find walks segs; ok is false as soon as one segment is collapsed
func (e *expansion) find(segs []string) (*expansion, bool) {
	cur := e
	for _, s := range segs {
		next, ok := cur.get(s)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// collapseAll clears every expanded descendant of e and returns how many
// rows it collapsed, e itself excluded
func collapseAll(e *expansion) int {
	n := 0
	for seg, c := range e.children {
		n += 1 + collapseAll(c)
		delete(e.children, seg)
	}
	return n
}

func (e *expansion) ids(prefix []string, out *[]string) {
	for seg, c := range e.children {
		path := append(append([]string(nil), prefix...), seg)
		*out = append(*out, rowID(path))
		c.ids(path, out)
	}
}

func (e *expansion) clone() *expansion {
	out := &expansion{children: make(map[string]*expansion, len(e.children))}
	for seg, c := range e.children {
		out.children[seg] = c.clone()
	}
	return out
}

// State is the pivot view state: crime type selection, expanded rows and
// expanded year columns. It holds ids only, so it stays valid across tree
// rebuilds.
type State struct {
	selected CrimeTypeSet
	rows     *expansion
	years    map[incident.Year]bool
}

// NewState starts with the canonical crime types selected and everything collapsed
func NewState() *State {
	return &State{
		selected: DefaultCrimeTypes(),
		rows:     &expansion{children: map[string]*expansion{}},
		years:    map[incident.Year]bool{},
	}
}

// Selected returns the crime type selection
func (s *State) Selected() CrimeTypeSet { return s.selected }

// SetSelected replaces the crime type selection
func (s *State) SetSelected(sel CrimeTypeSet) { s.selected = sel }

// RowExpanded reports whether the row id is expanded
func (s *State) RowExpanded(id string) bool {
	segs, ok := parseRowID(id)
	if !ok {
		return false
	}
	_, ok = s.rows.find(segs)
	return ok
}

// YearExpanded reports whether y shows month columns
func (s *State) YearExpanded(y incident.Year) bool { return s.years[y] }

// ExpandedRows lists expanded row ids, sorted
func (s *State) ExpandedRows() []string {
	var out []string
	s.rows.ids(nil, &out)
	sort.Strings(out)
	return out
}

// ExpandedYears lists expanded years ascending
func (s *State) ExpandedYears() []incident.Year {
	out := make([]incident.Year, 0, len(s.years))
	for y := range s.years {
		out = append(out, y)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ToggleRow flips row id against t. Expanding reveals the immediate
// children only; collapsing cascades to every descendant. ok is false and
// nothing changes when id is unknown to t or the row is hidden behind a
// collapsed ancestor.
func (s *State) ToggleRow(t *Tree, id string) (expanded, ok bool) {
	n, found := t.Lookup(id)
	if !found || n.Leaf() {
		return false, false
	}
	segs, valid := parseRowID(id)
	if !valid {
		return false, false
	}
	parent, visible := s.rows.find(segs[:len(segs)-1])
	if !visible {
		return false, false
	}
	last := segs[len(segs)-1]
	if cur, open := parent.get(last); open {
		collapseAll(cur)
		delete(parent.children, last)
		return false, true
	}
	parent.children[last] = &expansion{children: map[string]*expansion{}}
	return true, true
}

// ToggleYear flips y's month expansion for the whole table. Years t does not
// show are ignored.
func (s *State) ToggleYear(t *Tree, y incident.Year) (expanded, ok bool) {
	if !t.HasYear(y) {
		return false, false
	}
	if s.years[y] {
		delete(s.years, y)
		return false, true
	}
	s.years[y] = true
	return true, true
}

// Clone returns an independent copy
func (s *State) Clone() *State {
	years := make(map[incident.Year]bool, len(s.years))
	for y := range s.years {
		years[y] = true
	}
	return &State{selected: s.selected, rows: s.rows.clone(), years: years}
}
