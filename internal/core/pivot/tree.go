package pivot

import (
	"sort"

	"incidencia/internal/core/incident"
	perr "incidencia/internal/platform/errors"
)

// RegionLabel is the label of the synthetic grand-total row
const RegionLabel = "JALISCO"

// Level tags a node with its place in the hierarchy
type Level int

// Hierarchy levels, root first
const (
	LevelRegion Level = iota
	LevelZone
	LevelMunicipality
	LevelCrimeType
	LevelNeighborhood
)

var levelNames = [...]string{"region", "zone", "municipality", "crime_type", "neighborhood"}

func (l Level) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "unknown"
	}
	return levelNames[l]
}

// MarshalText renders the level name in JSON
func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText accepts the names MarshalText produces
func (l *Level) UnmarshalText(b []byte) error {
	i, ok := nameIndex(levelNames[:], b)
	if !ok {
		return perr.InvalidArgf("pivot: unknown level %q", b)
	}
	*l = Level(i)
	return nil
}

func nameIndex(names []string, b []byte) (int, bool) {
	for i, n := range names {
		if n == string(b) {
			return i, true
		}
	}
	return 0, false
}

// YearCounts is one year's total plus its per-month split. Records with an
// unknown month count under Month 0, so the months always sum to Total.
type YearCounts struct {
	Total  int
	Months map[incident.Month]int
}

// Node is one aggregation node. Every node owns its children exclusively and
// carries the year/month roll-up of its subtree; neighborhoods are leaves.
type Node struct {
	Level Level
	Key   string
	Count int

	children []*Node
	index    map[string]*Node
	years    map[incident.Year]*YearCounts
}

func newNode(level Level, key string) *Node {
	return &Node{Level: level, Key: key, years: map[incident.Year]*YearCounts{}}
}

// child returns the child for key, creating it in encounter order
func (n *Node) child(level Level, key string) *Node {
	if c, ok := n.index[key]; ok {
		return c
	}
	if n.index == nil {
		n.index = map[string]*Node{}
	}
	c := newNode(level, key)
	n.index[key] = c
	n.children = append(n.children, c)
	return c
}

func (n *Node) add(y incident.Year, m incident.Month) {
	n.Count++
	yc, ok := n.years[y]
	if !ok {
		yc = &YearCounts{Months: map[incident.Month]int{}}
		n.years[y] = yc
	}
	yc.Total++
	yc.Months[m]++
}

// Leaf reports whether n is a neighborhood
func (n *Node) Leaf() bool { return n.Level == LevelNeighborhood }

// Children returns the children in encounter order
func (n *Node) Children() []*Node { return append([]*Node(nil), n.children...) }

// Child looks a child up by key
func (n *Node) Child(key string) (*Node, bool) {
	c, ok := n.index[key]
	return c, ok
}

// Sorted returns the children by descending count; ties keep encounter order
func (n *Node) Sorted() []*Node {
	out := n.Children()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// CountByYear is the node's total for y
func (n *Node) CountByYear(y incident.Year) int {
	if yc, ok := n.years[y]; ok {
		return yc.Total
	}
	return 0
}

// CountByYearMonth is the node's count for (y, m), zero when absent
func (n *Node) CountByYearMonth(y incident.Year, m incident.Month) int {
	if yc, ok := n.years[y]; ok {
		return yc.Months[m]
	}
	return 0
}

// YearCounts returns a copy of the counts for y
func (n *Node) YearCounts(y incident.Year) (YearCounts, bool) {
	yc, ok := n.years[y]
	if !ok {
		return YearCounts{}, false
	}
	out := YearCounts{Total: yc.Total, Months: make(map[incident.Month]int, len(yc.Months))}
	for m, c := range yc.Months {
		out.Months[m] = c
	}
	return out, true
}

// Tree is a fully built aggregation; it is never modified after Aggregate
// returns it
type Tree struct {
	// Root is the region row; its children are the zones
	Root     *Node
	Selected CrimeTypeSet

	years []incident.Year
	rows  map[string]*Node
}

// Zones returns the zone nodes by descending count
func (t *Tree) Zones() []*Node { return t.Root.Sorted() }

// Total is the grand total over every zone
func (t *Tree) Total() int { return t.Root.Count }

// Empty reports whether no record survived the filter
func (t *Tree) Empty() bool { return t.Root.Count == 0 }

// Years lists every year present, ascending, the unknown year last
func (t *Tree) Years() []incident.Year { return append([]incident.Year(nil), t.years...) }

// HasYear reports whether y is one of the tree's columns
func (t *Tree) HasYear(y incident.Year) bool {
	_, ok := t.Root.years[y]
	return ok
}

// Lookup finds the zone, municipality or crime type row for id
func (t *Tree) Lookup(id string) (*Node, bool) {
	n, ok := t.rows[id]
	return n, ok
}

func (t *Tree) collectYears() {
	t.years = t.years[:0]
	for y := range t.Root.years {
		t.years = append(t.years, y)
	}
	sort.Slice(t.years, func(i, j int) bool {
		a, b := t.years[i], t.years[j]
		if a.Known() != b.Known() {
			return a.Known()
		}
		return a < b
	})
}

// Verify checks the roll-up invariants: every parent count and year/month
// split equals the sum over its children, and every month split sums to
// its year total
func (t *Tree) Verify() error {
	return verify(t.Root)
}

func verify(n *Node) error {
	sum := 0
	for _, yc := range n.years {
		sum += yc.Total
		months := 0
		for _, c := range yc.Months {
			months += c
		}
		if months != yc.Total {
			return perr.Newf(perr.ErrorCodeUnknown, "pivot: %s %q months sum %d != year total %d", n.Level, n.Key, months, yc.Total)
		}
	}
	if sum != n.Count {
		return perr.Newf(perr.ErrorCodeUnknown, "pivot: %s %q years sum %d != count %d", n.Level, n.Key, sum, n.Count)
	}
	if n.Leaf() {
		return nil
	}

	childCount := 0
	childYears := map[incident.Year]map[incident.Month]int{}
	for _, c := range n.children {
		if err := verify(c); err != nil {
			return err
		}
		childCount += c.Count
		for y, yc := range c.years {
			if childYears[y] == nil {
				childYears[y] = map[incident.Month]int{}
			}
			for m, v := range yc.Months {
				childYears[y][m] += v
			}
		}
	}
	if childCount != n.Count {
		return perr.Newf(perr.ErrorCodeUnknown, "pivot: %s %q count %d != children sum %d", n.Level, n.Key, n.Count, childCount)
	}
	if len(childYears) != len(n.years) {
		return perr.Newf(perr.ErrorCodeUnknown, "pivot: %s %q has %d years, children %d", n.Level, n.Key, len(n.years), len(childYears))
	}
	for y, months := range childYears {
		yc, ok := n.years[y]
		if !ok {
			return perr.Newf(perr.ErrorCodeUnknown, "pivot: %s %q missing year %s", n.Level, n.Key, y)
		}
		total := 0
		for m, v := range months {
			total += v
			if yc.Months[m] != v {
				return perr.Newf(perr.ErrorCodeUnknown, "pivot: %s %q %s/%s = %d, children %d", n.Level, n.Key, y, m, yc.Months[m], v)
			}
		}
		if total != yc.Total {
			return perr.Newf(perr.ErrorCodeUnknown, "pivot: %s %q %s total %d != children %d", n.Level, n.Key, y, yc.Total, total)
		}
	}
	return nil
}
