package pivot

import (
	"incidencia/internal/core/incident"
	perr "incidencia/internal/platform/errors"
)

// NoDataMessage is shown instead of a table when nothing survives the filter
const NoDataMessage = "No hay datos para mostrar"

// TotalLabel heads the trailing total column
const TotalLabel = "TOTAL"

// ColumnKind tags a table column
type ColumnKind int

// Column kinds in table order
const (
	ColumnLabel ColumnKind = iota
	ColumnYear
	ColumnMonth
	ColumnTotal
)

var columnKindNames = [...]string{"label", "year", "month", "total"}

func (k ColumnKind) String() string {
	if k < 0 || int(k) >= len(columnKindNames) {
		return "unknown"
	}
	return columnKindNames[k]
}

// MarshalText renders the kind name in JSON
func (k ColumnKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText accepts the names MarshalText produces
func (k *ColumnKind) UnmarshalText(b []byte) error {
	i, ok := nameIndex(columnKindNames[:], b)
	if !ok {
		return perr.InvalidArgf("pivot: unknown column kind %q", b)
	}
	*k = ColumnKind(i)
	return nil
}

// Column is one table column
type Column struct {
	Kind  ColumnKind     `json:"kind"`
	Label string         `json:"label"`
	Year  incident.Year  `json:"year,omitempty"`
	Month incident.Month `json:"month,omitempty"`
	// Expanded marks year columns whose months are shown; set on every month column of that year
	Expanded bool `json:"expanded,omitempty"`
}

// Row is one table row. Cells line up with the year and month columns, the
// label and total columns excluded.
type Row struct {
	ID         string `json:"id,omitempty"`
	ParentID   string `json:"parent_id,omitempty"`
	Level      Level  `json:"level"`
	Label      string `json:"label"`
	Expandable bool   `json:"expandable"`
	Expanded   bool   `json:"expanded"`
	Visible    bool   `json:"visible"`
	Cells      []int  `json:"cells"`
	Total      int    `json:"total"`
}

// Table is the render-ready pivot
type Table struct {
	Columns []Column `json:"columns,omitempty"`
	Rows    []Row    `json:"rows,omitempty"`
	Empty   bool     `json:"empty"`
	Message string   `json:"message,omitempty"`
}

// VisibleRows returns only the rows whose ancestors are all expanded
func (tb Table) VisibleRows() []Row {
	out := make([]Row, 0, len(tb.Rows))
	for _, r := range tb.Rows {
		if r.Visible {
			out = append(out, r)
		}
	}
	return out
}

type cellRef struct {
	year  incident.Year
	month incident.Month // zero for a collapsed year column
}

// Render lays out t under s. It reads both and changes neither.
func Render(t *Tree, s *State) Table {
	if t == nil || t.Empty() {
		return Table{Empty: true, Message: NoDataMessage}
	}

	cols := []Column{{Kind: ColumnLabel, Label: ""}}
	var refs []cellRef
	for _, y := range t.Years() {
		if s.YearExpanded(y) {
			for _, m := range incident.Months {
				cols = append(cols, Column{Kind: ColumnMonth, Label: m.Short() + " " + y.String(), Year: y, Month: m, Expanded: true})
				refs = append(refs, cellRef{year: y, month: m})
			}
			continue
		}
		cols = append(cols, Column{Kind: ColumnYear, Label: y.String(), Year: y})
		refs = append(refs, cellRef{year: y})
	}
	cols = append(cols, Column{Kind: ColumnTotal, Label: TotalLabel})

	r := renderer{refs: refs, state: s}
	r.row(t.Root, "", "", false, true)
	for _, z := range t.Zones() {
		zid := ZoneRowID(z.Key)
		zOpen := s.RowExpanded(zid)
		r.row(z, zid, "", true, true)
		for _, m := range z.Sorted() {
			mid := MunicipalityRowID(z.Key, m.Key)
			mOpen := zOpen && s.RowExpanded(mid)
			r.row(m, mid, zid, true, zOpen)
			for _, c := range m.Sorted() {
				cid := CrimeTypeRowID(z.Key, m.Key, c.Key)
				cOpen := mOpen && s.RowExpanded(cid)
				r.row(c, cid, mid, true, mOpen)
				for _, h := range c.Sorted() {
					r.row(h, "", cid, false, cOpen)
				}
			}
		}
	}
	return Table{Columns: cols, Rows: r.rows}
}

type renderer struct {
	refs  []cellRef
	state *State
	rows  []Row
}

func (r *renderer) row(n *Node, id, parent string, expandable, visible bool) {
	cells := make([]int, len(r.refs))
	for i, ref := range r.refs {
		if ref.month == 0 {
			cells[i] = n.CountByYear(ref.year)
		} else {
			cells[i] = n.CountByYearMonth(ref.year, ref.month)
		}
	}
	r.rows = append(r.rows, Row{
		ID:         id,
		ParentID:   parent,
		Level:      n.Level,
		Label:      n.Key,
		Expandable: expandable,
		Expanded:   expandable && visible && r.state.RowExpanded(id),
		Visible:    visible,
		Cells:      cells,
		Total:      n.Count,
	})
}
