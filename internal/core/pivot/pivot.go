// Package pivot is the hierarchical aggregation engine behind the incident
// pivot table: it groups records into zone, municipality, crime type and
// neighborhood nodes with per-year and per-month counts, keeps row and year
// column expansion state, and lays both out as a table.
//
// Trees are rebuilt from scratch whenever records or the crime type
// selection change; expansion state is keyed by deterministic row ids and
// survives rebuilds.
package pivot

import (
	"sync"
	"time"

	"incidencia/internal/core/incident"
	"incidencia/internal/platform/logger"
)

// Observer is told about every rebuild
type Observer interface {
	ObserveRebuild(records int, elapsed time.Duration)
}

// Option configures a Pivot
type Option func(*Pivot)

// WithObserver reports rebuilds to o
func WithObserver(o Observer) Option { return func(p *Pivot) { p.obs = o } }

// WithLogger replaces the component logger
func WithLogger(l *logger.Logger) Option { return func(p *Pivot) { p.log = l } }

// WithCrimeTypes overrides the default selection
func WithCrimeTypes(types ...string) Option {
	return func(p *Pivot) { p.state.SetSelected(NewCrimeTypeSet(types...)) }
}

// Pivot owns one dashboard's records, tree and view state. Methods are
// safe for concurrent use; each event runs to completion before the next.
type Pivot struct {
	mu      sync.Mutex
	records []incident.Record
	tree    *Tree
	state   *State
	obs     Observer
	log     *logger.Logger
}

// New returns an empty pivot with the default crime type selection
func New(opts ...Option) *Pivot {
	p := &Pivot{state: NewState(), log: logger.Named("pivot")}
	for _, o := range opts {
		o(p)
	}
	p.rebuild()
	return p
}

// rebuild builds the whole tree before swapping it in; callers hold mu
func (p *Pivot) rebuild() {
	start := time.Now()
	t := Aggregate(p.records, p.state.Selected())
	p.tree = t
	elapsed := time.Since(start)
	if p.obs != nil {
		p.obs.ObserveRebuild(len(p.records), elapsed)
	}
	p.log.Debug().
		Int("records", len(p.records)).
		Int("total", t.Total()).
		Dur("elapsed", elapsed).
		Msg("pivot rebuilt")
}

// SetRecords replaces the dataset and rebuilds. The slice is kept, not
// copied; callers must not modify it afterwards.
func (p *Pivot) SetRecords(records []incident.Record) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = records
	p.rebuild()
}

// SetSelectedCrimeTypes replaces the selection, folded to lowercase, and
// rebuilds. An empty selection shows every record.
func (p *Pivot) SetSelectedCrimeTypes(types ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.SetSelected(NewCrimeTypeSet(types...))
	p.rebuild()
}

// ToggleRowExpansion flips a zone, municipality or crime type row. Unknown
// or hidden rows are ignored and reported with ok false.
func (p *Pivot) ToggleRowExpansion(id string) (expanded, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	expanded, ok = p.state.ToggleRow(p.tree, id)
	if !ok {
		p.log.Debug().Str("row", id).Msg("toggle ignored: unknown row")
	}
	return expanded, ok
}

// ToggleYearColumn flips year y between one total column and twelve month
// columns for the whole table. Years not in the tree are ignored.
func (p *Pivot) ToggleYearColumn(y incident.Year) (expanded, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	expanded, ok = p.state.ToggleYear(p.tree, y)
	if !ok {
		p.log.Debug().Stringer("year", y).Msg("toggle ignored: unknown year")
	}
	return expanded, ok
}

// Render lays out the current tree and state
func (p *Pivot) Render() Table {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Render(p.tree, p.state)
}

// Tree returns the current tree; trees are immutable once built
func (p *Pivot) Tree() *Tree {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tree
}

// State returns a copy of the view state
func (p *Pivot) State() *State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Clone()
}
