// Package service keeps one pivot per dashboard session in memory and
// rebuilds it whenever the ingest snapshot or the session filters change
package service

import (
	"context"
	"sync"
	"time"

	"incidencia/internal/core/filter"
	"incidencia/internal/core/pivot"
	perr "incidencia/internal/platform/errors"
	"incidencia/internal/platform/logger"
	"incidencia/internal/services/api/pivot/domain"
	ingdom "incidencia/internal/services/ingest/domain"

	"github.com/google/uuid"
)

// Observer receives session gauges and rebuild timings; *metrics.Metrics
// satisfies it
type Observer interface {
	pivot.Observer
	SetSessions(n int)
}

// Config controls session lifetime
type Config struct {
	TTL time.Duration
}

type session struct {
	mu       sync.Mutex
	id       string
	p        *pivot.Pivot
	version  uint64
	criteria filter.Criteria
	seen     time.Time
}

// Service owns the session table
type Service struct {
	snaps ingdom.SnapshotPort
	obs   Observer
	ttl   time.Duration
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// New constructs the pivot session service
func New(snaps ingdom.SnapshotPort, obs Observer, cfg Config) *Service {
	if snaps == nil {
		panic("pivot.Service requires a non nil SnapshotPort")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	return &Service{snaps: snaps, obs: obs, ttl: cfg.TTL, now: time.Now, sessions: map[string]*session{}}
}

// Create opens a session over the current snapshot
func (s *Service) Create(ctx context.Context, in domain.CreateInput) (domain.View, error) {
	opts := []pivot.Option{pivot.WithLogger(logger.Named("pivot"))}
	if s.obs != nil {
		opts = append(opts, pivot.WithObserver(s.obs))
	}
	if in.CrimeTypes != nil {
		opts = append(opts, pivot.WithCrimeTypes(in.CrimeTypes...))
	}
	ss := &session{id: uuid.NewString(), p: pivot.New(opts...), seen: s.now()}
	if in.Filter != nil {
		ss.criteria = *in.Filter
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()
	s.sync(ss, true)

	s.mu.Lock()
	s.sessions[ss.id] = ss
	n := len(s.sessions)
	s.mu.Unlock()
	s.gauge(n)

	logger.C(ctx).Debug().Str("session", ss.id).Uint64("version", ss.version).Msg("pivot: session created")
	return s.view(ss), nil
}

// Get renders a session, rebuilding first when new data arrived
func (s *Service) Get(ctx context.Context, id string) (domain.View, error) {
	var v domain.View
	err := s.with(ctx, id, func(ss *session) { v = s.view(ss) })
	return v, err
}

// SetCrimeTypes replaces the selection and rebuilds
func (s *Service) SetCrimeTypes(ctx context.Context, id string, in domain.CrimeTypesInput) (domain.View, error) {
	var v domain.View
	err := s.with(ctx, id, func(ss *session) {
		ss.p.SetSelectedCrimeTypes(in.CrimeTypes...)
		v = s.view(ss)
	})
	return v, err
}

// SetFilter replaces the dashboard criteria and rebuilds
func (s *Service) SetFilter(ctx context.Context, id string, c filter.Criteria) (domain.View, error) {
	var v domain.View
	err := s.with(ctx, id, func(ss *session) {
		ss.criteria = c
		s.sync(ss, true)
		v = s.view(ss)
	})
	return v, err
}

// ToggleRow flips one row; unknown rows leave the view unchanged
func (s *Service) ToggleRow(ctx context.Context, id string, in domain.ToggleRowInput) (domain.ToggleResult, error) {
	var out domain.ToggleResult
	err := s.with(ctx, id, func(ss *session) {
		out.Expanded, out.Applied = ss.p.ToggleRowExpansion(in.ID)
		out.View = s.view(ss)
	})
	return out, err
}

// ToggleYear flips one year column; unknown years leave the view unchanged
func (s *Service) ToggleYear(ctx context.Context, id string, in domain.ToggleYearInput) (domain.ToggleResult, error) {
	var out domain.ToggleResult
	if in.Year == nil {
		return out, perr.InvalidArgf("year is required")
	}
	err := s.with(ctx, id, func(ss *session) {
		out.Expanded, out.Applied = ss.p.ToggleYearColumn(*in.Year)
		out.View = s.view(ss)
	})
	return out, err
}

// Delete drops a session
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()
	if !ok {
		return perr.NotFoundf("pivot session %s not found", id)
	}
	s.gauge(n)
	logger.C(ctx).Debug().Str("session", id).Msg("pivot: session deleted")
	return nil
}

// Len reports live sessions
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many.
// The table lock is never held together with a session lock here.
func (s *Service) Sweep() int {
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	all := make([]*session, 0, len(s.sessions))
	for _, ss := range s.sessions {
		all = append(all, ss)
	}
	s.mu.Unlock()

	var idle []string
	for _, ss := range all {
		ss.mu.Lock()
		if ss.seen.Before(cutoff) {
			idle = append(idle, ss.id)
		}
		ss.mu.Unlock()
	}
	if len(idle) == 0 {
		return 0
	}

	s.mu.Lock()
	dropped := 0
	for _, id := range idle {
		if _, ok := s.sessions[id]; ok {
			delete(s.sessions, id)
			dropped++
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()
	s.gauge(n)
	logger.Named("pivot").Debug().Int("dropped", dropped).Int("live", n).Msg("pivot: sessions expired")
	return dropped
}

// Run sweeps expired sessions every interval until ctx is done
func (s *Service) Run(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep()
		}
	}
}

// with looks up id, syncs it with the live snapshot and runs fn under the
// session lock
func (s *Service) with(ctx context.Context, id string, fn func(*session)) error {
	s.mu.Lock()
	ss, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return perr.NotFoundf("pivot session %s not found", id)
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()
	now := s.now()
	if now.Sub(ss.seen) > s.ttl {
		s.mu.Lock()
		delete(s.sessions, id)
		n := len(s.sessions)
		s.mu.Unlock()
		s.gauge(n)
		return perr.NotFoundf("pivot session %s expired", id)
	}
	ss.seen = now
	if s.sync(ss, false) {
		logger.C(ctx).Debug().Str("session", id).Uint64("version", ss.version).Msg("pivot: session resynced")
	}
	fn(ss)
	return nil
}

// sync feeds the filtered snapshot to the pivot when the version moved or
// force is set; callers hold ss.mu
func (s *Service) sync(ss *session, force bool) bool {
	snap := s.snaps.Current()
	if !force && snap.Version == ss.version {
		return false
	}
	ss.p.SetRecords(filter.Apply(snap.Records, ss.criteria))
	ss.version = snap.Version
	return true
}

func (s *Service) view(ss *session) domain.View {
	st := ss.p.State()
	crimes := st.Selected().Terms()
	if crimes == nil {
		crimes = []string{}
	}
	rows := st.ExpandedRows()
	if rows == nil {
		rows = []string{}
	}
	return domain.View{
		ID:            ss.id,
		Version:       ss.version,
		CrimeTypes:    crimes,
		Filter:        ss.criteria,
		ExpandedRows:  rows,
		ExpandedYears: st.ExpandedYears(),
		ExpiresAt:     ss.seen.Add(s.ttl),
		Table:         ss.p.Render(),
	}
}

func (s *Service) gauge(n int) {
	if s.obs != nil {
		s.obs.SetSessions(n)
	}
}
