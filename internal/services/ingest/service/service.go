// Package service loads the incident spreadsheet, publishes snapshots and
// keeps the persisted copy in step
package service

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"incidencia/internal/adapters/ingest/sheets"
	"incidencia/internal/modkit/repokit"
	perr "incidencia/internal/platform/errors"
	"incidencia/internal/platform/logger"
	"incidencia/internal/services/ingest/domain"
)

// Source yields the raw CSV export. force bypasses conditional requests.
type Source interface {
	Fetch(ctx context.Context, force bool) (sheets.Fetched, error)
}

// Observer receives refresh outcomes; *metrics.Metrics satisfies it
type Observer interface {
	ObserveRefresh(outcome string)
	SetSnapshot(version uint64, records int)
}

// Config controls the poll loop
type Config struct {
	Interval time.Duration
	Name     string // source label stored with snapshots
}

// Service owns the live snapshot
type Service struct {
	src    Source
	db     repokit.TxRunner
	binder repokit.Binder[domain.StorageRepo]
	mirror domain.Mirror
	obs    Observer
	cfg    Config
	now    func() time.Time

	cur    atomic.Pointer[domain.Snapshot]
	runMu  sync.Mutex
	active atomic.Bool

	stMu   sync.Mutex
	status domain.Status
}

// New constructs the ingest service. db and mirror may be nil, in which
// case snapshots only live in memory.
func New(src Source, db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo], mirror domain.Mirror, obs Observer, cfg Config) *Service {
	if src == nil {
		panic("ingest.Service requires a non nil Source")
	}
	if db != nil && binder == nil {
		panic("ingest.Service requires a Repo binder when a TxRunner is set")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	s := &Service{src: src, db: db, binder: binder, mirror: mirror, obs: obs, cfg: cfg, now: time.Now}
	s.cur.Store(&domain.Snapshot{})
	return s
}

// Current returns the live snapshot without locking
func (s *Service) Current() domain.Snapshot { return *s.cur.Load() }

// Status returns the ingest health view
func (s *Service) Status() domain.Status {
	s.stMu.Lock()
	st := s.status
	s.stMu.Unlock()
	cur := s.Current()
	st.Version, st.Records, st.Fingerprint = cur.Version, len(cur.Records), cur.Fingerprint
	if !cur.LoadedAt.IsZero() {
		t := cur.LoadedAt
		st.LoadedAt = &t
	}
	st.Running = s.active.Load()
	return st
}

// Warm publishes the last persisted snapshot; a missing store or an empty
// table is not an error
func (s *Service) Warm(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	var (
		snap domain.Snapshot
		ok   bool
	)
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var e error
		snap, ok, e = repokit.MustBind(s.binder, q).Latest(ctx)
		return e
	})
	if err != nil {
		return err
	}
	if !ok {
		logger.C(ctx).Info().Str("mod", "ingest").Msg("ingest: no persisted snapshot")
		return nil
	}
	s.publish(snap)
	logger.C(ctx).Info().
		Str("mod", "ingest").
		Uint64("version", snap.Version).
		Int("records", len(snap.Records)).
		Msg("ingest: warmed from store")
	return nil
}

// Refresh fetches and, when the data changed, publishes a new snapshot.
// A scheduled refresh is skipped while another one runs; a manual one waits.
func (s *Service) Refresh(ctx context.Context, manual bool) (domain.RefreshResult, error) {
	l := logger.C(ctx).With().Str("mod", "ingest").Bool("manual", manual).Logger()

	if manual {
		s.runMu.Lock()
	} else if !s.runMu.TryLock() {
		l.Debug().Msg("ingest: refresh already running; skip")
		s.observe(domain.OutcomeSkipped)
		return domain.RefreshResult{Outcome: domain.OutcomeSkipped, Version: s.Current().Version}, nil
	}
	defer s.runMu.Unlock()
	s.active.Store(true)
	defer s.active.Store(false)

	start := s.now()
	res, err := s.refresh(ctx, manual)
	res.Took = s.now().Sub(start)
	s.record(res, err)
	if err != nil {
		l.Error().Err(err).Msg("ingest: refresh failed")
		return res, err
	}
	ev := l.Debug()
	if res.Outcome == domain.OutcomeChanged {
		ev = l.Info()
	}
	ev.Str("outcome", string(res.Outcome)).
		Uint64("version", res.Version).
		Int("records", res.Records).
		Dur("took", res.Took).
		Msg("ingest: refresh done")
	return res, nil
}

func (s *Service) refresh(ctx context.Context, manual bool) (domain.RefreshResult, error) {
	prev := s.Current()
	res := domain.RefreshResult{Version: prev.Version, Records: len(prev.Records), Fingerprint: prev.Fingerprint}

	got, err := s.src.Fetch(ctx, manual)
	if err != nil {
		res.Outcome = domain.OutcomeError
		return res, err
	}
	if got.NotModified {
		res.Outcome = domain.OutcomeNotModified
		return res, nil
	}

	recs, st, err := sheets.Parse(bytes.NewReader(got.Body))
	if err != nil {
		res.Outcome = domain.OutcomeError
		return res, err
	}
	res.Skipped, res.Located = st.Skipped, st.Located

	fp := sheets.Fingerprint(recs)
	if !prev.Empty() && fp == prev.Fingerprint {
		res.Outcome = domain.OutcomeUnchanged
		return res, nil
	}

	snap := domain.Snapshot{
		Version:     prev.Version + 1,
		Fingerprint: fp,
		Records:     recs,
		LoadedAt:    got.FetchedAt,
		Source:      s.cfg.Name,
	}
	if snap.LoadedAt.IsZero() {
		snap.LoadedAt = s.now()
	}
	s.publish(snap)
	res.Outcome, res.Version, res.Records, res.Fingerprint = domain.OutcomeChanged, snap.Version, len(recs), fp

	// the live snapshot stays published even when the stores lag behind
	if err := s.persist(ctx, snap); err != nil {
		res.PersistErr = err.Error()
		logger.C(ctx).Warn().Err(err).Uint64("version", snap.Version).Msg("ingest: persist failed")
	}
	return res, nil
}

func (s *Service) persist(ctx context.Context, snap domain.Snapshot) error {
	if s.db != nil {
		if err := s.db.Tx(ctx, func(q repokit.Queryer) error {
			return repokit.MustBind(s.binder, q).Replace(ctx, snap)
		}); err != nil {
			return err
		}
	}
	if s.mirror != nil {
		if err := s.mirror.Mirror(ctx, snap); err != nil {
			return perr.Wrapf(err, perr.CodeOf(err), "mirror snapshot %d", snap.Version)
		}
	}
	return nil
}

func (s *Service) publish(snap domain.Snapshot) {
	s.cur.Store(&snap)
	if s.obs != nil {
		s.obs.SetSnapshot(snap.Version, len(snap.Records))
	}
}

func (s *Service) record(res domain.RefreshResult, err error) {
	now := s.now()
	s.stMu.Lock()
	s.status.LastAttempt = &now
	s.status.LastOutcome = res.Outcome
	s.status.LastError = ""
	if err != nil {
		s.status.LastError = err.Error()
	}
	s.stMu.Unlock()
	s.observe(res.Outcome)
}

func (s *Service) observe(o domain.Outcome) {
	if s.obs != nil {
		s.obs.ObserveRefresh(string(o))
	}
}

// Run refreshes on every tick until ctx is done. Errors are logged by
// Refresh and the previous snapshot stays live.
func (s *Service) Run(ctx context.Context) error {
	t := time.NewTicker(s.cfg.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			_, _ = s.Refresh(ctx, false)
		}
	}
}
