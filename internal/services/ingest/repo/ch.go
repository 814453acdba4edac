package repo

import (
	"context"
	_ "embed"

	perr "incidencia/internal/platform/errors"
	"incidencia/internal/platform/store"
	"incidencia/internal/services/ingest/domain"
)

//go:embed schema_ch.sql
var chSchema string

const chTable = "incidencia.incidents"

var chCols = []string{
	"version", "seq", "reference", "zone", "municipality", "crime_type", "neighborhood",
	"year", "month", "victims", "lat", "lon", "loaded_at",
}

// CHMirror appends each published snapshot to ClickHouse and drops older
// versions
type CHMirror struct{ ch store.Clickhouse }

// NewCHMirror returns nil when ch is nil so callers can skip mirroring
func NewCHMirror(ch store.Clickhouse) *CHMirror {
	if ch == nil {
		return nil
	}
	return &CHMirror{ch: ch}
}

// Ensure creates the mirror table when missing
func (m *CHMirror) Ensure(ctx context.Context) error {
	if err := m.ch.Exec(ctx, `CREATE DATABASE IF NOT EXISTS incidencia`); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "ensure ch database")
	}
	if err := m.ch.Exec(ctx, chSchema); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "ensure ch table")
	}
	return nil
}

// Mirror implements domain.Mirror
func (m *CHMirror) Mirror(ctx context.Context, s domain.Snapshot) error {
	if len(s.Records) > 0 {
		rows := make([][]any, len(s.Records))
		loaded := s.LoadedAt.UTC()
		for i, r := range s.Records {
			rows[i] = []any{
				s.Version, uint32(i), r.Reference, r.Zone, r.Municipality, r.CrimeType, r.Neighborhood,
				uint16(max(int(r.Year), 0)), uint8(max(int(r.Month), 0)), uint32(r.Victims), r.Lat, r.Lon, loaded,
			}
		}
		if err := m.ch.Insert(ctx, chTable, chCols, rows); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeDB, "ch insert incidents")
		}
	}
	if err := m.ch.Exec(ctx, `ALTER TABLE `+chTable+` DELETE WHERE version < ?`, s.Version); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "ch prune versions")
	}
	return nil
}
