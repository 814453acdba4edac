// Package repo stores ingest snapshots in Postgres and mirrors them to
// ClickHouse
package repo

import (
	"context"
	_ "embed"
	"time"

	"incidencia/internal/core/incident"
	"incidencia/internal/modkit/repokit"
	perr "incidencia/internal/platform/errors"
	"incidencia/internal/platform/store"
	"incidencia/internal/services/ingest/domain"
)

//go:embed schema_pg.sql
var pgSchema string

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[domain.StorageRepo] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) domain.StorageRepo { return &pg{q: q} }

// EnsurePG creates the snapshot tables when missing
func EnsurePG(ctx context.Context, q repokit.Queryer) error {
	if _, err := q.Exec(ctx, pgSchema); err != nil {
		return perr.FromPostgres(err, "ensure ingest schema")
	}
	return nil
}

var incidentCols = []string{
	"version", "seq", "reference", "zone", "municipality", "crime_type", "neighborhood",
	"year", "month", "victims", "lat", "lon", "hour", "affected_asset", "link",
}

// snapshotLockKey serializes writers across replicas; the lock is released
// when the surrounding transaction ends
const snapshotLockKey int64 = 0x696e6369

// Replace implements domain.StorageRepo. Run it inside a transaction.
func (s *pg) Replace(ctx context.Context, snap domain.Snapshot) error {
	if _, err := s.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, snapshotLockKey); err != nil {
		return perr.FromPostgres(err, "snapshot lock")
	}
	if _, err := s.q.Exec(ctx, `DELETE FROM incident_snapshots`); err != nil {
		return perr.FromPostgres(err, "clear snapshots")
	}
	if _, err := s.q.Exec(ctx, `
		INSERT INTO incident_snapshots (version, fingerprint, record_count, source, loaded_at)
		VALUES ($1, $2, $3, $4, $5)`,
		int64(snap.Version), int64(snap.Fingerprint), len(snap.Records), snap.Source, snap.LoadedAt.UTC(),
	); err != nil {
		return perr.FromPostgres(err, "insert snapshot")
	}
	if len(snap.Records) == 0 {
		return nil
	}

	rows := make([][]any, len(snap.Records))
	for i, r := range snap.Records {
		rows[i] = []any{
			int64(snap.Version), int32(i), r.Reference, r.Zone, r.Municipality, r.CrimeType, r.Neighborhood,
			int32(r.Year), int32(r.Month), int32(r.Victims), r.Lat, r.Lon, r.Hour, r.AffectedAsset, r.Link,
		}
	}
	n, err := s.q.CopyFrom(ctx, "incidents", incidentCols, rows)
	if err != nil {
		return perr.FromPostgres(err, "copy incidents")
	}
	if int(n) != len(rows) {
		return perr.Newf(perr.ErrorCodeDB, "copy incidents: wrote %d of %d rows", n, len(rows))
	}
	return nil
}

// Latest implements domain.StorageRepo
func (s *pg) Latest(ctx context.Context) (domain.Snapshot, bool, error) {
	heads, err := store.Many(ctx, s.q, scanSnapshot, `
		SELECT version, fingerprint, source, loaded_at
		  FROM incident_snapshots
		 ORDER BY version DESC
		 LIMIT 1`)
	if err != nil {
		return domain.Snapshot{}, false, perr.FromPostgres(err, "latest snapshot")
	}
	if len(heads) == 0 {
		return domain.Snapshot{}, false, nil
	}
	snap := heads[0]

	recs, err := store.Many(ctx, s.q, scanIncident, `
		SELECT reference, zone, municipality, crime_type, neighborhood,
		       year, month, victims, lat, lon, hour, affected_asset, link
		  FROM incidents
		 WHERE version = $1
		 ORDER BY seq`, int64(snap.Version))
	if err != nil {
		return domain.Snapshot{}, false, perr.FromPostgres(err, "load incidents")
	}
	snap.Records = recs
	return snap, true, nil
}

func scanSnapshot(row store.Row) (domain.Snapshot, error) {
	var (
		snap     domain.Snapshot
		ver, fp  int64
		loadedAt time.Time
	)
	if err := row.Scan(&ver, &fp, &snap.Source, &loadedAt); err != nil {
		return domain.Snapshot{}, err
	}
	snap.Version, snap.Fingerprint, snap.LoadedAt = uint64(ver), uint64(fp), loadedAt
	return snap, nil
}

func scanIncident(row store.Row) (incident.Record, error) {
	var (
		r                    incident.Record
		year, month, victims int32
	)
	if err := row.Scan(
		&r.Reference, &r.Zone, &r.Municipality, &r.CrimeType, &r.Neighborhood,
		&year, &month, &victims, &r.Lat, &r.Lon, &r.Hour, &r.AffectedAsset, &r.Link,
	); err != nil {
		return incident.Record{}, err
	}
	r.Year, r.Month, r.Victims = incident.Year(year), incident.Month(month), int(victims)
	r.HasCoordinates = r.Lat != 0 && r.Lon != 0
	return r, nil
}
