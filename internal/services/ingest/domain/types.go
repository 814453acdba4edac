// Package domain defines the ingest snapshot types and ports
package domain

import (
	"time"

	"incidencia/internal/core/incident"
)

// Snapshot is one published version of the incident data set. Records are
// shared read-only between every reader of the snapshot.
type Snapshot struct {
	Version     uint64            `json:"version"`
	Fingerprint uint64            `json:"fingerprint"`
	Records     []incident.Record `json:"-"`
	LoadedAt    time.Time         `json:"loaded_at"`
	Source      string            `json:"source,omitempty"`
}

// Empty reports whether nothing was ever loaded
func (s Snapshot) Empty() bool { return s.Version == 0 }

// Outcome labels a refresh for metrics and status
type Outcome string

const (
	OutcomeChanged     Outcome = "changed"
	OutcomeUnchanged   Outcome = "unchanged"
	OutcomeNotModified Outcome = "not_modified"
	OutcomeSkipped     Outcome = "skipped"
	OutcomeError       Outcome = "error"
)

// RefreshResult reports one Refresh call
type RefreshResult struct {
	Outcome     Outcome       `json:"outcome"`
	Version     uint64        `json:"version"`
	Records     int           `json:"records"`
	Skipped     int           `json:"skipped_rows"`
	Located     int           `json:"located"`
	Fingerprint uint64        `json:"fingerprint"`
	Took        time.Duration `json:"took_ns"`
	PersistErr  string        `json:"persist_error,omitempty"`
}

// Status is the ingest health view
type Status struct {
	Version     uint64     `json:"version"`
	Records     int        `json:"records"`
	Fingerprint uint64     `json:"fingerprint"`
	LoadedAt    *time.Time `json:"loaded_at,omitempty"`
	LastAttempt *time.Time `json:"last_attempt,omitempty"`
	LastOutcome Outcome    `json:"last_outcome,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
	Running     bool       `json:"running"`
}
