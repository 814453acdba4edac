// Package modkit wires modules: shared deps, build options and the module contract
package modkit

import (
	"incidencia/internal/modkit/repokit"
	"incidencia/internal/platform/config"
	"incidencia/internal/platform/logger"
	"incidencia/internal/platform/metrics"
	"incidencia/internal/platform/store"
)

// Deps holds what every module may need. PG, CH and Metrics are optional
// and stay nil when the backend is disabled.
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	PG      repokit.TxRunner
	CH      store.Clickhouse
	Metrics *metrics.Metrics
}

// HasPG reports whether a Postgres runner is wired
func (d Deps) HasPG() bool { return d.PG != nil }

// HasCH reports whether a ClickHouse client is wired
func (d Deps) HasCH() bool { return d.CH != nil }
