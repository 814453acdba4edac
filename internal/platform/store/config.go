package store

import "incidencia/internal/platform/config"

// Config aggregates backend configuration
type Config struct {
	AppName string
	PG      PGConfig
	CH      CHConfig
}

// PGConfig configures Postgres
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int
}

// CHConfig configures ClickHouse
type CHConfig struct {
	Enabled bool
	URL     string
	Role    string
}

// FromConf reads SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_* under root. A
// backend is enabled when its DBURL is set unless ENABLED says otherwise.
func FromConf(root config.Conf, appName, role string) Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")
	pgURL := pg.MayString("DBURL", "")
	chURL := ch.MayString("DBURL", "")
	return Config{
		AppName: appName,
		PG: PGConfig{
			Enabled:     pg.MayBool("ENABLED", pgURL != "") && pgURL != "",
			URL:         pgURL,
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 4)),
			LogSQL:      pg.MayBool("LOG_SQL", false),
			SlowQueryMs: pg.MayInt("SLOW_MS", 500),
		},
		CH: CHConfig{
			Enabled: ch.MayBool("ENABLED", chURL != "") && chURL != "",
			URL:     chURL,
			Role:    role,
		},
	}
}
