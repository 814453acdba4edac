package module

import (
	"time"

	"incidencia/internal/platform/config"
)

// DefaultSheetURL is the public CSV export the dashboard has always read
const DefaultSheetURL = "https://docs.google.com/spreadsheets/d/1X_d7ncZSUiDMkeZmD1MyE5jIi58qGacFrTRE4-d62as/export?format=csv&gid=0"

// Options for the ingest module
type Options struct {
	SheetURL    string
	File        string
	Interval    time.Duration
	HTTPTimeout time.Duration
	MaxRetries  int
	Token       string
}

// FromConfig fills options from environment
// CORE_INGEST_SHEET_URL is the CSV export to poll
// CORE_INGEST_FILE reads a local CSV instead of the URL when set
// CORE_INGEST_INTERVAL (default 30s) is the poll period
// CORE_INGEST_HTTP_TIMEOUT (default 15s) bounds one download
// CORE_INGEST_RETRIES (default 2) retries transient download failures
// CORE_API_TOKEN, when set, is required as a bearer token for manual refreshes
func FromConfig(cfg config.Conf) Options {
	n := cfg.Prefix("CORE_INGEST_")
	return Options{
		SheetURL:    n.MayString("SHEET_URL", DefaultSheetURL),
		File:        n.MayString("FILE", ""),
		Interval:    n.MayDuration("INTERVAL", 30*time.Second),
		HTTPTimeout: n.MayDuration("HTTP_TIMEOUT", 15*time.Second),
		MaxRetries:  n.MayInt("RETRIES", 2),
		Token:       cfg.Prefix("CORE_API_").MayString("TOKEN", ""),
	}
}
