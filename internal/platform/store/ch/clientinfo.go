package ch

import (
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// BuildClientInfo tags queries in system.query_log with the binary name,
// role (api, import), go version, commit and host
func BuildClientInfo(name, role string) clickhouse.ClientInfo {
	host, _ := os.Hostname()
	if name == "" {
		name = "incidencia"
	}
	info := clickhouse.ClientInfo{}
	for _, p := range [][2]string{
		{name, role},
		{"go", runtime.Version()},
		{"commit", vcsShortSHA()},
		{"host", host},
	} {
		v := strings.TrimSpace(p[1])
		if v == "" {
			continue
		}
		info.Products = append(info.Products, struct {
			Name    string
			Version string
		}{Name: p[0], Version: v})
	}
	return info
}

func vcsShortSHA() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return s.Value[:7]
			}
		}
	}
	return "unknown"
}
