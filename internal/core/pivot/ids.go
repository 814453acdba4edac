package pivot

import "strings"

// Row id prefixes per level
const (
	zonePrefix         = "zona-"
	municipalityPrefix = "mun-"
	crimeTypePrefix    = "del-"
)

// SanitizeID replaces every rune outside [A-Za-z0-9] with '_'
func SanitizeID(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, s)
}

// ZoneRowID is the id of a zone row
func ZoneRowID(zone string) string { return zonePrefix + SanitizeID(zone) }

// MunicipalityRowID is the id of a municipality row
func MunicipalityRowID(zone, mun string) string {
	return municipalityPrefix + SanitizeID(zone) + "-" + SanitizeID(mun)
}

// CrimeTypeRowID is the id of a crime type row
func CrimeTypeRowID(zone, mun, crime string) string {
	return crimeTypePrefix + SanitizeID(zone) + "-" + SanitizeID(mun) + "-" + SanitizeID(crime)
}

// parseRowID splits id into its sanitized path segments. Sanitized segments
// never contain '-', so the split is unambiguous.
func parseRowID(id string) ([]string, bool) {
	var rest string
	var want int
	switch {
	case strings.HasPrefix(id, zonePrefix):
		rest, want = id[len(zonePrefix):], 1
	case strings.HasPrefix(id, municipalityPrefix):
		rest, want = id[len(municipalityPrefix):], 2
	case strings.HasPrefix(id, crimeTypePrefix):
		rest, want = id[len(crimeTypePrefix):], 3
	default:
		return nil, false
	}
	segs := strings.Split(rest, "-")
	if len(segs) != want {
		return nil, false
	}
	for _, s := range segs {
		if s == "" {
			return nil, false
		}
	}
	return segs, true
}

// rowID rebuilds an id from its segments
func rowID(segs []string) string {
	switch len(segs) {
	case 1:
		return zonePrefix + segs[0]
	case 2:
		return municipalityPrefix + segs[0] + "-" + segs[1]
	case 3:
		return crimeTypePrefix + strings.Join(segs, "-")
	}
	return ""
}
