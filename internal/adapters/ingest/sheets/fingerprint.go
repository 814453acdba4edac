package sheets

import (
	"strconv"

	"incidencia/internal/core/incident"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes every field of every record in order. Equal
// fingerprints mean the dashboard would not change.
func Fingerprint(records []incident.Record) uint64 {
	d := xxhash.New()
	var buf []byte
	for _, r := range records {
		buf = buf[:0]
		for _, s := range [...]string{r.Reference, r.Zone, r.Municipality, r.CrimeType, r.Neighborhood, r.Hour, r.AffectedAsset, r.Link} {
			buf = append(buf, s...)
			buf = append(buf, 0x1f)
		}
		buf = strconv.AppendInt(buf, int64(r.Victims), 10)
		buf = append(buf, 0x1f)
		buf = strconv.AppendInt(buf, int64(r.Year), 10)
		buf = append(buf, 0x1f)
		buf = strconv.AppendInt(buf, int64(r.Month), 10)
		buf = append(buf, 0x1f)
		buf = strconv.AppendBool(buf, r.HasCoordinates)
		buf = append(buf, 0x1f)
		buf = strconv.AppendFloat(buf, r.Lat, 'g', -1, 64)
		buf = append(buf, 0x1f)
		buf = strconv.AppendFloat(buf, r.Lon, 'g', -1, 64)
		buf = append(buf, 0x1e)
		_, _ = d.Write(buf)
	}
	return d.Sum64()
}
