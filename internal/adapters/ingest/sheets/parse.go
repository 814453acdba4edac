package sheets

import (
	"encoding/csv"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	"incidencia/internal/core/incident"
	perr "incidencia/internal/platform/errors"
	"incidencia/internal/platform/logger"
)

// Positional columns of the sheet
const (
	colDate          = 0
	colCrimeType     = 1
	colNeighborhood  = 4
	colMunicipality  = 5
	colHour          = 7
	colAffectedAsset = 8
	colZone          = 9

	minFields = 6
)

// DefaultCrimeType labels rows whose crime type cell is blank
const DefaultCrimeType = "Violencia de Género"

// DefaultYear is assumed when the date cell carries no four digit year
const DefaultYear incident.Year = 2025

var (
	lonHeaders = []string{"x", "longitud", "lon", "lng", "longitude"}
	latHeaders = []string{"y", "latitud", "lat", "latitude"}

	yearRe  = regexp.MustCompile(`\d{4}`)
	monthRe = regexp.MustCompile(`/(\d{1,2})/`)
)

// ErrNoCoordinates is logged when the header has no latitude or longitude
// column; Parse then returns no records
var ErrNoCoordinates = errors.New("sheet has no coordinate columns")

// Stats describes one parse
type Stats struct {
	Rows    int
	Skipped int
	Located int
}

// Parse reads a CSV export into normalized records. Malformed rows are
// skipped and counted, never fatal.
func Parse(r io.Reader) ([]incident.Record, Stats, error) {
	log := logger.Named("sheets")

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, Stats{}, nil
	}
	if err != nil {
		return nil, Stats{}, perr.Wrapf(err, perr.ErrorCodeUpstream, "sheet header")
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	lonIdx, latIdx := indexOf(header, lonHeaders), indexOf(header, latHeaders)
	if lonIdx < 0 || latIdx < 0 {
		log.Error().Err(ErrNoCoordinates).Strs("headers", header).Msg("sheet parse")
		return nil, Stats{}, nil
	}

	var (
		out []incident.Record
		st  Stats
	)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				st.Skipped++
				log.Debug().Err(err).Msg("sheet row skipped")
				continue
			}
			return nil, st, perr.Wrapf(err, perr.ErrorCodeUpstream, "sheet read")
		}
		st.Rows++
		if len(row) < minFields || blank(row) {
			st.Skipped++
			continue
		}
		rec := recordOf(row, lonIdx, latIdx)
		if rec.HasCoordinates {
			st.Located++
		}
		out = append(out, rec)
	}
	log.Debug().Int("rows", st.Rows).Int("skipped", st.Skipped).Int("located", st.Located).Msg("sheet parsed")
	return out, st, nil
}

func recordOf(row []string, lonIdx, latIdx int) incident.Record {
	date := cell(row, colDate)
	year, month := DefaultYear, incident.Month(0)
	if m := yearRe.FindString(date); m != "" {
		year = incident.ParseYear(m)
	}
	if m := monthRe.FindStringSubmatch(date); m != nil {
		month = incident.ParseMonth(m[1])
	}
	crime := cell(row, colCrimeType)
	if crime == "" {
		crime = DefaultCrimeType
	}
	return incident.Normalize(incident.Record{
		Reference:     date,
		Zone:          cell(row, colZone),
		Municipality:  cell(row, colMunicipality),
		CrimeType:     crime,
		Neighborhood:  cell(row, colNeighborhood),
		Year:          year,
		Month:         month,
		Victims:       1,
		Lat:           coord(cell(row, latIdx)),
		Lon:           coord(cell(row, lonIdx)),
		Hour:          cell(row, colHour),
		AffectedAsset: cell(row, colAffectedAsset),
	})
}

// coord parses a coordinate, accepting a decimal comma; NA and garbage are 0
func coord(s string) float64 {
	if s == "" || strings.EqualFold(s, "NA") {
		return 0
	}
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0
	}
	return f
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func indexOf(header, names []string) int {
	for i, h := range header {
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return -1
}
