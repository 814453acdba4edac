package sheets

import (
	"strings"
	"testing"

	"incidencia/internal/core/incident"
)

const sheet = `Fecha,Delito,Folio,Fuente,Colonia,Municipio,X,Hora,Bien afectado,Zona,Y
15/03/2023,Feminicidio,1,a,Centro,Guadalajara,"-103,35",22:00,Casa,Centro,20.67
2024,,2,b,,Zapopan,NA,,,,NA
sin fecha,Violación,3,c,Las Aguilas,Zapopan,-103.41,,,
solo,tres,campos

01/13/2022,Abuso sexual infantil,4,d,Oblatos,Guadalajara,-103.3,x,y,Norte,
`

func TestParse(t *testing.T) {
	recs, st, err := Parse(strings.NewReader(sheet))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(recs) != 4 {
		t.Fatalf("records = %d, want 4: %+v", len(recs), recs)
	}
	if st.Skipped != 1 || st.Located != 1 {
		t.Fatalf("stats = %+v", st)
	}

	r := recs[0]
	if r.Year != 2023 || r.Month != 3 || r.Municipality != "Guadalajara" || r.Neighborhood != "Centro" {
		t.Fatalf("row 0 = %+v", r)
	}
	if r.Lon != -103.35 || r.Lat != 20.67 || !r.HasCoordinates {
		t.Fatalf("row 0 coords = %v,%v", r.Lat, r.Lon)
	}
	if r.Hour != "22:00" || r.AffectedAsset != "Casa" || r.Zone != "Centro" || r.Reference != "15/03/2023" {
		t.Fatalf("row 0 extras = %+v", r)
	}

	r = recs[1]
	if r.CrimeType != DefaultCrimeType || r.Year != 2024 || r.Month != 0 || r.HasCoordinates {
		t.Fatalf("row 1 = %+v", r)
	}
	if r.Zone != incident.NoZone || r.Neighborhood != incident.NoNeighborhood {
		t.Fatalf("row 1 sentinels = %+v", r)
	}

	if recs[2].Year != DefaultYear || recs[2].HasCoordinates {
		t.Fatalf("row 2 = %+v", recs[2])
	}
	// month 13 is not a month
	if recs[3].Month != 0 || recs[3].Year != 2022 || recs[3].Victims != 1 {
		t.Fatalf("row 3 = %+v", recs[3])
	}
}

func TestParseWithoutCoordinateColumns(t *testing.T) {
	recs, _, err := Parse(strings.NewReader("fecha,delito,a,b,c,municipio\n2023,x,,,,Zapopan\n"))
	if err != nil || len(recs) != 0 {
		t.Fatalf("Parse = %d records, err %v", len(recs), err)
	}
}

func TestParseHeaderAliases(t *testing.T) {
	in := "\ufeffFecha,Delito,a,Latitude,Colonia,Municipio,LNG\n01/02/2020,Feminicidio,,20.5,Centro,Tonala,-103.2\n"
	recs, _, err := Parse(strings.NewReader(in))
	if err != nil || len(recs) != 1 {
		t.Fatalf("Parse = %+v, %v", recs, err)
	}
	if recs[0].Lat != 20.5 || recs[0].Lon != -103.2 || recs[0].Month != 2 {
		t.Fatalf("record = %+v", recs[0])
	}
}

func TestParseEmpty(t *testing.T) {
	recs, st, err := Parse(strings.NewReader(""))
	if err != nil || recs != nil || st != (Stats{}) {
		t.Fatalf("Parse(empty) = %v %+v %v", recs, st, err)
	}
}

func TestCoord(t *testing.T) {
	cases := map[string]float64{
		"":        0,
		"NA":      0,
		"na":      0,
		"20.5":    20.5,
		"-103,25": -103.25,
		"abc":     0,
	}
	for in, want := range cases {
		if got := coord(in); got != want {
			t.Errorf("coord(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFingerprint(t *testing.T) {
	a := []incident.Record{
		{Reference: "r1", Municipality: "Zapopan", Victims: 1, Year: 2023, Month: 1},
		{Reference: "r2", Municipality: "Tonala", Victims: 2, Year: 2024, Month: 0},
	}
	b := append([]incident.Record(nil), a...)
	if Fingerprint(a) != Fingerprint(b) {
		t.Fatalf("equal records hash differently")
	}
	edits := []struct {
		name string
		edit func(*incident.Record)
	}{
		{"zone", func(r *incident.Record) { r.Zone = "Norte" }},
		{"crime type", func(r *incident.Record) { r.CrimeType = "Feminicidio" }},
		{"neighborhood", func(r *incident.Record) { r.Neighborhood = "Centro" }},
		{"coordinates", func(r *incident.Record) { r.Lat, r.Lon, r.HasCoordinates = 20.6, -103.3, true }},
		{"hour", func(r *incident.Record) { r.Hour = "22:00" }},
		{"asset", func(r *incident.Record) { r.AffectedAsset = "Vida" }},
	}
	for _, tc := range edits {
		c := append([]incident.Record(nil), a...)
		tc.edit(&c[0])
		if Fingerprint(a) == Fingerprint(c) {
			t.Fatalf("%s change not detected", tc.name)
		}
	}
	b[1].Victims = 3
	if Fingerprint(a) == Fingerprint(b) {
		t.Fatalf("victims change not detected")
	}
	swapped := []incident.Record{a[1], a[0]}
	if Fingerprint(a) == Fingerprint(swapped) {
		t.Fatalf("order change not detected")
	}
	if Fingerprint(nil) != Fingerprint([]incident.Record{}) {
		t.Fatalf("empty fingerprints differ")
	}
}
