package incident

import "testing"

func TestParseMonth(t *testing.T) {
	cases := []struct {
		in   string
		want Month
	}{
		{"Enero", 1},
		{"ENERO", 1},
		{" marzo ", 3},
		{"SEPTIEMBRE", 9},
		{"Setiembre", 0},
		{"12", 12},
		{"13", 0},
		{"0", 0},
		{"", 0},
		{"Sin mes", 0},
	}
	for _, c := range cases {
		if got := ParseMonth(c.in); got != c.want {
			t.Fatalf("ParseMonth(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestMonthLabels(t *testing.T) {
	if Month(1).String() != "Enero" || Month(1).Short() != "Ene" {
		t.Fatalf("January labels = %q %q", Month(1).String(), Month(1).Short())
	}
	if Month(12).Short() != "Dic" {
		t.Fatalf("December short = %q", Month(12).Short())
	}
	if Month(0).String() != NoMonth || Month(13).String() != NoMonth {
		t.Fatal("unknown months should render the sentinel")
	}
}

func TestYear(t *testing.T) {
	if ParseYear("2023") != 2023 || ParseYear("x") != 0 || ParseYear("-4") != 0 ||
		ParseYear("40000") != 0 || ParseYear("9999") != MaxYear {
		t.Fatal("ParseYear mismatch")
	}
	if Year(0).String() != NoYear || Year(2024).String() != "2024" {
		t.Fatal("Year.String mismatch")
	}
}

func TestNormalize_FillsSentinels(t *testing.T) {
	if got := Normalize(Record{Year: 70000}); got.Year != 0 {
		t.Fatalf("out of range year kept: %d", got.Year)
	}
	got := Normalize(Record{CrimeType: "  Feminicidio ", Year: -1, Month: 15})
	want := Record{
		Zone:         NoZone,
		Municipality: NoMunicipality,
		CrimeType:    "Feminicidio",
		Neighborhood: NoNeighborhood,
		Victims:      1,
	}
	if got != want {
		t.Fatalf("Normalize = %+v\nwant %+v", got, want)
	}
}

func TestNormalize_Coordinates(t *testing.T) {
	if r := Normalize(Record{Lat: 20.6, Lon: -103.3}); !r.HasCoordinates {
		t.Fatal("expected coordinates")
	}
	if r := Normalize(Record{Lat: 20.6, HasCoordinates: true}); r.HasCoordinates {
		t.Fatal("a zero longitude has no coordinates")
	}
}

func TestCanonicalCrimeType(t *testing.T) {
	cases := map[string]string{
		"Violación":             Rape,
		"VIOLENCIA FAMILIAR":    FamilyViolence,
		"Abuso sexual infantil": ChildSexualAbuse,
		"feminicidio":           Femicide,
		"Violencia de Género":   UnknownCrimeType,
		"":                      UnknownCrimeType,
		"desconocido":           UnknownCrimeType,
	}
	for in, want := range cases {
		if got := CanonicalCrimeType(in); got != want {
			t.Fatalf("CanonicalCrimeType(%q) = %q, want %q", in, got, want)
		}
	}
	if CrimeTypeLabel(Rape) != "Violación" {
		t.Fatalf("label = %q", CrimeTypeLabel(Rape))
	}
}
