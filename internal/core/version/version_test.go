package version

import "testing"

func TestInfo(t *testing.T) {
	bi := Info("incidencia-api")
	if bi.Service != "incidencia-api" || bi.Version != "dev" || bi.Commit == "" {
		t.Fatalf("Info = %+v", bi)
	}
}
