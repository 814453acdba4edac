package bind

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "incidencia/internal/platform/errors"
)

type crimeTypes struct {
	Types []string `json:"types" validate:"max=3,dive,nonblank"`
	Year  int      `json:"year" validate:"omitempty,min=1900,max=2100"`
}

func TestParseJSON(t *testing.T) {
	cases := []struct {
		name   string
		method string
		body   string
		code   perr.ErrorCode
		field  string
		ok     bool
	}{
		{name: "valid", method: "PUT", body: `{"types":["feminicidio"],"year":2023}`, ok: true},
		{name: "empty put", method: "PUT", body: "", code: perr.ErrorCodeJSON},
		{name: "empty get", method: "GET", body: "", ok: true},
		{name: "broken", method: "PUT", body: `{"types":`, code: perr.ErrorCodeJSON},
		{name: "unknown field", method: "PUT", body: `{"kinds":[]}`, code: perr.ErrorCodeJSON},
		{name: "trailing", method: "PUT", body: `{} {}`, code: perr.ErrorCodeJSON},
		{name: "blank item", method: "PUT", body: `{"types":["  "]}`, code: perr.ErrorCodeValidation, field: "types[0]"},
		{name: "year range", method: "PUT", body: `{"year":1800}`, code: perr.ErrorCodeValidation, field: "year"},
		{name: "too many", method: "PUT", body: `{"types":["a","b","c","d"]}`, code: perr.ErrorCodeValidation, field: "types"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(c.method, "/", strings.NewReader(c.body))
			if c.body == "" {
				req = httptest.NewRequest(c.method, "/", http.NoBody)
			}
			_, err := ParseJSON[crimeTypes](req)
			if c.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			e, isOurs := perr.As(err)
			if !isOurs || e.Code() != c.code {
				t.Fatalf("err = %v, want code %v", err, c.code)
			}
			if c.field != "" && e.Field() != c.field {
				t.Fatalf("field = %q, want %q", e.Field(), c.field)
			}
		})
	}
}

func TestParseJSONOptions(t *testing.T) {
	req := httptest.NewRequest("POST", "/", http.NoBody)
	if _, err := ParseJSON[crimeTypes](req, JSONOptions{AllowEmptyBody: true}); err != nil {
		t.Fatalf("empty body allowed: %v", err)
	}
	req = httptest.NewRequest("POST", "/", strings.NewReader(`{"types":[],"other":1}`))
	if _, err := ParseJSON[crimeTypes](req, JSONOptions{AllowUnknown: true}); err != nil {
		t.Fatalf("unknown allowed: %v", err)
	}
	req = httptest.NewRequest("POST", "/", strings.NewReader(`{"types":["feminicidio"]}`))
	if _, err := ParseJSON[crimeTypes](req, JSONOptions{MaxBytes: 5}); perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("truncated body should fail JSON, got %v", err)
	}
}

func TestValidationMessages(t *testing.T) {
	err := Get().Validator.Struct(crimeTypes{Year: 3000})
	field, msg := ValidationFieldAndMessage(err)
	if field != "year" || msg != "year must be at most 2100" {
		t.Fatalf("got %q %q", field, msg)
	}
	if f, m := ValidationFieldAndMessage(nil); f != "" || m != "" {
		t.Fatalf("nil should be empty")
	}
}
