package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pnet "incidencia/internal/platform/net"

	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestStaticToken(t *testing.T) {
	cases := []struct {
		token  StaticToken
		header string
		ok     bool
	}{
		{"", "", true},
		{"s3cret", "", false},
		{"s3cret", "Bearer s3cret", true},
		{"s3cret", "bearer s3cret", true},
		{"s3cret", "Bearer nope", false},
		{"s3cret", "Basic s3cret", false},
	}
	for _, c := range cases {
		req := httptest.NewRequest("POST", "/ingest/refresh", nil)
		if c.header != "" {
			req.Header.Set("Authorization", c.header)
		}
		if err := c.token.Authenticate(req); (err == nil) != c.ok {
			t.Fatalf("token=%q header=%q err=%v", c.token, c.header, err)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	h := Auth(StaticToken("s3cret"), writeJSON)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d", rec.Code)
	}
	var env pnet.Wire
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	if env.Kind != "unauthorized" {
		t.Fatalf("envelope = %+v", env)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("authorized code = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	Auth(nil, writeJSON)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {})).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("nil authenticator should pass, got %d", rec.Code)
	}
}

func TestRecoverJSON(t *testing.T) {
	h := RequestID()(RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", rec.Code)
	}
	var env pnet.Wire
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("body: %v", err)
	}
	if env.Kind != "panic" || env.RequestID == "" || rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestAccessLogObservesRoutePattern(t *testing.T) {
	var gotRoute string
	var gotStatus int
	m := chi.NewRouter()
	m.Use(AccessLog(AccessLogOptions{
		Slow: time.Nanosecond,
		Observe: func(_, route string, status int, _ time.Duration) {
			gotRoute, gotStatus = route, status
		},
	}))
	m.Get("/pivot/sessions/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write(bytes.Repeat([]byte("x"), 4))
	})

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("GET", "/pivot/sessions/abc", nil))
	if gotRoute != "/pivot/sessions/{id}" || gotStatus != http.StatusNotFound {
		t.Fatalf("observed %q %d", gotRoute, gotStatus)
	}

	rec = httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("GET", "/nowhere", nil))
	if gotRoute != "unmatched" {
		t.Fatalf("unmatched route = %q", gotRoute)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := CORS(CORSOptions{AllowedOrigins: []string{"https://dash.example"}})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	req := httptest.NewRequest("OPTIONS", "/api/v1/pivot/sessions", nil)
	req.Header.Set("Origin", "https://dash.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://dash.example" {
		t.Fatalf("allow origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
