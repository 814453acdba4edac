package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "incidencia/internal/platform/errors"
	pnet "incidencia/internal/platform/net"
	phttp "incidencia/internal/platform/net/http"
)

func reqWithID(method, path, rid string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	return req.WithContext(pnet.WithRequest(req.Context(), rid))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestHandleSuccessEnvelope(t *testing.T) {
	h := phttp.Handle(func(*http.Request) phttp.Response {
		resp := phttp.Created(map[string]string{"id": "s1"})
		resp.Header = http.Header{"X-Session": []string{"s1"}}
		return resp
	})
	rec := httptest.NewRecorder()
	h(rec, reqWithID("POST", "/x", "rid-1"))

	if rec.Code != http.StatusCreated || rec.Header().Get("X-Session") != "s1" {
		t.Fatalf("code=%d headers=%v", rec.Code, rec.Header())
	}
	env := decode(t, rec)
	if env.StatusCode != 201 || env.RequestID != "rid-1" || env.Data == nil {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestHandleErrorBody(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{perr.NotFoundf("session not found"), http.StatusNotFound},
		{perr.Upstreamf("sheet down"), http.StatusBadGateway},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		phttp.Handle(func(*http.Request) phttp.Response { return phttp.Error(c.err) })(rec, reqWithID("GET", "/", "r"))
		if rec.Code != c.want {
			t.Fatalf("%v: code = %d, want %d", c.err, rec.Code, c.want)
		}
		if env := decode(t, rec); env.Error == "" || env.Data != nil {
			t.Fatalf("error envelope = %+v", env)
		}
	}
}

func TestHandleNoContentAndDefaultStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response { return phttp.NoContent() })(rec, reqWithID("DELETE", "/", ""))
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("no content: %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response { return phttp.Response{Body: 1} })(rec, reqWithID("GET", "/", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("zero status should default to 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response { return phttp.Accepted("queued") })(rec, reqWithID("POST", "/", ""))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("accepted: %d", rec.Code)
	}
}
