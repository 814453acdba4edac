package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	perr "incidencia/internal/platform/errors"
)

func TestFetcherConditionalGet(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.Header().Set("Last-Modified", "Mon, 02 Jan 2006 15:04:05 GMT")
		_, _ = w.Write([]byte("a,b\n"))
	}))
	defer srv.Close()

	f := NewFetcher(Options{URL: srv.URL})
	ctx := context.Background()

	got, err := f.Fetch(ctx, false)
	if err != nil || got.NotModified || string(got.Body) != "a,b\n" || got.ETag != `"v1"` {
		t.Fatalf("first fetch = %+v, %v", got, err)
	}
	got, err = f.Fetch(ctx, false)
	if err != nil || !got.NotModified || len(got.Body) != 0 {
		t.Fatalf("second fetch = %+v, %v", got, err)
	}
	got, err = f.Fetch(ctx, true)
	if err != nil || got.NotModified {
		t.Fatalf("forced fetch = %+v, %v", got, err)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d", calls.Load())
	}
}

func TestFetcherRetriesTransient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := NewFetcher(Options{URL: srv.URL, MaxRetries: 1})
	var slept time.Duration
	f.sleep = func(d time.Duration) { slept += d }

	got, err := f.Fetch(context.Background(), false)
	if err != nil || string(got.Body) != "ok" {
		t.Fatalf("Fetch = %+v, %v", got, err)
	}
	if calls.Load() != 2 || slept != defaultRetryBase {
		t.Fatalf("calls = %d slept = %v", calls.Load(), slept)
	}
}

func TestFetcherErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(Options{URL: srv.URL})
	f.sleep = func(time.Duration) { t.Fatalf("404 must not be retried") }
	if _, err := f.Fetch(context.Background(), false); !perr.IsCode(err, perr.ErrorCodeUpstream) {
		t.Fatalf("404 err = %v", err)
	}

	if _, err := NewFetcher(Options{}).Fetch(context.Background(), false); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("missing url err = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Fetch(ctx, false); err == nil {
		t.Fatalf("cancelled fetch succeeded")
	}
}

func TestFileFetcher(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sheet.csv")
	if err := os.WriteFile(p, []byte(sheet), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := FileFetcher{Path: p}.Fetch(context.Background(), false)
	if err != nil || string(got.Body) != sheet {
		t.Fatalf("FileFetcher = %d bytes, %v", len(got.Body), err)
	}
	if _, err := (FileFetcher{Path: p + ".missing"}).Fetch(context.Background(), false); err == nil {
		t.Fatalf("missing file fetched")
	}
}
