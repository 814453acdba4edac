package sheets

import (
	"context"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	perr "incidencia/internal/platform/errors"
	"incidencia/internal/platform/logger"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUA        = "incidencia-ingest"
	defaultMaxRetry  = 2
	defaultRetryBase = 500 * time.Millisecond
	maxBody          = 64 << 20
)

// Fetched is one download. NotModified means the sheet matched the last
// validators and Body is empty.
type Fetched struct {
	Body         []byte
	NotModified  bool
	ETag         string
	LastModified string
	FetchedAt    time.Time
}

// Options configures the Fetcher
type Options struct {
	URL        string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	RetryBase  time.Duration
	Client     *http.Client
}

// Fetcher downloads the CSV export, remembering ETag and Last-Modified
// between calls
type Fetcher struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	sleep func(time.Duration)
	now   func() time.Time

	mu           sync.Mutex
	etag         string
	lastModified string
}

// NewFetcher builds a Fetcher with sane defaults
func NewFetcher(o Options) *Fetcher {
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	c := o.Client
	if c == nil {
		c = &http.Client{Timeout: o.Timeout}
	}
	return &Fetcher{
		http:  c,
		opts:  o,
		log:   *logger.Named("sheets"),
		sleep: time.Sleep,
		now:   time.Now,
	}
}

// Fetch downloads the sheet. force skips the conditional headers so a
// manual refresh always gets a body.
func (f *Fetcher) Fetch(ctx context.Context, force bool) (Fetched, error) {
	if f.opts.URL == "" {
		return Fetched{}, perr.InvalidArgf("sheet url is not configured")
	}
	attempts := 0
	for {
		if err := ctx.Err(); err != nil {
			return Fetched{}, err
		}
		out, retry, err := f.once(ctx, force)
		if err == nil || !retry || attempts >= f.opts.MaxRetries {
			return out, err
		}
		back := f.backoff(attempts)
		f.log.Warn().Err(err).Dur("retry_in", back).Int("attempt", attempts).Msg("sheet fetch failed retrying")
		f.sleep(back)
		attempts++
	}
}

func (f *Fetcher) once(ctx context.Context, force bool) (Fetched, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.opts.URL, nil)
	if err != nil {
		return Fetched{}, false, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "sheet request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/csv")
	if !force {
		f.mu.Lock()
		if f.etag != "" {
			req.Header.Set("If-None-Match", f.etag)
		}
		if f.lastModified != "" {
			req.Header.Set("If-Modified-Since", f.lastModified)
		}
		f.mu.Unlock()
	}

	start := f.now()
	resp, err := f.http.Do(req)
	if err != nil {
		return Fetched{}, true, perr.Wrapf(err, perr.ErrorCodeUpstream, "sheet get")
	}
	defer resp.Body.Close()

	f.log.Debug().
		Int("status", resp.StatusCode).
		Dur("latency", f.now().Sub(start)).
		Str("etag", resp.Header.Get("ETag")).
		Msg("sheet http response")

	switch {
	case resp.StatusCode == http.StatusNotModified:
		_, _ = io.Copy(io.Discard, resp.Body)
		f.mu.Lock()
		out := Fetched{NotModified: true, ETag: f.etag, LastModified: f.lastModified, FetchedAt: f.now()}
		f.mu.Unlock()
		return out, false, nil
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		if err != nil {
			return Fetched{}, true, perr.Wrapf(err, perr.ErrorCodeUpstream, "sheet read body")
		}
		out := Fetched{
			Body:         body,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			FetchedAt:    f.now(),
		}
		f.mu.Lock()
		f.etag, f.lastModified = out.ETag, out.LastModified
		f.mu.Unlock()
		return out, false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 2048))
		return Fetched{}, true, perr.Upstreamf("sheet transient status %d", resp.StatusCode)
	default:
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Fetched{}, false, perr.Upstreamf("sheet unexpected status %d body %s", resp.StatusCode, string(tail))
	}
}

func (f *Fetcher) backoff(attempt int) time.Duration {
	d := f.opts.RetryBase << uint(attempt)
	if d > 30*time.Second || d <= 0 {
		d = 30 * time.Second
	}
	return d
}

// FileFetcher serves a local CSV export, for one-shot imports and tests
type FileFetcher struct {
	Path string
}

// Fetch reads the whole file on every call
func (f FileFetcher) Fetch(ctx context.Context, _ bool) (Fetched, error) {
	if err := ctx.Err(); err != nil {
		return Fetched{}, err
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return Fetched{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read %s", f.Path)
	}
	return Fetched{Body: b, FetchedAt: time.Now()}, nil
}
