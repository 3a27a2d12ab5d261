package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 8 << 20

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent string
	Timeout   time.Duration
	// RateLimit is requests per second per host. Zero disables limiting.
	RateLimit rate.Limit
}

// HTTPFetcher implements Fetcher using net/http with per-host rate limiting.
// It never retries.
type HTTPFetcher struct {
	client *http.Client
	opts   HTTPOptions

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewHTTPFetcher creates a new HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "quotes-cli/1.0"
	}
	transport := &http.Transport{
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     20,
		IdleConnTimeout:     90 * time.Second,
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		opts:     opts,
		limiters: make(map[string]*rate.Limiter),
	}
}

// limiterFor returns the shared limiter for the URL's host, or nil when
// rate limiting is disabled.
func (f *HTTPFetcher) limiterFor(rawURL string) *rate.Limiter {
	if f.opts.RateLimit <= 0 {
		return nil
	}
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		host = u.Host
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	lim, ok := f.limiters[host]
	if !ok {
		lim = rate.NewLimiter(f.opts.RateLimit, 1)
		f.limiters[host] = lim
	}
	return lim
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, bool) {
	body, status, err := f.get(ctx, rawURL)
	log := zap.L().With(zap.String("url", rawURL))
	if err != nil {
		log.Warn("fetch failed", zap.Error(err))
		return nil, false
	}
	if status < 200 || status > 299 {
		log.Warn("fetch: non-2xx status", zap.Int("status", status))
		return nil, false
	}
	log.Debug("fetched page", zap.Int("bytes", len(body)))
	return body, true
}

func (f *HTTPFetcher) get(ctx context.Context, rawURL string) ([]byte, int, error) {
	if lim := f.limiterFor(rawURL); lim != nil {
		if err := lim.Wait(ctx); err != nil {
			return nil, 0, eris.Wrap(err, "rate limiter wait")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, eris.Wrap(err, "do request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, resp.StatusCode, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, eris.Wrap(err, "read body")
	}
	return body, resp.StatusCode, nil
}
