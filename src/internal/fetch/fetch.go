// Package fetch retrieves chapter sources over HTTP with bounded retries,
// per-attempt timeouts and an optional outbound rate limit.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"epubgen/src/internal/httpx"
	"epubgen/src/internal/sanitize"
)

const defaultMaxBodySize = 16 << 20

// Fetcher retrieves the raw content at a location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// FetchFunc adapts a plain function to Fetcher.
type FetchFunc func(ctx context.Context, location string) ([]byte, error)

func (f FetchFunc) Fetch(ctx context.Context, location string) ([]byte, error) {
	return f(ctx, location)
}

// RetryPolicy bounds retries of transient failures. Attempts includes the
// first try; the delay before retry n is Backoff*2^(n-1), capped at MaxBackoff.
type RetryPolicy struct {
	Attempts   int
	Backoff    time.Duration
	MaxBackoff time.Duration
}

// NoRetry performs a single attempt.
var NoRetry = RetryPolicy{Attempts: 1}

// Delay returns the wait before the retry that follows failed attempt n (1-based).
func (p RetryPolicy) Delay(n int) time.Duration {
	if p.Backoff <= 0 || n < 1 {
		return 0
	}
	d := p.Backoff
	for i := 1; i < n; i++ {
		d *= 2
		if p.MaxBackoff > 0 && d >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	if p.MaxBackoff > 0 && d > p.MaxBackoff {
		return p.MaxBackoff
	}
	return d
}

// HTTPFetcher is the default Fetcher.
type HTTPFetcher struct {
	client  httpx.Doer
	retry   RetryPolicy
	timeout time.Duration
	limiter *rate.Limiter
	maxBody int64
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithClient injects the HTTP client, mainly for tests.
func WithClient(c httpx.Doer) Option { return func(f *HTTPFetcher) { f.client = c } }

// WithRetry sets the retry policy.
func WithRetry(p RetryPolicy) Option { return func(f *HTTPFetcher) { f.retry = p } }

// WithTimeout bounds every single attempt. Zero disables the bound.
func WithTimeout(d time.Duration) Option { return func(f *HTTPFetcher) { f.timeout = d } }

// WithRateLimit caps outbound requests to rps with the given burst. A
// non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(f *HTTPFetcher) {
		if rps <= 0 {
			f.limiter = nil
			return
		}
		f.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithMaxBodySize rejects bodies larger than n bytes.
func WithMaxBodySize(n int64) Option { return func(f *HTTPFetcher) { f.maxBody = n } }

// New returns an HTTPFetcher. Without options it makes a single attempt per
// location with no timeout beyond the client's own.
func New(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client:  httpx.DefaultClient,
		retry:   NoRetry,
		maxBody: defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch GETs location and returns its body. Transient failures are retried
// according to the retry policy; the returned error is always an *Error.
func (f *HTTPFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	u := sanitize.CleanURL(location)
	if u == "" {
		return nil, &Error{URL: location, Attempts: 0, Err: ErrInvalidURL}
	}
	log := zerolog.Ctx(ctx).With().Str("url", u).Logger()

	attempts := max(f.retry.Attempts, 1)
	var (
		lastErr error
		status  int
		attempt int
	)
	for attempt = 1; ; attempt++ {
		body, st, err := f.once(ctx, u)
		if err == nil {
			log.Debug().Int("attempt", attempt).Int("bytes", len(body)).Msg("Fetched chapter")
			return body, nil
		}
		lastErr, status = err, st
		if attempt >= attempts || !retryable(err) || ctx.Err() != nil {
			break
		}
		delay := f.retry.Delay(attempt)
		log.Debug().Err(err).Int("attempt", attempt).Dur("backoff", delay).Msg("Retrying chapter fetch")
		if err := sleep(ctx, delay); err != nil {
			lastErr = err
			break
		}
	}
	return nil, &Error{URL: u, Status: status, Attempts: attempt, Err: lastErr}
}

func (f *HTTPFetcher) once(ctx context.Context, u string) ([]byte, int, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, 0, fmt.Errorf("%w: %w", errLimitWait, err)
		}
	}
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("Accept", "text/html, application/xhtml+xml;q=0.9, */*;q=0.8")
	httpx.SetUA(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
		if err != nil {
			return nil, code, fmt.Errorf("read response: %w", err)
		}
		if int64(len(body)) > f.maxBody {
			return nil, code, ErrTooLarge
		}
		return body, code, nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return nil, code, ErrNotFound
	case code == http.StatusTooManyRequests:
		return nil, code, ErrRateLimited
	case code >= 500:
		return nil, code, fmt.Errorf("%w: http %d", ErrServer, code)
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, code, fmt.Errorf("%w: http %d: %s", ErrStatus, code, string(b))
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
