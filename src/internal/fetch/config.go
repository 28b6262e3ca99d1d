package fetch

import "epubgen/src/internal/config"

// FromConfig returns an HTTPFetcher honoring the build's timeout, retry and
// rate-limit settings. Extra options are applied last.
func FromConfig(cfg config.Build, extra ...Option) *HTTPFetcher {
	opts := []Option{
		WithTimeout(cfg.FetchTimeout),
		WithRetry(RetryPolicy{
			Attempts:   cfg.Retry.Attempts,
			Backoff:    cfg.Retry.Backoff,
			MaxBackoff: cfg.Retry.MaxBackoff,
		}),
		WithRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	}
	return New(append(opts, extra...)...)
}
