package httpx

import (
	"net/http"
	"time"
)

// Doer is the minimal HTTP client interface used across packages.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// UserAgent identifies chapter fetches to the origin server.
const UserAgent = "epubgen/1.0 (+https://github.com/epubgen)"

// DefaultClient is used when no Doer is injected. Per-request deadlines come
// from the request context, so the client-level timeout is only a backstop.
var DefaultClient Doer = &http.Client{Timeout: 2 * time.Minute}

// SetUA sets the UserAgent header on the request.
func SetUA(req *http.Request) {
	if req != nil {
		req.Header.Set("User-Agent", UserAgent)
	}
}
