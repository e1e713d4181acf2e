package pageinsight

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

// Fetcher defines how the engine retrieves raw HTML.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (body io.ReadCloser, statusCode int, err error)
}

// bodyReadCloser reads the decoded, size-limited body but closes the original.
type bodyReadCloser struct {
	io.Reader
	io.Closer
}

// HTTPClient implements Fetcher using a real HTTP client.
type HTTPClient struct {
	client *http.Client
}

// ClientOptions configures the page fetcher.
type ClientOptions struct {
	// Timeout bounds the whole GET including the body read.
	Timeout time.Duration
	// BlockPrivateNetworks rejects connections to private/reserved IP ranges.
	BlockPrivateNetworks bool
}

const (
	// DefaultFetchTimeout is the fixed budget for fetching the audited page.
	DefaultFetchTimeout = 10 * time.Second

	maxRedirects = 5
	userAgent    = "PageReportBot/1.0"
)

var (
	errTooManyRedirects = errors.New("too many redirects")
	errBlockedRedirect  = errors.New("redirect to non-http(s) scheme blocked")
)

// NewHTTPClient returns a Fetcher backed by an http.Client with the given
// timeout, optionally a dialer that blocks private/reserved IP ranges, and
// redirect validation that prevents SSRF via redirect chains. Requests are
// never retried.
func NewHTTPClient(opts ClientOptions) *HTTPClient {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultFetchTimeout
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout:       opts.Timeout,
			Transport:     newTransport(opts.BlockPrivateNetworks, 10),
			CheckRedirect: safeRedirectPolicy,
		},
	}
}

func newTransport(blockPrivate bool, maxConnsPerHost int) *http.Transport {
	dialer := &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}
	if blockPrivate {
		dialer = safeDialer()
	}
	// No Proxy: the dialer must see the target address, not a proxy's.
	return &http.Transport{
		DialContext:         dialer.DialContext,
		MaxConnsPerHost:     maxConnsPerHost,
		MaxIdleConnsPerHost: maxConnsPerHost,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}

// safeRedirectPolicy validates redirect targets and limits the redirect chain length.
func safeRedirectPolicy(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("%w: stopped after %d", errTooManyRedirects, maxRedirects)
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return fmt.Errorf("%w: %s", errBlockedRedirect, req.URL.Scheme)
	}
	return nil
}

// Fetch issues a single GET and returns the body, decoded to UTF-8, with the
// response status. The charset comes from a BOM, the Content-Type header or a
// <meta> declaration, in that order, as HTML encoding sniffing specifies.
// Any status code is returned to the caller; only transport failures are errors.
func (c *HTTPClient) Fetch(ctx context.Context, targetURL string) (io.ReadCloser, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := c.client.Do(req) //nolint:bodyclose // body is returned to caller via bodyReadCloser
	if err != nil {
		return nil, 0, err
	}

	// Limit response body to 10 MB to prevent memory exhaustion from
	// extremely large or infinite responses.
	const maxResponseBody = 10 << 20
	var body io.Reader = io.LimitReader(resp.Body, maxResponseBody)

	decoded, err := charset.NewReader(body, resp.Header.Get("Content-Type"))
	switch {
	case errors.Is(err, io.EOF):
		// Empty body; nothing to decode.
		decoded = body
	case err != nil:
		_ = resp.Body.Close()
		return nil, 0, fmt.Errorf("read body: %w", err)
	}

	return &bodyReadCloser{Reader: decoded, Closer: resp.Body}, resp.StatusCode, nil
}
