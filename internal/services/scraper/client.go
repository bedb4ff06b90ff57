package scraper

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"xyzrss/pkg/errors"
)

// defaultUserAgent mimics a current desktop Chrome. The platform serves its
// pages to browsers only; requests without a browser identity risk being
// blocked outright.
const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36"

// Config holds configuration for the page client
type Config struct {
	Timeout   time.Duration // Default: 15s
	UserAgent string        // Default: desktop Chrome
}

// Client fetches public podcast pages from the origin platform.
// One best-effort attempt per call, no retries.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new page client
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent: cfg.UserAgent,
	}
}

// FetchPage performs a single GET against pageURL and returns the raw HTML.
// Non-2xx responses and network failures are normalized to AppError with
// code UPSTREAM_UNAVAILABLE; the upstream status code is carried through
// verbatim when one was received.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInvalidInput, "create request")
	}
	c.setBrowserHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts, DNS failures and connection resets all land here.
		return "", errors.UpstreamError(http.StatusBadGateway, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := resp.Status
		if reason == "" {
			reason = http.StatusText(resp.StatusCode)
		}
		return "", errors.UpstreamError(resp.StatusCode, reason)
	}

	// We advertise Accept-Encoding ourselves, so the transport does not
	// decompress for us and both advertised codings must be handled here.
	body, err := decodeBody(resp.Body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return "", errors.UpstreamError(http.StatusBadGateway, "read response body: "+err.Error())
	}

	return string(body), nil
}

// decodeBody reads the response body, undoing the content coding the
// upstream applied. "deflate" is served both zlib-wrapped and as raw flate
// in the wild, so both are accepted.
func decodeBody(body io.Reader, contentEncoding string) ([]byte, error) {
	switch {
	case strings.Contains(contentEncoding, "gzip"):
		gzReader, err := gzip.NewReader(body)
		if err != nil {
			return nil, err
		}
		defer gzReader.Close()
		return io.ReadAll(gzReader)

	case strings.Contains(contentEncoding, "deflate"):
		compressed, err := io.ReadAll(body)
		if err != nil {
			return nil, err
		}
		if zReader, err := zlib.NewReader(bytes.NewReader(compressed)); err == nil {
			defer zReader.Close()
			return io.ReadAll(zReader)
		}
		flReader := flate.NewReader(bytes.NewReader(compressed))
		defer flReader.Close()
		return io.ReadAll(flReader)

	default:
		return io.ReadAll(body)
	}
}

// setBrowserHeaders sets the header set a desktop browser would send when
// navigating to the page. The language chain matches the platform's primary
// audience.
func (c *Client) setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8,en-GB;q=0.7,en-US;q=0.6")
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Sec-Fetch-User", "?1")
	req.Header.Set("Cache-Control", "max-age=0")
}
