package middleware

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"xyzrss/internal/services/cache"
)

// CacheConfig holds configuration for the response cache middleware
type CacheConfig struct {
	Cache   cache.Cache
	TTL     time.Duration
	Enabled bool
}

// responseWriter captures the response for caching
type responseWriter struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// ResponseCache serves repeated requests for the same feed from memory
// instead of re-fetching the upstream page. It also absorbs concurrent
// polls for a podcast inside the TTL window; only cache misses reach the
// origin.
func ResponseCache(config CacheConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !config.Enabled || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		if shouldBypassCache(c.Request) {
			c.Header("X-Cache", "BYPASS")
			c.Next()
			return
		}

		key := cacheKey(c.Request)

		if data, found := config.Cache.Get(context.Background(), key); found {
			contentType, body, ok := decodeEntry(data)
			if ok {
				c.Header("X-Cache", "HIT")
				c.Data(http.StatusOK, contentType, body)
				c.Abort()
				return
			}
		}

		c.Header("X-Cache", "MISS")

		w := &responseWriter{
			ResponseWriter: c.Writer,
			body:           bytes.NewBuffer(nil),
			status:         http.StatusOK,
		}
		c.Writer = w

		c.Next()

		// Only successful documents are worth keeping; failures should
		// hit the origin again on the next request.
		if w.status == http.StatusOK && w.body.Len() > 0 {
			contentType := c.Writer.Header().Get("Content-Type")
			_ = config.Cache.Set(context.Background(), key, encodeEntry(contentType, w.body.Bytes()), config.TTL)
		}
	}
}

// shouldBypassCache checks if cache should be bypassed based on request headers
func shouldBypassCache(req *http.Request) bool {
	cacheControl := strings.ToLower(req.Header.Get("Cache-Control"))
	if cacheControl != "" {
		for _, directive := range strings.Split(cacheControl, ",") {
			directive = strings.TrimSpace(directive)
			if directive == "no-cache" || directive == "no-store" || directive == "max-age=0" {
				return true
			}
		}
	}
	return req.Header.Get("Pragma") == "no-cache"
}

// cacheKey creates a unique key for the request
func cacheKey(req *http.Request) string {
	parts := []string{req.URL.Path}

	if req.URL.RawQuery != "" {
		params := req.URL.Query()
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			for _, v := range params[k] {
				parts = append(parts, fmt.Sprintf("%s=%s", k, v))
			}
		}
	}

	return "http:" + strings.Join(parts, ":")
}

// encodeEntry stores the content type alongside the body
func encodeEntry(contentType string, body []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(contentType)
	buf.WriteByte('\n')
	buf.Write(body)
	return buf.Bytes()
}

// decodeEntry splits a cached entry back into content type and body
func decodeEntry(data []byte) (string, []byte, bool) {
	idx := bytes.IndexByte(data, '\n')
	if idx < 0 {
		return "", nil, false
	}
	return string(data[:idx]), data[idx+1:], true
}
