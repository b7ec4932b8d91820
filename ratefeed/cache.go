package ratefeed

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// diskCache is an http.RoundTripper storing successful responses on disk.
//
// Entries are keyed by day, so that rates are fetched at most once a day for
// the same query.
type diskCache struct {
	base http.RoundTripper
	dir  string
	now  func() time.Time // nil is time.Now
	log  *zap.Logger
}

// RoundTrip implements the http.RoundTripper interface. It checks for a cached
// response on disk first. If none is found, it proceeds with the actual HTTP
// request and caches the response if it is successful.
func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	key := c.key(req)

	if cached, err := c.get(key, req); err == nil {
		c.log.Debug("cache hit", zap.String("method", req.Method), zap.String("host", req.URL.Host), zap.String("path", req.URL.Path))
		return cached, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		c.log.Warn("cache write error (ignored)", zap.String("dir", c.dir), zap.Error(err))
	}
	return resp, nil
}

// key returns the file name of the cache entry for req.
func (c *diskCache) key(req *http.Request) string {
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	day := now().Format("2006-01-02")
	key := fmt.Sprintf("%s %s %s", day, req.Method, req.URL.String())
	return fmt.Sprintf("rates-%s-%x", day, sha1.Sum([]byte(key)))
}

// get retrieves a cached response from disk.
func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put stores a response in the disk cache. The response body remains
// readable.
func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0644)
}
