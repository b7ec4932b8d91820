// Package ratefeed fetches the latest exchange rates from a remote JSON feed.
//
// The feed is queried with
//
//	GET <endpoint>?base=USD&symbols=USD,EUR,GBP
//
// and answers a document holding an object of rates per currency code:
//
//	{"base": "USD", "rates": {"EUR": 0.91, "GBP": 0.8}}
package ratefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ChrisSch-dev/budget-tracking-app"
	"github.com/ChrisSch-dev/budget-tracking-app/logger"
	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// DefaultEndpoint is the public feed queried when none is configured.
	DefaultEndpoint = "https://api.exchangerate.host/latest"
	// DefaultTimeout bounds a whole request, body included.
	DefaultTimeout = 10 * time.Second
	// DefaultRatesPath locates the rates object in the response.
	DefaultRatesPath = "$.rates"
)

// Client queries a rate feed. It implements budget.RateSource.
type Client struct {
	endpoint  string
	client    *http.Client
	timeout   time.Duration
	accessKey string
	ratesPath string
	cacheDir  string
	log       *zap.Logger
}

var _ budget.RateSource = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout sets the maximum duration of a request. Zero or negative means
// no timeout other than the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithAccessKey adds an access_key parameter to every request.
func WithAccessKey(key string) Option {
	return func(c *Client) { c.accessKey = key }
}

// WithRatesPath sets the JSONPath expression locating the rates object in the
// response, for feeds that do not put it at "$.rates".
func WithRatesPath(path string) Option {
	return func(c *Client) { c.ratesPath = path }
}

// WithDailyCache stores successful responses in dir, and reuses them for
// identical requests made the same day.
func WithDailyCache(dir string) Option {
	return func(c *Client) { c.cacheDir = dir }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for the feed at endpoint, DefaultEndpoint if empty.
func New(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint:  endpoint,
		client:    http.DefaultClient,
		timeout:   DefaultTimeout,
		ratesPath: DefaultRatesPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Named("ratefeed")
	}
	if c.cacheDir != "" {
		base := c.client.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		cached := *c.client
		cached.Transport = &diskCache{base: base, dir: c.cacheDir, log: c.log}
		c.client = &cached
	}
	return c
}

// Latest returns the rates from base to each of symbols, as published by the
// feed.
//
// Codes that are not supported currencies, and values that are not positive
// numbers, are skipped. Symbols missing from the response are absent from the
// result.
func (c *Client) Latest(ctx context.Context, base budget.Currency, symbols []budget.Currency) (map[budget.Currency]decimal.Decimal, error) {
	addr, err := c.url(base, symbols)
	if err != nil {
		return nil, err
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var jobj any
	if err := c.jwget(ctx, addr, &jobj); err != nil {
		return nil, err
	}
	return c.parse(jobj)
}

// url builds the request URL.
func (c *Client) url(base budget.Currency, symbols []budget.Currency) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid rate feed endpoint %q: %w", c.endpoint, err)
	}
	codes := make([]string, len(symbols))
	for i, s := range symbols {
		codes[i] = s.String()
	}
	q := u.Query()
	q.Set("base", base.String())
	q.Set("symbols", strings.Join(codes, ","))
	if c.accessKey != "" {
		q.Set("access_key", c.accessKey)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// jwget performs an HTTP GET request to addr and unmarshals the JSON response
// body into data. Numbers are decoded as json.Number to keep their precision.
func (c *Client) jwget(ctx context.Context, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("API error: %w", err)
	}
	defer resp.Body.Close()
	c.log.Debug("GET", zap.String("host", req.URL.Host), zap.String("path", req.URL.Path), zap.String("status", resp.Status))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(data); err != nil {
		return fmt.Errorf("invalid API JSON: %w", err)
	}
	return nil
}

// parse extracts the rates from a decoded response.
func (c *Client) parse(jobj any) (map[budget.Currency]decimal.Decimal, error) {
	// some feeds answer 200 with {"success": false, "error": {...}}
	if m, ok := jobj.(map[string]any); ok {
		if success, ok := m["success"].(bool); ok && !success {
			return nil, fmt.Errorf("rate feed refused the request: %v", m["error"])
		}
	}

	jval, err := jsonpath.Get(c.ratesPath, jobj)
	if err != nil {
		return nil, fmt.Errorf("no rates at %q in response: %w", c.ratesPath, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	jrates, ok := jval.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("no rates at %q in response: not an object", c.ratesPath)
	}

	rates := make(map[budget.Currency]decimal.Decimal, len(jrates))
	for code, v := range jrates {
		cur, err := budget.ParseCurrency(code)
		if err != nil {
			continue
		}
		rate, err := number(v)
		if err != nil || !rate.IsPositive() {
			c.log.Debug("skipping rate", zap.String("currency", code), zap.Any("value", v))
			continue
		}
		rates[cur] = rate
	}
	return rates, nil
}

// number converts a JSON value to a decimal. Some feeds send numbers as
// strings.
func number(v any) (decimal.Decimal, error) {
	switch v := v.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	case float64:
		return decimal.NewFromFloat(v), nil
	}
	return decimal.Zero, errors.New("not a number")
}
