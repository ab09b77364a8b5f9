// Package apiclient is the shared JSON-over-HTTP client for the Harmonic,
// Affinity and Lemlist APIs: auth, client-side pacing and bounded 429 retry.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultMaxAttempts = 5
	defaultRetryAfter  = 5 * time.Second
	maxErrorBody       = 300
)

// sleepFunc waits between rate-limited attempts; tests replace it
var sleepFunc = func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Pacer throttles requests per host
type Pacer interface {
	Wait(ctx context.Context, rawURL string) error
}

// Auth decorates outgoing requests with credentials
type Auth interface {
	Apply(req *http.Request)
}

// HeaderAuth sends the key in a named header (Harmonic uses "apikey")
type HeaderAuth struct {
	Name  string
	Value string
}

// Apply implements Auth
func (a HeaderAuth) Apply(req *http.Request) {
	req.Header.Set(a.Name, a.Value)
}

// BasicAuth sends HTTP Basic credentials; Affinity and Lemlist take an
// empty username and the key as password
type BasicAuth struct {
	Username string
	Password string
}

// Apply implements Auth
func (a BasicAuth) Apply(req *http.Request) {
	req.SetBasicAuth(a.Username, a.Password)
}

// Config configures a Client
type Config struct {
	BaseURL     string
	Auth        Auth
	Timeout     time.Duration
	MaxAttempts int
	UserAgent   string
	HTTPProxy   string
	HTTPSProxy  string
	NoProxy     string
	Pacer       Pacer        // Optional
	HTTPClient  *http.Client // Optional; overrides Timeout and proxy settings
}

// Client is a rate-limited JSON API client. Construct one per API per run
// and share it by reference.
type Client struct {
	baseURL     string
	auth        Auth
	httpClient  *http.Client
	maxAttempts int
	userAgent   string
	pacer       Pacer
	logger      *zap.Logger
}

// Response is a raw API response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// New creates a client
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = NewHTTPClient(cfg.Timeout, cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	return &Client{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		auth:        cfg.Auth,
		httpClient:  httpClient,
		maxAttempts: maxAttempts,
		userAgent:   cfg.UserAgent,
		pacer:       cfg.Pacer,
		logger:      logger,
	}
}

// Get fetches path and decodes the JSON body into out. Any non-2xx answer is
// a *StatusError; callers treating "missing" as empty check IsStatus.
func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	resp, err := c.Do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	if !isSuccess(resp.StatusCode) {
		return newStatusError(http.MethodGet, path, resp)
	}
	return decode(resp.Body, out)
}

// Post sends payload as JSON and decodes a 2xx body into out. The status code
// is returned in every case the server answered.
func (c *Client) Post(ctx context.Context, path string, payload, out any) (int, error) {
	resp, err := c.Do(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return 0, err
	}
	if !isSuccess(resp.StatusCode) {
		return resp.StatusCode, newStatusError(http.MethodPost, path, resp)
	}
	return resp.StatusCode, decode(resp.Body, out)
}

// Do performs one logical request. On 429 it waits for Retry-After (5s when
// absent) and sends the identical request again, up to MaxAttempts in total.
func (c *Client) Do(ctx context.Context, method, path string, params url.Values, payload any) (*Response, error) {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
	}

	for attempt := 1; ; attempt++ {
		if c.pacer != nil {
			if err := c.pacer.Wait(ctx, target); err != nil {
				return nil, fmt.Errorf("%s %s: %w", method, path, err)
			}
		}

		resp, err := c.send(ctx, method, target, body)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, path, err)
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		if attempt >= c.maxAttempts {
			c.logger.Warn("rate limit retries exhausted",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("attempts", attempt))
			return nil, &RateLimitError{Method: method, Path: path, Attempts: attempt}
		}

		wait := retryAfter(resp.Header.Get("Retry-After"), time.Now())
		c.logger.Info("rate limited, waiting",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("retry_after", wait),
			zap.Int("attempt", attempt))
		if err := sleepFunc(ctx, wait); err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, path, err)
		}
	}
}

func (c *Client) send(ctx context.Context, method, target string, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.auth != nil {
		c.auth.Apply(req)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       respBody,
	}, nil
}

// retryAfter parses a Retry-After value given in seconds or as an HTTP date
func retryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultRetryAfter
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return defaultRetryAfter
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
		return 0
	}
	return defaultRetryAfter
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func newStatusError(method, path string, resp *Response) *StatusError {
	body := strings.TrimSpace(string(resp.Body))
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: body}
}

func decode(body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
