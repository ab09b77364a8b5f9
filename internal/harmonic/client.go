// Package harmonic is the client for the company-intelligence API: typeahead,
// batch record fetches, filtered company search and watchlists.
package harmonic

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ppiankov/dealflow/internal/apiclient"
	"github.com/ppiankov/dealflow/internal/cache"
	"github.com/ppiankov/dealflow/internal/model"
	"go.uber.org/zap"
)

// BatchSize is the most URNs one batchGet request accepts
const BatchSize = 50

// Client talks to the intelligence API
type Client struct {
	api      *apiclient.Client
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithCache stores fetched company and person records in c
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.cacheTTL = ttl
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(cl *Client) {
		if logger != nil {
			cl.logger = logger
		}
	}
}

// New wraps an API client configured with the "apikey" header
func New(api *apiclient.Client, opts ...Option) *Client {
	c := &Client{api: api, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewAPIClient builds the underlying transport from configuration
func NewAPIClient(cfg model.HarmonicConfig, httpCfg model.HTTPConfig, pacer apiclient.Pacer, logger *zap.Logger) *apiclient.Client {
	return apiclient.New(apiclient.Config{
		BaseURL:     cfg.BaseURL,
		Auth:        apiclient.HeaderAuth{Name: "apikey", Value: cfg.APIKey},
		Timeout:     httpCfg.Timeout,
		MaxAttempts: httpCfg.MaxAttempts,
		UserAgent:   httpCfg.UserAgent,
		HTTPProxy:   httpCfg.HTTPProxy,
		HTTPSProxy:  httpCfg.HTTPSProxy,
		NoProxy:     httpCfg.NoProxy,
		Pacer:       pacer,
	}, logger)
}

// Typeahead runs a free-text search over companies and people
func (c *Client) Typeahead(ctx context.Context, query string) ([]model.TypeaheadResult, error) {
	results, err := apiclient.GetList[model.TypeaheadResult](ctx, c.api, "/search/typeahead",
		url.Values{"query": {query}}, "results")
	if err != nil {
		return nil, fmt.Errorf("typeahead %q: %w", query, err)
	}
	return results, nil
}

// FindCompanyURN returns the URN of the first company hit, or "" when none
func (c *Client) FindCompanyURN(ctx context.Context, name string) (string, error) {
	return c.firstOfType(ctx, name, "COMPANY")
}

// FindPersonURN returns the URN of the first person hit, or "" when none
func (c *Client) FindPersonURN(ctx context.Context, name string) (string, error) {
	return c.firstOfType(ctx, name, "PERSON")
}

func (c *Client) firstOfType(ctx context.Context, query, kind string) (string, error) {
	results, err := c.Typeahead(ctx, query)
	if err != nil {
		return "", err
	}
	for _, r := range results {
		if r.Type == kind && r.EntityURN != "" {
			return r.EntityURN, nil
		}
	}
	return "", nil
}

// GetPerson fetches one person record. A missing person is (nil, nil).
func (c *Client) GetPerson(ctx context.Context, urn string) (*model.Person, error) {
	var p model.Person
	err := c.api.Get(ctx, "/persons/"+url.PathEscape(urn), nil, &p)
	if apiclient.IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get person %s: %w", urn, err)
	}
	return &p, nil
}

// GetCompany fetches one company record. A missing company is (nil, nil).
func (c *Client) GetCompany(ctx context.Context, urn string) (*model.Company, error) {
	var co model.Company
	err := c.api.Get(ctx, "/companies/"+url.PathEscape(urn), nil, &co)
	if apiclient.IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get company %s: %w", urn, err)
	}
	return &co, nil
}
