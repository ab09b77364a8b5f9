package harmonic

import (
	"context"
	"fmt"

	"github.com/ppiankov/dealflow/internal/apiclient"
	"github.com/ppiankov/dealflow/internal/cache"
	"github.com/ppiankov/dealflow/internal/model"
	"go.uber.org/zap"
)

type urnsRequest struct {
	URNs []string `json:"urns"`
}

// BatchGetCompanies fetches company records in chunks of BatchSize.
// Records come back in the order of urns; unknown URNs are absent.
func (c *Client) BatchGetCompanies(ctx context.Context, urns []string) ([]model.Company, error) {
	byURN, err := batchGet(ctx, c, "/companies/batchGet", "company", urns,
		func(co *model.Company) string { return co.URN() },
		"results", "companies")
	if err != nil {
		return nil, err
	}

	out := make([]model.Company, 0, len(byURN))
	seen := make(map[string]bool, len(urns))
	for _, urn := range urns {
		if co, ok := byURN[urn]; ok && !seen[urn] {
			seen[urn] = true
			out = append(out, co)
		}
	}
	return out, nil
}

// BatchGetPersons fetches person records in chunks of BatchSize, keyed by URN
func (c *Client) BatchGetPersons(ctx context.Context, urns []string) (map[string]model.Person, error) {
	return batchGet(ctx, c, "/persons/batchGet", "person", urns,
		func(p *model.Person) string { return p.URN() },
		"results", "people")
}

func batchGet[T any](ctx context.Context, c *Client, path, kind string, urns []string, urnOf func(*T) string, keys ...string) (map[string]T, error) {
	out := make(map[string]T, len(urns))

	var missing []string
	for _, urn := range dedupe(urns) {
		var rec T
		if c.cache != nil && cache.GetJSON(c.cache, cache.Key(kind, urn), &rec) {
			out[urn] = rec
			continue
		}
		missing = append(missing, urn)
	}
	if len(urns) > 0 {
		c.logger.Debug("batch get",
			zap.String("kind", kind),
			zap.Int("requested", len(urns)),
			zap.Int("cached", len(out)))
	}

	for start := 0; start < len(missing); start += BatchSize {
		end := min(start+BatchSize, len(missing))
		records, err := apiclient.PostList[T](ctx, c.api, path, urnsRequest{URNs: missing[start:end]}, keys...)
		if err != nil {
			return nil, fmt.Errorf("%s batch get: %w", kind, err)
		}
		for i := range records {
			urn := urnOf(&records[i])
			if urn == "" {
				continue
			}
			out[urn] = records[i]
			if c.cache != nil {
				if err := cache.SetJSON(c.cache, cache.Key(kind, urn), records[i], c.cacheTTL); err != nil {
					c.logger.Debug("cache write failed", zap.String("urn", urn), zap.Error(err))
				}
			}
		}
	}
	return out, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
