package harmonic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Comparators understood by the search endpoint
const (
	AnyOf              = "anyOf"
	GreaterThanOrEqual = "greaterThanOrEquals"
	LessThanOrEqual    = "lessThanOrEquals"
)

// Filter is one field/comparator/value condition
type Filter struct {
	Field      string `json:"field"`
	Comparator string `json:"comparator"`
	Value      any    `json:"filter_value"`
}

// SearchQuery is an AND-joined set of filters with a sort order
type SearchQuery struct {
	Filters    []Filter
	PageSize   int
	SortField  string
	Descending bool
}

// EarlyStageQuery finds pre-seed and seed companies with at least
// minHighlights highlights whose headcount grew over six months
func EarlyStageQuery(minHighlights, pageSize int) SearchQuery {
	return SearchQuery{
		Filters: []Filter{
			{Field: "company_funding_stage", Comparator: AnyOf, Value: []string{"PRE_SEED", "SEED"}},
			{Field: "company_and_employee_highlight_count", Comparator: GreaterThanOrEqual, Value: minHighlights},
			{Field: "company_headcount_real_change_180d_ago", Comparator: GreaterThanOrEqual, Value: 1},
		},
		PageSize:   pageSize,
		SortField:  "relevance_score",
		Descending: true,
	}
}

func (q SearchQuery) payload(start int) map[string]any {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = 200
	}
	body := map[string]any{
		"query": map[string]any{
			"filter_group": map[string]any{
				"join_operator": "and",
				"filters":       q.Filters,
			},
			"pagination": map[string]int{"page_size": pageSize, "start": start},
		},
	}
	if q.SortField != "" {
		body["sort"] = map[string]any{"field": q.SortField, "descending": q.Descending}
	}
	return body
}

// SearchPage is one page of search results
type SearchPage struct {
	URNs  []string
	Count int // Total matches reported by the API, 0 when absent
}

type searchResponse struct {
	Results []json.RawMessage `json:"results"`
	Count   int               `json:"count"`
}

// SearchCompanies returns one page of company URNs starting at offset start
func (c *Client) SearchCompanies(ctx context.Context, q SearchQuery, start int) (SearchPage, error) {
	var sr searchResponse
	if _, err := c.api.Post(ctx, "/search/companies", q.payload(start), &sr); err != nil {
		return SearchPage{}, fmt.Errorf("search companies: %w", err)
	}

	page := SearchPage{Count: sr.Count, URNs: make([]string, 0, len(sr.Results))}
	for _, raw := range sr.Results {
		if urn := resultURN(raw); urn != "" {
			page.URNs = append(page.URNs, urn)
		}
	}
	return page, nil
}

// resultURN accepts a bare URN string or a record carrying entity_urn
func resultURN(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	if raw[0] == '"' {
		var s string
		_ = json.Unmarshal(raw, &s)
		return s
	}
	var rec struct {
		EntityURN string `json:"entity_urn"`
		URN       string `json:"urn"`
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return ""
	}
	if rec.EntityURN != "" {
		return rec.EntityURN
	}
	return rec.URN
}

// CollectURNs pages through a search until limit URNs are collected or the
// results run out
func (c *Client) CollectURNs(ctx context.Context, q SearchQuery, limit int) ([]string, error) {
	var urns []string
	start := 0
	for limit <= 0 || len(urns) < limit {
		page, err := c.SearchCompanies(ctx, q, start)
		if err != nil {
			return urns, err
		}
		if len(page.URNs) == 0 {
			break
		}
		urns = append(urns, page.URNs...)
		start += len(page.URNs)
		c.logger.Info("fetched search page",
			zap.Int("collected", len(urns)),
			zap.Int("available", page.Count))
	}
	if limit > 0 && len(urns) > limit {
		urns = urns[:limit]
	}
	return urns, nil
}
