package harmonic

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

const watchlistPageSize = 1000

// watchlistPage covers both response shapes: GraphQL-style edges and a
// flat entries list
type watchlistPage struct {
	Edges []struct {
		Node struct {
			Company struct {
				EntityURN string `json:"entity_urn"`
			} `json:"company"`
		} `json:"node"`
	} `json:"edges"`
	Entries []struct {
		CompanyURN    string `json:"company_urn"`
		CompanyURNAlt string `json:"companyUrn"`
	} `json:"entries"`
	PageInfo struct {
		HasNext bool   `json:"has_next"`
		Next    string `json:"next"`
	} `json:"page_info"`
}

func (p *watchlistPage) urns() []string {
	var out []string
	if p.Edges != nil {
		for _, e := range p.Edges {
			out = append(out, e.Node.Company.EntityURN)
		}
		return out
	}
	for _, e := range p.Entries {
		if e.CompanyURN != "" {
			out = append(out, e.CompanyURN)
		} else {
			out = append(out, e.CompanyURNAlt)
		}
	}
	return out
}

// WatchlistCompanyURNs returns the distinct company URNs on a watchlist,
// following cursor pagination
func (c *Client) WatchlistCompanyURNs(ctx context.Context, watchlistURN string) ([]string, error) {
	path := "/watchlists/companies/" + url.PathEscape(watchlistURN) + "/entries"
	size := strconv.Itoa(watchlistPageSize)
	params := url.Values{"size": {size}, "page": {"0"}}

	var all []string
	seenCursors := make(map[string]bool)
	for {
		var page watchlistPage
		if err := c.api.Get(ctx, path, params, &page); err != nil {
			return nil, fmt.Errorf("watchlist %s: %w", watchlistURN, err)
		}
		all = append(all, page.urns()...)

		next := page.PageInfo.Next
		if !page.PageInfo.HasNext || next == "" || seenCursors[next] {
			break
		}
		seenCursors[next] = true
		params = url.Values{"size": {size}, "cursor": {next}}
	}
	return dedupe(all), nil
}
