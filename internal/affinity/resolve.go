package affinity

import (
	"context"
	"strings"

	"github.com/ppiankov/dealflow/internal/model"
	"github.com/ppiankov/dealflow/internal/normalize"
)

// Resolve finds the CRM organization for a company. A result is accepted
// only on an exact domain match, or failing that an exact normalized name
// match; the top fuzzy hit is never taken on trust. Not found is (nil, nil).
func (c *Client) Resolve(ctx context.Context, name, domain string) (*model.Organization, error) {
	if domain = strings.ToLower(strings.TrimSpace(domain)); domain != "" {
		orgs, err := c.SearchOrganizations(ctx, domain, searchPageSize)
		if err != nil {
			return nil, err
		}
		for i := range orgs {
			if domainMatches(&orgs[i], domain) {
				return &orgs[i], nil
			}
		}
	}

	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	orgs, err := c.SearchOrganizations(ctx, name, searchPageSize)
	if err != nil {
		return nil, err
	}
	for i := range orgs {
		if normalize.SameName(orgs[i].Name, name) {
			return &orgs[i], nil
		}
	}
	return nil, nil
}

func domainMatches(org *model.Organization, domain string) bool {
	if strings.ToLower(strings.TrimSpace(org.Domain)) == domain {
		return true
	}
	for _, d := range org.Domains {
		if strings.ToLower(strings.TrimSpace(d)) == domain {
			return true
		}
	}
	return false
}
