// Package affinity is the CRM client: organization search and creation,
// list membership, notes and list-entry field values.
package affinity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ppiankov/dealflow/internal/apiclient"
	"github.com/ppiankov/dealflow/internal/model"
	"go.uber.org/zap"
)

const (
	searchPageSize    = 10
	listEntryPageSize = 500
)

// Client talks to the CRM API
type Client struct {
	api          *apiclient.Client
	targetListID int64
	logger       *zap.Logger
}

// New wraps an API client. targetListID is the list whose membership counts
// as an existing relationship.
func New(api *apiclient.Client, targetListID int64, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{api: api, targetListID: targetListID, logger: logger}
}

// NewAPIClient builds the underlying transport: HTTP Basic with an empty
// user and the key as password
func NewAPIClient(cfg model.AffinityConfig, httpCfg model.HTTPConfig, pacer apiclient.Pacer, logger *zap.Logger) *apiclient.Client {
	return apiclient.New(apiclient.Config{
		BaseURL:     cfg.BaseURL,
		Auth:        apiclient.BasicAuth{Password: cfg.APIKey},
		Timeout:     httpCfg.Timeout,
		MaxAttempts: httpCfg.MaxAttempts,
		UserAgent:   httpCfg.UserAgent,
		HTTPProxy:   httpCfg.HTTPProxy,
		HTTPSProxy:  httpCfg.HTTPSProxy,
		NoProxy:     httpCfg.NoProxy,
		Pacer:       pacer,
	}, logger)
}

// TargetListID returns the list membership that marks a company as sourced
func (c *Client) TargetListID() int64 {
	return c.targetListID
}

// SearchOrganizations runs the fuzzy organization search
func (c *Client) SearchOrganizations(ctx context.Context, term string, pageSize int) ([]model.Organization, error) {
	if pageSize <= 0 {
		pageSize = searchPageSize
	}
	params := url.Values{"term": {term}, "page_size": {strconv.Itoa(pageSize)}}
	orgs, err := apiclient.GetList[model.Organization](ctx, c.api, "/organizations", params, "organizations")
	if err != nil {
		return nil, fmt.Errorf("search organizations %q: %w", term, err)
	}
	return orgs, nil
}

// GetOrganization fetches the organization detail, including its list
// entries. A missing organization is (nil, nil).
func (c *Client) GetOrganization(ctx context.Context, orgID int64) (*model.Organization, error) {
	var org model.Organization
	err := c.api.Get(ctx, fmt.Sprintf("/organizations/%d", orgID), nil, &org)
	if apiclient.IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get organization %d: %w", orgID, err)
	}
	return &org, nil
}

// OrgListEntries returns every list entry of an organization
func (c *Client) OrgListEntries(ctx context.Context, orgID int64) ([]model.ListEntry, error) {
	entries, err := apiclient.GetList[model.ListEntry](ctx, c.api,
		fmt.Sprintf("/organizations/%d/list-entries", orgID), nil, "list_entries")
	if apiclient.IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("organization %d list entries: %w", orgID, err)
	}
	return entries, nil
}

// ListNotes returns up to pageSize notes of an organization
func (c *Client) ListNotes(ctx context.Context, orgID int64, pageSize int) ([]model.Note, error) {
	params := url.Values{
		"organization_id": {strconv.FormatInt(orgID, 10)},
		"page_size":       {strconv.Itoa(pageSize)},
	}
	notes, err := apiclient.GetList[model.Note](ctx, c.api, "/notes", params, "notes")
	if apiclient.IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("notes for organization %d: %w", orgID, err)
	}
	return notes, nil
}

// FieldValues returns the custom field values of a list entry
func (c *Client) FieldValues(ctx context.Context, listEntryID int64) ([]model.FieldValue, error) {
	params := url.Values{"list_entry_id": {strconv.FormatInt(listEntryID, 10)}}
	values, err := apiclient.GetList[model.FieldValue](ctx, c.api, "/field-values", params, "field_values")
	if apiclient.IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("field values for entry %d: %w", listEntryID, err)
	}
	return values, nil
}

// CreateOrganization creates a new organization
func (c *Client) CreateOrganization(ctx context.Context, name, domain string) (*model.Organization, error) {
	payload := map[string]string{"name": name, "domain": domain}
	var org model.Organization
	if _, err := c.api.Post(ctx, "/organizations", payload, &org); err != nil {
		return nil, fmt.Errorf("create organization %q: %w", name, err)
	}
	return &org, nil
}

// AddToList adds an organization to a list
func (c *Client) AddToList(ctx context.Context, listID, orgID int64) (*model.ListEntry, error) {
	payload := map[string]int64{"entity_id": orgID}
	var entry model.ListEntry
	if _, err := c.api.Post(ctx, fmt.Sprintf("/lists/%d/list-entries", listID), payload, &entry); err != nil {
		return nil, fmt.Errorf("add organization %d to list %d: %w", orgID, listID, err)
	}
	return &entry, nil
}

type listEntryPage struct {
	ListEntries   []model.ListEntry `json:"list_entries"`
	NextPageToken string            `json:"next_page_token"`
}

// ListEntries returns every entry of a list, following page tokens
func (c *Client) ListEntries(ctx context.Context, listID int64) ([]model.ListEntry, error) {
	path := fmt.Sprintf("/lists/%d/list-entries", listID)
	var all []model.ListEntry
	token := ""
	for {
		params := url.Values{"page_size": {strconv.Itoa(listEntryPageSize)}}
		if token != "" {
			params.Set("page_token", token)
		}

		var raw json.RawMessage
		if err := c.api.Get(ctx, path, params, &raw); err != nil {
			return all, fmt.Errorf("list %d entries: %w", listID, err)
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) > 0 && raw[0] == '[' {
			// Unpaginated shape
			var entries []model.ListEntry
			if err := json.Unmarshal(raw, &entries); err != nil {
				return all, fmt.Errorf("decode list %d entries: %w", listID, err)
			}
			return append(all, entries...), nil
		}

		var page listEntryPage
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &page); err != nil {
				return all, fmt.Errorf("decode list %d entries: %w", listID, err)
			}
		}
		all = append(all, page.ListEntries...)
		c.logger.Debug("fetched list entries", zap.Int64("list_id", listID), zap.Int("total", len(all)))

		if page.NextPageToken == "" || page.NextPageToken == token {
			return all, nil
		}
		token = page.NextPageToken
	}
}
