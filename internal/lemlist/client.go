// Package lemlist pushes leads into outreach campaigns.
package lemlist

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ppiankov/dealflow/internal/apiclient"
	"github.com/ppiankov/dealflow/internal/model"
)

// Outcome is the result of adding one lead
type Outcome int

const (
	Failed Outcome = iota
	Added
	AlreadyExists
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case AlreadyExists:
		return "already exists"
	default:
		return "failed"
	}
}

// Client talks to the outreach API
type Client struct {
	api *apiclient.Client
}

// New wraps an API client
func New(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// NewAPIClient builds the underlying transport: HTTP Basic with an empty
// user and the key as password
func NewAPIClient(cfg model.LemlistConfig, httpCfg model.HTTPConfig, pacer apiclient.Pacer) *apiclient.Client {
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
	}, nil)
}

type leadPayload struct {
	FirstName   string `json:"firstName"`
	CompanyName string `json:"companyName"`
	Icebreaker  string `json:"icebreaker,omitempty"`
}

// AddLead adds a lead to a campaign. A duplicate lead is AlreadyExists with
// a nil error; Failed always comes with the cause.
func (c *Client) AddLead(ctx context.Context, campaignID string, lead model.Lead) (Outcome, error) {
	if err := lead.ValidateForOutreach(); err != nil {
		return Failed, err
	}

	path := fmt.Sprintf("/campaigns/%s/leads/%s", url.PathEscape(campaignID), url.PathEscape(lead.Email))
	status, err := c.api.Post(ctx, path, leadPayload{
		FirstName:   lead.FirstName,
		CompanyName: lead.CompanyName,
		Icebreaker:  lead.Icebreaker,
	}, nil)

	switch {
	case status == http.StatusOK || status == http.StatusCreated:
		return Added, nil
	case status == http.StatusConflict:
		return AlreadyExists, nil
	case err != nil:
		return Failed, fmt.Errorf("add lead %s: %w", lead.Email, err)
	default:
		return Failed, fmt.Errorf("add lead %s: unexpected status %d", lead.Email, status)
	}
}
