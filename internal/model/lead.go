package model

import "errors"

var (
	// ErrMissingCompany marks a row without a company name
	ErrMissingCompany = errors.New("lead has no company name")
	// ErrMissingEmail marks a row that cannot be pushed to outreach
	ErrMissingEmail = errors.New("lead has no email")
)

// Lead is one spreadsheet row: a company and the contact to reach there
type Lead struct {
	CompanyName string `json:"companyName"`
	FirstName   string `json:"firstName"`
	Email       string `json:"email"`
	CEOName     string `json:"ceoName,omitempty"`
	CEOTitle    string `json:"ceoTitle,omitempty"`
	Domain      string `json:"domain,omitempty"`
	CompanyURN  string `json:"companyUrn,omitempty"`
	Icebreaker  string `json:"icebreaker,omitempty"`
}

// Validate checks the row can be processed at all
func (l Lead) Validate() error {
	if l.CompanyName == "" {
		return ErrMissingCompany
	}
	return nil
}

// ValidateForOutreach checks the row can be pushed to a campaign
func (l Lead) ValidateForOutreach() error {
	if err := l.Validate(); err != nil {
		return err
	}
	if l.Email == "" {
		return ErrMissingEmail
	}
	return nil
}

// Score is the ranking breakdown for a candidate company
type Score struct {
	Total   float64  `json:"total"`
	Raise   float64  `json:"raise"`   // Likelihood of raising now
	Founder float64  `json:"founder"` // Team quality
	Signals []Signal `json:"signals"` // Contributing factors, in evaluation order
}

// Signal is one contributing factor of a score
type Signal struct {
	Type        SignalType `json:"type"`
	Points      float64    `json:"points"`
	Description string     `json:"description"`
}

// SignalType names a scoring factor
type SignalType string

const (
	SignalHeadcount90d    SignalType = "headcount_90d"
	SignalHeadcount180d   SignalType = "headcount_180d"
	SignalWebTraffic      SignalType = "web_traffic_180d"
	SignalLinkedIn        SignalType = "linkedin_180d"
	SignalStealth         SignalType = "stealth_emergence"
	SignalLowFunding      SignalType = "low_funding"
	SignalNoFunding       SignalType = "no_funding"
	SignalHighlights      SignalType = "highlights"
	SignalFoundingYear    SignalType = "founding_year"
	SignalFounderCategory SignalType = "founder_highlight"
	SignalEliteCompany    SignalType = "elite_company"
	SignalEliteSchool     SignalType = "elite_school"
)
