package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Company is a company record from the intelligence API
type Company struct {
	EntityURN            string          `json:"entity_urn"`
	CompanyURN           string          `json:"company_urn,omitempty"`
	Name                 string          `json:"name"`
	Description          string          `json:"description,omitempty"`
	ShortDescription     string          `json:"short_description,omitempty"`
	Website              Website         `json:"website"`
	Location             Location        `json:"location"`
	Funding              Funding         `json:"funding"`
	Stage                string          `json:"stage,omitempty"`         // Harmonic stage label
	FundingStage         string          `json:"funding_stage,omitempty"` // Present on some records instead of funding.funding_stage
	CompanyType          string          `json:"company_type,omitempty"`  // STARTUP, NONPROFIT, GOVERNMENT, ...
	CustomerType         string          `json:"customer_type,omitempty"` // B2B, B2C, B2B_AND_B2C
	Headcount            NumberOrMetric  `json:"headcount"`
	CorrectedHeadcount   NumberOrMetric  `json:"corrected_headcount"`
	TractionMetrics      TractionMetrics `json:"traction_metrics"`
	Tags                 []Tag           `json:"tags,omitempty"`
	Highlights           []Highlight     `json:"highlights,omitempty"`
	EmployeeHighlights   []Highlight     `json:"employee_highlights,omitempty"`
	People               []CompanyPerson `json:"people,omitempty"`
	Contact              Contact         `json:"contact"`
	StealthEmergenceDate string          `json:"stealth_emergence_date,omitempty"` // RFC 3339
	FoundingDate         FoundingDate    `json:"founding_date"`
}

// URN returns the record's identifier, whichever field carries it
func (c *Company) URN() string {
	if c.EntityURN != "" {
		return c.EntityURN
	}
	return c.CompanyURN
}

// HeadcountValue returns the best known headcount, defaulting to 1
func (c *Company) HeadcountValue() float64 {
	if c.Headcount.Set && c.Headcount.Value > 0 {
		return c.Headcount.Value
	}
	if c.CorrectedHeadcount.Set && c.CorrectedHeadcount.Value > 0 {
		return c.CorrectedHeadcount.Value
	}
	return 1
}

// StageLabel returns the funding stage, upper-cased
func (c *Company) StageLabel() string {
	for _, s := range []string{c.FundingStage, c.Funding.FundingStage, c.Stage} {
		if s != "" {
			return strings.ToUpper(s)
		}
	}
	return ""
}

// TagValues returns the lower-cased display values of the company tags
func (c *Company) TagValues() []string {
	values := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		values = append(values, strings.ToLower(t.DisplayValue))
	}
	return values
}

// Website is either a bare URL string or an object with url/domain
type Website struct {
	URL    string `json:"url,omitempty"`
	Domain string `json:"domain,omitempty"`
}

// UnmarshalJSON accepts both "https://x.io" and {"url": "https://x.io"}
func (w *Website) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &w.URL)
	}
	type plain Website
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*w = Website(p)
	return nil
}

// Location is the headquarters location of a company
type Location struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// Funding summarizes the funding history of a company
type Funding struct {
	FundingTotal  float64 `json:"funding_total"`
	FundingStage  string  `json:"funding_stage,omitempty"`
	LastFundingAt string  `json:"last_funding_at,omitempty"`
}

// FoundingDate is the founding date; month and day are often absent
type FoundingDate struct {
	Date  string `json:"date,omitempty"`
	Year  int    `json:"year,omitempty"`
	Month int    `json:"month,omitempty"`
}

// Tag is a categorical industry/market tag
type Tag struct {
	DisplayValue string `json:"display_value"`
	Type         string `json:"type,omitempty"`
}

// Highlight is a categorical signal attached to a company or person
type Highlight struct {
	Category string `json:"category"`
	Text     string `json:"text,omitempty"`
}

// TractionMetrics holds time-series deltas for a company
type TractionMetrics struct {
	CorrectedHeadcount    Metric `json:"corrected_headcount"`
	Headcount             Metric `json:"headcount"`
	WebTraffic            Metric `json:"web_traffic"`
	LinkedInFollowerCount Metric `json:"linkedin_follower_count"`
}

// Metric is one traction series with its lookback deltas
type Metric struct {
	LatestMetricValue float64     `json:"latest_metric_value"`
	Ago90d            MetricDelta `json:"90d_ago"`
	Ago180d           MetricDelta `json:"180d_ago"`
}

// MetricDelta is the change against a past value
type MetricDelta struct {
	Value         float64 `json:"value"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percent_change"`
}

// CompanyPerson links a person to a company position
type CompanyPerson struct {
	Person            string `json:"person,omitempty"`
	PersonURN         string `json:"person_urn,omitempty"`
	EntityURN         string `json:"entity_urn,omitempty"`
	Title             string `json:"title,omitempty"`
	RoleType          string `json:"role_type,omitempty"`
	IsCurrentPosition bool   `json:"is_current_position"`
}

// URN returns the person identifier, whichever field carries it
func (p CompanyPerson) URN() string {
	switch {
	case p.Person != "":
		return p.Person
	case p.PersonURN != "":
		return p.PersonURN
	default:
		return p.EntityURN
	}
}

// Contact holds the contact details of a company or person
type Contact struct {
	PrimaryEmail string    `json:"primary_email,omitempty"`
	Emails       EmailList `json:"emails,omitempty"`
	ExecEmails   []string  `json:"exec_emails,omitempty"`
}

// NumberOrMetric decodes either a bare number or {"latest_metric_value": n}
type NumberOrMetric struct {
	Value float64
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler
func (n *NumberOrMetric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = NumberOrMetric{}
		return nil
	}
	if data[0] == '{' {
		var m struct {
			LatestMetricValue *float64 `json:"latest_metric_value"`
		}
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		if m.LatestMetricValue != nil {
			*n = NumberOrMetric{Value: *m.LatestMetricValue, Set: true}
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = NumberOrMetric{Value: v, Set: true}
	return nil
}

// MarshalJSON implements json.Marshaler
func (n NumberOrMetric) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// EmailList decodes a list of plain strings or {"email": "..."} objects
type EmailList []string

// UnmarshalJSON implements json.Unmarshaler
func (l *EmailList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(item, &obj); err == nil {
			out = append(out, obj.Email)
			continue
		}
		out = append(out, "")
	}
	*l = out
	return nil
}
