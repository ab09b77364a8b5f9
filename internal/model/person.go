package model

import "strings"

// Person is a person record from the intelligence API
type Person struct {
	EntityURN  string       `json:"entity_urn,omitempty"`
	PersonURN  string       `json:"person_urn,omitempty"`
	AltURN     string       `json:"urn,omitempty"`
	FullName   string       `json:"full_name,omitempty"`
	Name       string       `json:"name,omitempty"`
	Contact    Contact      `json:"contact"`
	Experience []Experience `json:"experience,omitempty"`
	Education  []Education  `json:"education,omitempty"`
	Highlights []Highlight  `json:"highlights,omitempty"`
}

// URN returns the record's identifier, whichever field carries it
func (p *Person) URN() string {
	switch {
	case p.EntityURN != "":
		return p.EntityURN
	case p.PersonURN != "":
		return p.PersonURN
	default:
		return p.AltURN
	}
}

// DisplayName returns full_name, falling back to name
func (p *Person) DisplayName() string {
	if p.FullName != "" {
		return strings.TrimSpace(p.FullName)
	}
	return strings.TrimSpace(p.Name)
}

// Email returns the primary email, else the first listed one
func (p *Person) Email() string {
	if e := strings.TrimSpace(p.Contact.PrimaryEmail); e != "" {
		return e
	}
	if len(p.Contact.Emails) > 0 {
		return strings.TrimSpace(p.Contact.Emails[0])
	}
	return ""
}

// Experience is one position in a person's history
type Experience struct {
	Company           string `json:"company,omitempty"` // company URN
	CompanyName       string `json:"company_name,omitempty"`
	Title             string `json:"title,omitempty"`
	RoleType          string `json:"role_type,omitempty"` // FOUNDER, INVESTOR, EMPLOYEE, ...
	IsCurrentPosition bool   `json:"is_current_position"`
}

// Education is one school entry
type Education struct {
	School struct {
		Name      string `json:"name"`
		EntityURN string `json:"entity_urn,omitempty"`
	} `json:"school"`
	Degree string `json:"degree,omitempty"`
	Field  string `json:"field,omitempty"`
}

// TypeaheadResult is one hit from the intelligence API typeahead search
type TypeaheadResult struct {
	Type      string `json:"type"` // COMPANY or PERSON
	EntityURN string `json:"entity_urn"`
	Text      string `json:"text"`
}
