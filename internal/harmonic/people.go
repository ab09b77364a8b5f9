package harmonic

import (
	"sort"
	"strings"

	"github.com/ppiankov/dealflow/internal/model"
	"github.com/ppiankov/dealflow/internal/normalize"
)

// Candidate is a person who may be the right contact at a company.
// Priority 1 is a CEO, 2 a founder.
type Candidate struct {
	URN      string
	Title    string
	Priority int
}

// Contact is the chosen person to reach at a company
type Contact struct {
	Name      string
	FirstName string
	Email     string
	Title     string
	URN       string
}

// IsCEOTitle reports whether a title names the chief executive
func IsCEOTitle(title string) bool {
	t := strings.ToLower(title)
	return strings.Contains(t, "ceo") || strings.Contains(t, "chief executive")
}

// FindCEOCandidates returns current CEOs, then current founders, each
// person once
func FindCEOCandidates(c *model.Company) []Candidate {
	index := make(map[string]int)
	var out []Candidate
	for _, p := range c.People {
		if !p.IsCurrentPosition {
			continue
		}
		urn := p.URN()
		if urn == "" {
			continue
		}

		priority := 0
		switch {
		case IsCEOTitle(p.Title):
			priority = 1
		case strings.Contains(strings.ToLower(p.Title), "founder"), strings.EqualFold(p.RoleType, "FOUNDER"):
			priority = 2
		default:
			continue
		}

		if i, ok := index[urn]; ok {
			if priority < out[i].Priority {
				out[i] = Candidate{URN: urn, Title: p.Title, Priority: priority}
			}
			continue
		}
		index[urn] = len(out)
		out = append(out, Candidate{URN: urn, Title: p.Title, Priority: priority})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

// CandidateURNs collects the distinct candidate URNs across companies
func CandidateURNs(byCompany map[string][]Candidate) []string {
	var urns []string
	for _, cands := range byCompany {
		for _, c := range cands {
			urns = append(urns, c.URN)
		}
	}
	sort.Strings(urns)
	return dedupe(urns)
}

// PickContact returns the first candidate whose record has both a name and
// an email
func PickContact(candidates []Candidate, people map[string]model.Person) (Contact, bool) {
	for _, cand := range candidates {
		p, ok := people[cand.URN]
		if !ok {
			continue
		}
		name, email := p.DisplayName(), p.Email()
		if name != "" && email != "" {
			return Contact{
				Name:      name,
				FirstName: normalize.FirstName(name),
				Email:     email,
				Title:     cand.Title,
				URN:       cand.URN,
			}, true
		}
	}
	return Contact{}, false
}

var preferredMailboxes = []string{"ceo@", "founder@", "hello@", "team@", "info@", "contact@"}

// FallbackEmail picks a company-level address when no person has one: the
// primary email, else the most personal-looking executive mailbox
func FallbackEmail(c *model.Company) string {
	if e := strings.TrimSpace(c.Contact.PrimaryEmail); e != "" {
		return e
	}

	var emails []string
	seen := make(map[string]bool)
	for _, e := range c.Contact.ExecEmails {
		e = strings.TrimSpace(e)
		key := strings.ToLower(e)
		if e == "" || seen[key] {
			continue
		}
		seen[key] = true
		emails = append(emails, e)
	}
	if len(emails) == 0 {
		return ""
	}

	for _, prefix := range preferredMailboxes {
		for _, e := range emails {
			if strings.HasPrefix(strings.ToLower(e), prefix) {
				return e
			}
		}
	}
	return emails[0]
}
