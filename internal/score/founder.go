package score

import (
	"fmt"
	"strings"

	"github.com/ppiankov/dealflow/internal/model"
	"github.com/ppiankov/dealflow/internal/normalize"
)

// founderHighlightPoints weighs recognized highlight categories
var founderHighlightPoints = map[string]float64{
	"Prior Exit":                            25,
	"Prior VC Backed Founder":               20,
	"YC Backed Founder":                     20,
	"Seasoned Founder":                      18,
	"Top University":                        5,
	"Top Company Alum":                      10,
	"Major Tech Company Experience":         8,
	"Deep Technical Background":             10,
	"Top AI Experience":                     12,
	"Elite Industry Experience":             8,
	"Major Research Institution Experience": 8,
	"Seasoned Executive":                    8,
	"Seasoned Operator":                     6,
	"$50M+ Club":                            20,
	"$45M Club":                             18,
	"$40M Club":                             16,
	"$35M Club":                             14,
	"$20M Club":                             12,
	"$15M Club":                             10,
	"$10M Club":                             8,
	"$5M Club":                              5,
}

// FounderHighlights scores highlight categories, each counted once however
// often it appears. Categories are returned in first-seen order.
func FounderHighlights(highlights []model.Highlight) (float64, []string) {
	seen := make(map[string]bool)
	var categories []string
	total := 0.0
	for _, h := range highlights {
		points, ok := founderHighlightPoints[h.Category]
		if !ok || seen[h.Category] {
			continue
		}
		seen[h.Category] = true
		categories = append(categories, h.Category)
		total += points
	}
	return total, categories
}

// Founder scores the team highlights of a company, employee highlights
// first, then company-level ones
func Founder(c *model.Company) (float64, []model.Signal) {
	all := make([]model.Highlight, 0, len(c.EmployeeHighlights)+len(c.Highlights))
	all = append(all, c.EmployeeHighlights...)
	all = append(all, c.Highlights...)

	total, categories := FounderHighlights(all)
	signals := make([]model.Signal, 0, len(categories))
	for _, cat := range categories {
		signals = append(signals, model.Signal{
			Type:        model.SignalFounderCategory,
			Points:      founderHighlightPoints[cat],
			Description: cat,
		})
	}
	return total, signals
}

// FounderCategories lists the categories behind a founder score
func FounderCategories(signals []model.Signal) []string {
	var out []string
	for _, s := range signals {
		if s.Type == model.SignalFounderCategory {
			out = append(out, s.Description)
		}
	}
	return out
}

const (
	eliteCompanyPoints = 10
	eliteSchoolPoints  = 8
)

// eliteCompanies are matched on the normalized employer name
var eliteCompanies = map[string]string{
	"google":                "Google",
	"alphabet":              "Google",
	"deepmind":              "DeepMind",
	"google deepmind":       "DeepMind",
	"meta":                  "Meta",
	"facebook":              "Meta",
	"apple":                 "Apple",
	"amazon":                "Amazon",
	"amazon web services":   "Amazon",
	"microsoft":             "Microsoft",
	"netflix":               "Netflix",
	"nvidia":                "NVIDIA",
	"openai":                "OpenAI",
	"anthropic":             "Anthropic",
	"stripe":                "Stripe",
	"palantir":              "Palantir",
	"palantir technologies": "Palantir",
	"databricks":            "Databricks",
	"airbnb":                "Airbnb",
	"uber":                  "Uber",
	"coinbase":              "Coinbase",
	"spacex":                "SpaceX",
	"tesla":                 "Tesla",
	"mckinsey":              "McKinsey",
	"mckinsey company":      "McKinsey",
	"goldman sachs":         "Goldman Sachs",
}

// eliteSchools are matched as substrings of the lower-cased school name
var eliteSchools = []struct{ key, name string }{
	{"stanford", "Stanford"},
	{"massachusetts institute of technology", "MIT"},
	{"harvard", "Harvard"},
	{"berkeley", "UC Berkeley"},
	{"carnegie mellon", "Carnegie Mellon"},
	{"princeton", "Princeton"},
	{"yale", "Yale"},
	{"california institute of technology", "Caltech"},
	{"caltech", "Caltech"},
	{"university of oxford", "Oxford"},
	{"university of cambridge", "Cambridge"},
	{"eth zurich", "ETH Zurich"},
	{"university of waterloo", "Waterloo"},
}

// PersonBackground scores elite employers and schools across people, each
// distinct company or school counted once
func PersonBackground(people ...model.Person) (float64, []model.Signal) {
	companies := make(map[string]bool)
	schools := make(map[string]bool)
	var signals []model.Signal
	total := 0.0

	for _, p := range people {
		for _, exp := range p.Experience {
			name, ok := eliteCompanies[normalize.Name(exp.CompanyName)]
			if !ok || companies[name] {
				continue
			}
			companies[name] = true
			total += eliteCompanyPoints
			signals = append(signals, model.Signal{
				Type:        model.SignalEliteCompany,
				Points:      eliteCompanyPoints,
				Description: fmt.Sprintf("Worked at %s", name),
			})
		}
		for _, edu := range p.Education {
			name := eliteSchool(edu.School.Name)
			if name == "" || schools[name] {
				continue
			}
			schools[name] = true
			total += eliteSchoolPoints
			signals = append(signals, model.Signal{
				Type:        model.SignalEliteSchool,
				Points:      eliteSchoolPoints,
				Description: fmt.Sprintf("Studied at %s", name),
			})
		}
	}
	return total, signals
}

func eliteSchool(school string) string {
	s := strings.ToLower(school)
	if s == "mit" {
		return "MIT"
	}
	for _, e := range eliteSchools {
		if strings.Contains(s, e.key) {
			return e.name
		}
	}
	return ""
}
