// Package filter holds the categorical rules that gate sourcing candidates
// before they are scored.
package filter

import (
	"slices"
	"strings"

	"github.com/ppiankov/dealflow/internal/model"
	"github.com/ppiankov/dealflow/internal/normalize"
)

// Reason names the rule that excluded a company
type Reason string

const (
	Country      Reason = "country"
	Industry     Reason = "industry"
	Nonprofit    Reason = "nonprofit"
	Consumer     Reason = "consumer"
	NotStartup   Reason = "not startup"
	ExcludedName Reason = "excluded name"
	LateStage    Reason = "late stage"
)

var (
	consumerKeywords = []string{"consumer", "social media", "gaming", "entertainment", "fashion", "food delivery", "dating", "music", "sports"}
	b2bKeywords      = []string{"saas", "enterprise", "business", "b2b", "infrastructure", "devtools", "developer", "api", "platform", "fintech"}
	nonprofitTypes   = []string{"nonprofit", "government", "non_profit"}
	earlyStages      = []string{"PRE_SEED", "SEED", "SERIES_A", "ANGEL", ""}
	lateStages       = []string{"SERIES_B", "SERIES_C", "SERIES_D", "SERIES_E", "IPO", "PUBLIC"}
)

// Rules is a set of exclusion rules
type Rules struct {
	Countries        []string        // Lower-case country names
	IndustryKeywords []string        // Matched as substrings of tag display values
	NonprofitNames   []string        // Matched as substrings of the company name
	ExcludeNames     map[string]bool // Normalized names
}

// DefaultRules excludes the regions, industries and organization types that
// are out of scope for early-stage software sourcing
func DefaultRules() Rules {
	return Rules{
		Countries: []string{"china", "russia", "ukraine", "india"},
		IndustryKeywords: []string{
			"hardware", "biotech", "biotechnology", "pharmaceutical", "medical devices",
			"semiconductors", "chip design", "electronics manufacturing",
			"3d printing", "manufacturing", "clean energy", "solar", "battery",
			"cannabis", "marijuana", "nonprofit", "non-profit", "charity",
			"government", "public sector",
		},
		NonprofitNames: []string{
			"foundation", "council", "association", "institute", "society",
			"charity", "nonprofit", "non-profit", "ngo", "ministry",
			"committee", "coalition", "alliance", "federation", "bureau",
			"center for", "centre for",
		},
	}
}

// StrictRules extends DefaultRules for the broad top-startups search
func StrictRules() Rules {
	r := DefaultRules()
	r.IndustryKeywords = append(r.IndustryKeywords, "robotics")
	r.NonprofitNames = append(r.NonprofitNames, "crisis center", "rape crisis")
	return r
}

// WithExcludedNames returns a copy of r that also excludes the given names
func (r Rules) WithExcludedNames(names ...string) Rules {
	out := make(map[string]bool, len(r.ExcludeNames)+len(names))
	for k := range r.ExcludeNames {
		out[k] = true
	}
	for _, n := range names {
		if key := normalize.Name(n); key != "" {
			out[key] = true
		}
	}
	r.ExcludeNames = out
	return r
}

// IsExcludedName reports whether the company is on the explicit exclude list
func (r Rules) IsExcludedName(c *model.Company) bool {
	return r.ExcludeNames[normalize.Name(c.Name)]
}

// Check returns the first rule excluding c, or "" when c passes
func (r Rules) Check(c *model.Company) Reason {
	switch {
	case r.IsExcludedName(c):
		return ExcludedName
	case r.excludedCountry(c):
		return Country
	case r.excludedIndustry(c):
		return Industry
	case r.isNonprofit(c):
		return Nonprofit
	case IsPureConsumer(c):
		return Consumer
	case !IsStartup(c):
		return NotStartup
	}
	return ""
}

func (r Rules) excludedCountry(c *model.Company) bool {
	country := strings.ToLower(strings.TrimSpace(c.Location.Country))
	return country != "" && slices.Contains(r.Countries, country)
}

func (r Rules) excludedIndustry(c *model.Company) bool {
	for _, tag := range c.TagValues() {
		if containsAny(tag, r.IndustryKeywords) {
			return true
		}
	}
	return false
}

func (r Rules) isNonprofit(c *model.Company) bool {
	if containsAny(strings.ToLower(c.Name), r.NonprofitNames) {
		return true
	}
	if slices.Contains(nonprofitTypes, strings.ToLower(c.CompanyType)) {
		return true
	}
	desc := strings.ToLower(c.Description)
	return containsAny(desc, []string{"non-profit", "nonprofit", "501(c)"})
}

// IsPureConsumer reports a B2C company whose tags show no business angle.
// Any B2B customer type keeps the company in.
func IsPureConsumer(c *model.Company) bool {
	ct := strings.ToLower(c.CustomerType)
	if strings.Contains(ct, "b2b") {
		return false
	}
	consumer, business := 0, 0
	for _, tag := range c.TagValues() {
		if containsAny(tag, consumerKeywords) {
			consumer++
		}
		if containsAny(tag, b2bKeywords) {
			business++
		}
	}
	return consumer > 0 && business == 0 && strings.Contains(ct, "b2c")
}

// IsStartup reports whether the company type is unset or STARTUP
func IsStartup(c *model.Company) bool {
	return c.CompanyType == "" || strings.EqualFold(c.CompanyType, "STARTUP")
}

// IsEarlyStage accepts pre-seed through Series A, or anything under $15M
// raised, and rejects Series B and later or more than $30M raised
func IsEarlyStage(c *model.Company) bool {
	fundingStage := strings.ToUpper(c.FundingStage)
	if fundingStage == "" {
		fundingStage = strings.ToUpper(c.Funding.FundingStage)
	}
	stage := strings.ToUpper(c.Stage)
	total := c.Funding.FundingTotal

	if slices.Contains(lateStages, fundingStage) || total > 30_000_000 {
		return false
	}
	return slices.Contains(earlyStages, fundingStage) ||
		slices.Contains(earlyStages, stage) ||
		total < 15_000_000
}

// Stats counts exclusions by reason
type Stats map[Reason]int

// Apply splits companies into those passing r and counts the rest
func (r Rules) Apply(companies []model.Company) ([]model.Company, Stats) {
	stats := make(Stats)
	kept := make([]model.Company, 0, len(companies))
	for i := range companies {
		if reason := r.Check(&companies[i]); reason != "" {
			stats[reason]++
			continue
		}
		kept = append(kept, companies[i])
	}
	return kept, stats
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
