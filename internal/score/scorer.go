// Package score ranks candidate companies with additive, capped point
// systems. Scores rank candidates; they never exclude one.
package score

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ppiankov/dealflow/internal/model"
)

// Scorer computes raise-likelihood and founder-quality scores
type Scorer struct {
	profile Profile
	now     func() time.Time
}

// NewScorer creates a scorer. now may be nil for time.Now.
func NewScorer(profile Profile, now func() time.Time) *Scorer {
	if now == nil {
		now = time.Now
	}
	return &Scorer{profile: profile, now: now}
}

// Calculate combines the raise score of a company with the founder score of
// its highlights and, when given, the backgrounds of its founders
func (s *Scorer) Calculate(c *model.Company, founders ...model.Person) model.Score {
	raise, signals := s.Raise(c)
	founder, founderSignals := Founder(c)
	signals = append(signals, founderSignals...)

	if len(founders) > 0 {
		background, bgSignals := PersonBackground(founders...)
		founder += background
		signals = append(signals, bgSignals...)
	}

	return model.Score{
		Total:   raise + founder,
		Raise:   raise,
		Founder: founder,
		Signals: signals,
	}
}

// Raise scores how likely a company is to be raising
func (s *Scorer) Raise(c *model.Company) (float64, []model.Signal) {
	p := s.profile
	tm := c.TractionMetrics
	var signals []model.Signal
	add := func(t model.SignalType, points float64, format string, args ...any) {
		if points <= 0 {
			return
		}
		signals = append(signals, model.Signal{Type: t, Points: points, Description: fmt.Sprintf(format, args...)})
	}

	if v := tm.CorrectedHeadcount.Ago90d.Change; v > 0 {
		add(model.SignalHeadcount90d, capped(v*p.Headcount90dMult, p.Headcount90dCap), "Headcount +%.0f in 90 days", v)
	}
	if v := tm.CorrectedHeadcount.Ago180d.Change; v > 0 {
		add(model.SignalHeadcount180d, capped(v*p.Headcount180dMult, p.Headcount180dCap), "Headcount +%.0f in 180 days", v)
	}
	if v := tm.WebTraffic.Ago180d.PercentChange; v > 0 && p.WebTrafficDiv > 0 {
		add(model.SignalWebTraffic, capped(v/p.WebTrafficDiv, p.WebTrafficCap), "Web traffic %+.0f%% in 180 days", v)
	}
	if v := tm.LinkedInFollowerCount.Ago180d.PercentChange; v > 0 && p.LinkedInDiv > 0 {
		add(model.SignalLinkedIn, capped(v/p.LinkedInDiv, p.LinkedInCap), "LinkedIn followers %+.0f%% in 180 days", v)
	}

	if days, ok := s.daysSince(c.StealthEmergenceDate); ok {
		for _, step := range p.Stealth {
			if days < step.Below {
				add(model.SignalStealth, step.Points, "Emerged from stealth %d days ago", days)
				break
			}
		}
	}

	funding := c.Funding.FundingTotal
	headcount := c.HeadcountValue()
	if headcount > p.LowFundingHeadcount && funding < p.LowFundingCeiling {
		add(model.SignalLowFunding, p.LowFundingPoints, "%.0f people on $%.0f raised", headcount, funding)
	}
	if funding == 0 && headcount > p.NoFundingHeadcount {
		add(model.SignalNoFunding, p.NoFundingPoints, "No funding with %.0f people", headcount)
	}

	if n := len(c.Highlights); n > 0 {
		add(model.SignalHighlights, capped(float64(n)*p.HighlightsMult, p.HighlightsCap), "%d highlights", n)
	}

	if year := c.FoundingDate.Year; year > 0 {
		for _, step := range p.FoundingYear {
			if year >= step.AtLeast {
				add(model.SignalFoundingYear, step.Points, "Founded %d", year)
				break
			}
		}
	}

	total := 0.0
	for _, sig := range signals {
		total += sig.Points
	}
	return total, signals
}

// daysSince parses an RFC 3339 timestamp or a bare date and returns whole
// days elapsed
func (s *Scorer) daysSince(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		if t, err = time.Parse("2006-01-02", value); err != nil {
			return 0, false
		}
	}
	return int(math.Floor(s.now().Sub(t).Hours() / 24)), true
}

func capped(v, limit float64) float64 {
	return math.Min(v, limit)
}
