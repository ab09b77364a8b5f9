package jobs

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/dealflow/internal/filter"
	"github.com/ppiankov/dealflow/internal/score"
	"github.com/ppiankov/dealflow/internal/sheet"
)

// FindOptions are the user-facing knobs of the find commands
type FindOptions struct {
	MaxURNs       int
	Candidates    int
	TopN          int
	MinHighlights int
	Exclude       []string // Company names never to return
	Icebreakers   bool
}

func (e *Env) sourceOptions(o FindOptions) SourceOptions {
	s := e.Config.Search
	opts := SourceOptions{
		PageSize:      s.PageSize,
		MaxURNs:       s.MaxURNs,
		MinHighlights: s.MinHighlights,
		Candidates:    s.Candidates,
		TopN:          s.TopN,
		Icebreakers:   o.Icebreakers && e.Writer != nil,
	}
	if o.MaxURNs > 0 {
		opts.MaxURNs = o.MaxURNs
	}
	if o.MinHighlights > 0 {
		opts.MinHighlights = o.MinHighlights
	}
	if o.Candidates > 0 {
		opts.Candidates = o.Candidates
	}
	if o.TopN > 0 {
		opts.TopN = o.TopN
	}
	return opts
}

var topHeaders = []string{
	"companyName", "firstName", "email", "ceoName", "domain",
	"Raise Score", "Stage", "Funding Total", "Headcount",
	"Headcount Growth (6mo)", "Web Traffic", "Web Traffic Growth (6mo)",
	"LinkedIn Followers", "LinkedIn Growth (6mo)",
	"Country", "City", "Customer Type",
	"Tags", "Highlights", "Founded",
	"Description",
}

// FindTop ranks early-stage companies by how likely they are to raise soon,
// using the stricter exclusion rules, and writes the top ones to the sheet
func (e *Env) FindTop(ctx context.Context, o FindOptions) (*SourceResult, error) {
	e.banner("Find Top Early-Stage Startups About to Raise")

	opts := e.sourceOptions(o)
	opts.Rules = filter.StrictRules().WithExcludedNames(o.Exclude...)
	opts.Profile = score.AboutToRaise
	if o.MinHighlights == 0 {
		opts.MinHighlights = 5
	}

	res, err := e.Source(ctx, opts)
	if err != nil {
		return nil, err
	}

	headers := append([]string(nil), topHeaders...)
	if opts.Icebreakers {
		headers = append(headers, sheet.ColIcebreaker)
	}
	rows := [][]string{headers}
	for _, p := range res.Picks {
		c := &p.Company
		tm := c.TractionMetrics
		row := []string{
			c.Name, p.Contact.FirstName, p.Contact.Email, p.Contact.Name, p.Domain,
			fmt.Sprintf("%.0f", p.Score.Raise),
			c.Stage,
			fundingText(c.Funding.FundingTotal),
			headcountText(c),
			growthText(tm.CorrectedHeadcount.Ago180d.Change),
			metricText(tm.WebTraffic.LatestMetricValue),
			percentText(tm.WebTraffic.Ago180d.PercentChange),
			metricText(tm.LinkedInFollowerCount.LatestMetricValue),
			percentText(tm.LinkedInFollowerCount.Ago180d.PercentChange),
			c.Location.Country, c.Location.City, c.CustomerType,
			tagsText(c, 5),
			highlightsText(c.Highlights, 5),
			foundedText(c.FoundingDate),
			descriptionText(c),
		}
		if opts.Icebreakers {
			row = append(row, p.Icebreaker)
		}
		rows = append(rows, row)
	}

	e.step(5, 5, "Writing to spreadsheet...")
	if err := e.Sheet.Write(ctx, rows); err != nil {
		return nil, fmt.Errorf("write sheet: %w", err)
	}

	e.summary(res)
	return res, nil
}

var raisingHeaders = []string{
	"companyName", "firstName", "email", "ceoName", "ceoTitle", "domain",
	"Total Score", "Raising Score", "Founder Score", "Founder Signals",
	"Stage", "Funding Total", "Headcount", "HC Growth (6mo)",
	"Web Traffic", "WT Growth (6mo)", "LinkedIn", "LI Growth (6mo)",
	"Country", "City", "Customer Type", "Tags", "Founded", "Description",
}

// FindRaising ranks companies by raise likelihood plus founder quality and
// writes the top ones with their founder signals
func (e *Env) FindRaising(ctx context.Context, o FindOptions) (*SourceResult, error) {
	e.banner("Find Startups Raising Now")

	opts := e.sourceOptions(o)
	opts.Rules = filter.DefaultRules().WithExcludedNames(o.Exclude...)
	opts.Profile = score.RaisingNow
	opts.WithFounder = true

	res, err := e.Source(ctx, opts)
	if err != nil {
		return nil, err
	}

	headers := append([]string(nil), raisingHeaders...)
	if opts.Icebreakers {
		headers = append(headers, sheet.ColIcebreaker)
	}
	rows := [][]string{headers}
	var founderSum, raiseSum float64
	highQuality := 0
	for _, p := range res.Picks {
		c := &p.Company
		tm := c.TractionMetrics
		founderSum += p.Score.Founder
		raiseSum += p.Score.Raise
		if p.Score.Founder >= 30 {
			highQuality++
		}
		row := []string{
			c.Name, p.Contact.FirstName, p.Contact.Email, p.Contact.Name, p.Contact.Title, p.Domain,
			fmt.Sprintf("%.0f", p.Score.Total),
			fmt.Sprintf("%.0f", p.Score.Raise),
			fmt.Sprintf("%.0f", p.Score.Founder),
			strings.Join(score.FounderCategories(p.Score.Signals), ", "),
			c.StageLabel(),
			fundingText(c.Funding.FundingTotal),
			headcountText(c),
			growthText(tm.CorrectedHeadcount.Ago180d.Change),
			metricText(tm.WebTraffic.LatestMetricValue),
			percentText(tm.WebTraffic.Ago180d.PercentChange),
			metricText(tm.LinkedInFollowerCount.LatestMetricValue),
			percentText(tm.LinkedInFollowerCount.Ago180d.PercentChange),
			c.Location.Country, c.Location.City, c.CustomerType,
			tagsText(c, 5),
			foundedText(c.FoundingDate),
			descriptionText(c),
		}
		if opts.Icebreakers {
			row = append(row, p.Icebreaker)
		}
		rows = append(rows, row)
	}

	e.step(5, 5, "Writing to spreadsheet...")
	if err := e.Sheet.Write(ctx, rows); err != nil {
		return nil, fmt.Errorf("write sheet: %w", err)
	}

	e.summary(res)
	if n := len(res.Picks); n > 0 {
		e.stat("Avg founder score", fmt.Sprintf("%.1f", founderSum/float64(n)))
		e.stat("Avg raising score", fmt.Sprintf("%.1f", raiseSum/float64(n)))
		e.stat("High-quality founders (30+)", highQuality)
	}
	e.printf("\n")
	return res, nil
}

func (e *Env) summary(res *SourceResult) {
	e.banner(fmt.Sprintf("Done: %d net-new companies", len(res.Picks)))
	e.stat("Searched", res.URNs)
	e.stat("Ranked after filters", res.Ranked)
	e.stat("Skipped (no CEO + email)", res.NoContact)
	e.stat("Skipped (duplicate name)", res.Duplicates)
	e.stat("Skipped (CRM history)", res.InCRM)
	e.stat("Failed CRM checks", res.Failed)
}
