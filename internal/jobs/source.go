package jobs

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/ppiankov/dealflow/internal/affinity"
	"github.com/ppiankov/dealflow/internal/filter"
	"github.com/ppiankov/dealflow/internal/harmonic"
	"github.com/ppiankov/dealflow/internal/llm"
	"github.com/ppiankov/dealflow/internal/model"
	"github.com/ppiankov/dealflow/internal/normalize"
	"github.com/ppiankov/dealflow/internal/score"
)

// SourceOptions tunes one sourcing run
type SourceOptions struct {
	Rules         filter.Rules
	Profile       score.Profile
	WithFounder   bool // Rank by raise plus founder quality
	PageSize      int
	MaxURNs       int
	MinHighlights int
	Candidates    int // Ranked companies checked for a contact and against the CRM
	TopN          int
	Icebreakers   bool
}

// Pick is a sourced company with the person to contact
type Pick struct {
	Company    model.Company
	Contact    harmonic.Contact
	Domain     string
	Score      model.Score
	Icebreaker string
}

// SourceResult is the outcome of a sourcing run
type SourceResult struct {
	Picks      []Pick
	URNs       int
	Fetched    int
	Excluded   filter.Stats
	Ranked     int
	NoContact  int
	Duplicates int
	InCRM      int
	Failed     int
}

type ranked struct {
	company model.Company
	score   model.Score
}

// Source searches for early-stage companies, drops excluded ones, ranks the
// rest and keeps the best TopN that have a reachable CEO and no history in
// the CRM
func (e *Env) Source(ctx context.Context, opts SourceOptions) (*SourceResult, error) {
	res := &SourceResult{}

	e.step(1, 5, "Searching for high-traction early-stage companies...")
	q := harmonic.EarlyStageQuery(opts.MinHighlights, opts.PageSize)
	urns, err := e.Harmonic.CollectURNs(ctx, q, opts.MaxURNs)
	if err != nil {
		return nil, fmt.Errorf("search companies: %w", err)
	}
	res.URNs = len(urns)
	e.printf("  Total: %d\n", len(urns))

	e.step(2, 5, "Fetching company details...")
	companies, err := e.Harmonic.BatchGetCompanies(ctx, urns)
	if err != nil {
		return nil, fmt.Errorf("fetch companies: %w", err)
	}
	res.Fetched = len(companies)
	e.printf("  Got %d records\n", len(companies))

	e.step(3, 5, "Filtering and scoring...")
	kept, stats := opts.Rules.Apply(companies)
	res.Excluded = stats
	e.printf("  Excluded - country: %d, industry: %d, nonprofit: %d, consumer: %d, not startup: %d, excluded name: %d\n",
		stats[filter.Country], stats[filter.Industry], stats[filter.Nonprofit],
		stats[filter.Consumer], stats[filter.NotStartup], stats[filter.ExcludedName])

	scorer := score.NewScorer(opts.Profile, e.Now)
	list := make([]ranked, 0, len(kept))
	for i := range kept {
		c := &kept[i]
		var sc model.Score
		if opts.WithFounder {
			sc = scorer.Calculate(c)
		} else {
			sc.Raise, sc.Signals = scorer.Raise(c)
			sc.Total = sc.Raise
		}
		list = append(list, ranked{company: *c, score: sc})
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].score.Total > list[j].score.Total })
	res.Ranked = len(list)
	e.printf("  Remaining candidates: %d\n", len(list))

	if opts.Candidates > 0 && len(list) > opts.Candidates {
		list = list[:opts.Candidates]
	}

	e.step(4, 5, "Finding CEOs and checking the CRM...")
	candidates := make(map[string][]harmonic.Candidate, len(list))
	for i := range list {
		c := &list[i].company
		candidates[c.URN()] = harmonic.FindCEOCandidates(c)
	}
	personURNs := harmonic.CandidateURNs(candidates)
	e.printf("  Fetching %d person records...\n", len(personURNs))
	people, err := e.Harmonic.BatchGetPersons(ctx, personURNs)
	if err != nil {
		return nil, fmt.Errorf("fetch people: %w", err)
	}

	seen := make(map[string]bool)
	for i := range list {
		if opts.TopN > 0 && len(res.Picks) >= opts.TopN {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c := list[i].company

		key := normalize.Name(c.Name)
		if key != "" && seen[key] {
			res.Duplicates++
			continue
		}

		contact, ok := harmonic.PickContact(candidates[c.URN()], people)
		if !ok {
			res.NoContact++
			continue
		}
		seen[key] = true

		domain := companyDomain(&c)
		e.printf("  [%d] %s (score=%.0f)... ", len(res.Picks)+1, c.Name, list[i].score.Total)

		inter, err := e.interaction(ctx, c.Name, domain)
		if err != nil {
			res.Failed++
			e.printf("FAIL (%v)\n", err)
			e.log().Warn("crm check failed", zap.String("company", c.Name), zap.Error(err))
			continue
		}
		if inter != nil && inter.Any() {
			res.InCRM++
			e.printf("SKIP (%s)\n", inter)
			continue
		}
		if inter == nil {
			e.printf("✓ Not in CRM\n")
		} else {
			e.printf("✓ No interactions\n")
		}

		pick := Pick{Company: c, Contact: contact, Domain: domain, Score: list[i].score}
		if opts.Icebreakers {
			pick.Icebreaker = e.icebreaker(ctx, &c, contact)
		}
		res.Picks = append(res.Picks, pick)
	}
	return res, nil
}

type interactionResult struct {
	affinity.Interaction
	OrgID int64
}

// interaction resolves a company in the CRM and checks its history. A nil
// result means the company is not in the CRM.
func (e *Env) interaction(ctx context.Context, name, domain string) (*interactionResult, error) {
	org, err := e.CRM.Resolve(ctx, name, domain)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, nil
	}
	inter, err := e.CRM.CheckInteraction(ctx, org.ID)
	if err != nil {
		return nil, err
	}
	return &interactionResult{Interaction: inter, OrgID: org.ID}, nil
}

// icebreaker generates an opener; failures leave it empty
func (e *Env) icebreaker(ctx context.Context, c *model.Company, contact harmonic.Contact) string {
	if e.Writer == nil {
		return ""
	}
	var highlights []string
	for _, h := range c.Highlights {
		highlights = append(highlights, h.Category)
	}
	text, err := e.Writer.Icebreaker(ctx, llm.IcebreakerRequest{
		CompanyName: c.Name,
		Description: c.Description,
		Highlights:  highlights,
		FirstName:   contact.FirstName,
	})
	if err != nil {
		e.log().Warn("icebreaker generation failed",
			zap.String("company", c.Name), zap.String("provider", e.Writer.Name()), zap.Error(err))
		return ""
	}
	return text
}
