package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/dealflow/internal/filter"
	"github.com/ppiankov/dealflow/internal/harmonic"
	"github.com/ppiankov/dealflow/internal/model"
)

// PortfolioOptions select an investor's portfolio
type PortfolioOptions struct {
	Investor string   // Person searched by name; may be empty when Names is set
	Label    string   // Investor column text, defaults to Investor
	Names    []string // Extra portfolio company names
	Exclude  []string // Company names to drop, e.g. known late-stage ones
}

// PortfolioResult summarizes a portfolio run
type PortfolioResult struct {
	Companies   int
	EarlyStage  int
	LateStage   []string
	Excluded    []string
	NotFound    []string
	NoContact   []string
	WithHistory []string
	Written     int
}

var portfolioHeaders = []string{
	"companyName", "firstName", "email", "ceoName", "domain",
	"Investor", "Stage", "Funding Total",
	"Headcount", "Country", "City", "Customer Type",
	"Tags", "Founded", "Description",
	"Affinity Status",
}

// FindPortfolio collects an investor's early-stage portfolio companies with
// their CEO and CRM status. CRM history is reported, not filtered out.
func (e *Env) FindPortfolio(ctx context.Context, o PortfolioOptions) (*PortfolioResult, error) {
	label := o.Label
	if label == "" {
		label = o.Investor
	}
	e.banner("Portfolio Companies: " + label)
	res := &PortfolioResult{}

	e.step(1, 6, "Finding investments...")
	urns, err := e.investorCompanies(ctx, o.Investor)
	if err != nil {
		return nil, err
	}
	e.printf("  Found %d companies with an investor role\n", len(urns))

	e.step(2, 6, fmt.Sprintf("Looking up %d named companies...", len(o.Names)))
	for _, name := range o.Names {
		urn, err := e.Harmonic.FindCompanyURN(ctx, name)
		if err != nil {
			e.log().Warn("company lookup failed", zap.String("company", name), zap.Error(err))
			res.NotFound = append(res.NotFound, name)
			continue
		}
		if urn == "" {
			e.printf("  %s - NOT FOUND\n", name)
			res.NotFound = append(res.NotFound, name)
			continue
		}
		urns = append(urns, urn)
	}
	if len(urns) == 0 {
		return nil, errors.New("no portfolio companies found")
	}

	e.step(3, 6, "Fetching company details...")
	companies, err := e.Harmonic.BatchGetCompanies(ctx, urns)
	if err != nil {
		return nil, fmt.Errorf("fetch companies: %w", err)
	}
	res.Companies = len(companies)

	e.step(4, 6, "Filtering for early-stage startups...")
	rules := filter.Rules{}.WithExcludedNames(o.Exclude...)
	var early []model.Company
	for i := range companies {
		c := &companies[i]
		stage := c.StageLabel()
		if stage == "" {
			stage = "Unknown stage"
		}
		switch {
		case rules.IsExcludedName(c):
			res.Excluded = append(res.Excluded, c.Name)
		case filter.IsEarlyStage(c):
			early = append(early, *c)
			e.printf("  ✓ %s - %s (%s)\n", c.Name, stage, fundingText(c.Funding.FundingTotal))
		default:
			res.LateStage = append(res.LateStage, c.Name)
			e.printf("  ✗ %s - %s (%s) - too late\n", c.Name, stage, fundingText(c.Funding.FundingTotal))
		}
	}
	res.EarlyStage = len(early)

	e.step(5, 6, "Finding CEOs and checking the CRM...")
	candidates := make(map[string][]harmonic.Candidate, len(early))
	for i := range early {
		candidates[early[i].URN()] = harmonic.FindCEOCandidates(&early[i])
	}
	people, err := e.Harmonic.BatchGetPersons(ctx, harmonic.CandidateURNs(candidates))
	if err != nil {
		return nil, fmt.Errorf("fetch people: %w", err)
	}

	rows := [][]string{portfolioHeaders}
	for i := range early {
		c := &early[i]
		contact, ok := harmonic.PickContact(candidates[c.URN()], people)
		if !ok {
			res.NoContact = append(res.NoContact, c.Name)
			e.printf("  %s - no CEO email found\n", c.Name)
			continue
		}

		domain := companyDomain(c)
		e.printf("  %s (%s, %s)... ", c.Name, contact.Name, contact.Email)
		status := "Not in Affinity"
		inter, err := e.interaction(ctx, c.Name, domain)
		switch {
		case err != nil:
			status = "CRM check failed"
			e.printf("FAIL (%v)\n", err)
			e.log().Warn("crm check failed", zap.String("company", c.Name), zap.Error(err))
		case inter == nil:
			e.printf("✓ Not in CRM\n")
		case inter.Any():
			status = inter.String()
			res.WithHistory = append(res.WithHistory, fmt.Sprintf("%s (%s)", c.Name, status))
			e.printf("⚠ %s\n", status)
		default:
			status = "In Affinity, no interactions"
			e.printf("✓ In CRM, no interactions\n")
		}

		rows = append(rows, []string{
			c.Name, contact.FirstName, contact.Email, contact.Name, domain,
			label,
			c.StageLabel(),
			fundingText(c.Funding.FundingTotal),
			headcountText(c),
			c.Location.Country, c.Location.City, c.CustomerType,
			tagsText(c, 5),
			foundedText(c.FoundingDate),
			descriptionText(c),
			status,
		})
	}
	res.Written = len(rows) - 1

	e.step(6, 6, "Writing to spreadsheet...")
	if err := e.Sheet.Write(ctx, rows); err != nil {
		return nil, fmt.Errorf("write sheet: %w", err)
	}

	e.banner(fmt.Sprintf("Done: %d early-stage portfolio companies", res.Written))
	e.stat("Companies found", res.Companies)
	e.stat("Early stage", res.EarlyStage)
	e.stat("Late stage", len(res.LateStage))
	e.stat("Excluded by name", len(res.Excluded))
	e.stat("Not found", len(res.NotFound))
	e.stat("No CEO email", len(res.NoContact))
	e.stat("With CRM history", len(res.WithHistory))
	for _, s := range res.WithHistory {
		e.printf("    - %s\n", s)
	}
	e.printf("\n")
	return res, nil
}

// investorCompanies returns the companies where the named person holds an
// investor role
func (e *Env) investorCompanies(ctx context.Context, investor string) ([]string, error) {
	if strings.TrimSpace(investor) == "" {
		return nil, nil
	}
	urn, err := e.Harmonic.FindPersonURN(ctx, investor)
	if err != nil {
		return nil, fmt.Errorf("find investor: %w", err)
	}
	if urn == "" {
		e.printf("  Investor %q not found\n", investor)
		return nil, nil
	}
	person, err := e.Harmonic.GetPerson(ctx, urn)
	if err != nil {
		return nil, fmt.Errorf("get investor: %w", err)
	}
	if person == nil {
		return nil, nil
	}

	var urns []string
	for _, x := range person.Experience {
		if strings.EqualFold(x.RoleType, "INVESTOR") && x.Company != "" {
			urns = append(urns, x.Company)
			e.printf("  %s - %s\n", x.CompanyName, x.Title)
		}
	}
	return urns, nil
}
