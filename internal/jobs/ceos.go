package jobs

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ppiankov/dealflow/internal/harmonic"
	"github.com/ppiankov/dealflow/internal/model"
	"github.com/ppiankov/dealflow/internal/normalize"
	"github.com/ppiankov/dealflow/internal/sheet"
)

var leadHeaders = []string{
	sheet.ColCompanyName, sheet.ColFirstName, sheet.ColEmail, sheet.ColCompanyURN, sheet.ColCEOName,
}

// CEOsResult summarizes a watchlist export
type CEOsResult struct {
	Companies     int
	PersonalEmail int
	FallbackEmail int
	NoEmail       int
}

// CEOs exports the CEO or founder of every company on the configured
// watchlist to the leads file. A company address stands in when no
// candidate has a personal email.
func (e *Env) CEOs(ctx context.Context) (*CEOsResult, error) {
	e.banner("Watchlist CEOs")

	urns, err := e.Harmonic.WatchlistCompanyURNs(ctx, e.Config.Harmonic.WatchlistURN)
	if err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}
	e.printf("Watchlist has %d companies\n", len(urns))

	companies, err := e.Harmonic.BatchGetCompanies(ctx, urns)
	if err != nil {
		return nil, fmt.Errorf("fetch companies: %w", err)
	}
	byURN := make(map[string]*model.Company, len(companies))
	candidates := make(map[string][]harmonic.Candidate, len(companies))
	for i := range companies {
		c := &companies[i]
		byURN[c.URN()] = c
		candidates[c.URN()] = harmonic.FindCEOCandidates(c)
	}

	personURNs := harmonic.CandidateURNs(candidates)
	e.printf("Found %d person URNs to fetch\n", len(personURNs))
	people, err := e.Harmonic.BatchGetPersons(ctx, personURNs)
	if err != nil {
		return nil, fmt.Errorf("fetch people: %w", err)
	}
	e.printf("Fetched %d person records\n", len(people))

	res := &CEOsResult{}
	rows := [][]string{leadHeaders}
	for _, urn := range urns {
		c, ok := byURN[urn]
		if !ok {
			continue
		}
		res.Companies++

		name, email := chooseCEO(candidates[urn], people)
		switch {
		case email != "":
			res.PersonalEmail++
		default:
			email = harmonic.FallbackEmail(c)
			if email != "" {
				res.FallbackEmail++
			} else {
				res.NoEmail++
			}
		}

		rows = append(rows, []string{
			normalize.CleanDisplayName(c.Name),
			normalize.FirstName(name),
			email,
			urn,
			name,
		})
	}

	if err := e.Leads.Write(ctx, rows); err != nil {
		return nil, fmt.Errorf("write leads: %w", err)
	}

	e.banner(fmt.Sprintf("Wrote %d leads", len(rows)-1))
	e.stat("Personal email", res.PersonalEmail)
	e.stat("Company email", res.FallbackEmail)
	e.stat("No email", res.NoEmail)
	e.printf("\n")
	return res, nil
}

// chooseCEO returns the first candidate with an email, else the first
// candidate's name without one
func chooseCEO(candidates []harmonic.Candidate, people map[string]model.Person) (name, email string) {
	for _, cand := range candidates {
		p, ok := people[cand.URN]
		if !ok {
			continue
		}
		if em := p.Email(); em != "" {
			return p.DisplayName(), em
		}
	}
	if len(candidates) > 0 {
		if p, ok := people[candidates[0].URN]; ok {
			return p.DisplayName(), ""
		}
	}
	return "", ""
}

// FillEmailsResult summarizes an email backfill
type FillEmailsResult struct {
	Missing int
	Found   int
	Failed  int
}

// FillEmails looks up an address for leads rows that have none: a current
// CEO or founder first, then any current employee, then the company address
func (e *Env) FillEmails(ctx context.Context) (*FillEmailsResult, error) {
	e.banner("Fill Missing Emails")

	data, err := e.Leads.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read leads: %w", err)
	}
	tbl := sheet.NewTable(data)
	res := &FillEmailsResult{}

	var headerUpdates, updates []sheet.CellUpdate
	for _, col := range []string{sheet.ColEmail, sheet.ColCEOName, sheet.ColFirstName} {
		if tbl.Col(col) < 0 {
			c := tbl.EnsureColumn(col)
			headerUpdates = append(headerUpdates, sheet.CellUpdate{Row: 1, Col: c + 1, Value: col})
		}
	}
	for i := range tbl.Rows {
		lead := tbl.Lead(i)
		if lead.Email != "" || lead.CompanyURN == "" {
			continue
		}
		res.Missing++
		e.printf("  %s (CEO: %s)... ", lead.CompanyName, lead.CEOName)

		name, email, err := e.bestEmail(ctx, lead.CompanyURN)
		if err != nil {
			res.Failed++
			e.printf("FAIL (%v)\n", err)
			e.log().Warn("email lookup failed", zap.String("company", lead.CompanyName), zap.Error(err))
			continue
		}
		if email == "" {
			e.printf("✗ no email found\n")
			continue
		}
		res.Found++
		e.printf("✓ %s\n", email)

		tbl.Set(i, sheet.ColEmail, email)
		updates = append(updates, cellUpdate(tbl, i, sheet.ColEmail, email))
		if lead.CEOName == "" && name != "" {
			tbl.Set(i, sheet.ColCEOName, name)
			tbl.Set(i, sheet.ColFirstName, normalize.FirstName(name))
			updates = append(updates,
				cellUpdate(tbl, i, sheet.ColCEOName, name),
				cellUpdate(tbl, i, sheet.ColFirstName, normalize.FirstName(name)))
		}
	}

	if len(updates) > 0 {
		if err := e.Leads.UpdateCells(ctx, append(headerUpdates, updates...)); err != nil {
			return nil, fmt.Errorf("update leads: %w", err)
		}
	}

	e.banner(fmt.Sprintf("Found emails for %d/%d companies", res.Found, res.Missing))
	e.stat("Still missing", res.Missing-res.Found)
	e.stat("Failed lookups", res.Failed)
	e.printf("\n")
	return res, nil
}

func (e *Env) bestEmail(ctx context.Context, companyURN string) (name, email string, err error) {
	c, err := e.Harmonic.GetCompany(ctx, companyURN)
	if err != nil || c == nil {
		return "", "", err
	}

	var fallbackName, fallbackEmail string
	for _, cp := range c.People {
		if !cp.IsCurrentPosition || cp.URN() == "" {
			continue
		}
		p, err := e.Harmonic.GetPerson(ctx, cp.URN())
		if err != nil {
			return "", "", err
		}
		if p == nil || p.Email() == "" {
			continue
		}
		if harmonic.IsCEOTitle(cp.Title) || containsFold(cp.Title, "founder") {
			return p.DisplayName(), p.Email(), nil
		}
		if fallbackEmail == "" {
			fallbackName, fallbackEmail = p.DisplayName(), p.Email()
		}
	}
	if fallbackEmail != "" {
		return fallbackName, fallbackEmail, nil
	}
	return "", harmonic.FallbackEmail(c), nil
}

// cellUpdate addresses a table cell in sheet coordinates
func cellUpdate(tbl *sheet.Table, i int, col, value string) sheet.CellUpdate {
	return sheet.CellUpdate{Row: sheet.SheetRow(i), Col: tbl.Col(col) + 1, Value: value}
}
