package jobs

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ppiankov/dealflow/internal/lemlist"
	"github.com/ppiankov/dealflow/internal/normalize"
	"github.com/ppiankov/dealflow/internal/sheet"
)

// PushResult counts the outcome of a campaign push
type PushResult struct {
	Added     int
	Exists    int
	Failed    int
	NoCompany int
	NoEmail   []string
}

// LemlistPush adds every sheet row with a company and an email to the
// outreach campaign
func (e *Env) LemlistPush(ctx context.Context) (*PushResult, error) {
	e.banner("Push Leads to Outreach Campaign")
	rows, err := e.Sheet.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	tbl := sheet.NewTable(rows)
	campaign := e.Config.Lemlist.CampaignID
	res := &PushResult{}

	for i := range tbl.Rows {
		lead := tbl.Lead(i)
		if lead.CompanyName == "" {
			res.NoCompany++
			continue
		}
		if lead.Email == "" {
			res.NoEmail = append(res.NoEmail, lead.CompanyName)
			continue
		}

		e.printf("  %s (%s)... ", lead.CompanyName, lead.Email)
		outcome, err := e.Outreach.AddLead(ctx, campaign, lead)
		switch outcome {
		case lemlist.Added:
			res.Added++
		case lemlist.AlreadyExists:
			res.Exists++
		default:
			res.Failed++
			e.log().Warn("add lead failed", zap.String("company", lead.CompanyName), zap.Error(err))
		}
		e.printf("%s\n", outcome)
	}

	e.banner("Done")
	e.stat("Added", res.Added)
	e.stat("Already in campaign", res.Exists)
	e.stat("Failed", res.Failed)
	e.stat("Skipped (no company)", res.NoCompany)
	e.stat("Skipped (no email)", len(res.NoEmail))
	for _, name := range res.NoEmail {
		e.printf("    - %s\n", name)
	}
	e.printf("\n")
	return res, nil
}

// CleanNames rewrites the company column with display-cleaned names. Only
// changed cells are sent.
func (e *Env) CleanNames(ctx context.Context) (int, error) {
	tbl, err := e.readTable(ctx, e.Sheet)
	if err != nil {
		return 0, err
	}
	var updates []sheet.CellUpdate
	for i := range tbl.Rows {
		name := tbl.Get(i, sheet.ColCompanyName)
		clean := normalize.CleanDisplayName(name)
		if clean == name || clean == "" {
			continue
		}
		e.printf("  %s -> %s\n", name, clean)
		updates = append(updates, cellUpdate(tbl, i, sheet.ColCompanyName, clean))
	}
	if len(updates) == 0 {
		e.printf("All names are already clean.\n")
		return 0, nil
	}
	if err := e.Sheet.UpdateCells(ctx, updates); err != nil {
		return 0, fmt.Errorf("update sheet: %w", err)
	}
	e.printf("Updated %d names.\n", len(updates))
	return len(updates), nil
}
