package jobs

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/dealflow/internal/apiclient"
	"github.com/ppiankov/dealflow/internal/sheet"
)

func (e *Env) readTable(ctx context.Context, store sheet.Store) (*sheet.Table, error) {
	rows, err := store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	tbl := sheet.NewTable(rows)
	if tbl.Col(sheet.ColCompanyName) < 0 {
		return nil, fmt.Errorf("sheet has no %s column", sheet.ColCompanyName)
	}
	return tbl, nil
}

// AddResult counts the outcome of adding sheet rows to the target list
type AddResult struct {
	Added   int
	Already int
	Created int
	Failed  int
}

// CRMAdd adds every company in the sheet to the target list, creating the
// organization first when the CRM does not know it
func (e *Env) CRMAdd(ctx context.Context) (*AddResult, error) {
	e.banner("Add Companies to the Target List")
	tbl, err := e.readTable(ctx, e.Sheet)
	if err != nil {
		return nil, err
	}
	leads := tbl.Leads()
	target := e.CRM.TargetListID()
	listName := e.Config.Affinity.ListName(target)
	e.printf("Processing %d companies...\n\n", len(leads))

	res := &AddResult{}
	for n, lr := range leads {
		e.printf("  [%d/%d] %s... ", n+1, len(leads), lr.CompanyName)

		org, err := e.CRM.Resolve(ctx, lr.CompanyName, lr.Domain)
		if err != nil {
			res.Failed++
			e.printf("FAIL (%v)\n", err)
			e.log().Warn("resolve failed", zap.String("company", lr.CompanyName), zap.Error(err))
			continue
		}
		if org == nil {
			org, err = e.CRM.CreateOrganization(ctx, lr.CompanyName, lr.Domain)
			if err != nil {
				res.Failed++
				e.printf("FAIL (create org: %d)\n", apiclient.StatusCode(err))
				e.log().Warn("create organization failed", zap.String("company", lr.CompanyName), zap.Error(err))
				continue
			}
			res.Created++
			e.printf("(new org) ")
		}

		on, _, err := e.CRM.OnList(ctx, org.ID, target)
		if err != nil {
			res.Failed++
			e.printf("FAIL (%v)\n", err)
			e.log().Warn("list check failed", zap.String("company", lr.CompanyName), zap.Error(err))
			continue
		}
		if on {
			res.Already++
			e.printf("already on list\n")
			continue
		}
		if _, err := e.CRM.AddToList(ctx, target, org.ID); err != nil {
			res.Failed++
			e.printf("FAIL (%d)\n", apiclient.StatusCode(err))
			e.log().Warn("add to list failed", zap.String("company", lr.CompanyName), zap.Error(err))
			continue
		}
		res.Added++
		e.printf("ADDED\n")
	}

	e.banner("Done")
	e.stat("Added to "+listName, res.Added)
	e.stat("Already on list", res.Already)
	e.stat("New orgs created", res.Created)
	e.stat("Failed", res.Failed)
	e.printf("\n")
	return res, nil
}

// CRM presence columns written by CRMCheck
const (
	colInCRM        = "In Affinity"
	colListName     = "Affinity List Name"
	colOrgID        = "Affinity Org ID"
	colContacted    = "Contacted"
	colEvidence     = "Contacted Evidence"
	colLastChecked  = "Last Checked"
	contactedUnknow = "Unknown"
)

// CheckResult summarizes a presence check
type CheckResult struct {
	Rows      int
	OnList    int
	Responded int
	NotFound  int
	Failed    int
}

// CRMCheck annotates every sheet row with its presence on the target list
// and whether the founder responded, keeping the existing columns
func (e *Env) CRMCheck(ctx context.Context) (*CheckResult, error) {
	e.banner("Check Sheet Against the CRM")
	tbl, err := e.readTable(ctx, e.Sheet)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{colInCRM, colListName, colOrgID, colContacted, colEvidence, colLastChecked} {
		tbl.EnsureColumn(col)
	}

	target := e.CRM.TargetListID()
	listName := e.Config.Affinity.ListName(target)
	fields := e.Config.Affinity.Fields
	res := &CheckResult{}

	for i := range tbl.Rows {
		lead := tbl.Lead(i)
		if lead.CompanyName == "" {
			continue
		}
		res.Rows++
		e.printf("  [%d] %s... ", sheet.SheetRow(i), lead.CompanyName)

		set := func(inCRM, list, orgID, contacted, evidence string) {
			tbl.Set(i, colInCRM, inCRM)
			tbl.Set(i, colListName, list)
			tbl.Set(i, colOrgID, orgID)
			tbl.Set(i, colContacted, contacted)
			tbl.Set(i, colEvidence, evidence)
			tbl.Set(i, colLastChecked, e.timestamp())
		}

		org, err := e.CRM.Resolve(ctx, lead.CompanyName, leadDomain(lead))
		if err != nil {
			res.Failed++
			e.printf("FAIL (%v)\n", err)
			e.log().Warn("resolve failed", zap.String("company", lead.CompanyName), zap.Error(err))
			continue
		}
		if org == nil {
			res.NotFound++
			set("No", "", "", contactedUnknow, "Not found in Affinity")
			e.printf("✗ Not found\n")
			continue
		}

		id := strconv.FormatInt(org.ID, 10)
		on, entry, err := e.CRM.OnList(ctx, org.ID, target)
		if err != nil {
			res.Failed++
			e.printf("FAIL (%v)\n", err)
			e.log().Warn("list check failed", zap.String("company", lead.CompanyName), zap.Error(err))
			continue
		}
		if !on {
			set("No", "", id, "Not tracked", "Exists in Affinity, not on any list")
			e.printf("⊘ In CRM, not on list\n")
			continue
		}

		res.OnList++
		contacted, evidence := "Check list", "See Responded? field in Affinity"
		if fields.Responded != 0 {
			st, err := e.CRM.EntryStatus(ctx, *entry, fields)
			if err != nil {
				e.log().Warn("field values failed", zap.String("company", lead.CompanyName), zap.Error(err))
			} else {
				contacted = "No"
				if st.HasResponded() {
					contacted = "Yes"
					res.Responded++
				}
				evidence = "Responded: " + st.Responded
			}
		}
		set("Yes", listName, id, contacted, evidence)
		e.printf("✓ In '%s'\n", listName)
	}

	if err := e.Sheet.Write(ctx, tbl.Values()); err != nil {
		return nil, fmt.Errorf("write sheet: %w", err)
	}

	e.banner(fmt.Sprintf("Done: updated %d rows", res.Rows))
	e.stat("On "+listName, fmt.Sprintf("%d/%d", res.OnList, res.Rows))
	e.stat("Responded", fmt.Sprintf("%d/%d", res.Responded, res.Rows))
	e.stat("Not in CRM", res.NotFound)
	e.stat("Failed", res.Failed)
	e.printf("\n")
	return res, nil
}

// YCFlag is a sheet company found on accelerator batch lists
type YCFlag struct {
	Company string
	Lists   []string
}

// YCCheck flags sheet companies that sit on any configured accelerator list.
// With mark set the list names are written to a "YC Lists" column.
func (e *Env) YCCheck(ctx context.Context, mark bool) ([]YCFlag, error) {
	ycLists := e.Config.Affinity.YCLists()
	if len(ycLists) == 0 {
		return nil, fmt.Errorf("no lists are marked yc in affinity.lists")
	}
	tbl, err := e.readTable(ctx, e.Sheet)
	if err != nil {
		return nil, err
	}
	e.printf("Cross-checking %d companies against %d accelerator lists...\n\n", len(tbl.Rows), len(ycLists))

	var flagged []YCFlag
	failed := 0
	for i := range tbl.Rows {
		lead := tbl.Lead(i)
		if lead.CompanyName == "" {
			continue
		}
		e.printf("  [%d/%d] %s... ", i+1, len(tbl.Rows), lead.CompanyName)

		found, err := e.listsOf(ctx, lead.CompanyName, lead.Domain, ycLists)
		switch {
		case err != nil:
			failed++
			e.printf("FAIL (%v)\n", err)
			e.log().Warn("yc check failed", zap.String("company", lead.CompanyName), zap.Error(err))
		case found == nil:
			e.printf("not in CRM\n")
		case len(found) == 0:
			e.printf("clean\n")
		default:
			e.printf("%s\n", strings.Join(found, "  "))
			flagged = append(flagged, YCFlag{Company: lead.CompanyName, Lists: found})
		}
		if mark && err == nil {
			tbl.Set(i, "YC Lists", strings.Join(found, ", "))
		}
	}

	if mark {
		if err := e.Sheet.Write(ctx, tbl.Values()); err != nil {
			return nil, fmt.Errorf("write sheet: %w", err)
		}
	}

	e.printf("\n%s\n", rule)
	if len(flagged) == 0 {
		e.printf("No accelerator companies found. All clean.\n")
	} else {
		e.printf("FOUND %d companies on accelerator lists:\n", len(flagged))
		for _, f := range flagged {
			e.printf("  - %s: %s\n", f.Company, strings.Join(f.Lists, ", "))
		}
	}
	if failed > 0 {
		e.printf("Failed checks: %d\n", failed)
	}
	e.printf("%s\n", rule)
	return flagged, nil
}

// listsOf returns the names of the given lists the company is on. A nil
// slice means the company is not in the CRM.
func (e *Env) listsOf(ctx context.Context, name, domain string, lists map[int64]string) ([]string, error) {
	org, err := e.CRM.Resolve(ctx, name, domain)
	if err != nil || org == nil {
		return nil, err
	}
	detail, err := e.CRM.GetOrganization(ctx, org.ID)
	if err != nil {
		return nil, err
	}
	found := []string{}
	if detail == nil {
		return found, nil
	}
	for _, entry := range detail.ListEntries {
		if n, ok := lists[entry.ListID]; ok && !slices.Contains(found, n) {
			found = append(found, n)
		}
	}
	return found, nil
}
