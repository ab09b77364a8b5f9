package jobs

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/dealflow/internal/affinity"
	"github.com/ppiankov/dealflow/internal/model"
	"github.com/ppiankov/dealflow/internal/normalize"
	"github.com/ppiankov/dealflow/internal/sheet"
)

const (
	analyzeNotePageSize = 50
	timelineNotes       = 10
	timelineNoteLen     = 120
	notePreviewLen      = 150
)

// AnalyzeOptions selects the analyze input
type AnalyzeOptions struct {
	FromSheet bool // Read leads from the sheet instead of the leads file
}

// AnalyzeResult counts relationship findings
type AnalyzeResult struct {
	Rows      int
	Found     int
	OnList    int
	Passed    int
	Responded int
	HasNotes  int
	Failed    int
}

// NetNew is the number of rows with no CRM record at all
func (r AnalyzeResult) NetNew() int {
	return r.Rows - r.Found - r.Failed
}

// relationship is everything the CRM knows about one organization
type relationship struct {
	org    *model.Organization
	onList bool
	status affinity.EntryStatus
	others []string
	notes  []model.Note
}

func (r *relationship) summary() string {
	if r.org == nil {
		return "No prior relationship"
	}
	var parts []string
	if r.onList {
		parts = append(parts, "On target list")
	}
	if r.status.Status != "" {
		parts = append(parts, "Status: "+r.status.Status)
	}
	if r.status.HasResponded() {
		parts = append(parts, "Responded: "+r.status.Responded)
	}
	if r.status.Outreach != "" {
		parts = append(parts, "Outreach: "+r.status.Outreach)
	}
	if len(r.notes) > 0 {
		parts = append(parts, fmt.Sprintf("%d notes (latest %s)", len(r.notes), r.notes[0].Date()))
	}
	if len(r.others) > 0 {
		parts = append(parts, "Also on: "+strings.Join(r.others, ", "))
	}
	if len(parts) == 0 {
		return "In Affinity DB, no tracked activity"
	}
	return strings.Join(parts, " | ")
}

func (e *Env) relationship(ctx context.Context, lead model.Lead) (*relationship, error) {
	org, err := e.CRM.Resolve(ctx, lead.CompanyName, leadDomain(lead))
	if err != nil || org == nil {
		return &relationship{}, err
	}
	rel := &relationship{org: org}

	detail, err := e.CRM.GetOrganization(ctx, org.ID)
	if err != nil {
		return nil, err
	}
	target := e.CRM.TargetListID()
	if detail != nil {
		for _, entry := range detail.ListEntries {
			if entry.ListID == target {
				rel.onList = true
				rel.status = affinity.EntryStatus{Entry: entry}
				continue
			}
			name := e.Config.Affinity.ListName(entry.ListID)
			if !slices.Contains(rel.others, name) {
				rel.others = append(rel.others, name)
			}
		}
	}

	if rel.onList {
		st, err := e.CRM.EntryStatus(ctx, rel.status.Entry, e.Config.Affinity.Fields)
		if err != nil {
			e.log().Warn("field values failed", zap.String("company", lead.CompanyName), zap.Error(err))
		} else {
			rel.status = st
		}
	}

	notes, err := e.CRM.ListNotes(ctx, org.ID, analyzeNotePageSize)
	if err != nil {
		return nil, err
	}
	affinity.SortNotesNewestFirst(notes)
	rel.notes = notes
	return rel, nil
}

func timeline(notes []model.Note) (dates, events string) {
	var ds, es []string
	for i, n := range notes {
		if d := n.Date(); d != "" && !slices.Contains(ds, d) {
			ds = append(ds, d)
		}
		if i < timelineNotes {
			content := affinity.NoteText(n.Content)
			es = append(es, fmt.Sprintf("[%s] %s", n.Date(), normalize.Truncate(content, timelineNoteLen)))
		}
	}
	return strings.Join(ds, ", "), strings.Join(es, " || ")
}

// Analyze writes a relationship report for every lead: CRM presence, target
// list status fields, other lists and the notes timeline
func (e *Env) Analyze(ctx context.Context, opts AnalyzeOptions) (*AnalyzeResult, error) {
	e.banner("Analyze CRM Relationships")
	src, srcName := e.Leads, e.Config.Sheet.LeadsCSV
	if opts.FromSheet || src == nil {
		src, srcName = e.Sheet, "sheet"
	}
	tbl, err := e.readTable(ctx, src)
	if err != nil {
		return nil, err
	}
	leads := tbl.Leads()
	e.printf("Loaded %d leads from %s\n\n", len(leads), srcName)

	target := e.CRM.TargetListID()
	headers := []string{
		sheet.ColCompanyName, sheet.ColFirstName, sheet.ColEmail, sheet.ColCEOName, sheet.ColDomain,
		"Found in Affinity", "Affinity Org ID", "On " + e.Config.Affinity.ListName(target),
		"Status", "Responded?", "Outreach History", "Other Affinity Lists",
		"Total Notes", "Latest Note Date", "Latest Note Preview",
		"All Activity Dates", "Activity Timeline", "Relationship Summary", "Last Checked",
	}
	rows := [][]string{headers}
	res := &AnalyzeResult{}

	for n, lr := range leads {
		res.Rows++
		e.printf("  [%d/%d] %s... ", n+1, len(leads), lr.CompanyName)
		base := []string{lr.CompanyName, lr.FirstName, lr.Email, lr.CEOName, leadDomain(lr.Lead)}

		rel, err := e.relationship(ctx, lr.Lead)
		if err != nil {
			res.Failed++
			e.printf("FAIL (%v)\n", err)
			e.log().Warn("relationship check failed", zap.String("company", lr.CompanyName), zap.Error(err))
			row := append(base, "Error", "", "", "", "", "", "", "", "", "", "", "", "CRM check failed", e.timestamp())
			rows = append(rows, row)
			continue
		}
		if rel.org == nil {
			e.printf("not found\n")
			row := append(base, "No", "", "No", "", "", "", "", "0", "", "", "", "", rel.summary(), e.timestamp())
			rows = append(rows, row)
			continue
		}

		res.Found++
		onList := "No"
		if rel.onList {
			onList = "Yes"
			res.OnList++
		}
		if rel.status.Passed() {
			res.Passed++
		}
		responded := rel.status.Responded
		if rel.status.HasResponded() {
			res.Responded++
		}
		latestDate, preview := "", ""
		if len(rel.notes) > 0 {
			res.HasNotes++
			latestDate = rel.notes[0].Date()
			preview = normalize.Truncate(affinity.NoteText(rel.notes[0].Content), notePreviewLen)
		}
		dates, events := timeline(rel.notes)

		row := append(base,
			"Yes", strconv.FormatInt(rel.org.ID, 10), onList,
			rel.status.Status, responded, rel.status.Outreach, strings.Join(rel.others, ", "),
			strconv.Itoa(len(rel.notes)), latestDate, preview,
			dates, events, rel.summary(), e.timestamp())
		rows = append(rows, row)
		e.printf("%s\n", rel.summary())
	}

	if err := e.Sheet.Write(ctx, rows); err != nil {
		return nil, fmt.Errorf("write sheet: %w", err)
	}

	e.banner("Done")
	e.stat("Analyzed", res.Rows)
	e.stat("Found in Affinity", res.Found)
	e.stat("On target list", res.OnList)
	e.stat("Passed", res.Passed)
	e.stat("Responded", res.Responded)
	e.stat("Has notes", res.HasNotes)
	e.stat("Net new", res.NetNew())
	e.stat("Failed", res.Failed)
	e.printf("\n")
	return res, nil
}
