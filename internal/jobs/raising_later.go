package jobs

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/dealflow/internal/affinity"
	"github.com/ppiankov/dealflow/internal/model"
	"github.com/ppiankov/dealflow/internal/normalize"
	"github.com/ppiankov/dealflow/internal/sheet"
	"github.com/ppiankov/dealflow/internal/worker"
)

const raisingLaterPreviewLen = 200

// RaisingLaterResult counts the entries scanned and matched
type RaisingLaterResult struct {
	Entries int
	Matched int
	High    int
	Failed  int
}

type statusResult struct {
	status affinity.EntryStatus
	err    error
}

// RaisingLater scans every target list entry for a "raising later" status
// and writes the matches with their latest notes
func (e *Env) RaisingLater(ctx context.Context) (*RaisingLaterResult, error) {
	e.banner("Raising Later Companies")
	target := e.CRM.TargetListID()
	fields := e.Config.Affinity.Fields

	e.step(1, 3, "Fetching list entries...")
	entries, err := e.CRM.ListEntries(ctx, target)
	if err != nil {
		return nil, err
	}
	e.printf("  %d entries on %s\n", len(entries), e.Config.Affinity.ListName(target))

	workers := e.Config.Concurrency.StatusWorkers
	e.step(2, 3, fmt.Sprintf("Checking status fields with %d workers...", workers))
	res := &RaisingLaterResult{Entries: len(entries)}
	var hits []affinity.EntryStatus
	done := 0
	worker.Map(ctx, workers, entries, func(ctx context.Context, entry model.ListEntry) statusResult {
		st, err := e.CRM.EntryStatus(ctx, entry, fields)
		return statusResult{status: st, err: err}
	}, func(r statusResult) {
		done++
		if done%500 == 0 {
			e.printf("  %d/%d checked\n", done, len(entries))
		}
		if r.err != nil {
			res.Failed++
			e.log().Warn("field values failed", zap.Int64("entry_id", r.status.Entry.ID), zap.Error(r.err))
			return
		}
		if r.status.RaisingLater {
			hits = append(hits, r.status)
		}
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Matched = len(hits)
	e.printf("  %d raising later\n", len(hits))

	e.step(3, 3, "Fetching notes...")
	rows := [][]string{{
		sheet.ColCompanyName, sheet.ColDomain, "Status", "Responded?", "Outreach History",
		"Total Notes", "Latest Note Date", "Latest Note Preview",
	}}
	for _, st := range hits {
		entity := st.Entry.Entity
		if strings.Contains(st.Status, "High") {
			res.High++
		}
		orgID := entity.ID
		if orgID == 0 {
			orgID = st.Entry.EntityID
		}
		notes, err := e.CRM.ListNotes(ctx, orgID, analyzeNotePageSize)
		if err != nil {
			e.log().Warn("notes failed", zap.String("company", entity.Name), zap.Error(err))
		}
		affinity.SortNotesNewestFirst(notes)
		latest, preview := "", ""
		if len(notes) > 0 {
			latest = notes[0].Date()
			preview = normalize.Truncate(affinity.NoteText(notes[0].Content), raisingLaterPreviewLen)
		}
		rows = append(rows, []string{
			entity.Name, entity.Domain, st.Status, st.Responded, st.Outreach,
			fmt.Sprint(len(notes)), latest, preview,
		})
	}

	if err := e.Sheet.Write(ctx, rows); err != nil {
		return nil, fmt.Errorf("write sheet: %w", err)
	}

	e.banner("Done")
	e.stat("Entries scanned", res.Entries)
	e.stat("Raising later", res.Matched)
	e.stat("  High priority", res.High)
	e.stat("  Normal", res.Matched-res.High)
	e.stat("Status check failures", res.Failed)
	e.printf("\n")
	return res, nil
}
