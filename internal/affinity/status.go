package affinity

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/ppiankov/dealflow/internal/model"
)

// EntryStatus is the pipeline state recorded on a target-list entry
type EntryStatus struct {
	Entry        model.ListEntry
	Status       string
	Responded    string
	Outreach     string
	RaisingLater bool
}

// HasResponded reports whether the responded field shows a reply
func (s EntryStatus) HasResponded() bool {
	switch strings.ToLower(strings.TrimSpace(s.Responded)) {
	case "", "no", "not contacted", "new":
		return false
	}
	return true
}

// Passed reports whether the company was passed on
func (s EntryStatus) Passed() bool {
	return strings.EqualFold(s.Status, "passed")
}

// EntryStatus reads the status, responded and outreach fields of a list
// entry. RaisingLater is set when the status option is one of
// fields.RaisingLaterOptions.
func (c *Client) EntryStatus(ctx context.Context, entry model.ListEntry, fields model.FieldConfig) (EntryStatus, error) {
	values, err := c.FieldValues(ctx, entry.ID)
	if err != nil {
		return EntryStatus{Entry: entry}, err
	}
	return ReadStatus(entry, values, fields), nil
}

// ReadStatus extracts the configured fields from field values
func ReadStatus(entry model.ListEntry, values []model.FieldValue, fields model.FieldConfig) EntryStatus {
	st := EntryStatus{Entry: entry}
	for _, fv := range values {
		switch {
		case fields.Status != 0 && fv.FieldID == fields.Status:
			st.Status = fv.Text()
			if id := fv.OptionID(); id != 0 && slices.Contains(fields.RaisingLaterOptions, id) {
				st.RaisingLater = true
			}
		case fields.Responded != 0 && fv.FieldID == fields.Responded:
			st.Responded = fv.Text()
		case fields.Outreach != 0 && fv.FieldID == fields.Outreach:
			st.Outreach = fv.Text()
		}
	}
	return st
}

// SortNotesNewestFirst orders notes by creation time, newest first
func SortNotesNewestFirst(notes []model.Note) {
	sort.SliceStable(notes, func(i, j int) bool { return notes[i].CreatedAt > notes[j].CreatedAt })
}
