package affinity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/ppiankov/dealflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingCRM answers every request with a server error
type failingCRM struct{}

func (failingCRM) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusInternalServerError)
}

func TestCheckInteraction_Priority(t *testing.T) {
	crm := newFakeCRM()
	crm.orgs[1] = &model.Organization{ID: 1, ListEntries: []model.ListEntry{{ListID: 5}, {ListID: testTargetList}}}
	crm.notes[1] = []model.Note{{ID: 1}}
	crm.orgs[2] = &model.Organization{ID: 2, ListEntries: []model.ListEntry{{ListID: 5}}}
	crm.notes[2] = []model.Note{{ID: 1}, {ID: 2}, {ID: 3}}
	crm.orgs[3] = &model.Organization{ID: 3, ListEntries: []model.ListEntry{{ListID: 5}}}
	crm.orgs[4] = &model.Organization{ID: 4}
	client := newTestClient(t, crm)

	tests := []struct {
		orgID int64
		want  Interaction
		text  string
	}{
		{1, Interaction{Kind: OnTargetList}, "On target list"},
		{2, Interaction{Kind: HasNotes, Notes: 3}, "3 notes"},
		{3, Interaction{Kind: OnOtherList}, "On other list"},
		{4, Interaction{Kind: Clean}, ""},
		{99, Interaction{Kind: Clean}, ""},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.orgID), func(t *testing.T) {
			got, err := client.CheckInteraction(context.Background(), tt.orgID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.text, got.String())
			assert.Equal(t, tt.want.Kind != Clean, got.Any())
		})
	}
}

func TestCheckInteraction_CapsNoteLookup(t *testing.T) {
	crm := newFakeCRM()
	crm.orgs[1] = &model.Organization{ID: 1}
	for i := 0; i < 12; i++ {
		crm.notes[1] = append(crm.notes[1], model.Note{ID: int64(i)})
	}
	client := newTestClient(t, crm)

	got, err := client.CheckInteraction(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, Interaction{Kind: HasNotes, Notes: interactionNotePageSize}, got)
}

func TestCheckInteraction_Error(t *testing.T) {
	client := newTestClient(t, failingCRM{})
	_, err := client.CheckInteraction(context.Background(), 1)
	assert.Error(t, err)
}

func TestEntryStatus(t *testing.T) {
	fields := model.FieldConfig{Status: 11, Responded: 12, Outreach: 13, RaisingLaterOptions: []int64{501, 502}}

	crm := newFakeCRM()
	crm.fieldValues[7] = []model.FieldValue{
		{FieldID: 11, Value: json.RawMessage(`{"id": 502, "text": "Raising Later - High"}`)},
		{FieldID: 12, Value: json.RawMessage(`{"id": 1, "text": "Yes"}`)},
		{FieldID: 13, Value: json.RawMessage(`"Emailed twice"`)},
		{FieldID: 99, Value: json.RawMessage(`"ignored"`)},
	}
	crm.fieldValues[8] = []model.FieldValue{
		{FieldID: 11, Value: json.RawMessage(`{"id": 600, "text": "Passed"}`)},
		{FieldID: 12, Value: json.RawMessage(`"Not contacted"`)},
	}
	client := newTestClient(t, crm)

	st, err := client.EntryStatus(context.Background(), model.ListEntry{ID: 7}, fields)
	require.NoError(t, err)
	assert.True(t, st.RaisingLater)
	assert.Equal(t, "Raising Later - High", st.Status)
	assert.Equal(t, "Emailed twice", st.Outreach)
	assert.True(t, st.HasResponded())
	assert.False(t, st.Passed())

	st, err = client.EntryStatus(context.Background(), model.ListEntry{ID: 8}, fields)
	require.NoError(t, err)
	assert.False(t, st.RaisingLater)
	assert.True(t, st.Passed())
	assert.False(t, st.HasResponded())
}

func TestSortNotesNewestFirst(t *testing.T) {
	notes := []model.Note{
		{ID: 1, CreatedAt: "2024-01-02T00:00:00Z"},
		{ID: 2, CreatedAt: "2025-06-01T00:00:00Z"},
		{ID: 3, CreatedAt: "2023-12-31T00:00:00Z"},
	}
	SortNotesNewestFirst(notes)
	assert.Equal(t, []int64{2, 1, 3}, []int64{notes[0].ID, notes[1].ID, notes[2].ID})
}
