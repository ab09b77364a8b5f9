package harmonic

import (
	"testing"

	"github.com/ppiankov/dealflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCEOCandidates(t *testing.T) {
	c := &model.Company{People: []model.CompanyPerson{
		{Person: "urn:p:founder", Title: "Co-Founder & CTO", IsCurrentPosition: true},
		{Person: "urn:p:old-ceo", Title: "CEO", IsCurrentPosition: false},
		{PersonURN: "urn:p:ceo", Title: "Chief Executive Officer", IsCurrentPosition: true},
		{EntityURN: "urn:p:role", Title: "Builder", RoleType: "FOUNDER", IsCurrentPosition: true},
		{Person: "urn:p:eng", Title: "Engineer", IsCurrentPosition: true},
		{Person: "urn:p:founder", Title: "CEO", IsCurrentPosition: true},
		{Title: "CEO", IsCurrentPosition: true},
	}}

	got := FindCEOCandidates(c)
	require.Len(t, got, 3)
	assert.Equal(t, Candidate{URN: "urn:p:founder", Title: "CEO", Priority: 1}, got[0])
	assert.Equal(t, "urn:p:ceo", got[1].URN)
	assert.Equal(t, 1, got[1].Priority)
	assert.Equal(t, Candidate{URN: "urn:p:role", Title: "Builder", Priority: 2}, got[2])
}

func TestPickContact(t *testing.T) {
	cands := []Candidate{
		{URN: "urn:p:1", Title: "CEO", Priority: 1},
		{URN: "urn:p:2", Title: "Founder", Priority: 2},
		{URN: "urn:p:3", Title: "Founder", Priority: 2},
	}
	people := map[string]model.Person{
		"urn:p:1": {FullName: "No Email"},
		"urn:p:2": {FullName: "Grace Hopper", Contact: model.Contact{Emails: model.EmailList{" grace@acme.io "}}},
		"urn:p:3": {FullName: "Later", Contact: model.Contact{PrimaryEmail: "later@acme.io"}},
	}

	got, ok := PickContact(cands, people)
	require.True(t, ok)
	assert.Equal(t, Contact{Name: "Grace Hopper", FirstName: "Grace", Email: "grace@acme.io", Title: "Founder", URN: "urn:p:2"}, got)

	_, ok = PickContact(cands[:1], people)
	assert.False(t, ok)
}

func TestFallbackEmail(t *testing.T) {
	tests := []struct {
		name    string
		contact model.Contact
		want    string
	}{
		{"primary wins", model.Contact{PrimaryEmail: "a@x.io", ExecEmails: []string{"ceo@x.io"}}, "a@x.io"},
		{"preferred mailbox", model.Contact{ExecEmails: []string{"sales@x.io", "info@x.io", "Founder@x.io"}}, "Founder@x.io"},
		{"first otherwise", model.Contact{ExecEmails: []string{" ", "bob@x.io", "bob@x.io"}}, "bob@x.io"},
		{"nothing", model.Contact{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FallbackEmail(&model.Company{Contact: tt.contact}))
		})
	}
}

func TestCandidateURNs(t *testing.T) {
	got := CandidateURNs(map[string][]Candidate{
		"a": {{URN: "urn:2"}, {URN: "urn:1"}},
		"b": {{URN: "urn:1"}},
	})
	assert.Equal(t, []string{"urn:1", "urn:2"}, got)
}
