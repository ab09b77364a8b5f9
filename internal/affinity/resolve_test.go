package affinity

import (
	"context"
	"testing"

	"github.com/ppiankov/dealflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_NeverReturnsFuzzyNonMatch(t *testing.T) {
	crm := newFakeCRM()
	crm.searchHits["Acme"] = []model.Organization{
		{ID: 1, Name: "Acme Robotics"},
		{ID: 2, Name: "Acmee"},
		{ID: 3, Name: "The Acme Co Group"},
	}
	client := newTestClient(t, crm)

	org, err := client.Resolve(context.Background(), "Acme", "")
	require.NoError(t, err)
	assert.Nil(t, org)
}

func TestResolve_ExactNormalizedName(t *testing.T) {
	crm := newFakeCRM()
	crm.searchHits["ACME INC"] = []model.Organization{
		{ID: 1, Name: "Acme Robotics"},
		{ID: 2, Name: "Acme, Inc."},
	}
	client := newTestClient(t, crm)

	org, err := client.Resolve(context.Background(), "ACME INC", "")
	require.NoError(t, err)
	require.NotNil(t, org)
	assert.Equal(t, int64(2), org.ID)
}

func TestResolve_StackedSuffixesMatchSingleSuffix(t *testing.T) {
	crm := newFakeCRM()
	crm.searchHits["Acme Co Inc"] = []model.Organization{
		{ID: 1, Name: "Acme Robotics"},
		{ID: 2, Name: "Acme Inc"},
	}
	client := newTestClient(t, crm)

	// Every trailing legal suffix is stripped, so both names key to "acme"
	org, err := client.Resolve(context.Background(), "Acme Co Inc", "")
	require.NoError(t, err)
	require.NotNil(t, org)
	assert.Equal(t, int64(2), org.ID)
}

func TestResolve_DomainPreferredAndNamePathSkipped(t *testing.T) {
	crm := newFakeCRM()
	crm.searchHits["acme.io"] = []model.Organization{
		{ID: 1, Name: "Acme Lookalike", Domain: "acme.io.evil.com"},
		{ID: 7, Name: "Acme Labs", Domain: " ACME.io "},
	}
	crm.searchHits["Acme"] = []model.Organization{{ID: 9, Name: "Acme"}}
	client := newTestClient(t, crm)

	org, err := client.Resolve(context.Background(), "Acme", "Acme.io")
	require.NoError(t, err)
	require.NotNil(t, org)
	assert.Equal(t, int64(7), org.ID)
	assert.Equal(t, []string{"acme.io"}, crm.searches, "name search must not run after a domain hit")
}

func TestResolve_FallsBackToNameWhenDomainMisses(t *testing.T) {
	crm := newFakeCRM()
	crm.searchHits["acme.io"] = []model.Organization{{ID: 1, Name: "Other", Domain: "other.io"}}
	crm.searchHits["Acme"] = []model.Organization{{ID: 9, Name: "acme"}}
	client := newTestClient(t, crm)

	org, err := client.Resolve(context.Background(), "Acme", "acme.io")
	require.NoError(t, err)
	require.NotNil(t, org)
	assert.Equal(t, int64(9), org.ID)
	assert.Equal(t, []string{"acme.io", "Acme"}, crm.searches)
}

func TestResolve_EmptyInputs(t *testing.T) {
	crm := newFakeCRM()
	client := newTestClient(t, crm)

	org, err := client.Resolve(context.Background(), "  ", "")
	require.NoError(t, err)
	assert.Nil(t, org)
	assert.Empty(t, crm.searches)
}

func TestResolve_SearchErrorIsNotNotFound(t *testing.T) {
	client := newTestClient(t, failingCRM{})

	_, err := client.Resolve(context.Background(), "Acme", "acme.io")
	assert.Error(t, err)
}

// Scenario: a company absent from the CRM is created and is not yet on
// the target list
func TestResolveCreateThenCheckList(t *testing.T) {
	crm := newFakeCRM()
	client := newTestClient(t, crm)
	ctx := context.Background()

	org, err := client.Resolve(ctx, "Acme Inc", "acme.io")
	require.NoError(t, err)
	require.Nil(t, org)

	created, err := client.CreateOrganization(ctx, "Acme Inc", "acme.io")
	require.NoError(t, err)
	require.Len(t, crm.created, 1)
	assert.Equal(t, map[string]string{"name": "Acme Inc", "domain": "acme.io"}, crm.created[0])

	onList, entry, err := client.OnList(ctx, created.ID, testTargetList)
	require.NoError(t, err)
	assert.False(t, onList)
	assert.Nil(t, entry)

	_, err = client.AddToList(ctx, testTargetList, created.ID)
	require.NoError(t, err)
	onList, entry, err = client.OnList(ctx, created.ID, testTargetList)
	require.NoError(t, err)
	assert.True(t, onList)
	require.NotNil(t, entry)
	assert.Equal(t, created.ID, entry.EntityID)
}
