package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompany_FlexibleFields(t *testing.T) {
	raw := `{
		"entity_urn": "urn:harmonic:company:1",
		"name": "Acme",
		"website": "https://www.acme.io/about",
		"headcount": {"latest_metric_value": 12},
		"corrected_headcount": 9,
		"contact": {"emails": [{"email": "a@acme.io"}, "b@acme.io"]},
		"traction_metrics": {"web_traffic": {"180d_ago": {"percent_change": 40}}}
	}`

	var c Company
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	assert.Equal(t, "https://www.acme.io/about", c.Website.URL)
	assert.Equal(t, 12.0, c.HeadcountValue())
	assert.Equal(t, EmailList{"a@acme.io", "b@acme.io"}, c.Contact.Emails)
	assert.Equal(t, 40.0, c.TractionMetrics.WebTraffic.Ago180d.PercentChange)
}

func TestCompany_HeadcountDefault(t *testing.T) {
	var c Company
	require.NoError(t, json.Unmarshal([]byte(`{"headcount": null}`), &c))
	assert.Equal(t, 1.0, c.HeadcountValue())
}

func TestCompany_WebsiteObject(t *testing.T) {
	var c Company
	require.NoError(t, json.Unmarshal([]byte(`{"website": {"url": "https://x.io", "domain": "x.io"}}`), &c))
	assert.Equal(t, "x.io", c.Website.Domain)
}

func TestCompany_StageLabel(t *testing.T) {
	c := Company{Stage: "seed", Funding: Funding{FundingStage: "series_a"}}
	assert.Equal(t, "SERIES_A", c.StageLabel())

	c.FundingStage = "pre_seed"
	assert.Equal(t, "PRE_SEED", c.StageLabel())
}

func TestPerson_EmailFallback(t *testing.T) {
	p := Person{Contact: Contact{Emails: EmailList{" first@x.io ", "second@x.io"}}}
	assert.Equal(t, "first@x.io", p.Email())

	p.Contact.PrimaryEmail = "primary@x.io"
	assert.Equal(t, "primary@x.io", p.Email())
}

func TestFieldValue_Text(t *testing.T) {
	tests := []struct {
		raw      string
		text     string
		optionID int64
	}{
		{`{"id": 42, "text": "Raising Later"}`, "Raising Later", 42},
		{`"Yes"`, "Yes", 0},
		{`12`, "12", 0},
		{`null`, "", 0},
	}

	for _, tt := range tests {
		fv := FieldValue{Value: json.RawMessage(tt.raw)}
		if got := fv.Text(); got != tt.text {
			t.Errorf("Text(%s): expected %q, got %q", tt.raw, tt.text, got)
		}
		if got := fv.OptionID(); got != tt.optionID {
			t.Errorf("OptionID(%s): expected %d, got %d", tt.raw, tt.optionID, got)
		}
	}
}

func TestLead_Validate(t *testing.T) {
	assert.ErrorIs(t, Lead{}.Validate(), ErrMissingCompany)
	assert.ErrorIs(t, Lead{CompanyName: "Acme"}.ValidateForOutreach(), ErrMissingEmail)
	assert.NoError(t, Lead{CompanyName: "Acme", Email: "ceo@acme.io"}.ValidateForOutreach())
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate(NeedHarmonic, NeedAffinity, NeedSheet)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HARMONIC_API_KEY")
	assert.Contains(t, err.Error(), "SPREADSHEET_ID")

	cfg.Harmonic.APIKey = "k"
	cfg.Affinity.APIKey = "k"
	cfg.Sheet.Backend = "csv"
	cfg.Sheet.Path = "out.csv"
	assert.NoError(t, cfg.Validate(NeedHarmonic, NeedAffinity, NeedSheet))
}

func TestAffinityConfig_ListName(t *testing.T) {
	cfg := AffinityConfig{
		TargetListID: 7,
		Lists:        []ListConfig{{ID: 1, Name: "Portfolio"}, {ID: 2, Name: "YC W24", YC: true}},
	}
	assert.Equal(t, "Portfolio", cfg.ListName(1))
	assert.Equal(t, "Target list", cfg.ListName(7))
	assert.Equal(t, "List #9", cfg.ListName(9))
	assert.Equal(t, map[int64]string{2: "YC W24"}, cfg.YCLists())
}
