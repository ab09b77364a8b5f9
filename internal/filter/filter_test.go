package filter

import (
	"testing"

	"github.com/ppiankov/dealflow/internal/model"
	"github.com/stretchr/testify/assert"
)

func tags(values ...string) []model.Tag {
	out := make([]model.Tag, 0, len(values))
	for _, v := range values {
		out = append(out, model.Tag{DisplayValue: v})
	}
	return out
}

func TestRules_Check(t *testing.T) {
	rules := DefaultRules().WithExcludedNames("Figma, Inc.")

	tests := []struct {
		name    string
		company model.Company
		want    Reason
	}{
		{"clean", model.Company{Name: "Acme", Tags: tags("B2B SaaS"), CompanyType: "STARTUP"}, ""},
		{"country", model.Company{Name: "Acme", Location: model.Location{Country: " China "}}, Country},
		{"industry", model.Company{Name: "Acme", Tags: tags("Medical Devices")}, Industry},
		{"nonprofit name", model.Company{Name: "Open Source Foundation"}, Nonprofit},
		{"nonprofit type", model.Company{Name: "Acme", CompanyType: "NON_PROFIT"}, Nonprofit},
		{"nonprofit description", model.Company{Name: "Acme", Description: "A registered 501(c)(3)."}, Nonprofit},
		{"pure consumer", model.Company{Name: "Acme", CustomerType: "B2C", Tags: tags("Dating")}, Consumer},
		{"not startup", model.Company{Name: "Acme", CompanyType: "ACQUIRED"}, NotStartup},
		{"excluded name", model.Company{Name: "FIGMA"}, ExcludedName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.Check(&tt.company))
		})
	}
}

func TestStrictRules(t *testing.T) {
	robot := model.Company{Name: "Acme", Tags: tags("Industrial Robotics")}
	assert.Equal(t, Reason(""), DefaultRules().Check(&robot))
	assert.Equal(t, Industry, StrictRules().Check(&robot))

	crisis := model.Company{Name: "Downtown Crisis Center"}
	assert.Equal(t, Reason(""), DefaultRules().Check(&crisis))
	assert.Equal(t, Nonprofit, StrictRules().Check(&crisis))
}

func TestIsPureConsumer(t *testing.T) {
	tests := []struct {
		name         string
		customerType string
		tags         []model.Tag
		want         bool
	}{
		{"b2c consumer tags", "B2C", tags("Gaming", "Music"), true},
		{"b2c with business tag", "B2C", tags("Gaming", "Developer Tools"), false},
		{"b2b short circuits", "B2B_AND_B2C", tags("Gaming"), false},
		{"no customer type", "", tags("Gaming"), false},
		{"b2c without consumer tags", "B2C", tags("Logistics"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := model.Company{CustomerType: tt.customerType, Tags: tt.tags}
			assert.Equal(t, tt.want, IsPureConsumer(&c))
		})
	}
}

func TestIsEarlyStage(t *testing.T) {
	tests := []struct {
		name    string
		company model.Company
		want    bool
	}{
		{"seed", model.Company{FundingStage: "seed", Funding: model.Funding{FundingTotal: 3e6}}, true},
		{"unknown stage", model.Company{}, true},
		{"nested funding stage", model.Company{Funding: model.Funding{FundingStage: "SERIES_C"}}, false},
		{"series b", model.Company{FundingStage: "SERIES_B", Funding: model.Funding{FundingTotal: 1e6}}, false},
		{"unlisted stage under 15M", model.Company{FundingStage: "VENTURE_UNKNOWN", Funding: model.Funding{FundingTotal: 14e6}}, true},
		{"unlisted stage over 15M", model.Company{FundingStage: "VENTURE_UNKNOWN", Stage: "GROWTH", Funding: model.Funding{FundingTotal: 20e6}}, false},
		{"early label but over 30M", model.Company{FundingStage: "SERIES_A", Funding: model.Funding{FundingTotal: 31e6}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEarlyStage(&tt.company))
		})
	}
}

func TestApply(t *testing.T) {
	companies := []model.Company{
		{Name: "Keep"},
		{Name: "Acme", Location: model.Location{Country: "India"}},
		{Name: "Beta", Location: model.Location{Country: "Russia"}},
		{Name: "Gamma", CompanyType: "GOVERNMENT"},
	}
	kept, stats := DefaultRules().Apply(companies)
	assert.Len(t, kept, 1)
	assert.Equal(t, "Keep", kept[0].Name)
	assert.Equal(t, Stats{Country: 2, Nonprofit: 1}, stats)
}
