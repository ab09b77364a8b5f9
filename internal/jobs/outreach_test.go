package jobs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/dealflow/internal/lemlist"
	"github.com/ppiankov/dealflow/internal/model"
	"github.com/ppiankov/dealflow/internal/sheet"
)

func TestLemlistPush(t *testing.T) {
	var mu sync.Mutex
	icebreakers := make(map[string]string)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, pass, ok := r.BasicAuth(); !ok || pass != "lem-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/campaigns/cam_1/leads/ada@acme.io":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			mu.Lock()
			icebreakers[body["companyName"]] = body["icebreaker"]
			mu.Unlock()
			w.WriteHeader(http.StatusOK)
		case "/campaigns/cam_1/leads/bo@beta.io":
			w.WriteHeader(http.StatusConflict)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	env := newTestEnv(t, nil, [][]string{
		{"companyName", "firstName", "email", "icebreaker"},
		{"Acme", "Ada", "ada@acme.io", "Loved the launch."},
		{"Beta", "Bo", "bo@beta.io", ""},
		{"Gamma", "Gia", "", ""},
		{"", "Nobody", "x@y.io", ""},
		{"Delta", "Dee", "bad@delta.io", ""},
	})
	cfg := model.LemlistConfig{BaseURL: server.URL, APIKey: "lem-key"}
	env.Outreach = lemlist.New(lemlist.NewAPIClient(cfg, model.DefaultConfig().HTTP, nil))

	res, err := env.LemlistPush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PushResult{Added: 1, Exists: 1, Failed: 1, NoCompany: 1, NoEmail: []string{"Gamma"}}, *res)
	assert.Equal(t, map[string]string{"Acme": "Loved the launch."}, icebreakers)
}

func TestCleanNames_UpdatesOnlyChangedCells(t *testing.T) {
	env := newTestEnv(t, nil, [][]string{
		{"companyName", "email"},
		{"Acme (YC W24)", "ada@acme.io"},
		{"Beta", "bo@beta.io"},
		{"Gamma 🚀", "gia@gamma.io"},
	})

	n, err := env.CleanNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := env.Sheet.ReadAll(context.Background())
	require.NoError(t, err)
	tbl := sheet.NewTable(rows)
	assert.Equal(t, "Acme", tbl.Get(0, sheet.ColCompanyName))
	assert.Equal(t, "Beta", tbl.Get(1, sheet.ColCompanyName))
	assert.Equal(t, "Gamma", tbl.Get(2, sheet.ColCompanyName))
	assert.Equal(t, "gia@gamma.io", tbl.Get(2, sheet.ColEmail))

	n, err = env.CleanNames(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
