package jobs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ppiankov/dealflow/internal/affinity"
	"github.com/ppiankov/dealflow/internal/apiclient"
	"github.com/ppiankov/dealflow/internal/model"
	"github.com/ppiankov/dealflow/internal/sheet"
)

const (
	testTargetList = 100
	testYCList     = 200
	fieldStatus    = 10
	fieldResponded = 11
	fieldOutreach  = 12
	optRaisingHigh = 9
)

// fakeCRM is an in-memory stand-in for the CRM API
type fakeCRM struct {
	mu          sync.Mutex
	orgs        map[int64]*model.Organization
	searchHits  map[string][]model.Organization
	notes       map[int64][]model.Note
	fieldValues map[int64]string // list entry id -> raw field_values JSON
	listEntries map[int64]string // list id -> raw list_entries JSON
	created     []map[string]string
	added       []int64
	nextID      int64
}

func newFakeCRM() *fakeCRM {
	return &fakeCRM{
		orgs:        make(map[int64]*model.Organization),
		searchHits:  make(map[string][]model.Organization),
		notes:       make(map[int64][]model.Note),
		fieldValues: make(map[int64]string),
		listEntries: make(map[int64]string),
		nextID:      1000,
	}
}

// addOrg registers an organization found by an exact name search
func (f *fakeCRM) addOrg(id int64, name, domain string, lists ...int64) {
	org := &model.Organization{ID: id, Name: name, Domain: domain}
	for _, l := range lists {
		org.ListEntries = append(org.ListEntries, model.ListEntry{ID: id*10 + l/100, ListID: l, EntityID: id})
	}
	f.orgs[id] = org
	f.searchHits[name] = append(f.searchHits[name], model.Organization{ID: id, Name: name, Domain: domain})
	if domain != "" {
		f.searchHits[domain] = append(f.searchHits[domain], model.Organization{ID: id, Name: name, Domain: domain})
	}
}

func (f *fakeCRM) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, pass, ok := r.BasicAuth(); !ok || pass != "crm-key" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	path := r.URL.Path
	switch {
	case r.Method == http.MethodGet && path == "/organizations":
		writeJSON(w, map[string]any{"organizations": f.searchHits[r.URL.Query().Get("term")]})

	case r.Method == http.MethodPost && path == "/organizations":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.created = append(f.created, body)
		f.nextID++
		org := &model.Organization{ID: f.nextID, Name: body["name"], Domain: body["domain"]}
		f.orgs[org.ID] = org
		writeJSON(w, org)

	case r.Method == http.MethodGet && strings.HasPrefix(path, "/organizations/"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(path, "/organizations/"), 10, 64)
		org, ok := f.orgs[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, org)

	case r.Method == http.MethodGet && path == "/notes":
		id, _ := strconv.ParseInt(r.URL.Query().Get("organization_id"), 10, 64)
		writeJSON(w, map[string]any{"notes": f.notes[id]})

	case r.Method == http.MethodGet && path == "/field-values":
		id, _ := strconv.ParseInt(r.URL.Query().Get("list_entry_id"), 10, 64)
		raw, ok := f.fieldValues[id]
		if !ok {
			raw = "[]"
		}
		_, _ = io.WriteString(w, raw)

	case r.Method == http.MethodGet && strings.HasPrefix(path, "/lists/"):
		listID, _ := strconv.ParseInt(strings.Split(path, "/")[2], 10, 64)
		raw, ok := f.listEntries[listID]
		if !ok {
			raw = "[]"
		}
		_, _ = io.WriteString(w, `{"list_entries": `+raw+`}`)

	case r.Method == http.MethodPost && strings.HasPrefix(path, "/lists/"):
		var body map[string]int64
		_ = json.NewDecoder(r.Body).Decode(&body)
		listID, _ := strconv.ParseInt(strings.Split(path, "/")[2], 10, 64)
		org, ok := f.orgs[body["entity_id"]]
		if !ok {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		f.added = append(f.added, org.ID)
		entry := model.ListEntry{ID: org.ID*10 + 1, ListID: listID, EntityID: org.ID}
		org.ListEntries = append(org.ListEntries, entry)
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, entry)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

func testConfig() model.Config {
	cfg := model.DefaultConfig()
	cfg.Affinity.TargetListID = testTargetList
	cfg.Affinity.Lists = []model.ListConfig{
		{ID: testTargetList, Name: "Sourcing"},
		{ID: testYCList, Name: "YC W24", YC: true},
	}
	cfg.Affinity.Fields = model.FieldConfig{
		Status:              fieldStatus,
		Responded:           fieldResponded,
		Outreach:            fieldOutreach,
		RaisingLaterOptions: []int64{optRaisingHigh},
	}
	cfg.Concurrency.StatusWorkers = 4
	cfg.Lemlist.CampaignID = "cam_1"
	return cfg
}

// newTestEnv wires a job environment to the fake CRM with CSV sheets in a
// temp dir. sheetRows seeds the main sheet when non-nil.
func newTestEnv(t *testing.T, crm *fakeCRM, sheetRows [][]string) *Env {
	t.Helper()
	dir := t.TempDir()
	env := &Env{
		Config: testConfig(),
		Sheet:  sheet.NewCSVStore(filepath.Join(dir, "sheet.csv")),
		Leads:  sheet.NewCSVStore(filepath.Join(dir, "leads.csv")),
		Out:    io.Discard,
		Now:    func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) },
	}
	if crm != nil {
		server := httptest.NewServer(crm)
		t.Cleanup(server.Close)
		api := apiclient.New(apiclient.Config{
			BaseURL: server.URL,
			Auth:    apiclient.BasicAuth{Password: "crm-key"},
		}, nil)
		env.CRM = affinity.New(api, testTargetList, nil)
	}
	if sheetRows != nil {
		require.NoError(t, env.Sheet.Write(context.Background(), sheetRows))
	}
	return env
}

// readSheet returns the main sheet as a table
func readSheet(t *testing.T, env *Env) *sheet.Table {
	t.Helper()
	rows, err := env.Sheet.ReadAll(context.Background())
	require.NoError(t, err)
	return sheet.NewTable(rows)
}

// rowFor returns the data index of a company, failing the test when absent
func rowFor(t *testing.T, tbl *sheet.Table, company string) int {
	t.Helper()
	for i := range tbl.Rows {
		if tbl.Get(i, sheet.ColCompanyName) == company {
			return i
		}
	}
	t.Fatalf("no row for %s", company)
	return -1
}
