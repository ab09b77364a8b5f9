package affinity

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/ppiankov/dealflow/internal/apiclient"
	"github.com/ppiankov/dealflow/internal/model"
)

const testTargetList = 100

// fakeCRM is an in-memory stand-in for the CRM API
type fakeCRM struct {
	mu          sync.Mutex
	orgs        map[int64]*model.Organization
	searchHits  map[string][]model.Organization // term -> fuzzy results
	notes       map[int64][]model.Note
	fieldValues map[int64][]model.FieldValue
	searches    []string
	created     []map[string]string
	added       []int64
	nextID      int64
}

func newFakeCRM() *fakeCRM {
	return &fakeCRM{
		orgs:        make(map[int64]*model.Organization),
		searchHits:  make(map[string][]model.Organization),
		notes:       make(map[int64][]model.Note),
		fieldValues: make(map[int64][]model.FieldValue),
		nextID:      1000,
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
		term := r.URL.Query().Get("term")
		f.searches = append(f.searches, term)
		writeJSON(w, map[string]any{"organizations": f.searchHits[term]})

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
		notes := f.notes[id]
		if size, _ := strconv.Atoi(r.URL.Query().Get("page_size")); size > 0 && len(notes) > size {
			notes = notes[:size]
		}
		writeJSON(w, notes)

	case r.Method == http.MethodGet && path == "/field-values":
		id, _ := strconv.ParseInt(r.URL.Query().Get("list_entry_id"), 10, 64)
		writeJSON(w, map[string]any{"field_values": f.fieldValues[id]})

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

func newTestClient(t *testing.T, crm http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(crm)
	t.Cleanup(server.Close)
	api := apiclient.New(apiclient.Config{
		BaseURL: server.URL,
		Auth:    apiclient.BasicAuth{Password: "crm-key"},
	}, nil)
	return New(api, testTargetList, nil)
}
