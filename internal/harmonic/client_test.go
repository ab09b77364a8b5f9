package harmonic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/dealflow/internal/apiclient"
	"github.com/ppiankov/dealflow/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	api := apiclient.New(apiclient.Config{
		BaseURL: server.URL,
		Auth:    apiclient.HeaderAuth{Name: "apikey", Value: "test-key"},
	}, nil)
	return New(api, opts...)
}

func TestTypeahead_FindCompanyAndPerson(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/typeahead", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("apikey"))
		_, _ = w.Write([]byte(`{"results": [
			{"type": "PERSON", "entity_urn": "urn:person:1", "text": "Acme Founder"},
			{"type": "COMPANY", "entity_urn": "urn:company:2", "text": "Acme"}
		]}`))
	})

	urn, err := client.FindCompanyURN(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Equal(t, "urn:company:2", urn)

	urn, err = client.FindPersonURN(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Equal(t, "urn:person:1", urn)
}

func TestTypeahead_BareList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"type": "COMPANY", "entity_urn": "urn:company:9"}]`))
	})

	results, err := client.Typeahead(context.Background(), "x")
	require.NoError(t, err)
	require.Len(t, results, 1)

	urn, err := client.FindPersonURN(context.Background(), "x")
	require.NoError(t, err)
	assert.Empty(t, urn)
}

func TestBatchGetCompanies_Chunks(t *testing.T) {
	var requests atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		var req urnsRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.LessOrEqual(t, len(req.URNs), BatchSize)

		records := make([]map[string]string, 0, len(req.URNs))
		for _, urn := range req.URNs {
			records = append(records, map[string]string{"entity_urn": urn, "name": "Co " + urn})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"results": records})
	})

	urns := make([]string, 0, 120)
	for i := 0; i < 120; i++ {
		urns = append(urns, fmt.Sprintf("urn:company:%d", i))
	}

	companies, err := client.BatchGetCompanies(context.Background(), urns)
	require.NoError(t, err)
	require.Len(t, companies, 120)
	assert.Equal(t, int32(3), requests.Load())
	assert.Equal(t, "urn:company:0", companies[0].URN())
	assert.Equal(t, "urn:company:119", companies[119].URN())
}

func TestBatchGetPersons_EnvelopeKeys(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/persons/batchGet", r.URL.Path)
		_, _ = w.Write([]byte(`{"people": [
			{"person_urn": "urn:person:1", "full_name": "Jane Doe"},
			{"urn": "urn:person:2", "name": "John Roe"}
		]}`))
	})

	people, err := client.BatchGetPersons(context.Background(), []string{"urn:person:1", "urn:person:2"})
	require.NoError(t, err)
	require.Len(t, people, 2)
	jane := people["urn:person:1"]
	assert.Equal(t, "Jane Doe", jane.DisplayName())
	john := people["urn:person:2"]
	assert.Equal(t, "John Roe", john.DisplayName())
}

func TestBatchGetCompanies_UsesCache(t *testing.T) {
	var requests atomic.Int32
	store := cache.NewMemoryCache(time.Minute, time.Minute)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte(`[{"entity_urn": "urn:company:1", "name": "Acme"}]`))
	}, WithCache(store, time.Minute))

	for i := 0; i < 2; i++ {
		companies, err := client.BatchGetCompanies(context.Background(), []string{"urn:company:1"})
		require.NoError(t, err)
		require.Len(t, companies, 1)
		assert.Equal(t, "Acme", companies[0].Name)
	}
	assert.Equal(t, int32(1), requests.Load(), "second call served from cache")
}

func TestBatchGet_PropagatesErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.BatchGetCompanies(context.Background(), []string{"urn:company:1"})
	require.Error(t, err)
	assert.True(t, apiclient.IsStatus(err, http.StatusInternalServerError))
}

func TestGetPerson_NotFoundIsNil(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/persons/urn:harmonic:person:7" {
			_, _ = w.Write([]byte(`{"entity_urn": "urn:harmonic:person:7", "full_name": "Ada"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	p, err := client.GetPerson(context.Background(), "urn:harmonic:person:7")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Ada", p.DisplayName())

	p, err = client.GetPerson(context.Background(), "urn:harmonic:person:8")
	require.NoError(t, err)
	assert.Nil(t, p)
}
