package sheet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/ppiankov/dealflow/internal/model"
)

func TestCSVStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "leads.csv")
	s := NewCSVStore(path)

	rows, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	want := [][]string{
		{"companyName", "firstName", "email"},
		{"Acme, Inc.", "Ada", "ada@acme.io"},
		{"Beta"},
	}
	require.NoError(t, s.Write(ctx, want))

	got, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCSVStore_UpdateCellsGrowsRows(t *testing.T) {
	ctx := context.Background()
	s := NewCSVStore(filepath.Join(t.TempDir(), "leads.csv"))
	require.NoError(t, s.Write(ctx, [][]string{{"companyName"}, {"Acme (YC W24)"}}))

	require.NoError(t, s.UpdateCells(ctx, []CellUpdate{
		{Row: 2, Col: 1, Value: "Acme"},
		{Row: 3, Col: 2, Value: "x"},
	}))

	got, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"companyName"}, {"Acme"}, {"", "x"}}, got)

	assert.Error(t, s.UpdateCells(ctx, []CellUpdate{{Row: 0, Col: 1}}))
}

func TestXLSXStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "leads.xlsx")
	s := NewXLSXStore(path, "Leads")

	rows, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, s.Write(ctx, [][]string{
		{"companyName", "email"},
		{"Acme", "ada@acme.io"},
	}))
	require.NoError(t, s.UpdateCells(ctx, []CellUpdate{{Row: 2, Col: 1, Value: "Acme Robotics"}}))

	got, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"companyName", "email"}, {"Acme Robotics", "ada@acme.io"}}, got)

	first, err := NewXLSXStore(path, "").ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, first)
}

func TestGoogleStore_ReadAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/spreadsheets/sheet-id/values/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"range":  "Leads!A1:B2",
			"values": [][]any{{"companyName", "email"}, {"Acme"}},
		})
	}))
	defer srv.Close()

	s, err := NewGoogleStore(context.Background(), "sheet-id", "Leads", "",
		option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)

	rows, err := s.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"companyName", "email"}, {"Acme"}}, rows)
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(context.Background(), model.SheetConfig{Backend: "ods"})
	assert.ErrorContains(t, err, "unknown sheet backend")
}

func TestColumnName(t *testing.T) {
	for col, want := range map[int]string{1: "A", 26: "Z", 27: "AA", 52: "AZ", 703: "AAA"} {
		assert.Equal(t, want, ColumnName(col))
	}
}

func TestTable(t *testing.T) {
	tbl := NewTable([][]string{
		{"companyName", "firstName", "email", "domain"},
		{" Acme ", "Ada", "ada@acme.io", "acme.io"},
		{"", "Bob", "bob@x.io"},
		{"Beta", "Bea"},
	})

	assert.Equal(t, 2, tbl.Col(ColEmail))
	assert.Equal(t, -1, tbl.Col("missing"))
	assert.Equal(t, "Acme", tbl.Get(0, ColCompanyName))
	assert.Equal(t, "", tbl.Get(2, ColEmail))

	leads := tbl.Leads()
	require.Len(t, leads, 2)
	assert.Equal(t, 0, leads[0].Index)
	assert.Equal(t, "acme.io", leads[0].Domain)
	assert.Equal(t, 2, leads[1].Index)
	assert.ErrorIs(t, leads[1].ValidateForOutreach(), model.ErrMissingEmail)

	tbl.Set(2, "Affinity Status", "Clean")
	assert.Equal(t, 4, tbl.Col("Affinity Status"))
	assert.Equal(t, []string{"Beta", "Bea", "", "", "Clean"}, tbl.Rows[2])
	assert.Equal(t, 4, SheetRow(2))
	assert.Len(t, tbl.Values(), 4)
}
