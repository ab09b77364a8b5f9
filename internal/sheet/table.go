package sheet

import (
	"strings"

	"github.com/ppiankov/dealflow/internal/model"
)

// Lead column headers
const (
	ColCompanyName = "companyName"
	ColFirstName   = "firstName"
	ColEmail       = "email"
	ColCEOName     = "ceoName"
	ColCEOTitle    = "ceoTitle"
	ColDomain      = "domain"
	ColCompanyURN  = "companyUrn"
	ColIcebreaker  = "icebreaker"
)

// Table is a sheet with a header row, addressed by column name
type Table struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

// NewTable splits rows into header and data rows
func NewTable(rows [][]string) *Table {
	t := &Table{index: make(map[string]int)}
	if len(rows) == 0 {
		return t
	}
	t.Header = append([]string(nil), rows[0]...)
	t.Rows = rows[1:]
	for i, h := range t.Header {
		h = strings.TrimSpace(h)
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
	return t
}

// Col returns the 0-based index of a column, or -1
func (t *Table) Col(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Get returns the trimmed cell of data row i in column name. Missing columns
// and short rows read as "".
func (t *Table) Get(i int, name string) string {
	c := t.Col(name)
	if c < 0 || i < 0 || i >= len(t.Rows) || c >= len(t.Rows[i]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[i][c])
}

// EnsureColumn appends a column if the header lacks it and returns its index
func (t *Table) EnsureColumn(name string) int {
	if c := t.Col(name); c >= 0 {
		return c
	}
	t.Header = append(t.Header, name)
	t.index[name] = len(t.Header) - 1
	return len(t.Header) - 1
}

// Set writes a cell of data row i, padding the row as needed
func (t *Table) Set(i int, name, value string) {
	c := t.EnsureColumn(name)
	row := t.Rows[i]
	for len(row) <= c {
		row = append(row, "")
	}
	row[c] = value
	t.Rows[i] = row
}

// SheetRow converts a data row index to its 1-based sheet row
func SheetRow(i int) int {
	return i + 2
}

// Values returns the header followed by the data rows
func (t *Table) Values() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, t.Header)
	return append(out, t.Rows...)
}

// LeadRow is a parsed data row with its 0-based data index
type LeadRow struct {
	Index int
	model.Lead
}

// Lead parses data row i
func (t *Table) Lead(i int) model.Lead {
	return model.Lead{
		CompanyName: t.Get(i, ColCompanyName),
		FirstName:   t.Get(i, ColFirstName),
		Email:       t.Get(i, ColEmail),
		CEOName:     t.Get(i, ColCEOName),
		CEOTitle:    t.Get(i, ColCEOTitle),
		Domain:      t.Get(i, ColDomain),
		CompanyURN:  t.Get(i, ColCompanyURN),
		Icebreaker:  t.Get(i, ColIcebreaker),
	}
}

// Leads returns every data row that has a company name
func (t *Table) Leads() []LeadRow {
	var out []LeadRow
	for i := range t.Rows {
		lead := t.Lead(i)
		if lead.Validate() != nil {
			continue
		}
		out = append(out, LeadRow{Index: i, Lead: lead})
	}
	return out
}
