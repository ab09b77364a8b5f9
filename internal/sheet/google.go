package sheet

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleStore reads and writes one sheet of a Google spreadsheet
type GoogleStore struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewGoogleStore authenticates with a service-account credentials file.
// Extra client options override the defaults.
func NewGoogleStore(ctx context.Context, spreadsheetID, sheetName, credentialsFile string, opts ...option.ClientOption) (*GoogleStore, error) {
	base := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if credentialsFile != "" {
		base = append(base, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := sheets.NewService(ctx, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return &GoogleStore{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

// ReadAll returns every row of the sheet
func (s *GoogleStore) ReadAll(ctx context.Context) ([][]string, error) {
	name, err := s.sheet(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, quoteSheet(name)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			rows[i][j] = fmt.Sprint(v)
		}
	}
	return rows, nil
}

// Write clears the sheet and writes rows in a single update at A1
func (s *GoogleStore) Write(ctx context.Context, rows [][]string) error {
	name, err := s.sheet(ctx)
	if err != nil {
		return err
	}
	rng := quoteSheet(name)
	if _, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}
	vr := &sheets.ValueRange{Values: toValues(rows)}
	if _, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng+"!A1", vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write sheet: %w", err)
	}
	return nil
}

// UpdateCells sends all cell changes in one batch request
func (s *GoogleStore) UpdateCells(ctx context.Context, updates []CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	name, err := s.sheet(ctx)
	if err != nil {
		return err
	}
	req := &sheets.BatchUpdateValuesRequest{ValueInputOption: "RAW"}
	for _, u := range updates {
		if u.Row < 1 || u.Col < 1 {
			return fmt.Errorf("invalid cell %d,%d", u.Row, u.Col)
		}
		req.Data = append(req.Data, &sheets.ValueRange{
			Range:  fmt.Sprintf("%s!%s%d", quoteSheet(name), ColumnName(u.Col), u.Row),
			Values: [][]any{{u.Value}},
		})
	}
	if _, err := s.svc.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("update cells: %w", err)
	}
	return nil
}

// sheet resolves the sheet title, defaulting to the first sheet
func (s *GoogleStore) sheet(ctx context.Context) (string, error) {
	if s.sheetName != "" {
		return s.sheetName, nil
	}
	ss, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get spreadsheet: %w", err)
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return "", fmt.Errorf("spreadsheet %s has no sheets", s.spreadsheetID)
	}
	s.sheetName = ss.Sheets[0].Properties.Title
	return s.sheetName, nil
}

func toValues(rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		out[i] = make([]any, len(row))
		for j, v := range row {
			out[i][j] = v
		}
	}
	return out
}

func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// ColumnName converts a 1-based column index to A1 letters
func ColumnName(col int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+col%26)) + name
		col /= 26
	}
	return name
}
