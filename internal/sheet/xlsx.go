package sheet

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// XLSXStore keeps the sheet in a local workbook
type XLSXStore struct {
	path      string
	sheetName string
}

// NewXLSXStore creates a store for one sheet of the workbook at path. An
// empty sheet name selects the first sheet.
func NewXLSXStore(path, sheetName string) *XLSXStore {
	return &XLSXStore{path: path, sheetName: sheetName}
}

// ReadAll returns all rows. A missing workbook reads as empty.
func (s *XLSXStore) ReadAll(_ context.Context) ([][]string, error) {
	f, err := excelize.OpenFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(s.sheet(f))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return rows, nil
}

// Write replaces the workbook with a single sheet holding rows
func (s *XLSXStore) Write(ctx context.Context, rows [][]string) error {
	return withLock(ctx, s.path, func() error {
		f := excelize.NewFile()
		defer func() { _ = f.Close() }()

		name := defaultSheet
		if s.sheetName != "" && s.sheetName != defaultSheet {
			if err := f.SetSheetName(defaultSheet, s.sheetName); err != nil {
				return fmt.Errorf("name sheet: %w", err)
			}
			name = s.sheetName
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return err
			}
			values := make([]any, len(row))
			for j, v := range row {
				values[j] = v
			}
			if err := f.SetSheetRow(name, cell, &values); err != nil {
				return fmt.Errorf("write row %d: %w", i+1, err)
			}
		}
		if err := f.SaveAs(s.path); err != nil {
			return fmt.Errorf("save %s: %w", s.path, err)
		}
		return nil
	})
}

// UpdateCells sets individual cells in the existing workbook
func (s *XLSXStore) UpdateCells(ctx context.Context, updates []CellUpdate) error {
	return withLock(ctx, s.path, func() error {
		f, err := excelize.OpenFile(s.path)
		if err != nil {
			return fmt.Errorf("open %s: %w", s.path, err)
		}
		defer func() { _ = f.Close() }()

		name := s.sheet(f)
		for _, u := range updates {
			cell, err := excelize.CoordinatesToCellName(u.Col, u.Row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, u.Value); err != nil {
				return fmt.Errorf("set %s: %w", cell, err)
			}
		}
		if err := f.Save(); err != nil {
			return fmt.Errorf("save %s: %w", s.path, err)
		}
		return nil
	})
}

func (s *XLSXStore) sheet(f *excelize.File) string {
	if s.sheetName != "" {
		return s.sheetName
	}
	return f.GetSheetName(0)
}
