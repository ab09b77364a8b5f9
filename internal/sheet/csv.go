package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// CSVStore keeps the sheet in a local CSV file
type CSVStore struct {
	path string
}

// NewCSVStore creates a store backed by path
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// ReadAll returns all rows. A missing file reads as empty.
func (s *CSVStore) ReadAll(_ context.Context) ([][]string, error) {
	return s.read()
}

func (s *CSVStore) read() ([][]string, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return rows, nil
}

// Write replaces the file contents
func (s *CSVStore) Write(ctx context.Context, rows [][]string) error {
	return withLock(ctx, s.path, func() error {
		return s.write(rows)
	})
}

// UpdateCells rewrites the file with the given cells changed, growing rows
// and columns as needed
func (s *CSVStore) UpdateCells(ctx context.Context, updates []CellUpdate) error {
	return withLock(ctx, s.path, func() error {
		rows, err := s.read()
		if err != nil {
			return err
		}
		rows, err = applyUpdates(rows, updates)
		if err != nil {
			return err
		}
		return s.write(rows)
	})
}

func (s *CSVStore) write(rows [][]string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".sheet-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", s.path, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", s.path, err)
	}
	return nil
}

func applyUpdates(rows [][]string, updates []CellUpdate) ([][]string, error) {
	for _, u := range updates {
		if u.Row < 1 || u.Col < 1 {
			return nil, fmt.Errorf("invalid cell %d,%d", u.Row, u.Col)
		}
		for len(rows) < u.Row {
			rows = append(rows, nil)
		}
		row := rows[u.Row-1]
		for len(row) < u.Col {
			row = append(row, "")
		}
		row[u.Col-1] = u.Value
		rows[u.Row-1] = row
	}
	return rows, nil
}
