// Package sheet reads and writes the lead spreadsheet. The backing store is
// a Google spreadsheet or a local XLSX or CSV file.
package sheet

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"

	"github.com/ppiankov/dealflow/internal/model"
)

// Store is a single-sheet table of string cells
type Store interface {
	// ReadAll returns every row, header included
	ReadAll(ctx context.Context) ([][]string, error)
	// Write replaces the sheet contents with rows, starting at A1
	Write(ctx context.Context, rows [][]string) error
	// UpdateCells overwrites individual cells
	UpdateCells(ctx context.Context, updates []CellUpdate) error
}

// CellUpdate addresses one cell. Row and Col are 1-based.
type CellUpdate struct {
	Row   int
	Col   int
	Value string
}

// New builds the store selected by cfg.Backend
func New(ctx context.Context, cfg model.SheetConfig) (Store, error) {
	switch cfg.Backend {
	case "google":
		return NewGoogleStore(ctx, cfg.SpreadsheetID, cfg.SheetName, cfg.CredentialsFile)
	case "xlsx":
		return NewXLSXStore(cfg.Path, cfg.SheetName), nil
	case "csv":
		return NewCSVStore(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unknown sheet backend: %s (supported: google, xlsx, csv)", cfg.Backend)
	}
}

const lockRetry = 100 * time.Millisecond

// withLock runs fn while holding an exclusive lock next to path
func withLock(ctx context.Context, path string, fn func() error) error {
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("lock %s: not acquired", path)
	}
	defer func() { _ = lock.Unlock() }()
	return fn()
}
