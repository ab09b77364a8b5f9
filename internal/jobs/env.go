// Package jobs implements the sourcing and CRM batch workflows. Each job
// aborts on configuration or search failures, logs and counts per-company
// failures, and writes its output sheet once at the end.
package jobs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/dealflow/internal/affinity"
	"github.com/ppiankov/dealflow/internal/harmonic"
	"github.com/ppiankov/dealflow/internal/lemlist"
	"github.com/ppiankov/dealflow/internal/llm"
	"github.com/ppiankov/dealflow/internal/model"
	"github.com/ppiankov/dealflow/internal/sheet"
)

// Env carries the clients and settings a job runs with. Clients a job does
// not use may be nil.
type Env struct {
	Config   model.Config
	Harmonic *harmonic.Client
	CRM      *affinity.Client
	Outreach *lemlist.Client
	Sheet    sheet.Store
	Leads    sheet.Store  // Local leads file written by ceos
	Writer   llm.Provider // Icebreaker generator, nil when disabled
	Logger   *zap.Logger
	Out      io.Writer // Progress and summaries
	Now      func() time.Time
}

func (e *Env) printf(format string, args ...any) {
	if e.Out == nil {
		return
	}
	_, _ = fmt.Fprintf(e.Out, format, args...)
}

func (e *Env) log() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

const rule = "═══════════════════════════════════════════════════════════"

// banner prints a section title framed by rules
func (e *Env) banner(title string) {
	e.printf("\n%s\n  %s\n%s\n\n", rule, title, rule)
}

// stat prints one aligned summary line
func (e *Env) stat(label string, value any) {
	e.printf("  %-28s %v\n", label+":", value)
}

func (e *Env) step(n, total int, msg string) {
	e.printf("[%d/%d] %s\n", n, total, msg)
}

func (e *Env) timestamp() string {
	return e.now().Format("2006-01-02 15:04:05")
}

// ReadLines reads non-empty, non-comment lines from a file
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}
