package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/dealflow/internal/affinity"
	"github.com/ppiankov/dealflow/internal/cache"
	"github.com/ppiankov/dealflow/internal/harmonic"
	"github.com/ppiankov/dealflow/internal/jobs"
	"github.com/ppiankov/dealflow/internal/lemlist"
	"github.com/ppiankov/dealflow/internal/llm"
	"github.com/ppiankov/dealflow/internal/logging"
	"github.com/ppiankov/dealflow/internal/model"
	"github.com/ppiankov/dealflow/internal/sheet"
	"github.com/ppiankov/dealflow/internal/worker"
)

// envOptions controls which optional parts of a job environment are built
type envOptions struct {
	icebreakers bool
}

// newEnv validates the configuration for a command and builds the clients
// it needs. The returned func flushes the logger.
func newEnv(ctx context.Context, opts envOptions, reqs ...model.Requirement) (*jobs.Env, func(), error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(reqs...); err != nil {
		return nil, nil, fmt.Errorf("configuration:\n%w", err)
	}

	logger, err := logging.New(verbose)
	if err != nil {
		return nil, nil, err
	}
	logger = logger.With(zap.String("run_id", uuid.NewString()))
	done := func() { _ = logger.Sync() }

	env := &jobs.Env{
		Config: cfg,
		Logger: logger,
		Out:    os.Stderr,
		Leads:  sheet.NewCSVStore(cfg.Sheet.LeadsCSV),
	}

	if cfg.Harmonic.APIKey != "" {
		var hopts []harmonic.Option
		hopts = append(hopts, harmonic.WithLogger(logger))
		if cfg.Cache.Enabled {
			c := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
			hopts = append(hopts, harmonic.WithCache(c, cfg.Cache.DiskTTL))
		}
		pacer := newPacer(cfg.Harmonic.RequestsPerSecond)
		env.Harmonic = harmonic.New(harmonic.NewAPIClient(cfg.Harmonic, cfg.HTTP, pacer, logger), hopts...)
	}
	if cfg.Affinity.APIKey != "" {
		pacer := newPacer(cfg.Affinity.RequestsPerSecond)
		env.CRM = affinity.New(affinity.NewAPIClient(cfg.Affinity, cfg.HTTP, pacer, logger), cfg.Affinity.TargetListID, logger)
	}
	if cfg.Lemlist.APIKey != "" {
		env.Outreach = lemlist.New(lemlist.NewAPIClient(cfg.Lemlist, cfg.HTTP, newPacer(cfg.Lemlist.RequestsPerSecond)))
	}

	if slices.Contains(reqs, model.NeedSheet) {
		store, err := sheet.New(ctx, cfg.Sheet)
		if err != nil {
			done()
			return nil, nil, fmt.Errorf("open sheet: %w", err)
		}
		env.Sheet = store
	}

	if opts.icebreakers {
		provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
		if err != nil {
			done()
			return nil, nil, fmt.Errorf("icebreaker provider: %w", err)
		}
		if provider == nil {
			done()
			return nil, nil, fmt.Errorf("--icebreakers needs llm.provider (openai, anthropic or ollama)")
		}
		env.Writer = provider
	}

	logger.Debug("environment ready",
		zap.String("sheet_backend", cfg.Sheet.Backend),
		zap.Bool("cache", cfg.Cache.Enabled),
		zap.Bool("icebreakers", env.Writer != nil))
	return env, done, nil
}

// newPacer spaces requests to one API host. A non-positive rate disables
// pacing.
func newPacer(requestsPerSecond float64) *worker.Limiter {
	return worker.NewLimiter(requestsPerSecond, max(1, int(requestsPerSecond)))
}
