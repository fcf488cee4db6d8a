package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/scholarnav/internal/config"
	"github.com/abhisek/scholarnav/internal/history"
	"github.com/abhisek/scholarnav/internal/kv"
	"github.com/abhisek/scholarnav/internal/llm"
	"github.com/abhisek/scholarnav/internal/logging"
	"github.com/abhisek/scholarnav/internal/prefs"
	"github.com/abhisek/scholarnav/internal/scholarship"
	"github.com/abhisek/scholarnav/internal/store"
)

// mockProvider serves replies when llm.provider is "mock".
var mockProvider *llm.MockProvider

type sessionOpts struct {
	// tui logs to log.file instead of stderr.
	tui bool
	// records opens the saved-records backend.
	records bool
}

// session is everything a command runs against.
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *store.Store
	history *history.Repository
	prefs   *prefs.Prefs

	closers []func() error
}

func openSession(cmd *cobra.Command, opts sessionOpts) (*session, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}

	s := &session{cfg: cfg}
	if opts.tui {
		logger, closeLog, err := logging.NewFile(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
		if err != nil {
			return nil, err
		}
		s.logger = logger
		s.closers = append(s.closers, closeLog)
	} else {
		logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return nil, err
		}
		s.logger = logger
		s.closers = append(s.closers, func() error {
			_ = logger.Sync()
			return nil
		})
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	s.store = st
	s.closers = append(s.closers, st.Close)
	s.logger.Debug("opened database", zap.String("path", dbPath))

	if !opts.records {
		return s, nil
	}

	backend, err := s.openBackend(cmd.Context())
	if err != nil {
		s.Close()
		return nil, err
	}
	s.history = history.NewRepository(backend, s.logger)
	s.prefs = prefs.New(backend, s.logger)
	return s, nil
}

func (s *session) openBackend(ctx context.Context) (kv.Store, error) {
	switch s.cfg.Storage.Backend {
	case config.BackendRedis:
		rs, err := kv.NewRedisStore(ctx, s.cfg.Storage.Redis)
		if err != nil {
			return nil, fmt.Errorf("open redis backend: %w", err)
		}
		s.closers = append(s.closers, rs.Close)
		return rs, nil
	case config.BackendMemory:
		return kv.NewMemory(), nil
	default:
		return s.store, nil
	}
}

// analyzer builds the configured provider, recording every call in the
// database, and an Analyzer on top of it.
func (s *session) analyzer(ctx context.Context) (*scholarship.Analyzer, error) {
	provider, err := llm.NewProvider(ctx, s.cfg.LLM, llm.Options{
		Recorder: s.store,
		Logger:   s.logger,
		Mock:     mockProvider,
	})
	if err != nil {
		return nil, err
	}
	return scholarship.NewAnalyzer(provider, s.cfg.Analysis, s.logger), nil
}

// Close releases everything in reverse order of opening.
func (s *session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// resolveDBPath returns the database path using --db (highest priority),
// then storage.path from the configuration, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.Storage.Path != "" {
		return cfg.Storage.Path, store.EnsureDir(cfg.Storage.Path)
	}
	return store.DefaultDBPath()
}
