package cli

import (
	"github.com/jsripraj/stock-alchemy/internal/config"
	"github.com/jsripraj/stock-alchemy/internal/engine"
	"github.com/jsripraj/stock-alchemy/internal/store"
)

// workspace bundles what store-backed commands need. Close releases the
// store.
type workspace struct {
	cfg    config.Config
	store  *store.Store
	engine *engine.Engine
}

func (w *workspace) Close() error {
	return w.store.Close()
}

// loadConfig reads --config, or returns the defaults when none is given.
func loadConfig(opts *RootOptions, f *OutputFormatter) (config.Config, error) {
	if opts.Config == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return config.Config{}, f.fail(ExitCommandError, ErrCodeConfig, err.Error(), err)
	}
	f.VerboseLog("Loaded config %s", opts.Config)
	return cfg, nil
}

// openStore opens the store named by --db or the config file.
func openStore(opts *RootOptions, cfg config.Config, f *OutputFormatter) (*store.Store, error) {
	path := cfg.Store.Path
	if opts.DB != "" {
		path = opts.DB
	}
	storeOpts := append(cfg.StoreOptions(), store.WithLogger(opts.logger()))
	s, err := store.Open(path, storeOpts...)
	if err != nil {
		return nil, f.fail(ExitCommandError, ErrCodeStore, "failed to open store "+path, err)
	}
	f.VerboseLog("Opened store %s (%s)", path, cfg.Store.Driver)
	return s, nil
}

// openWorkspace loads config, opens the store and builds an engine over it.
func openWorkspace(opts *RootOptions, f *OutputFormatter) (*workspace, error) {
	cfg, err := loadConfig(opts, f)
	if err != nil {
		return nil, err
	}
	s, err := openStore(opts, cfg, f)
	if err != nil {
		return nil, err
	}
	now := opts.now()
	e := engine.New(s, cfg.ConceptUniverse(now), cfg.MostRecentYear(now),
		engine.WithLogger(opts.logger()))
	return &workspace{cfg: cfg, store: s, engine: e}, nil
}
