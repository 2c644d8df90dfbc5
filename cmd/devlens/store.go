package main

import (
	"fmt"

	"github.com/devlens-ai/devlens/pkg/config"
	"github.com/devlens-ai/devlens/pkg/store"
	filekv "github.com/devlens-ai/devlens/pkg/store/file"
	sqlitekv "github.com/devlens-ai/devlens/pkg/store/sqlite"
)

// openStore builds a Store on the configured substrate. The returned
// close function releases the substrate; it is a no-op for the file
// backend.
func openStore(cfg *config.Config) (*store.Store, func() error, error) {
	var kv store.KV
	closer := func() error { return nil }

	switch cfg.Store.Backend {
	case "file":
		f, err := filekv.Open(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		kv = f
	default:
		s, err := sqlitekv.Open(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		kv = s
		closer = s.Close
	}

	st := store.New(kv, store.WithHistoryLimits(cfg.History.GenerationLimit, cfg.History.AnalysisLimit))
	return st, closer, nil
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
