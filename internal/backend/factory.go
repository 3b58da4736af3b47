package backend

import (
	"fmt"

	memstore "billfold/internal/store/memory"
	"billfold/internal/storage"
)

// NewBackend builds the persistence layer described by cfg.
func NewBackend(cfg Config) (*BackendResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid backend config: %w", err)
	}

	switch cfg.Type {
	case BackendMemory:
		st := memstore.NewFromDir(cfg.DataDirectory)
		return &BackendResult{
			Backend: st,
			Cleanup: st.Close,
		}, nil

	case BackendSQLite:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create sqlite backend: %w", err)
		}
		return &BackendResult{
			Backend: repo,
			Cleanup: repo.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown backend type %q", cfg.Type)
	}
}
