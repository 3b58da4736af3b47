// Package backend selects and constructs the persistence layer the
// application runs against. A backend is anything that satisfies the
// store contracts; today that is the in-memory store and SQLite.
package backend

import (
	"fmt"

	"billfold/internal/store"
)

type BackendType string

const (
	BackendMemory BackendType = "memory"
	BackendSQLite BackendType = "sqlite"
)

func (b BackendType) String() string {
	return string(b)
}

func (b BackendType) IsValid() bool {
	switch b {
	case BackendMemory, BackendSQLite:
		return true
	}
	return false
}

// Backend is the full persistence surface the services need.
type Backend = store.Store

// BackendResult pairs a backend with its teardown hook. Cleanup is
// never nil.
type BackendResult struct {
	Backend Backend
	Cleanup func() error
}

// Config carries the backend-specific settings extracted from the
// application configuration.
type Config struct {
	Type          BackendType
	SQLiteDBPath  string
	DataDirectory string
}

func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("unknown backend type %q", c.Type)
	}
	if c.Type == BackendSQLite && c.SQLiteDBPath == "" {
		return fmt.Errorf("sqlite backend requires a database path")
	}
	return nil
}
