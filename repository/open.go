package repository

import (
	"fmt"

	"github.com/daybook-app/daybook/config"
)

// Open builds the entry store named by cfg.Backend. The file backend is
// the default; sqlite and mongo are opt-in through STORE_BACKEND.
func Open(cfg config.StorageConfig, dbCfg config.DatabaseConfig) (EntryStore, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileStore(cfg.DataFile)
	case "sqlite":
		return NewSQLiteStore(cfg.SQLitePath)
	case "mongo":
		return NewMongoStore(dbCfg)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
