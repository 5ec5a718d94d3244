package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gradebook/internal/config"
)

// Open returns the store selected by cfg.Store.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Store {
	case config.StoreFile:
		return NewFileStore(cfg.UsersFile), nil
	case config.StoreSQLite:
		return OpenSQLite(ctx, cfg.DatabaseDSN)
	case config.StorePostgres:
		return OpenPostgres(ctx, cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
