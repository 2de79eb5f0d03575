package store

import (
	"context"
	"fmt"

	"github.com/dkotelnikov/sos-vault/internal/config"
	"github.com/dkotelnikov/sos-vault/internal/logger"
)

// NewConnect opens the database named by cfg, dispatching on the
// configured engine. SQLite (a local vault file, the default) and
// PostgreSQL (a shared central database) are supported.
func NewConnect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	switch cfg.Engine {
	case config.EngineSQLite, "":
		return NewConnectSQLite(ctx, cfg, log)
	case config.EnginePostgres:
		return NewConnectPostgres(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown storage engine %q", cfg.Engine)
	}
}
