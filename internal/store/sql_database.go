package store

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/dkotelnikov/sos-vault/internal/logger"
	"github.com/dkotelnikov/sos-vault/migrations"
)

// DB wraps the shared *sql.DB handle together with the engine-specific
// details the generic record store needs: the goose dialect for
// migrations and the squirrel placeholder format for query building.
type DB struct {
	*sql.DB
	dialect     string
	placeholder sq.PlaceholderFormat
	logger      *logger.Logger
}

// Migrate applies all embedded schema migrations against the connected
// engine.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}
