package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/dkotelnikov/sos-vault/internal/config"
	"github.com/dkotelnikov/sos-vault/internal/logger"
)

// NewConnectSQLite opens (and if necessary creates) the local SQLite
// vault file named by cfg.DSN. Foreign-key enforcement is switched on for
// every connection: the owner cascade and the category nullify policy
// live in the schema and are dead weight without it.
func NewConnectSQLite(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	// db will be in file
	if err := createLocalDBFileIfNotExists(cfg.DSN); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database file")
		return nil, fmt.Errorf("error creating database file")
	}

	conn, err := sql.Open("sqlite3", withForeignKeys(cfg.DSN))
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB")
	}

	// ping database
	err = conn.PingContext(ctx)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Debug().Str("func", "NewConnectSQLite").Msg("connected to database successfully")

	// construct a DB struct
	db := &DB{
		DB:          conn,
		dialect:     "sqlite3",
		placeholder: sq.Question,
		logger:      log,
	}

	return db, nil
}

// withForeignKeys appends the foreign-key pragma to the DSN unless the
// caller already set one.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

func createLocalDBFileIfNotExists(dbFile string) error {
	// strip DSN query parameters before touching the filesystem
	if idx := strings.IndexByte(dbFile, '?'); idx >= 0 {
		dbFile = dbFile[:idx]
	}
	dbFile = strings.TrimPrefix(dbFile, "file:")

	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		// if not found - create
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	// file already exists
	return nil
}
