// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

package cli

import (
	"context"
	"fmt"

	"github.com/dkotelnikov/sos-vault/internal/config"
	"github.com/dkotelnikov/sos-vault/internal/crypto"
	"github.com/dkotelnikov/sos-vault/internal/logger"
	"github.com/dkotelnikov/sos-vault/internal/store"
	"github.com/dkotelnikov/sos-vault/internal/vault"
)

// app bundles everything a command needs for one invocation: the open
// database, the three entity managers and a proxy initially bound to the
// user manager. Each CLI invocation is its own session; nothing is shared
// between processes.
type app struct {
	cfg        *config.StructuredConfig
	log        *logger.Logger
	db         *store.DB
	users      store.RecordStore
	categories store.RecordStore
	units      store.RecordStore
	proxy      *vault.Proxy
}

// openVault assembles the application from config, connects the database
// and applies pending migrations. The caller must Close the returned app.
func openVault(ctx context.Context) (*app, error) {
	cfg, err := config.GetConfig(flagOverrides())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log := logger.NewLogger("cli", cfg.App.LogLevel)

	db, err := store.NewConnect(ctx, cfg.Storage.DB, log)
	if err != nil {
		return nil, fmt.Errorf("connecting storage: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating storage: %w", err)
	}

	users := store.NewUserManager(db, log)
	categories := store.NewCategoryManager(db, log)
	units := store.NewUnitManager(db, log)

	proxy, err := vault.NewProxy(users, users, crypto.NewKeyChain(), crypto.NewCipher(), log)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &app{
		cfg:        cfg,
		log:        log,
		db:         db,
		users:      users,
		categories: categories,
		units:      units,
		proxy:      proxy,
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Err(err).Msg("closing database")
	}
}
