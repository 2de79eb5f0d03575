// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

package config

import "fmt"

// Supported storage engines.
const (
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
)

// StructuredConfig is the top-level configuration container for
// sos-vault. It aggregates all sub-configurations and is populated by
// merging values from command-line overrides, environment variables, an
// optional JSON file and built-in defaults, in that order of precedence.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings.
	App App `envPrefix:"APP_" json:"app"`

	// Storage holds configuration for the persistence backend.
	Storage Storage `envPrefix:"STORAGE_" json:"storage"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged underneath the values
	// already loaded from overrides and environment variables.
	// Populated via the SOS_CONFIG environment variable or the --config
	// flag.
	JSONFilePath string `env:"SOS_CONFIG" json:"-"`
}

// App holds application-level configuration values.
type App struct {
	// LogLevel sets the zerolog global level ("debug", "info", "warn",
	// "error"). Unknown or empty values fall back to "info".
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL" json:"log_level"`
}

// Storage groups the configuration of the persistence backend.
type Storage struct {
	// DB holds the database connection settings.
	DB DB `envPrefix:"DB_" json:"db"`
}

// DB holds connection settings for the database backend.
type DB struct {
	// Engine selects the database engine: "sqlite" (local vault file,
	// the default) or "postgres" (shared central database).
	// Env: STORAGE_DB_ENGINE
	Engine string `env:"ENGINE" json:"engine"`

	// DSN is the engine-specific data source name: a file path for
	// sqlite, a postgres:// URI for postgres.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN" json:"dsn"`
}

// validate rejects configurations that cannot be acted on.
func (c *StructuredConfig) validate() error {
	switch c.Storage.DB.Engine {
	case "", EngineSQLite, EnginePostgres:
	default:
		return fmt.Errorf("unknown storage engine %q", c.Storage.DB.Engine)
	}

	if c.Storage.DB.Engine == EnginePostgres && c.Storage.DB.DSN == "" {
		return fmt.Errorf("postgres engine requires a DSN")
	}

	return nil
}

// GetConfig assembles the effective configuration. overrides carries the
// values supplied on the command line and wins over everything; the JSON
// file named by either source fills remaining gaps; defaults close the
// rest.
func GetConfig(overrides *StructuredConfig) (*StructuredConfig, error) {
	return newConfigBuilder().
		withOverrides(overrides).
		withEnv().
		withJSON().
		withDefaults().
		build()
}
