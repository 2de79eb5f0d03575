// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

// Package cli implements the sos command-line front end of the vault.
// Every command authenticates through the vault proxy; the CLI itself
// holds no secrets and no crypto.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dkotelnikov/sos-vault/internal/config"
)

var (
	cfgPath  string
	engine   string
	dsn      string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "sos",
	Short:         "sos is a single-user credential vault",
	Long:          `Use "sos [COMMAND] --help" for more information`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "JSON config file path")
	rootCmd.PersistentFlags().StringVar(&engine, "engine", "", "storage engine: sqlite or postgres")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "database DSN (file path for sqlite)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(uaddCmd)
	rootCmd.AddCommand(uupdateCmd)
	rootCmd.AddCommand(udeleteCmd)
	rootCmd.AddCommand(ushowCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(caddCmd)
	rootCmd.AddCommand(cshowCmd)
	rootCmd.AddCommand(cdeleteCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// flagOverrides converts the persistent flags into a partial config that
// wins over environment variables and the JSON file.
func flagOverrides() *config.StructuredConfig {
	return &config.StructuredConfig{
		App: config.App{LogLevel: logLevel},
		Storage: config.Storage{
			DB: config.DB{Engine: engine, DSN: dsn},
		},
		JSONFilePath: cfgPath,
	}
}

// defaultUsername mirrors the behavior of prompting with the OS account
// name pre-filled: an empty --user falls back to the environment.
func defaultUsername() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return os.Getenv("USERNAME")
}
