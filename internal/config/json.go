package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// parseJSON loads a [StructuredConfig] from the JSON file at path. The
// file uses the same structure as the config itself, e.g.:
//
//	{
//	  "app":     {"log_level": "debug"},
//	  "storage": {"db": {"engine": "sqlite", "dsn": "vault.sqlite"}}
//	}
func parseJSON(path string) (*StructuredConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading json config file: %w", err)
	}

	cfg := &StructuredConfig{}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("error parsing json config file: %w", err)
	}

	return cfg, nil
}
