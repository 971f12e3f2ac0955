// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Simulation SimulationConfig `toml:"simulation"`
}

// SimulationConfig maps simulation-related settings.
type SimulationConfig struct {
	Days    *int     `toml:"days"`
	PBorrow *float64 `toml:"p-borrow"`
	PReturn *float64 `toml:"p-return"`
	MinLoan *int     `toml:"min-loan"`
	MaxLoan *int     `toml:"max-loan"`
	Seed    *int64   `toml:"seed"`
	Catalog *string  `toml:"catalog"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
