package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config carries the node-side knobs for the simulated ledger.
type Config struct {
	DataDir            string `toml:"DataDir"`
	NetworkName        string `toml:"NetworkName"`
	MinFee             uint64 `toml:"MinFee"`
	MaxGroupSize       int    `toml:"MaxGroupSize"`
	MaxForeignAccounts int    `toml:"MaxForeignAccounts"`
}

// Default returns the configuration the original contracts were
// written against.
func Default() *Config {
	return &Config{
		DataDir:            "./data",
		NetworkName:        "jolt-local",
		MinFee:             1_000,
		MaxGroupSize:       16,
		MaxForeignAccounts: 4,
	}
}

// Load reads the configuration from path, writing the defaults there
// first when no file exists yet.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = "jolt-local"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.MinFee == 0 {
		return fmt.Errorf("config: MinFee must be positive")
	}
	if c.MaxGroupSize < 1 {
		return fmt.Errorf("config: MaxGroupSize must be at least 1")
	}
	if c.MaxForeignAccounts < 0 {
		return fmt.Errorf("config: MaxForeignAccounts must not be negative")
	}
	return nil
}

func createDefault(path string) (*Config, error) {
	cfg := Default()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
