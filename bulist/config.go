package bulist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfigFile = "config.json"

// DefaultThreshold is deliberately conservative: the report drives manual
// review, so false negatives are preferred over false positives.
const DefaultThreshold = 0.85

// Config holds the matcher policy and the column mappings for both input
// files.
type Config struct {
	Threshold float64        `json:"threshold"`
	Metric    string         `json:"metric"`
	Contacts  ContactColumns `json:"contacts"`
	Skipped   NameColumns    `json:"skipped"`
}

// ApplyDefaults fills in unset policy fields.
func (c *Config) ApplyDefaults() {
	if c.Metric == "" {
		c.Metric = "jaro-winkler"
	}
}

// LoadConfig loads configuration from the given path or the default
// config.json. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	cfg := Config{Threshold: DefaultThreshold}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	// Distinguish an absent threshold from an explicit zero.
	hasThreshold := bytes.Contains(data, []byte("\"threshold\""))
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	if !hasThreshold {
		cfg.Threshold = DefaultThreshold
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// SaveConfig persists configuration to disk.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.ApplyDefaults()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
