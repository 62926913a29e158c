//go:build !tinygo

package config

import (
	"encoding/json"
	"os"
)

// Load parses a JSON configuration and fills in defaults
func Load(jsonData []byte) (*Config, error) {
	var c Config
	if err := json.Unmarshal(jsonData, &c); err != nil {
		return nil, err
	}
	applyDefaults(&c)
	return &c, nil
}

// LoadFile reads and parses a configuration file. An empty path returns
// the defaults.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}
