// Copyright (C) 2025 Mono Technologies Inc.
//
// This program is free software; you can redistribute it and/or
// modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.

package state

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/we-are-mono/ovs-save/types"
)

const configNamespace = "ovs-save"

// LoadSaveConfig loads ovs-save.json from the config directory and applies
// environment overrides. If the file doesn't exist, defaults are used.
func LoadSaveConfig() (*types.Config, error) {
	config := getDefaultConfig()

	path := filepath.Join(GetConfigDir(), configNamespace+".json")
	if _, err := os.Stat(path); err == nil {
		if err := LoadConfig(configNamespace, config); err != nil {
			return nil, fmt.Errorf("failed to load ovs-save config: %w", err)
		}
		if config.Logging == nil {
			config.Logging = getDefaultConfig().Logging
		}
	}

	applyEnv(config)
	return config, nil
}

// getDefaultConfig returns the configuration used when no file is present.
func getDefaultConfig() *types.Config {
	return &types.Config{
		Logging: &types.LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// applyEnv overrides config with OVS_SAVE_PATH and OVS_SAVE_DEBUG.
func applyEnv(config *types.Config) {
	if path := os.Getenv("OVS_SAVE_PATH"); path != "" {
		config.SearchPath = path
	}
	if os.Getenv("OVS_SAVE_DEBUG") != "" {
		config.Logging.Level = "debug"
	}
}
