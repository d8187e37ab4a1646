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

// Package types defines the configuration structures for ovs-save.
package types

// LoggingConfig represents configuration for diagnostic logging
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error (default: warn)
	Format string `json:"format"` // text, json (default: text)
	File   string `json:"file"`   // Optional log file path, in addition to stderr
}

// Config represents the ovs-save configuration (/etc/openvswitch/ovs-save.json)
type Config struct {
	// SearchPath is the colon separated list of directories searched for
	// ip, iptables-save and the ovs-* utilities. Empty means $PATH plus the
	// standard sbin directories.
	SearchPath string         `json:"search_path"`
	Logging    *LoggingConfig `json:"logging"` // Logging configuration (optional)
}
