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

package logger

import (
	"io"

	"github.com/hashicorp/go-hclog"
)

// HclogBackend renders log entries through an hclog logger, which handles
// leveled, optionally colored console output.
type HclogBackend struct {
	name string
	root hclog.Logger
}

// NewHclogBackend creates a backend writing to w.
func NewHclogBackend(w io.Writer, config Config) *HclogBackend {
	name := config.Component
	if name == "" {
		name = "ovs-save"
	}
	return &HclogBackend{
		name: name,
		root: hclog.New(&hclog.LoggerOptions{
			Name:       name,
			Output:     w,
			Level:      hclog.Trace, // filtering happens in the Logger
			JSONFormat: config.Format == "json",
			Color:      hclog.ColorOff,
		}),
	}
}

// Write writes a log entry through hclog
func (b *HclogBackend) Write(entry *Entry) error {
	l := b.root
	if entry.Component != "" && entry.Component != b.name {
		l = l.Named(entry.Component)
	}

	args := make([]interface{}, 0, 2*len(entry.Fields))
	for _, k := range entry.SortedKeys() {
		args = append(args, k, entry.Fields[k])
	}

	l.Log(toHclogLevel(entry.Level), entry.Message, args...)
	return nil
}

// Close is a no-op; the output writer is owned by the caller
func (b *HclogBackend) Close() error {
	return nil
}

func toHclogLevel(level string) hclog.Level {
	if l := hclog.LevelFromString(level); l != hclog.NoLevel {
		return l
	}
	return hclog.Info
}
