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

// Package logger provides structured diagnostic logging for ovs-save.
// Log output never goes to stdout, which carries the generated script.
package logger

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Logger writes leveled diagnostics with structured fields.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// With returns a logger that adds fields to every entry. A "component"
	// field names the logger instead.
	With(fields ...Field) Logger
}

// Field is a key/value pair attached to an entry.
type Field struct {
	Key   string
	Value interface{}
}

// Backend receives every entry that passes the level filter.
type Backend interface {
	Write(entry *Entry) error
	Close() error
}

// Config holds logger configuration
type Config struct {
	Level     string // debug, info, warn, error
	Format    string // text, json
	FilePath  string // Optional log file, in addition to stderr
	Component string // Default component name
}

// ParseLevel maps a configured level name to an hclog level. Unknown or
// empty names select warn, so a plain run only reports skipped items.
func ParseLevel(name string) hclog.Level {
	switch level := hclog.LevelFromString(name); level {
	case hclog.NoLevel, hclog.Off:
		return hclog.Warn
	default:
		return level
	}
}

// saveLogger fans entries out to its backends. Children created by With
// share the backends and copy the preset fields.
type saveLogger struct {
	min       hclog.Level
	component string
	preset    []Field
	backends  []Backend
}

// New creates a logger that writes to backends.
func New(config Config, backends []Backend) Logger {
	return &saveLogger{
		min:       ParseLevel(config.Level),
		component: config.Component,
		backends:  backends,
	}
}

// NewFromConfig builds a logger writing to stderr through hclog and, when
// config.FilePath is set, to that file as well. The returned close function
// releases the backends.
func NewFromConfig(config Config) (Logger, func() error, error) {
	backends := []Backend{NewHclogBackend(os.Stderr, config)}

	if config.FilePath != "" {
		fb, err := NewFileBackend(config.FilePath, config.Format)
		if err != nil {
			return nil, nil, err
		}
		backends = append(backends, fb)
	}

	closeAll := func() error {
		var firstErr error
		for _, b := range backends {
			if err := b.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
	return New(config, backends), closeAll, nil
}

// Discard returns a logger that drops every entry.
func Discard() Logger {
	return &saveLogger{min: hclog.Off}
}

func (l *saveLogger) Debug(msg string, fields ...Field) { l.emit(hclog.Debug, msg, fields) }
func (l *saveLogger) Info(msg string, fields ...Field)  { l.emit(hclog.Info, msg, fields) }
func (l *saveLogger) Warn(msg string, fields ...Field)  { l.emit(hclog.Warn, msg, fields) }
func (l *saveLogger) Error(msg string, fields ...Field) { l.emit(hclog.Error, msg, fields) }

func (l *saveLogger) With(fields ...Field) Logger {
	child := &saveLogger{
		min:       l.min,
		component: l.component,
		preset:    append([]Field(nil), l.preset...),
		backends:  l.backends,
	}
	for _, f := range fields {
		if name, ok := f.Value.(string); ok && f.Key == "component" {
			child.component = name
			continue
		}
		child.preset = append(child.preset, f)
	}
	return child
}

func (l *saveLogger) emit(level hclog.Level, msg string, fields []Field) {
	if level < l.min || len(l.backends) == 0 {
		return
	}

	// Call fields override preset fields with the same key.
	merged := make(map[string]interface{}, len(l.preset)+len(fields))
	for _, f := range l.preset {
		merged[f.Key] = f.Value
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}

	entry := NewEntry(level.String(), l.component, msg, merged)
	for _, b := range l.backends {
		if err := b.Write(entry); err != nil {
			fmt.Fprintf(os.Stderr, "ovs-save: log backend: %v\n", err)
		}
	}
}
