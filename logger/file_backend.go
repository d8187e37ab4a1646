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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// WriterBackend writes formatted log entries to an io.Writer
type WriterBackend struct {
	w      io.Writer
	format string // "json" or "text"
	mu     sync.Mutex
}

// NewWriterBackend creates a new writer backend
func NewWriterBackend(w io.Writer, format string) *WriterBackend {
	return &WriterBackend{
		w:      w,
		format: format,
	}
}

// Write writes a log entry to the underlying writer
func (b *WriterBackend) Write(entry *Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	output, err := formatEntry(entry, b.format)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(b.w, output); err != nil {
		return fmt.Errorf("failed to write log entry: %w", err)
	}
	return nil
}

// Close is a no-op for writer backend
func (b *WriterBackend) Close() error {
	return nil
}

// FileBackend writes log entries to a file
type FileBackend struct {
	*WriterBackend
	path string
	file *os.File
}

// NewFileBackend creates a new file backend
func NewFileBackend(path string, format string) (*FileBackend, error) {
	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Open log file for append
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &FileBackend{
		WriterBackend: NewWriterBackend(file, format),
		path:          path,
		file:          file,
	}, nil
}

// Close closes the log file
func (b *FileBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.file != nil {
		err := b.file.Close()
		b.file = nil
		return err
	}
	return nil
}

func formatEntry(entry *Entry, format string) (string, error) {
	if format == "json" {
		jsonBytes, err := entry.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to marshal log entry: %w", err)
		}
		return string(jsonBytes) + "\n", nil
	}
	return entry.ToText() + "\n", nil
}
