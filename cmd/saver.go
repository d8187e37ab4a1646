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

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/we-are-mono/ovs-save/logger"
	"github.com/we-are-mono/ovs-save/state"
	"github.com/we-are-mono/ovs-save/system"
	"github.com/we-are-mono/ovs-save/types"
)

// SaverInterface is the subset of system.SnapshotManager used by the CLI.
// This interface allows for easy testing by enabling mock implementations.
type SaverInterface interface {
	SaveInterfaces(ctx context.Context, w io.Writer, devs []string) error
	SaveFlows(ctx context.Context, w io.Writer, bridges []string) error
	SaveDatapaths(ctx context.Context, w io.Writer, dps []string) error
	ListInterfaces() ([]string, error)
	Stats() system.Stats
}

// newSaver builds the saver used by CLI commands.
// Tests can replace this with a mock implementation.
var newSaver = func(config *types.Config, log logger.Logger) SaverInterface {
	return system.NewDefaultSnapshotManager(config.SearchPath, log)
}

// defaultFS is where --output scripts are written.
var defaultFS system.FilesystemClient = system.NewDefaultFilesystemClient()

// loadConfig merges the config file, environment and command line flags.
func loadConfig() (*types.Config, error) {
	config, err := state.LoadSaveConfig()
	if err != nil {
		return nil, err
	}
	if searchPathFlag != "" {
		config.SearchPath = searchPathFlag
	}
	if debugFlag {
		config.Logging.Level = "debug"
	}
	if logFileFlag != "" {
		config.Logging.File = logFileFlag
	}
	return config, nil
}

// saveFunc renders one kind of restore script.
type saveFunc func(ctx context.Context, s SaverInterface, w io.Writer, args []string) error

// runSave wires configuration, logging and signal handling around fn.
func runSave(cmd *cobra.Command, args []string, fn saveFunc) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	log, closeLog, err := logger.NewFromConfig(logger.Config{
		Level:     config.Logging.Level,
		Format:    config.Logging.Format,
		FilePath:  config.Logging.File,
		Component: "ovs-save",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer closeLog()

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	saver := newSaver(config, log)
	err = executeSave(ctx, cmd.OutOrStdout(), defaultFS, outputFlag, saver, args, fn)

	stats := saver.Stats()
	log.Debug("save finished",
		logger.Field{Key: "command", Value: cmd.Name()},
		logger.Field{Key: "stats", Value: stats},
	)
	return err
}

// executeSave renders the script into memory and, only if rendering
// succeeded, writes it to output (a file) or to w.
func executeSave(ctx context.Context, w io.Writer, fs system.FilesystemClient, output string, s SaverInterface, args []string, fn saveFunc) error {
	var script bytes.Buffer
	if err := fn(ctx, s, &script, args); err != nil {
		return err
	}

	if output != "" {
		if err := fs.WriteFile(output, script.Bytes(), 0755); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		return nil
	}

	_, err := w.Write(script.Bytes())
	return err
}
