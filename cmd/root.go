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

// Package cmd implements the CLI commands for ovs-save using cobra.
// It provides the root command structure and version management.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is the application version string.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Persistent flags shared by every save command.
var (
	searchPathFlag string
	outputFlag     string
	debugFlag      bool
	logFileFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "ovs-save",
	Short: "Save Open vSwitch and kernel network state as a restore script",
	Long: `ovs-save provides helper commands to save Open vSwitch's configuration.

Each command writes a shell script to stdout that, when run, restores the
state observed at the time of the save:

  save-interfaces   kernel configuration of the named network interfaces,
                    plus the system iptables configuration
  save-flows        OpenFlow flows of each named bridge
  save-datapaths    the named datapaths and their ports

This tool is meant as a helper for the Open vSwitch init script commands.`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	// Without a command there is nothing to save.
	Run: func(cmd *cobra.Command, args []string) {},
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("ovs-save v%s (built: %s)\n", Version, BuildTime))

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&searchPathFlag, "path", "", "colon separated directories searched for ip, iptables-save and ovs-* tools (env OVS_SAVE_PATH)")
	flags.StringVarP(&outputFlag, "output", "o", "", "write the restore script to `FILE` instead of stdout")
	flags.BoolVar(&debugFlag, "debug", false, "log diagnostics to stderr (env OVS_SAVE_DEBUG)")
	flags.StringVar(&logFileFlag, "log-file", "", "also append diagnostics to `FILE`")
}

// Execute runs the root command and handles any errors.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		exitWithError()
	}
}

// SetVersion updates the version and build time for display in help and version output.
func SetVersion(version, buildTime string) {
	Version = version
	BuildTime = buildTime
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("ovs-save v%s (built: %s)\n", version, buildTime))
}

// exitWithError is a helper function that exits with code 1.
// It can be overridden in tests to avoid actual exit.
var exitWithError = func() {
	os.Exit(1)
}
