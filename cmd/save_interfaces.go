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
	"context"
	"io"

	"github.com/spf13/cobra"
)

var saveAllInterfaces bool

var saveInterfacesCmd = &cobra.Command{
	Use:   "save-interfaces [IFACE...]",
	Short: "Output a script restoring network interfaces and iptables",
	Long: `Outputs a shell script on stdout that will restore the current kernel
configuration of the specified network interfaces, as well as the system
iptables configuration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSave(cmd, args, saveInterfaces)
	},
}

func init() {
	rootCmd.AddCommand(saveInterfacesCmd)
	saveInterfacesCmd.Flags().BoolVar(&saveAllInterfaces, "all", false, "also save every non-loopback interface found via netlink")
}

func saveInterfaces(ctx context.Context, s SaverInterface, w io.Writer, args []string) error {
	devs := args
	if saveAllInterfaces {
		names, err := s.ListInterfaces()
		if err != nil {
			return err
		}
		devs = mergeNames(args, names)
	}
	return s.SaveInterfaces(ctx, w, devs)
}

// mergeNames appends the entries of extra not already present in names.
func mergeNames(names, extra []string) []string {
	seen := make(map[string]bool, len(names))
	merged := make([]string, 0, len(names)+len(extra))
	for _, n := range names {
		seen[n] = true
		merged = append(merged, n)
	}
	for _, n := range extra {
		if !seen[n] {
			seen[n] = true
			merged = append(merged, n)
		}
	}
	return merged
}
