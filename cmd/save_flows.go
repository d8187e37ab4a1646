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

var saveFlowsCmd = &cobra.Command{
	Use:   "save-flows BRIDGE...",
	Short: "Output a script restoring the OpenFlow flows of bridges",
	Long:  `Outputs a shell script on stdout that will restore OpenFlow flows of each Open vSwitch bridge.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSave(cmd, args, saveFlows)
	},
}

func init() {
	rootCmd.AddCommand(saveFlowsCmd)
}

func saveFlows(ctx context.Context, s SaverInterface, w io.Writer, args []string) error {
	return s.SaveFlows(ctx, w, args)
}
