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

var saveDatapathsCmd = &cobra.Command{
	Use:   "save-datapaths DP...",
	Short: "Output a script restoring datapaths and their ports",
	Long:  `Outputs a shell script on stdout that will restore the datapaths.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSave(cmd, args, saveDatapaths)
	},
}

func init() {
	rootCmd.AddCommand(saveDatapathsCmd)
}

func saveDatapaths(ctx context.Context, s SaverInterface, w io.Writer, args []string) error {
	return s.SaveDatapaths(ctx, w, args)
}
