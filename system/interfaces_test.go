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

package system

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTool creates an executable shell script named name in dir.
func writeTool(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755)
	require.NoError(t, err)
	return path
}

// TestResolveSearchPath tests that default directories are appended once.
func TestResolveSearchPath(t *testing.T) {
	tests := []struct {
		name    string
		envPath string
		want    string
	}{
		{
			name:    "empty PATH",
			envPath: "",
			want:    DefaultSearchPath,
		},
		{
			name:    "custom directory first",
			envPath: "/opt/ovs/bin",
			want:    "/opt/ovs/bin:" + DefaultSearchPath,
		},
		{
			name:    "duplicates removed",
			envPath: "/usr/bin:/bin:/usr/bin",
			want:    "/usr/bin:/bin:/usr/local/sbin:/usr/local/bin:/usr/sbin:/sbin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveSearchPath(tt.envPath))
		})
	}
}

// TestDefaultCommandRunner_LookPath tests tool resolution against the search path.
func TestDefaultCommandRunner_LookPath(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	writeTool(t, second, "ovs-ofctl", "exit 0")
	shadow := writeTool(t, first, "ovs-vsctl", "exit 0")
	writeTool(t, second, "ovs-vsctl", "exit 0")

	notExec := filepath.Join(first, "ovs-dpctl")
	require.NoError(t, os.WriteFile(notExec, []byte("#!/bin/sh\n"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(first, "ip"), 0755))

	runner := NewDefaultCommandRunner(first+":"+second, nil)

	path, err := runner.LookPath("ovs-ofctl")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(second, "ovs-ofctl"), path)

	path, err = runner.LookPath("ovs-vsctl")
	require.NoError(t, err)
	assert.Equal(t, shadow, path, "earlier directories take precedence")

	_, err = runner.LookPath("ovs-dpctl")
	assert.True(t, IsToolNotFound(err), "non-executable files are ignored")

	_, err = runner.LookPath("ip")
	assert.True(t, IsToolNotFound(err), "directories are ignored")

	path, err = runner.LookPath(shadow)
	require.NoError(t, err)
	assert.Equal(t, shadow, path)
}

// TestDefaultCommandRunner_Run tests output capture and error wrapping.
func TestDefaultCommandRunner_Run(t *testing.T) {
	dir := t.TempDir()
	writeTool(t, dir, "ok-tool", `echo "args: $*"; echo warning >&2`)
	writeTool(t, dir, "bad-tool", `echo "No such device" >&2; exit 3`)

	runner := NewDefaultCommandRunner(dir, nil)
	assert.Equal(t, dir, runner.SearchPath())

	stdout, stderr, err := runner.Run(context.Background(), "ok-tool", "show", "dev", "eth0")
	require.NoError(t, err)
	assert.Equal(t, "args: show dev eth0\n", string(stdout))
	assert.Equal(t, "warning\n", string(stderr))

	_, _, err = runner.Run(context.Background(), "bad-tool", "x")
	require.Error(t, err)

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "bad-tool x", cmdErr.Cmd)
	assert.Equal(t, "No such device", cmdErr.Stderr)
	assert.Equal(t, 3, cmdErr.ExitCode())
	assert.Contains(t, err.Error(), "No such device")

	_, _, err = runner.Run(context.Background(), "missing-tool")
	assert.True(t, IsToolNotFound(err))
}

// TestToolNotFoundError tests the error message.
func TestToolNotFoundError(t *testing.T) {
	err := &ToolNotFoundError{Tool: "ip", SearchPath: "/sbin:/bin"}
	assert.Equal(t, "ip not found in /sbin:/bin", err.Error())
	assert.False(t, IsToolNotFound(errors.New("ip not found")))
}
