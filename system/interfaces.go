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

// Package system captures host networking and Open vSwitch state and renders
// it as shell commands that restore that state.
package system

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"github.com/we-are-mono/ovs-save/logger"
)

// DefaultSearchPath is appended to $PATH when looking up external tools.
// Service scripts often run with a minimal environment that lacks the sbin
// directories where ip and the ovs-* utilities live.
const DefaultSearchPath = "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"

// NetlinkClient abstracts the netlink queries used for link enumeration.
type NetlinkClient interface {
	LinkList() ([]netlink.Link, error)
}

// FilesystemClient abstracts filesystem operations for testability.
type FilesystemClient interface {
	// WriteFile writes data to a file
	WriteFile(filename string, data []byte, perm uint32) error
}

// CommandRunner abstracts command execution for testability.
type CommandRunner interface {
	// Run executes a command and returns its stdout and stderr separately.
	// A non-zero exit status is reported as a *CommandError.
	Run(ctx context.Context, name string, args ...string) (stdout []byte, stderr []byte, err error)
	// LookPath resolves name against the runner's search path.
	LookPath(name string) (string, error)
}

// DefaultNetlinkClient implements NetlinkClient using real netlink calls.
type DefaultNetlinkClient struct{}

// NewDefaultNetlinkClient creates a new DefaultNetlinkClient.
func NewDefaultNetlinkClient() *DefaultNetlinkClient {
	return &DefaultNetlinkClient{}
}

func (c *DefaultNetlinkClient) LinkList() ([]netlink.Link, error) {
	return netlink.LinkList()
}

// DefaultFilesystemClient implements FilesystemClient using real filesystem operations.
type DefaultFilesystemClient struct{}

// NewDefaultFilesystemClient creates a new DefaultFilesystemClient.
func NewDefaultFilesystemClient() *DefaultFilesystemClient {
	return &DefaultFilesystemClient{}
}

func (c *DefaultFilesystemClient) WriteFile(filename string, data []byte, perm uint32) error {
	return os.WriteFile(filename, data, os.FileMode(perm))
}

// DefaultCommandRunner implements CommandRunner by executing processes
// resolved against an explicit search path.
type DefaultCommandRunner struct {
	searchPath string
	log        logger.Logger
}

// NewDefaultCommandRunner creates a runner that resolves tools against
// searchPath. An empty searchPath falls back to $PATH plus DefaultSearchPath.
func NewDefaultCommandRunner(searchPath string, log logger.Logger) *DefaultCommandRunner {
	if searchPath == "" {
		searchPath = ResolveSearchPath(os.Getenv("PATH"))
	}
	if log == nil {
		log = logger.Discard()
	}
	return &DefaultCommandRunner{
		searchPath: searchPath,
		log:        log.With(logger.Field{Key: "component", Value: "runner"}),
	}
}

// ResolveSearchPath appends the entries of DefaultSearchPath that are not
// already present in envPath.
func ResolveSearchPath(envPath string) string {
	seen := make(map[string]bool)
	var dirs []string
	for _, list := range []string{envPath, DefaultSearchPath} {
		for _, dir := range filepath.SplitList(list) {
			if dir == "" || seen[dir] {
				continue
			}
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return strings.Join(dirs, string(filepath.ListSeparator))
}

// SearchPath returns the directories this runner searches for tools.
func (c *DefaultCommandRunner) SearchPath() string {
	return c.searchPath
}

func (c *DefaultCommandRunner) LookPath(name string) (string, error) {
	if strings.Contains(name, "/") {
		if isExecutable(name) {
			return name, nil
		}
		return "", &ToolNotFoundError{Tool: name, SearchPath: c.searchPath}
	}

	for _, dir := range filepath.SplitList(c.searchPath) {
		if dir == "" {
			dir = "."
		}
		path := filepath.Join(dir, name)
		if isExecutable(path) {
			return path, nil
		}
	}
	return "", &ToolNotFoundError{Tool: name, SearchPath: c.searchPath}
}

func (c *DefaultCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	path, err := c.LookPath(name)
	if err != nil {
		return nil, nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	c.log.Debug("command completed",
		logger.Field{Key: "cmd", Value: commandLine(name, args)},
		logger.Field{Key: "stdout_bytes", Value: stdout.Len()},
		logger.Field{Key: "ok", Value: err == nil},
	)
	if err != nil {
		return stdout.Bytes(), stderr.Bytes(), &CommandError{
			Cmd:    commandLine(name, args),
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return stdout.Bytes(), stderr.Bytes(), nil
}

// isExecutable reports whether path is a regular file the caller may execute.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return unix.Access(path, unix.X_OK) == nil
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

// exitCode extracts the process exit status from a runner error, or -1.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// SnapshotManager renders restore scripts for interfaces, flows and datapaths
// with dependency injection for testability.
type SnapshotManager struct {
	netlink NetlinkClient
	cmd     CommandRunner
	log     logger.Logger
	stats   Stats
}

// NewSnapshotManager creates a new SnapshotManager with the given clients.
func NewSnapshotManager(nl NetlinkClient, cmd CommandRunner, log logger.Logger) *SnapshotManager {
	if log == nil {
		log = logger.Discard()
	}
	return &SnapshotManager{
		netlink: nl,
		cmd:     cmd,
		log:     log.With(logger.Field{Key: "component", Value: "snapshot"}),
	}
}

// NewDefaultSnapshotManager creates a SnapshotManager with real system clients.
func NewDefaultSnapshotManager(searchPath string, log logger.Logger) *SnapshotManager {
	return NewSnapshotManager(
		NewDefaultNetlinkClient(),
		NewDefaultCommandRunner(searchPath, log),
		log,
	)
}

// Stats returns the diagnostic counters accumulated so far.
func (sm *SnapshotManager) Stats() Stats {
	return sm.stats
}
