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
	"fmt"
	"strings"
	"sync"

	"github.com/vishvananda/netlink"
)

// MockNetlinkClient is a mock implementation of NetlinkClient for testing.
type MockNetlinkClient struct {
	mu sync.Mutex

	// State
	Links []netlink.Link

	// Call counters for verification
	LinkListCalls int

	// Error injection for testing error paths
	LinkListError error
}

// NewMockNetlinkClient creates a new MockNetlinkClient.
func NewMockNetlinkClient() *MockNetlinkClient {
	return &MockNetlinkClient{}
}

func (m *MockNetlinkClient) LinkList() ([]netlink.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinkListCalls++

	if m.LinkListError != nil {
		return nil, m.LinkListError
	}

	links := make([]netlink.Link, len(m.Links))
	copy(links, m.Links)
	return links, nil
}

// MockFilesystemClient is a mock implementation of FilesystemClient for testing.
type MockFilesystemClient struct {
	mu sync.Mutex

	// State
	Files map[string][]byte
	Perms map[string]uint32

	// Call counters
	WriteFileCalls int

	// Error injection
	WriteFileError error
}

// NewMockFilesystemClient creates a new MockFilesystemClient.
func NewMockFilesystemClient() *MockFilesystemClient {
	return &MockFilesystemClient{
		Files: make(map[string][]byte),
		Perms: make(map[string]uint32),
	}
}

func (m *MockFilesystemClient) WriteFile(filename string, data []byte, perm uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteFileCalls++

	if m.WriteFileError != nil {
		return m.WriteFileError
	}

	m.Files[filename] = data
	m.Perms[filename] = perm
	return nil
}

// MockCommandRunner is a mock implementation of CommandRunner for testing.
// Tools are "installed" by adding them to Tools; commands without a
// registered output succeed with empty output unless listed in Failures.
type MockCommandRunner struct {
	mu sync.Mutex

	// State
	Tools          map[string]bool
	CommandOutputs map[string][]byte
	Failures       map[string]error

	// Call tracking
	Commands [][]string
	RunCalls int
}

// NewMockCommandRunner creates a new MockCommandRunner with the given tools
// available.
func NewMockCommandRunner(tools ...string) *MockCommandRunner {
	m := &MockCommandRunner{
		Tools:          make(map[string]bool),
		CommandOutputs: make(map[string][]byte),
		Failures:       make(map[string]error),
		Commands:       make([][]string, 0),
	}
	for _, tool := range tools {
		m.Tools[tool] = true
	}
	return m
}

func (m *MockCommandRunner) LookPath(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.Tools[name] {
		return "", &ToolNotFoundError{Tool: name, SearchPath: "PATH"}
	}
	return "/usr/bin/" + name, nil
}

func (m *MockCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunCalls++

	// Track the command that was run
	cmd := append([]string{name}, args...)
	m.Commands = append(m.Commands, cmd)

	cmdStr := strings.Join(cmd, " ")
	if !m.Tools[name] {
		return nil, nil, &ToolNotFoundError{Tool: name, SearchPath: "PATH"}
	}
	if err, ok := m.Failures[cmdStr]; ok {
		return nil, []byte(err.Error()), &CommandError{Cmd: cmdStr, Stderr: err.Error(), Err: err}
	}

	output, ok := m.CommandOutputs[cmdStr]
	if !ok {
		return []byte{}, nil, nil
	}
	return output, nil, nil
}

// SetOutput sets the output for a specific command.
func (m *MockCommandRunner) SetOutput(name string, args []string, output string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CommandOutputs[strings.Join(append([]string{name}, args...), " ")] = []byte(output)
}

// SetFailure makes a specific command fail with err.
func (m *MockCommandRunner) SetFailure(name string, args []string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil {
		err = fmt.Errorf("exit status 1")
	}
	m.Failures[strings.Join(append([]string{name}, args...), " ")] = err
}

// Ran reports whether the given command line was executed.
func (m *MockCommandRunner) Ran(cmdLine string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, cmd := range m.Commands {
		if strings.Join(cmd, " ") == cmdLine {
			return true
		}
	}
	return false
}
