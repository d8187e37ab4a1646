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
	"regexp"
	"strconv"
	"strings"
)

var (
	linkUpFlag    = regexp.MustCompile(`[,<]UP[,>]`)
	linkDynamic   = regexp.MustCompile(`\bdynamic\b`)
	linkQlen      = regexp.MustCompile(`qlen ([0-9]+)`)
	linkEtherAddr = regexp.MustCompile(`link/ether ([^ \n]*)`)
	linkBroadcast = regexp.MustCompile(`brd ([^ \n]*)`)
	linkMTU       = regexp.MustCompile(`mtu ([0-9]+)`)
)

// ParseLinkState extracts the restorable attributes from "ip link show dev X"
// output. When an attribute occurs more than once the last occurrence wins.
func ParseLinkState(text string) LinkState {
	var state LinkState

	switch {
	case strings.Contains(text, "state UP") || linkUpFlag.MatchString(text):
		state.AdminState = "up"
	case strings.Contains(text, "state DOWN"):
		state.AdminState = "down"
	}

	state.Dynamic = linkDynamic.MatchString(text)

	if v, ok := lastSubmatch(linkQlen, text); ok {
		if n, err := strconv.Atoi(v); err == nil {
			state.TxQueueLen = &n
		}
	}
	if v, ok := lastSubmatch(linkEtherAddr, text); ok {
		state.HardwareAddr = &v
	}
	if v, ok := lastSubmatch(linkBroadcast, text); ok {
		state.Broadcast = &v
	}
	if v, ok := lastSubmatch(linkMTU, text); ok {
		if n, err := strconv.Atoi(v); err == nil {
			state.MTU = &n
		}
	}

	return state
}

// splitLines splits tool output into lines without a length limit. A
// trailing newline does not produce an empty last line.
func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func lastSubmatch(re *regexp.Regexp, text string) (string, bool) {
	matches := re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return "", false
	}
	return matches[len(matches)-1][1], true
}

// LinkCommands renders the commands restoring state on dev. The link is
// taken down first because the hardware address can only change while the
// link is down. It returns nil when state carries nothing to restore.
func LinkCommands(dev string, state LinkState) []string {
	if state.IsEmpty() {
		return nil
	}

	var args []string
	if state.AdminState != "" {
		args = append(args, state.AdminState)
	}
	if state.Dynamic {
		args = append(args, "dynamic")
	}
	if state.TxQueueLen != nil {
		args = append(args, "txqueuelen", strconv.Itoa(*state.TxQueueLen))
	}
	if state.HardwareAddr != nil {
		args = append(args, "address", *state.HardwareAddr)
	}
	if state.Broadcast != nil {
		args = append(args, "broadcast", *state.Broadcast)
	}
	if state.MTU != nil {
		args = append(args, "mtu", strconv.Itoa(*state.MTU))
	}

	return []string{
		"ip link set dev " + dev + " down",
		"ip link set dev " + dev + " " + strings.Join(args, " "),
	}
}

// ParseAddrLine converts one line of "ip addr show dev X" output into an
// address record. Lines of other families, kernel-maintained (dynamic)
// addresses and link-scope addresses yield false.
func ParseAddrLine(dev, line string) (AddrRecord, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return AddrRecord{}, false
	}

	family := fields[0]
	if family != "inet" && family != "inet6" {
		return AddrRecord{}, false
	}

	rec := AddrRecord{Family: family}
	for i := 1; i < len(fields); i++ {
		tok := fields[i]
		switch {
		case tok == "dynamic":
			return AddrRecord{}, false
		case tok == "scope" && i+1 < len(fields) && fields[i+1] == "link":
			return AddrRecord{}, false
		case tok == dev || strings.HasPrefix(tok, dev+":"):
			rec.Args = append(rec.Args, "label", tok)
			continue
		}
		rec.Args = append(rec.Args, tok)
	}
	return rec, true
}

// ParseAddrs returns the restorable addresses in "ip addr show dev X" output.
func ParseAddrs(dev, text string) []AddrRecord {
	var addrs []AddrRecord
	for _, line := range splitLines(text) {
		if rec, ok := ParseAddrLine(dev, line); ok {
			addrs = append(addrs, rec)
		}
	}
	return addrs
}

// AddrCommand renders the command re-adding addr on dev.
func AddrCommand(dev string, addr AddrRecord) string {
	return "ip -f " + addr.Family + " addr add " + strings.Join(addr.Args, " ") + " dev " + dev
}

// ParseRouteLine converts one line of "ip route show dev X" output into a
// route record. Routes installed by the kernel yield false.
func ParseRouteLine(line string) (RouteRecord, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return RouteRecord{}, false
	}
	for i := 0; i+1 < len(fields); i++ {
		if fields[i] == "proto" && fields[i+1] == "kernel" {
			return RouteRecord{}, false
		}
	}
	return RouteRecord{Route: strings.TrimSpace(line)}, true
}

// ParseRoutes returns the restorable routes in "ip route show dev X" output.
func ParseRoutes(text string) []RouteRecord {
	var routes []RouteRecord
	for _, line := range splitLines(text) {
		if rec, ok := ParseRouteLine(line); ok {
			routes = append(routes, rec)
		}
	}
	return routes
}

// RouteCommand renders the command re-adding route on dev.
func RouteCommand(dev string, route RouteRecord) string {
	return "ip route add " + route.Route + " dev " + dev
}
