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
	"io"
	"strings"

	"github.com/we-are-mono/ovs-save/logger"
)

const (
	toolIP           = "ip"
	toolIptablesSave = "iptables-save"
	toolOfctl        = "ovs-ofctl"
	toolDpctl        = "ovs-dpctl"
	toolVsctl        = "ovs-vsctl"
)

// requireTools fails with a ToolNotFoundError for the first missing tool.
func (sm *SnapshotManager) requireTools(tools ...string) error {
	for _, tool := range tools {
		if _, err := sm.cmd.LookPath(tool); err != nil {
			return err
		}
	}
	return nil
}

// ListInterfaces returns the names of all links except loopback.
func (sm *SnapshotManager) ListInterfaces() ([]string, error) {
	links, err := sm.netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}

	names := make([]string, 0, len(links))
	for _, link := range links {
		// Skip loopback interface
		if link.Attrs().Name == "lo" {
			continue
		}
		names = append(names, link.Attrs().Name)
	}
	return names, nil
}

// SaveInterfaces writes a script restoring the kernel configuration of devs
// followed by the iptables rule set. Devices whose link query fails are
// skipped.
func (sm *SnapshotManager) SaveInterfaces(ctx context.Context, w io.Writer, devs []string) error {
	if len(devs) == 0 {
		return nil
	}
	if err := sm.requireTools(toolIP); err != nil {
		return err
	}

	for _, dev := range devs {
		if err := ctx.Err(); err != nil {
			return err
		}

		block, err := sm.captureInterface(ctx, dev)
		if err != nil {
			sm.stats.DevicesSkipped++
			sm.log.Debug("skipping device", logger.Field{Key: "device", Value: dev}, logger.Field{Key: "error", Value: err.Error()})
			continue
		}
		sm.stats.Devices++

		for _, line := range block {
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w)
	}

	sm.saveFirewall(ctx, w)
	return nil
}

// captureInterface renders the restore block for a single device.
func (sm *SnapshotManager) captureInterface(ctx context.Context, dev string) ([]string, error) {
	linkOut, _, err := sm.cmd.Run(ctx, toolIP, "link", "show", "dev", dev)
	if err != nil {
		return nil, fmt.Errorf("failed to query link: %w", err)
	}

	block := LinkCommands(dev, ParseLinkState(string(linkOut)))

	block = append(block, "ip addr flush dev "+dev+" 2>/dev/null")
	if addrOut, _, err := sm.cmd.Run(ctx, toolIP, "addr", "show", "dev", dev); err == nil {
		for _, addr := range ParseAddrs(dev, string(addrOut)) {
			block = append(block, AddrCommand(dev, addr))
		}
	} else {
		sm.stats.LookupsFailed++
		sm.log.Warn("failed to list addresses", logger.Field{Key: "device", Value: dev}, logger.Field{Key: "error", Value: err.Error()})
	}

	block = append(block, "ip route flush dev "+dev+" proto boot 2>/dev/null")
	if routeOut, _, err := sm.cmd.Run(ctx, toolIP, "route", "show", "dev", dev); err == nil {
		for _, route := range ParseRoutes(string(routeOut)) {
			block = append(block, RouteCommand(dev, route))
		}
	} else {
		sm.stats.LookupsFailed++
		sm.log.Warn("failed to list routes", logger.Field{Key: "device", Value: dev}, logger.Field{Key: "error", Value: err.Error()})
	}

	return block, nil
}

// saveFirewall appends the iptables rule set as an iptables-restore heredoc.
// A missing or failing iptables-save is not fatal.
func (sm *SnapshotManager) saveFirewall(ctx context.Context, w io.Writer) {
	if _, err := sm.cmd.LookPath(toolIptablesSave); err != nil {
		fmt.Fprintln(w, "# iptables-save not found in PATH, not saving iptables state")
		return
	}

	rules, _, err := sm.cmd.Run(ctx, toolIptablesSave)
	if err != nil {
		sm.log.Warn("iptables-save failed", logger.Field{Key: "error", Value: err.Error()})
		fmt.Fprintln(w, "# iptables-save failed, not saving iptables state")
		return
	}

	fmt.Fprintln(w, "iptables-restore <<'EOF'")
	writeBlock(w, string(rules))
	fmt.Fprintln(w, "EOF")
}

// SaveFlows writes a script restoring the OpenFlow flow table of each bridge.
func (sm *SnapshotManager) SaveFlows(ctx context.Context, w io.Writer, bridges []string) error {
	if err := sm.requireTools(toolOfctl); err != nil {
		return err
	}

	for _, bridge := range bridges {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintf(w, "ovs-ofctl add-flows %s - << EOF\n", bridge)
		out, _, err := sm.cmd.Run(ctx, toolOfctl, "dump-flows", bridge)
		if err != nil {
			sm.stats.BridgesFailed++
			sm.log.Warn("failed to dump flows", logger.Field{Key: "bridge", Value: bridge}, logger.Field{Key: "error", Value: err.Error()})
		} else {
			sm.stats.Bridges++
			for _, flow := range FilterFlowDump(string(out)) {
				fmt.Fprintln(w, flow)
			}
		}
		fmt.Fprintln(w, "EOF")
	}
	return nil
}

// SaveDatapaths writes a script recreating each datapath and its ports.
func (sm *SnapshotManager) SaveDatapaths(ctx context.Context, w io.Writer, dps []string) error {
	if err := sm.requireTools(toolDpctl, toolVsctl); err != nil {
		return err
	}

	for _, dp := range dps {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintf(w, "ovs-dpctl add-dp %s\n", dp)
		out, _, err := sm.cmd.Run(ctx, toolDpctl, "show", dp)
		if err != nil {
			sm.stats.DatapathsFailed++
			sm.log.Warn("failed to show datapath", logger.Field{Key: "datapath", Value: dp}, logger.Field{Key: "error", Value: err.Error()})
			continue
		}
		sm.stats.Datapaths++

		local := localPortName(dp)
		for _, port := range ParseDatapathPorts(string(out)) {
			// The datapath's own local port is created by add-dp.
			if port.Name == local {
				sm.stats.PortsSkipped++
				continue
			}
			sm.stats.Ports++

			var creds *IPsecCredentials
			if port.Type == "ipsec_gre" && port.Options != "" {
				c := sm.lookupIPsecCredentials(ctx, port.Name)
				creds = &c
			}
			fmt.Fprintln(w, AddIfCommand(dp, port, creds))
		}
	}
	return nil
}

// localPortName returns the name of the local port of dp, which is the
// datapath name without a "type@" prefix as printed by "ovs-dpctl dump-dps".
func localPortName(dp string) string {
	if i := strings.LastIndex(dp, "@"); i >= 0 {
		return dp[i+1:]
	}
	return dp
}

// lookupIPsecCredentials fetches the ipsec_gre secrets of iface from the
// configuration database, preferring a certificate pair, then the SSL
// certificate flag, then a pre-shared key. Fallback values are used as
// returned, even when their own lookup fails.
func (sm *SnapshotManager) lookupIPsecCredentials(ctx context.Context, iface string) IPsecCredentials {
	var creds IPsecCredentials

	peerCert, err := sm.interfaceOption(ctx, iface, "peer_cert")
	if err != nil {
		psk, _ := sm.interfaceOption(ctx, iface, "psk")
		creds.PSK = &psk
		return creds
	}
	creds.PeerCert = &peerCert

	if certificate, err := sm.interfaceOption(ctx, iface, "certificate"); err == nil {
		creds.Certificate = &certificate
		return creds
	}

	useSSLCert, _ := sm.interfaceOption(ctx, iface, "use_ssl_cert")
	creds.UseSSLCert = &useSSLCert
	return creds
}

// interfaceOption reads options:key of iface with "ovs-vsctl get".
func (sm *SnapshotManager) interfaceOption(ctx context.Context, iface, key string) (string, error) {
	out, _, err := sm.cmd.Run(ctx, toolVsctl, "get", "interface", iface, "options:"+key)
	if err != nil {
		sm.stats.LookupsFailed++
		sm.log.Debug("interface option lookup failed",
			logger.Field{Key: "interface", Value: iface},
			logger.Field{Key: "option", Value: key},
			logger.Field{Key: "error", Value: err.Error()},
		)
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// writeBlock writes text making sure it ends with a newline so that a
// following heredoc terminator stays on its own line.
func writeBlock(w io.Writer, text string) {
	if text == "" {
		return
	}
	io.WriteString(w, text)
	if !strings.HasSuffix(text, "\n") {
		io.WriteString(w, "\n")
	}
}
