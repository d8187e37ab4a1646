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

// flowAgeField matches the per-flow age counters, which are runtime values
// that ovs-ofctl add-flows does not accept back.
var flowAgeField = regexp.MustCompile(`(idle|hard)_age=[^,]*,`)

// FilterFlowDump turns "ovs-ofctl dump-flows" output into lines accepted by
// "ovs-ofctl add-flows": reply headers are dropped and age counters removed.
func FilterFlowDump(text string) []string {
	var flows []string
	for _, line := range splitLines(text) {
		// Skip the reply header printed before the flows.
		if strings.Contains(line, "NXST_FLOW") || strings.Contains(line, "OFPST_FLOW reply") {
			continue
		}
		flows = append(flows, flowAgeField.ReplaceAllString(line, ""))
	}
	return flows
}

var (
	dpPortNo   = regexp.MustCompile(`port ([0-9]+):`)
	dpPortName = regexp.MustCompile(`port [0-9]+: ([^ ]+)`)
)

// ParseDatapathPort parses one line of "ovs-dpctl show" output. Example
// port lines:
//
//	port 0: dp1 (internal)
//	port 3: gre1 (ipsec_gre: remote_ip=192.168.113.1)
//	port 16: eth0
//
// Lines without a port number yield false.
func ParseDatapathPort(line string) (DatapathPort, bool) {
	m := dpPortNo.FindStringSubmatch(line)
	if m == nil {
		return DatapathPort{}, false
	}
	portNo, err := strconv.Atoi(m[1])
	if err != nil {
		return DatapathPort{}, false
	}

	port := DatapathPort{PortNo: portNo, Type: "system"}
	if n := dpPortName.FindStringSubmatch(line); n != nil {
		port.Name = n[1]
	}

	open := strings.Index(line, "(")
	if open < 0 {
		return port, true
	}
	annotation := line[open+1:]
	if end := strings.LastIndex(annotation, ")"); end >= 0 {
		annotation = annotation[:end]
	}

	typ, options, hasOptions := strings.Cut(annotation, ":")
	if typ = strings.TrimSpace(typ); typ != "" {
		port.Type = typ
	}
	if hasOptions {
		port.Options = strings.Join(strings.Fields(options), "")
	}
	return port, true
}

// ParseDatapathPorts returns every port listed in "ovs-dpctl show" output.
func ParseDatapathPorts(text string) []DatapathPort {
	var ports []DatapathPort
	for _, line := range splitLines(text) {
		if port, ok := ParseDatapathPort(line); ok {
			ports = append(ports, port)
		}
	}
	return ports
}

// Options renders the credentials as add-if options.
func (c IPsecCredentials) Options() string {
	var opts []string
	if c.PeerCert != nil {
		opts = append(opts, "peer_cert="+*c.PeerCert)
	}
	if c.Certificate != nil {
		opts = append(opts, "certificate="+*c.Certificate)
	}
	if c.UseSSLCert != nil {
		opts = append(opts, "use_ssl_cert="+*c.UseSSLCert)
	}
	if c.PSK != nil {
		opts = append(opts, "psk="+*c.PSK)
	}
	return strings.Join(opts, ",")
}

// AddIfCommand renders the command re-adding port to datapath dp.
func AddIfCommand(dp string, port DatapathPort, creds *IPsecCredentials) string {
	var b strings.Builder
	b.WriteString("ovs-dpctl add-if ")
	b.WriteString(dp)
	b.WriteString(" ")
	b.WriteString(port.Name)
	b.WriteString(",type=")
	b.WriteString(port.Type)
	b.WriteString(",port_no=")
	b.WriteString(strconv.Itoa(port.PortNo))
	if port.Options != "" {
		b.WriteString(",")
		b.WriteString(port.Options)
	}
	if creds != nil {
		if opts := creds.Options(); opts != "" {
			b.WriteString(",")
			b.WriteString(opts)
		}
	}
	return b.String()
}
