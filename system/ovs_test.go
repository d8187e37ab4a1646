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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flowDump = `NXST_FLOW reply (xid=0x4):
 cookie=0x0, duration=120.5s, table=0, n_packets=10, n_bytes=840, idle_age=10,hard_age=20, priority=100,ip,nw_dst=10.0.0.1 actions=output:2
 cookie=0x0, duration=3.1s, table=0, n_packets=0, n_bytes=0, idle_age=3, priority=0 actions=NORMAL
`

// TestFilterFlowDump tests header removal and age stripping.
func TestFilterFlowDump(t *testing.T) {
	flows := FilterFlowDump(flowDump)

	require.Len(t, flows, 2)
	assert.Equal(t, " cookie=0x0, duration=120.5s, table=0, n_packets=10, n_bytes=840,  priority=100,ip,nw_dst=10.0.0.1 actions=output:2", flows[0])
	assert.Equal(t, " cookie=0x0, duration=3.1s, table=0, n_packets=0, n_bytes=0,  priority=0 actions=NORMAL", flows[1])

	for _, flow := range flows {
		assert.NotContains(t, flow, "NXST_FLOW")
		assert.NotContains(t, flow, "idle_age")
		assert.NotContains(t, flow, "hard_age")
	}
}

// TestFilterFlowDump_OpenFlow13 tests the OFPST_FLOW reply header.
func TestFilterFlowDump_OpenFlow13(t *testing.T) {
	flows := FilterFlowDump("OFPST_FLOW reply (OF1.3) (xid=0x2):\n cookie=0x1, table=1, priority=5 actions=drop\n")

	require.Len(t, flows, 1)
	assert.Equal(t, " cookie=0x1, table=1, priority=5 actions=drop", flows[0])
}

// TestFilterFlowDump_LongLine tests that lines over a megabyte are not truncated.
func TestFilterFlowDump_LongLine(t *testing.T) {
	long := " cookie=0x0, idle_age=1, priority=10 actions=" + strings.Repeat("mod_vlan_vid:10,", 75000) + "NORMAL"
	flows := FilterFlowDump(" cookie=0x1, priority=20 actions=drop\n" + long + "\n cookie=0x2, priority=0 actions=NORMAL\n")

	require.Len(t, flows, 3)
	assert.Greater(t, len(flows[1]), 1024*1024)
	assert.NotContains(t, flows[1], "idle_age")
	assert.Equal(t, " cookie=0x2, priority=0 actions=NORMAL", flows[2])
}

// TestFilterFlowDump_Empty tests an empty dump.
func TestFilterFlowDump_Empty(t *testing.T) {
	assert.Empty(t, FilterFlowDump(""))
	assert.Empty(t, FilterFlowDump("NXST_FLOW reply (xid=0x4):\n"))
}

// TestParseDatapathPort tests port line parsing.
func TestParseDatapathPort(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		wantOK bool
		want   DatapathPort
	}{
		{
			name:   "internal port",
			line:   "\tport 0: dp1 (internal)",
			wantOK: true,
			want:   DatapathPort{PortNo: 0, Name: "dp1", Type: "internal"},
		},
		{
			name:   "system port",
			line:   "\tport 16: eth0",
			wantOK: true,
			want:   DatapathPort{PortNo: 16, Name: "eth0", Type: "system"},
		},
		{
			name:   "ipsec_gre with options",
			line:   "\tport 2: gre2886795521 (ipsec_gre: key=flow, pmtud=false, remote_ip=172.17.1.1, tos=inherit)",
			wantOK: true,
			want: DatapathPort{
				PortNo:  2,
				Name:    "gre2886795521",
				Type:    "ipsec_gre",
				Options: "key=flow,pmtud=false,remote_ip=172.17.1.1,tos=inherit",
			},
		},
		{
			name:   "patch port",
			line:   "\tport 20: patch0 (patch: peer=patch1)",
			wantOK: true,
			want:   DatapathPort{PortNo: 20, Name: "patch0", Type: "patch", Options: "peer=patch1"},
		},
		{
			name:   "wrapped options",
			line:   "\tport 19: vxlan1 (vxlan: dst_port=4789, key=flow, remote_ip=192.168.120.1,",
			wantOK: true,
			want: DatapathPort{
				PortNo:  19,
				Name:    "vxlan1",
				Type:    "vxlan",
				Options: "dst_port=4789,key=flow,remote_ip=192.168.120.1,",
			},
		},
		{
			name:   "datapath header",
			line:   "system@dp1:",
			wantOK: false,
		},
		{
			name:   "lookup stats",
			line:   "\tlookups: hit:0 missed:0 lost:0",
			wantOK: false,
		},
		{
			name:   "continuation",
			line:   "\t\t\t\ttos=inherit)",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port, ok := ParseDatapathPort(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, port)
			}
		})
	}
}

// TestAddIfCommand tests add-if rendering.
func TestAddIfCommand(t *testing.T) {
	peer := "/etc/peer.pem"
	cert := "/etc/cert.pem"
	psk := "secret"

	tests := []struct {
		name  string
		port  DatapathPort
		creds *IPsecCredentials
		want  string
	}{
		{
			name: "system port",
			port: DatapathPort{PortNo: 16, Name: "eth0", Type: "system"},
			want: "ovs-dpctl add-if dp1 eth0,type=system,port_no=16",
		},
		{
			name: "options",
			port: DatapathPort{PortNo: 20, Name: "patch0", Type: "patch", Options: "peer=patch1"},
			want: "ovs-dpctl add-if dp1 patch0,type=patch,port_no=20,peer=patch1",
		},
		{
			name:  "certificate pair",
			port:  DatapathPort{PortNo: 3, Name: "gre1", Type: "ipsec_gre", Options: "remote_ip=192.168.113.1"},
			creds: &IPsecCredentials{PeerCert: &peer, Certificate: &cert},
			want:  "ovs-dpctl add-if dp1 gre1,type=ipsec_gre,port_no=3,remote_ip=192.168.113.1,peer_cert=/etc/peer.pem,certificate=/etc/cert.pem",
		},
		{
			name:  "pre-shared key",
			port:  DatapathPort{PortNo: 3, Name: "gre1", Type: "ipsec_gre"},
			creds: &IPsecCredentials{PSK: &psk},
			want:  "ovs-dpctl add-if dp1 gre1,type=ipsec_gre,port_no=3,psk=secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddIfCommand("dp1", tt.port, tt.creds))
		})
	}
}
