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

// LinkState captures the restorable link attributes of a single interface,
// as reported by "ip link show". Nil fields were absent from the output.
type LinkState struct {
	AdminState   string // "up", "down" or empty
	Dynamic      bool
	TxQueueLen   *int
	HardwareAddr *string
	Broadcast    *string
	MTU          *int
}

// IsEmpty reports whether no restorable attribute was detected.
func (s LinkState) IsEmpty() bool {
	return s.AdminState == "" && !s.Dynamic && s.TxQueueLen == nil &&
		s.HardwareAddr == nil && s.Broadcast == nil && s.MTU == nil
}

// AddrRecord is one restorable address of an interface.
type AddrRecord struct {
	Family string   // "inet" or "inet6"
	Args   []string // everything after the family, labels already rewritten
}

// RouteRecord is one restorable route of an interface.
type RouteRecord struct {
	Route string
}

// DatapathPort is one port line of "ovs-dpctl show".
type DatapathPort struct {
	PortNo  int
	Name    string
	Type    string // "system" when the port carries no type annotation
	Options string // comma separated, spaces removed
}

// IPsecCredentials holds the secrets of an ipsec_gre port that ovs-dpctl
// does not expose. Exactly one of the three forms is populated.
type IPsecCredentials struct {
	PeerCert    *string
	Certificate *string
	UseSSLCert  *string
	PSK         *string
}

// Stats counts what a SnapshotManager processed and skipped.
type Stats struct {
	Devices         int `json:"devices"`
	DevicesSkipped  int `json:"devices_skipped"`
	Bridges         int `json:"bridges"`
	BridgesFailed   int `json:"bridges_failed"`
	Datapaths       int `json:"datapaths"`
	DatapathsFailed int `json:"datapaths_failed"`
	Ports           int `json:"ports"`
	PortsSkipped    int `json:"ports_skipped"`
	LookupsFailed   int `json:"lookups_failed"`
}
