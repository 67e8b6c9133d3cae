package main

import (
	"fmt"
	"io"

	"github.com/relaywatch/torwatch/tracker"
)

// display is the terminal stand-in for the on_nodes_changed collaborator
//. It owns no state of its own beyond where to write and how to
// localize a country code.
type display struct {
	out    io.Writer
	locale *localeTable
}

func newDisplay(out io.Writer, locale *localeTable) *display {
	return &display{out: out, locale: locale}
}

// onNodesChanged prints one line per hop, guard first.
func (d *display) onNodesChanged(domain string, nodes [3]tracker.NodeInfo) {
	fmt.Fprintf(d.out, "%s:\n", domain)
	labels := [3]string{"guard ", "middle", "exit  "}
	for i, n := range nodes {
		name := n.Nickname
		if name == "" {
			name = n.Fingerprint
		}
		fmt.Fprintf(d.out, "  %s %-20s %-15s %s\n", labels[i], name, n.IP, d.locale.Name(n.CountryCode))
	}
}
