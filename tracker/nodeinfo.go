package tracker

import (
	"fmt"

	"github.com/relaywatch/torwatch/control"
)

// resolveNodes runs a two-batch GETINFO lookup: first "ns/id/<fp>" for
// every hop to get nickname and IP, then "ip-to-country/<ip>" for every
// resolved IP. fps must have exactly three elements.
func (t *Tracker) resolveNodes(fps []string) ([3]NodeInfo, error) {
	var nodes [3]NodeInfo

	nsKeys := make([]string, len(fps))
	for i, fp := range fps {
		nsKeys[i] = "ns/id/" + fp
	}
	nsValues, err := t.resolver.GetInfoMultiple(nsKeys)
	if err != nil {
		return nodes, fmt.Errorf("resolve nodes: ns lookup: %w", err)
	}

	for i, fp := range fps {
		v, ok := nsValues[nsKeys[i]]
		if !ok {
			return nodes, fmt.Errorf("resolve nodes: missing ns entry for %q", fp)
		}
		nodes[i] = NodeInfo{
			Fingerprint: fp,
			Nickname:    v.NS.Nickname,
			IP:          v.NS.IP,
		}
	}

	countryKeys := make([]string, len(nodes))
	for i, n := range nodes {
		countryKeys[i] = "ip-to-country/" + n.IP
	}
	countryValues, err := t.resolver.GetInfoMultiple(countryKeys)
	if err != nil {
		return nodes, fmt.Errorf("resolve nodes: ip-to-country lookup: %w", err)
	}

	for i, key := range countryKeys {
		v, ok := countryValues[key]
		if !ok {
			return nodes, fmt.Errorf("resolve nodes: missing country entry for %q", key)
		}
		nodes[i].CountryCode = v.String
	}

	return nodes, nil
}

var _ Resolver = (*control.Controller)(nil)
