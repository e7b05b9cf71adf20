package netlist

import "strings"

// DefaultMinPins is the connection count below which a net is an orphan.
const DefaultMinPins = 2

// IsNoConnect reports whether a net name marks an intentional no-connect:
// it starts with "NC_" or contains "_NC" or ".NC_".
func IsNoConnect(name string) bool {
	return strings.HasPrefix(name, "NC_") ||
		strings.Contains(name, "_NC") ||
		strings.Contains(name, ".NC_")
}

// CheckOrphans returns the nets with fewer than minPins connections, in file
// order, leaving out no-connect nets. A minPins below 1 means DefaultMinPins.
// The result shares its Net values with nl.
func (nl *Netlist) CheckOrphans(minPins int) *Netlist {
	if minPins < 1 {
		minPins = DefaultMinPins
	}

	orphans := newNetlist(nl.Path)
	for _, n := range nl.Nets {
		if len(n.Connections) >= minPins || IsNoConnect(n.Name) {
			continue
		}
		// Names are unique in nl, so add cannot fail.
		_ = orphans.add(n)
	}
	return orphans
}
