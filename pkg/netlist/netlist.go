package netlist

import (
	"fmt"
	"sort"
)

// Connection is one component pin attached to a net.
type Connection struct {
	Component string `msgpack:"component"`
	Pin       string `msgpack:"pin"`
}

// String returns the "COMPONENT.PIN" form.
func (c Connection) String() string {
	return c.Component + "." + c.Pin
}

// Net is a named signal and the pins it joins, in file order.
// Duplicate connections are kept as they appear in the file.
type Net struct {
	Name        string       `msgpack:"name"`
	Connections []Connection `msgpack:"connections"`
}

// Netlist is the parsed content of a netlist file. Nets keep the order in
// which they appear in the file. A Netlist returned by Parse is never
// modified afterwards, so it can be shared between goroutines.
type Netlist struct {
	Path string
	Nets []*Net

	index map[string]int // net name → position in Nets
}

func newNetlist(path string) *Netlist {
	return &Netlist{
		Path:  path,
		index: make(map[string]int),
	}
}

// add appends a net. Net names must be unique.
func (nl *Netlist) add(net *Net) error {
	if _, exists := nl.index[net.Name]; exists {
		return fmt.Errorf("duplicate net %s", net.Name)
	}
	nl.index[net.Name] = len(nl.Nets)
	nl.Nets = append(nl.Nets, net)
	return nil
}

// Net returns the named net.
func (nl *Netlist) Net(name string) (*Net, bool) {
	if nl.index == nil {
		for _, n := range nl.Nets {
			if n.Name == name {
				return n, true
			}
		}
		return nil, false
	}
	i, ok := nl.index[name]
	if !ok {
		return nil, false
	}
	return nl.Nets[i], true
}

// Len returns the number of nets.
func (nl *Netlist) Len() int {
	return len(nl.Nets)
}

// Names returns the net names in file order.
func (nl *Netlist) Names() []string {
	names := make([]string, len(nl.Nets))
	for i, n := range nl.Nets {
		names[i] = n.Name
	}
	return names
}

// Components returns every component reference in order of first appearance.
func (nl *Netlist) Components() []string {
	seen := make(map[string]bool)
	var comps []string
	for _, n := range nl.Nets {
		for _, c := range n.Connections {
			if !seen[c.Component] {
				seen[c.Component] = true
				comps = append(comps, c.Component)
			}
		}
	}
	return comps
}

// Stats summarizes a netlist.
type Stats struct {
	Nets          int
	Connections   int
	Components    int
	EmptyNets     int
	NoConnectNets int
}

// Stats counts nets, connections and components.
func (nl *Netlist) Stats() Stats {
	s := Stats{
		Nets:       len(nl.Nets),
		Components: len(nl.Components()),
	}
	for _, n := range nl.Nets {
		s.Connections += len(n.Connections)
		if len(n.Connections) == 0 {
			s.EmptyNets++
		}
		if IsNoConnect(n.Name) {
			s.NoConnectNets++
		}
	}
	return s
}

// LargestNets returns up to limit nets with the most connections. Nets with
// equal counts keep their file order.
func (nl *Netlist) LargestNets(limit int) []*Net {
	nets := make([]*Net, len(nl.Nets))
	copy(nets, nl.Nets)
	sort.SliceStable(nets, func(i, j int) bool {
		return len(nets[i].Connections) > len(nets[j].Connections)
	})
	if limit >= 0 && limit < len(nets) {
		nets = nets[:limit]
	}
	return nets
}
