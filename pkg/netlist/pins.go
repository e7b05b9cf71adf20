package netlist

import (
	"strings"

	"github.com/OpenTraceLab/pcbnet/pkg/pinmap"
)

// Policy selects which query conditions are errors. A condition that is not
// an error is skipped silently.
type Policy struct {
	// ErrOnMissing fails on an unknown net, a pin absent from its
	// component's table, or a net with no resolvable connection.
	ErrOnMissing bool

	// ErrOnMultiple fails when more than one connection of a net resolves.
	// When false only the first resolved location is kept.
	ErrOnMultiple bool
}

// DefaultPolicy reports every condition.
func DefaultPolicy() Policy {
	return Policy{ErrOnMissing: true, ErrOnMultiple: true}
}

// FindPin resolves a single net. See FindPins.
func (nl *Netlist) FindPin(net string, pm pinmap.PinMap, policy Policy) (string, error) {
	return nl.FindPins([]string{net}, pm, policy)
}

// FindPins resolves each net to the location of the connection that lands on
// a component of pm, and returns the locations in request order separated by
// single spaces. Nets that resolve to nothing contribute no token.
func (nl *Netlist) FindPins(nets []string, pm pinmap.PinMap, policy Policy) (string, error) {
	locs, err := nl.ResolvePins(nets, pm, policy)
	if err != nil {
		return "", err
	}
	return strings.Join(locs, " "), nil
}

// ResolvePins is FindPins without the final join. Each net contributes at
// most one location.
func (nl *Netlist) ResolvePins(nets []string, pm pinmap.PinMap, policy Policy) ([]string, error) {
	locs := make([]string, 0, len(nets))
	for _, name := range nets {
		loc, ok, err := nl.resolveNet(name, pm, policy)
		if err != nil {
			return nil, err
		}
		if ok {
			locs = append(locs, loc)
		}
	}
	return locs, nil
}

func (nl *Netlist) resolveNet(name string, pm pinmap.PinMap, policy Policy) (string, bool, error) {
	net, found := nl.Net(name)
	if !found {
		if policy.ErrOnMissing {
			return "", false, &QueryError{Net: name, Err: ErrNetNotFound}
		}
		return "", false, nil
	}

	var (
		loc     string
		matches []Connection
	)
	for _, c := range net.Connections {
		if !pm.HasComponent(c.Component) {
			continue
		}
		// An empty location counts as unmapped.
		l, mapped := pm.Lookup(c.Component, c.Pin)
		if !mapped || l == "" {
			if policy.ErrOnMissing {
				return "", false, &QueryError{Net: name, Component: c.Component, Pin: c.Pin, Err: ErrPinNotMapped}
			}
			continue
		}

		matches = append(matches, c)
		if len(matches) == 1 {
			loc = l
			continue
		}
		if policy.ErrOnMultiple {
			return "", false, &QueryError{Net: name, Matches: matches, Err: ErrMultiplePinsForNet}
		}
	}

	if len(matches) == 0 {
		if policy.ErrOnMissing {
			return "", false, &QueryError{Net: name, Err: ErrNetUnresolved}
		}
		return "", false, nil
	}
	return loc, true, nil
}
