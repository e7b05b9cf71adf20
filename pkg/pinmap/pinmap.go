// Package pinmap holds the tables that translate a component's pin ids into
// physical locations on a target package (ball or pad names), and loads them
// from JSON, YAML, TOML and BSDL files.
package pinmap

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrConflict is returned when two sources map the same pin to different locations.
	ErrConflict = errors.New("pinmap: conflicting locations")

	// ErrEmptyLocation is returned when a table maps a pin to an empty string.
	ErrEmptyLocation = errors.New("pinmap: empty location")
)

// PinMap maps component reference → pin id → physical location.
type PinMap map[string]map[string]string

// New returns an empty PinMap.
func New() PinMap {
	return make(PinMap)
}

// AddComponent registers a component, with an empty pin table if it has
// none yet. A known component with no pins makes every one of its
// connections an unmapped pin rather than an unknown component.
func (pm PinMap) AddComponent(component string) map[string]string {
	pins, ok := pm[component]
	if !ok {
		pins = make(map[string]string)
		pm[component] = pins
	}
	return pins
}

// Set records the location of one pin.
func (pm PinMap) Set(component, pin, location string) {
	pm.AddComponent(component)[pin] = location
}

// HasComponent reports whether the component has a pin table.
func (pm PinMap) HasComponent(component string) bool {
	_, ok := pm[component]
	return ok
}

// Lookup returns the location of a pin. The second result is false when the
// component or the pin is unknown.
func (pm PinMap) Lookup(component, pin string) (string, bool) {
	pins, ok := pm[component]
	if !ok {
		return "", false
	}
	loc, ok := pins[pin]
	return loc, ok
}

// Components returns the component references in sorted order.
func (pm PinMap) Components() []string {
	comps := make([]string, 0, len(pm))
	for c := range pm {
		comps = append(comps, c)
	}
	sort.Strings(comps)
	return comps
}

// Len returns the total number of mapped pins.
func (pm PinMap) Len() int {
	n := 0
	for _, pins := range pm {
		n += len(pins)
	}
	return n
}

// Merge copies every entry of other into pm. Mapping an already known pin to
// a different location is an error; identical duplicates are accepted.
func (pm PinMap) Merge(other PinMap) error {
	for _, comp := range other.Components() {
		pm.AddComponent(comp)
		for pin, loc := range other[comp] {
			if existing, ok := pm.Lookup(comp, pin); ok && existing != loc {
				return fmt.Errorf("%w: %s pin %s is %q and %q", ErrConflict, comp, pin, existing, loc)
			}
			pm.Set(comp, pin, loc)
		}
	}
	return nil
}

// Validate checks that no pin maps to an empty location.
func (pm PinMap) Validate() error {
	for _, comp := range pm.Components() {
		for pin, loc := range pm[comp] {
			if loc == "" {
				return fmt.Errorf("%w: %s pin %s", ErrEmptyLocation, comp, pin)
			}
		}
	}
	return nil
}
