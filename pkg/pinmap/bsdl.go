package pinmap

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/OpenTraceLab/pcbnet/pkg/bsdl"
)

// Key selects which side of a BSDL PIN_MAP_STRING keys the resulting table.
type Key string

const (
	// KeyPin keys the table by package pin, mapping each pin to itself. Use it
	// when the netlist lists the device by ball or pad names.
	KeyPin Key = "pin"

	// KeyPort keys the table by port name, mapping each port to its pin.
	// Vector ports expand to NAME(0), NAME(1), ...
	KeyPort Key = "port"
)

// ErrNoPinMap is returned when a BSDL file has no usable PIN_MAP_STRING.
var ErrNoPinMap = errors.New("pinmap: no PIN_MAP_STRING")

// pinMapLexer tokenizes the body of a PIN_MAP_STRING once the string
// fragments have been concatenated.
var pinMapLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[a-zA-Z0-9_]+`},
	{Name: "Punct", Pattern: `[:,()]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// pinMapBody is the grammar of a PIN_MAP_STRING:
//
//	CLK : P14, LED : (A3, B4), TCK : C1
type pinMapBody struct {
	Entries []*PortPins `@@ ( "," @@ )*`
}

// PortPins is one entry of a PIN_MAP_STRING. Scalar ports carry one pin;
// vector ports list one pin per element.
type PortPins struct {
	Port string   `@Ident ":"`
	Pins []string `( @Ident | "(" @Ident ( "," @Ident )* ")" )`
}

var pinMapParser = participle.MustBuild[pinMapBody](
	participle.Lexer(pinMapLexer),
	participle.Elide("Whitespace"),
)

var bsdlParser = sync.OnceValues(bsdl.NewParser)

// PackageMap is one PIN_MAP_STRING constant of a BSDL file.
type PackageMap struct {
	Name    string
	Entries []*PortPins
}

// Device is the pin-map content of a BSDL file.
type Device struct {
	Entity         string
	DefaultPackage string // default value of the PHYSICAL_PIN_MAP generic
	Packages       []*PackageMap
}

// ReadBSDL parses a BSDL file and extracts the entity name, the
// PHYSICAL_PIN_MAP default and every PIN_MAP_STRING constant.
func ReadBSDL(filename string, r io.Reader) (*Device, error) {
	parser, err := bsdlParser()
	if err != nil {
		return nil, err
	}
	file, err := parser.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("pinmap: %s: %w", filename, err)
	}
	dev, err := deviceFromEntity(file.Entity)
	if err != nil {
		return nil, fmt.Errorf("pinmap: %s: %w", filename, err)
	}
	return dev, nil
}

func deviceFromEntity(e *bsdl.Entity) (*Device, error) {
	dev := &Device{Entity: e.Name}
	dev.DefaultPackage, _ = e.GenericDefault("PHYSICAL_PIN_MAP")

	for _, c := range e.Constants("PIN_MAP_STRING") {
		entries, err := ParsePinMapString(c.Value.Concat())
		if err != nil {
			return nil, fmt.Errorf("constant %s: %w", c.Name, err)
		}
		dev.Packages = append(dev.Packages, &PackageMap{Name: c.Name, Entries: entries})
	}
	if len(dev.Packages) == 0 {
		return nil, ErrNoPinMap
	}
	return dev, nil
}

// ParsePinMapString parses the concatenated body of a PIN_MAP_STRING.
func ParsePinMapString(body string) ([]*PortPins, error) {
	body = strings.TrimRight(strings.TrimSpace(body), ", \t\r\n")
	if body == "" {
		return nil, fmt.Errorf("%w: empty string", ErrNoPinMap)
	}
	parsed, err := pinMapParser.ParseString("", body)
	if err != nil {
		return nil, fmt.Errorf("invalid PIN_MAP_STRING: %w", err)
	}
	return parsed.Entries, nil
}

// Package returns the named package map, or the default one when name is
// empty. A file with a single PIN_MAP_STRING needs no name.
func (d *Device) Package(name string) (*PackageMap, error) {
	if name == "" {
		name = d.DefaultPackage
	}
	if name == "" {
		if len(d.Packages) == 1 {
			return d.Packages[0], nil
		}
		if len(d.Packages) == 0 {
			return nil, fmt.Errorf("%w in entity %s", ErrNoPinMap, d.Entity)
		}
		return nil, fmt.Errorf("pinmap: entity %s has %d packages, choose one", d.Entity, len(d.Packages))
	}
	for _, p := range d.Packages {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: package %s not found in entity %s", ErrNoPinMap, name, d.Entity)
}

// PinMap builds the table for component from the selected package.
func (d *Device) PinMap(component, pkg string, key Key) (PinMap, error) {
	p, err := d.Package(pkg)
	if err != nil {
		return nil, err
	}

	pm := New()
	pm.AddComponent(component)
	for _, e := range p.Entries {
		for i, pin := range e.Pins {
			switch key {
			case KeyPort:
				port := e.Port
				if len(e.Pins) > 1 {
					port = fmt.Sprintf("%s(%d)", e.Port, i)
				}
				pm.Set(component, port, pin)
			case KeyPin, "":
				pm.Set(component, pin, pin)
			default:
				return nil, fmt.Errorf("pinmap: unknown key %q", key)
			}
		}
	}
	return pm, nil
}
