package pinmap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Format identifies the on-disk encoding of a pin map.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatBSDL Format = "bsdl"
)

// ErrUnknownFormat is returned when a format cannot be named or inferred.
var ErrUnknownFormat = errors.New("pinmap: unknown format")

// ParseFormat converts a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "bsdl", "bsd", "bsm":
		return FormatBSDL, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// DetectFormat infers the format from a file extension.
func DetectFormat(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Source describes one pin-map file.
//
// With an empty Component the file holds a full table
// (component → pin → location). With a Component set the file holds the pin
// table of that single component (pin → location). BSDL files always describe
// one device and therefore need a Component.
type Source struct {
	Component string
	Path      string
	Format    Format // inferred from Path when empty

	// BSDL only.
	Key     Key    // KeyPin when empty
	Package string // overrides the PHYSICAL_PIN_MAP default
}

// ParseSource parses the command-line form "[COMPONENT=]PATH".
func ParseSource(spec string) (Source, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Source{}, fmt.Errorf("pinmap: empty source")
	}
	comp, path, found := strings.Cut(spec, "=")
	if !found {
		return Source{Path: spec}, nil
	}
	if comp == "" || path == "" {
		return Source{}, fmt.Errorf("pinmap: invalid source %q, want [COMPONENT=]PATH", spec)
	}
	return Source{Component: comp, Path: path}, nil
}

func (s Source) format() (Format, error) {
	if s.Format != "" {
		return ParseFormat(string(s.Format))
	}
	return DetectFormat(s.Path)
}

// Load reads one source.
func Load(src Source) (PinMap, error) {
	format, err := src.format()
	if err != nil {
		return nil, err
	}

	if format == FormatBSDL {
		if src.Component == "" {
			return nil, fmt.Errorf("pinmap: %s: BSDL pin maps need a component reference", src.Path)
		}
		f, err := os.Open(src.Path)
		if err != nil {
			return nil, fmt.Errorf("pinmap: failed to open file: %w", err)
		}
		defer f.Close()

		dev, err := ReadBSDL(src.Path, f)
		if err != nil {
			return nil, err
		}
		return dev.PinMap(src.Component, src.Package, src.Key)
	}

	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("pinmap: failed to read file: %w", err)
	}
	pm, err := decodeTable(format, data, src.Component)
	if err != nil {
		return nil, fmt.Errorf("pinmap: %s: %w", src.Path, err)
	}
	if err := pm.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", src.Path, err)
	}
	return pm, nil
}

// LoadAll reads all sources concurrently and merges them in the given order.
func LoadAll(ctx context.Context, srcs []Source) (PinMap, error) {
	tables := make([]PinMap, len(srcs))

	g, ctx := errgroup.WithContext(ctx)
	for i, src := range srcs {
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pm, err := Load(src)
			if err != nil {
				return err
			}
			tables[i] = pm
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := New()
	for i, pm := range tables {
		if err := merged.Merge(pm); err != nil {
			return nil, fmt.Errorf("%s: %w", srcs[i].Path, err)
		}
	}
	return merged, nil
}

func decodeTable(format Format, data []byte, component string) (PinMap, error) {
	if component != "" {
		var pins map[string]string
		if err := unmarshal(format, data, &pins); err != nil {
			return nil, err
		}
		pm := New()
		pm.AddComponent(component)
		for pin, loc := range pins {
			pm.Set(component, pin, loc)
		}
		return pm, nil
	}

	var table map[string]map[string]string
	if err := unmarshal(format, data, &table); err != nil {
		return nil, err
	}
	pm := New()
	for comp, pins := range table {
		pm.AddComponent(comp)
		for pin, loc := range pins {
			pm.Set(comp, pin, loc)
		}
	}
	return pm, nil
}

func unmarshal(format Format, data []byte, v any) error {
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, v)
	case FormatYAML:
		err = yaml.Unmarshal(data, v)
	case FormatTOML:
		err = toml.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", format, err)
	}
	return nil
}
