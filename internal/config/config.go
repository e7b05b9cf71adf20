// Package config loads the optional YAML configuration of the pcbnet CLI.
package config

import (
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/pcbnet/pkg/netlist"
	"github.com/OpenTraceLab/pcbnet/pkg/pinmap"
)

// Config is the content of a pcbnet configuration file.
//
//	min_pins: 2
//	checks: true
//	encoding: windows-1252
//	policy:
//	  err_on_missing: true
//	  err_on_multiple: false
//	pinmaps:
//	  - path: connectors.yaml
//	  - component: U1
//	    path: xc7a35t_ftg256.bsd
//	    key: pin
type Config struct {
	MinPins  int            `yaml:"min_pins"`
	Checks   bool           `yaml:"checks"`
	Encoding string         `yaml:"encoding"`
	Policy   PolicyConfig   `yaml:"policy"`
	PinMaps  []PinMapConfig `yaml:"pinmaps"`
}

// PolicyConfig mirrors netlist.Policy.
type PolicyConfig struct {
	ErrOnMissing  bool `yaml:"err_on_missing"`
	ErrOnMultiple bool `yaml:"err_on_multiple"`
}

// PinMapConfig describes one pin-map source.
type PinMapConfig struct {
	Component string `yaml:"component"`
	Path      string `yaml:"path"`
	Format    string `yaml:"format"`
	Key       string `yaml:"key"`
	Package   string `yaml:"package"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		MinPins: netlist.DefaultMinPins,
		Checks:  true,
		Policy: PolicyConfig{
			ErrOnMissing:  true,
			ErrOnMultiple: true,
		},
	}
}

// Load reads a YAML file over the defaults. Environment variables in the
// file are expanded before decoding.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MinPins, validation.Min(1)),
		validation.Field(&c.PinMaps),
	)
}

// Validate validates one pin-map entry.
func (p PinMapConfig) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Path, validation.Required),
		validation.Field(&p.Format, validation.In("json", "yaml", "yml", "toml", "bsdl", "bsd", "bsm")),
		validation.Field(&p.Key, validation.In(string(pinmap.KeyPin), string(pinmap.KeyPort))),
		validation.Field(&p.Component, validation.When(p.isBSDL(), validation.Required)),
	)
}

func (p PinMapConfig) isBSDL() bool {
	if p.Format != "" {
		f, err := pinmap.ParseFormat(p.Format)
		return err == nil && f == pinmap.FormatBSDL
	}
	f, err := pinmap.DetectFormat(p.Path)
	return err == nil && f == pinmap.FormatBSDL
}

// Sources converts the pin-map entries for pinmap.LoadAll.
func (c *Config) Sources() []pinmap.Source {
	srcs := make([]pinmap.Source, len(c.PinMaps))
	for i, p := range c.PinMaps {
		srcs[i] = pinmap.Source{
			Component: p.Component,
			Path:      p.Path,
			Format:    pinmap.Format(p.Format),
			Key:       pinmap.Key(p.Key),
			Package:   p.Package,
		}
	}
	return srcs
}

// NetlistPolicy returns the query policy.
func (c *Config) NetlistPolicy() netlist.Policy {
	return netlist.Policy{
		ErrOnMissing:  c.Policy.ErrOnMissing,
		ErrOnMultiple: c.Policy.ErrOnMultiple,
	}
}
