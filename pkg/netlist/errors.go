package netlist

import (
	"errors"
	"fmt"
	"strings"
)

// Parse-time errors. These always abort parsing.
var (
	ErrMalformedFile = errors.New("malformed netlist")
	ErrDecode        = errors.New("file is not valid text, check for disallowed characters in field descriptions")
)

// Query-time errors. Each one can be suppressed through Policy.
var (
	ErrNetNotFound        = errors.New("net not found")
	ErrNetUnresolved      = errors.New("net has no associated pin")
	ErrPinNotMapped       = errors.New("pin not mapped")
	ErrMultiplePinsForNet = errors.New("net connected on multiple pads")
)

// ParseError reports where a netlist file failed to parse.
// Line is 1-based; zero means the error is not tied to a line.
type ParseError struct {
	Path   string
	Line   int
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("netlist: ")
	if e.Path != "" {
		b.WriteString(e.Path)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
		b.WriteString(": ")
	} else if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	b.WriteString(e.Err.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// QueryError reports why a net could not be resolved to a single location.
type QueryError struct {
	Net       string
	Component string // set for ErrPinNotMapped
	Pin       string // set for ErrPinNotMapped
	// Matches lists the connections that resolved, set for ErrMultiplePinsForNet.
	Matches []Connection
	Err     error
}

func (e *QueryError) Error() string {
	msg := fmt.Sprintf("netlist: net %s: %v", e.Net, e.Err)
	switch {
	case e.Component != "":
		msg += fmt.Sprintf(" (pin %s of %s)", e.Pin, e.Component)
	case len(e.Matches) > 0:
		parts := make([]string, len(e.Matches))
		for i, c := range e.Matches {
			parts[i] = c.String()
		}
		msg += " (" + strings.Join(parts, ", ") + ")"
	}
	return msg
}

func (e *QueryError) Unwrap() error { return e.Err }
