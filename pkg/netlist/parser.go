package netlist

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	// sectionMarker starts the net section; everything before it is preamble.
	sectionMarker = "NODE"

	// netMarker identifies a net header line.
	netMarker = "["

	// Lines with at most this many characters after trimming end a net block.
	blockTerminatorLen = 4
)

// parseState is the position of the line scanner within the file.
type parseState int

const (
	seekingSectionStart parseState = iota
	outsideNet
	insideNetBlock
)

func (s parseState) String() string {
	switch s {
	case seekingSectionStart:
		return "seeking section start"
	case outsideNet:
		return "outside net"
	case insideNetBlock:
		return "inside net block"
	default:
		return fmt.Sprintf("parseState(%d)", int(s))
	}
}

// Option configures Parse.
type Option func(*options)

type options struct {
	encoding string
}

// WithEncoding decodes the file from a legacy character set given by its IANA
// name (for example "windows-1252" or "ISO-8859-1") instead of UTF-8.
func WithEncoding(name string) Option {
	return func(o *options) {
		o.encoding = name
	}
}

// ParseFile reads and parses a netlist file.
func ParseFile(path string, opts ...Option) (*Netlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read netlist: %w", err)
	}
	return parse(path, data, opts)
}

// Parse reads a netlist from r.
func Parse(r io.Reader, opts ...Option) (*Netlist, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read netlist: %w", err)
	}
	return parse("", data, opts)
}

// ParseString parses a netlist held in memory.
func ParseString(s string, opts ...Option) (*Netlist, error) {
	return parse("", []byte(s), opts)
}

func parse(path string, data []byte, opts []Option) (*Netlist, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	text, err := decode(data, o.encoding)
	if err != nil {
		return nil, &ParseError{Path: path, Err: ErrDecode, Detail: err.Error()}
	}

	p := &lineParser{nl: newNetlist(path)}
	for _, line := range strings.Split(text, "\n") {
		if err := p.feed(strings.TrimRight(line, "\r")); err != nil {
			return nil, err
		}
	}
	if err := p.finish(); err != nil {
		return nil, err
	}
	return p.nl, nil
}

// decode turns raw file bytes into UTF-8 text. A byte order mark selects
// UTF-8 or UTF-16; otherwise the named encoding is used, or UTF-8 when none
// is named.
func decode(data []byte, name string) (string, error) {
	var fallback transform.Transformer = transform.Nop
	if name != "" {
		enc, err := lookupEncoding(name)
		if err != nil {
			return "", err
		}
		fallback = enc.NewDecoder()
	}

	out, _, err := transform.Bytes(unicode.BOMOverride(fallback), data)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(out) {
		return "", fmt.Errorf("invalid UTF-8 sequence")
	}
	return string(out), nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

// lineParser is the line state machine:
//
//	seekingSectionStart --NODE--> outsideNet --[--> insideNetBlock
//	insideNetBlock --short line--> outsideNet
//	insideNetBlock --leading [--> insideNetBlock (next net)
type lineParser struct {
	nl      *Netlist
	state   parseState
	line    int
	current *Net
}

func (p *lineParser) feed(line string) error {
	p.line++

	switch p.state {
	case seekingSectionStart:
		if strings.Contains(line, sectionMarker) {
			p.state = outsideNet
		}
		return nil

	case outsideNet:
		if strings.Contains(line, netMarker) {
			return p.startNet(line)
		}
		return nil

	case insideNetBlock:
		trimmed := strings.TrimSpace(line)
		if utf8.RuneCountInString(trimmed) <= blockTerminatorLen {
			p.current = nil
			p.state = outsideNet
			return nil
		}
		// Only a leading '[' opens the next net; pin ids such as A[3] are
		// ordinary connection fields.
		if strings.HasPrefix(trimmed, netMarker) {
			return p.startNet(trimmed)
		}

		fields := strings.Fields(trimmed)
		if len(fields) != 2 {
			return p.malformed("net %s: expected component and pin, got %d fields", p.current.Name, len(fields))
		}
		p.current.Connections = append(p.current.Connections, Connection{
			Component: fields[0],
			Pin:       fields[1],
		})
		return nil
	}

	return fmt.Errorf("netlist: invalid parser state %v", p.state)
}

func (p *lineParser) startNet(line string) error {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return p.malformed("net header without a name")
	}

	net := &Net{Name: fields[1]}
	if err := p.nl.add(net); err != nil {
		return p.malformed("%v", err)
	}
	p.current = net
	p.state = insideNetBlock
	return nil
}

func (p *lineParser) finish() error {
	if p.state == seekingSectionStart {
		return &ParseError{
			Path:   p.nl.Path,
			Err:    ErrMalformedFile,
			Detail: "no " + sectionMarker + " marker",
		}
	}
	return nil
}

func (p *lineParser) malformed(format string, args ...any) error {
	return &ParseError{
		Path:   p.nl.Path,
		Line:   p.line,
		Err:    ErrMalformedFile,
		Detail: fmt.Sprintf(format, args...),
	}
}
