// Package bsdl parses the entity declaration of BSDL (IEEE 1149.1) files:
// generics, ports, use clauses, attributes and constants.
package bsdl

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

// Parser parses BSDL files. It is safe for concurrent use.
type Parser struct {
	parser *participle.Parser[File]
}

// NewParser builds the BSDL grammar.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[File](
		participle.Lexer(bsdlLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse parses a BSDL file from r. filename is only used in error positions.
func (p *Parser) Parse(filename string, r io.Reader) (*File, error) {
	f, err := p.parser.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return f, nil
}

// ParseString parses a BSDL file held in memory.
func (p *Parser) ParseString(filename, input string) (*File, error) {
	f, err := p.parser.ParseString(filename, input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return f, nil
}

// ParseFile parses a BSDL file from disk.
func (p *Parser) ParseFile(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(path, file)
}
