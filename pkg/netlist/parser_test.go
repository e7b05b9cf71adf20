package netlist

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/encoding/unicode"
)

const sampleNetlist = `Wire List

<<< Component List >>>
  [ignored before the marker]

<<< Wire List >>>

  NODE  REFERENCE  PIN #

  [00001] CLK_100M
        U1     A3
        U2     B7

  [00002] NC_GND_1
        J1     4

  [00003] SPARE_SIG
        J1     5

  [00004] LED0
        U1     C2
        J1     1
        U1     C2
`

func mustParse(t *testing.T, input string, opts ...Option) *Netlist {
	t.Helper()
	nl, err := ParseString(input, opts...)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	return nl
}

func TestParseSample(t *testing.T) {
	nl := mustParse(t, sampleNetlist)

	wantNames := []string{"CLK_100M", "NC_GND_1", "SPARE_SIG", "LED0"}
	if diff := cmp.Diff(wantNames, nl.Names()); diff != "" {
		t.Errorf("net names mismatch (-want +got):\n%s", diff)
	}

	clk, ok := nl.Net("CLK_100M")
	if !ok {
		t.Fatal("CLK_100M not found")
	}
	want := []Connection{{"U1", "A3"}, {"U2", "B7"}}
	if diff := cmp.Diff(want, clk.Connections); diff != "" {
		t.Errorf("CLK_100M connections mismatch (-want +got):\n%s", diff)
	}

	// Duplicates are kept, in file order
	led, _ := nl.Net("LED0")
	want = []Connection{{"U1", "C2"}, {"J1", "1"}, {"U1", "C2"}}
	if diff := cmp.Diff(want, led.Connections); diff != "" {
		t.Errorf("LED0 connections mismatch (-want +got):\n%s", diff)
	}

	if _, ok := nl.Net("ignored"); ok {
		t.Error("net header before the NODE marker should be ignored")
	}
}

func TestParseIsIdempotent(t *testing.T) {
	a := mustParse(t, sampleNetlist)
	b := mustParse(t, sampleNetlist)

	if diff := cmp.Diff(a, b, cmp.AllowUnexported(Netlist{})); diff != "" {
		t.Errorf("two parses differ (-first +second):\n%s", diff)
	}
}

func TestParseBlockTermination(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string][]Connection
	}{
		{
			name:  "blank line ends block",
			input: "NODE\n[1] A\nU1 A1\n\nnot a connection line\n[2] B\nU2 B2\n",
			want: map[string][]Connection{
				"A": {{"U1", "A1"}},
				"B": {{"U2", "B2"}},
			},
		},
		{
			name:  "four characters end block",
			input: "NODE\n[1] A\nU1 A1\n  abcd  \nextra words here\n",
			want: map[string][]Connection{
				"A": {{"U1", "A1"}},
			},
		},
		{
			name:  "five characters are a connection",
			input: "NODE\n[1] A\nU1 12\n",
			want: map[string][]Connection{
				"A": {{"U1", "12"}},
			},
		},
		{
			name:  "header inside block starts next net",
			input: "NODE\n[1] A\nU1 A1\n[2] B\nU2 B2\n",
			want: map[string][]Connection{
				"A": {{"U1", "A1"}},
				"B": {{"U2", "B2"}},
			},
		},
		{
			name:  "bracket inside a pin id is a connection",
			input: "NODE\n[1] DATA\nU1 A[3]\nU2 B7\n",
			want: map[string][]Connection{
				"DATA": {{"U1", "A[3]"}, {"U2", "B7"}},
			},
		},
		{
			name:  "bracketed component reference is a connection",
			input: "NODE\n  [1] BUS\n    RN1[2]  4\n    U1      C9\n",
			want: map[string][]Connection{
				"BUS": {{"RN1[2]", "4"}, {"U1", "C9"}},
			},
		},
		{
			name:  "empty net is kept",
			input: "NODE\n[1] A\n\n[2] B\nU2 B2\n",
			want: map[string][]Connection{
				"A": nil,
				"B": {{"U2", "B2"}},
			},
		},
		{
			name:  "CRLF line endings",
			input: "NODE\r\n[1] A\r\nU1 A1\r\n\r\n",
			want: map[string][]Connection{
				"A": {{"U1", "A1"}},
			},
		},
		{
			name:  "no nets after marker",
			input: "header\nNODE REFERENCE\n",
			want:  map[string][]Connection{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nl := mustParse(t, tt.input)
			got := make(map[string][]Connection, nl.Len())
			for _, n := range nl.Nets {
				got[n.Name] = n.Connections
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("nets mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
		wantText string
	}{
		{
			name:     "no marker",
			input:    "[1] A\nU1 A1\n",
			wantText: "no NODE marker",
		},
		{
			name:     "empty input",
			input:    "",
			wantText: "no NODE marker",
		},
		{
			name:     "three fields",
			input:    "NODE\n[1] A\nU1 A1 extra\n",
			wantLine: 3,
			wantText: "got 3 fields",
		},
		{
			name:     "single field",
			input:    "NODE\n[1] A\nU1_ALONE\n",
			wantLine: 3,
			wantText: "got 1 fields",
		},
		{
			name:     "header without name",
			input:    "NODE\n[00001]\n",
			wantLine: 2,
			wantText: "without a name",
		},
		{
			name:     "duplicate net",
			input:    "NODE\n[1] A\nU1 A1\n\n[2] A\nU2 B2\n",
			wantLine: 5,
			wantText: "duplicate net A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			if !errors.Is(err, ErrMalformedFile) {
				t.Fatalf("expected ErrMalformedFile, got %v", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if pe.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", pe.Line, tt.wantLine)
			}
			if !strings.Contains(err.Error(), tt.wantText) {
				t.Errorf("error %q does not mention %q", err, tt.wantText)
			}
		})
	}
}

func TestParseDecodeError(t *testing.T) {
	input := "NODE\n[1] SIG\xff\xfe\x00BAD\nU1 A1\n"

	_, err := ParseString(input)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if !strings.Contains(err.Error(), "check for disallowed characters") {
		t.Errorf("error should be descriptive, got %q", err)
	}
}

func TestParseByteOrderMarks(t *testing.T) {
	t.Run("utf-8", func(t *testing.T) {
		nl := mustParse(t, "\xef\xbb\xbfNODE\n[1] A\nU1 A1\n")
		if nl.Len() != 1 {
			t.Errorf("expected 1 net, got %d", nl.Len())
		}
	})

	t.Run("utf-16le", func(t *testing.T) {
		enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
		encoded, err := enc.String(sampleNetlist)
		if err != nil {
			t.Fatalf("failed to encode: %v", err)
		}
		got := mustParse(t, encoded)
		want := mustParse(t, sampleNetlist)
		if diff := cmp.Diff(want.Nets, got.Nets); diff != "" {
			t.Errorf("UTF-16 parse differs (-utf8 +utf16):\n%s", diff)
		}
	})
}

func TestParseWithEncoding(t *testing.T) {
	input := "NODE\n[1] V\xb5\nU1 A1\n"

	if _, err := ParseString(input); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode without an encoding, got %v", err)
	}

	nl := mustParse(t, input, WithEncoding("windows-1252"))
	if _, ok := nl.Net("Vµ"); !ok {
		t.Errorf("expected net Vµ, got %v", nl.Names())
	}

	if _, err := ParseString(input, WithEncoding("no-such-charset")); !errors.Is(err, ErrDecode) {
		t.Errorf("unknown encoding should fail with ErrDecode, got %v", err)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.net")
	if err := os.WriteFile(path, []byte(sampleNetlist), 0o644); err != nil {
		t.Fatalf("failed to write netlist: %v", err)
	}

	nl, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if nl.Path != path {
		t.Errorf("Path = %q, want %q", nl.Path, path)
	}
	if nl.Len() != 4 {
		t.Errorf("expected 4 nets, got %d", nl.Len())
	}

	bad := filepath.Join(t.TempDir(), "bad.net")
	if err := os.WriteFile(bad, []byte("NODE\n[1] A\nU1_ALONE\n"), 0o644); err != nil {
		t.Fatalf("failed to write netlist: %v", err)
	}
	_, err = ParseFile(bad)
	if err == nil || !strings.Contains(err.Error(), bad+":3") {
		t.Errorf("error should carry path and line, got %v", err)
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.net")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseStateString(t *testing.T) {
	if got := insideNetBlock.String(); got != "inside net block" {
		t.Errorf("String() = %q", got)
	}
}
