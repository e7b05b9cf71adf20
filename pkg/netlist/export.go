package netlist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// MarshalJSON encodes a connection as a single-key object {component: pin}.
func (c Connection) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{c.Component: c.Pin})
}

// MarshalJSON encodes the netlist as an object keyed by net name, in file
// order. Each value is the array of the net's connections, duplicates
// included:
//
//	{"CLK_100M": [{"U1": "A3"}, {"U2": "B7"}]}
func (nl *Netlist) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, n := range nl.Nets {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(n.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		conns := n.Connections
		if conns == nil {
			conns = []Connection{}
		}
		val, err := json.Marshal(conns)
		if err != nil {
			return nil, fmt.Errorf("net %s: %w", n.Name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ExportJSON returns the indented JSON encoding of the netlist.
func (nl *Netlist) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(nl, "", "  ")
}

// ExportMsgpack encodes the nets as a MessagePack array of
// {name, connections} records.
func (nl *Netlist) ExportMsgpack() ([]byte, error) {
	nets := nl.Nets
	if nets == nil {
		nets = []*Net{}
	}
	data, err := msgpack.Marshal(nets)
	if err != nil {
		return nil, fmt.Errorf("netlist: msgpack encode failed: %w", err)
	}
	return data, nil
}

// DecodeMsgpack reads nets written by ExportMsgpack.
func DecodeMsgpack(data []byte) (*Netlist, error) {
	var nets []*Net
	if err := msgpack.Unmarshal(data, &nets); err != nil {
		return nil, fmt.Errorf("netlist: msgpack decode failed: %w", err)
	}
	nl := newNetlist("")
	for _, n := range nets {
		if err := nl.add(n); err != nil {
			return nil, fmt.Errorf("netlist: %w", err)
		}
	}
	return nl, nil
}

// ExportKiCad writes the netlist in KiCad's S-expression netlist format.
// Only connectivity is emitted: components carry just their reference.
func (nl *Netlist) ExportKiCad() string {
	var b strings.Builder

	b.WriteString("(export (version \"E\")\n")
	b.WriteString("  (design\n")
	if nl.Path != "" {
		fmt.Fprintf(&b, "    (source %s)\n", strconv.Quote(nl.Path))
	}
	b.WriteString("    (tool \"pcbnet\")\n")
	b.WriteString("  )\n")

	b.WriteString("  (components\n")
	for _, ref := range nl.Components() {
		fmt.Fprintf(&b, "    (comp (ref %s))\n", strconv.Quote(ref))
	}
	b.WriteString("  )\n")

	b.WriteString("  (nets\n")
	for i, n := range nl.Nets {
		fmt.Fprintf(&b, "    (net (code \"%d\") (name %s)\n", i+1, strconv.Quote(n.Name))
		for _, c := range n.Connections {
			fmt.Fprintf(&b, "      (node (ref %s) (pin %s))\n", strconv.Quote(c.Component), strconv.Quote(c.Pin))
		}
		b.WriteString("    )\n")
	}
	b.WriteString("  )\n")
	b.WriteString(")\n")

	return b.String()
}
