// Package netlist parses PCB netlist text files and answers connectivity
// queries against them.
//
// A netlist file lists every signal net of a board together with the
// component pins the net touches. This package reads the file into an
// ordered, read-only Netlist and provides two queries on top of it:
// resolving net names to physical pin locations of a target component, and
// flagging under-connected ("orphan") nets.
//
// # File Format
//
// The format is line oriented and whitespace tokenized:
//
//	Wire List
//	  NODE  REFERENCE  PIN #
//	  [00001] CLK_100M
//	        U1     A3
//	        U2     B7
//
//	  [00002] NC_GND_1
//	        J1     4
//
// Everything before the first line containing NODE is preamble. A line
// containing '[' starts a net; its second token is the net name. The lines
// that follow each hold a component reference and a pin id, until a line of
// at most four characters (after trimming) closes the block. Inside a block
// only a line that begins with '[' opens the next net, so pin ids like A[3]
// are read as connections.
//
// # Usage
//
//	nl, err := netlist.ParseFile("board.net")
//	if err != nil {
//		return err
//	}
//
//	// Orphan check before anything else
//	if orphans := nl.CheckOrphans(netlist.DefaultMinPins); orphans.Len() > 0 {
//		return fmt.Errorf("%d orphan nets", orphans.Len())
//	}
//
//	// Map the connector pins of J1 onto FPGA balls
//	pm := pinmap.PinMap{"J1": {"1": "P14", "2": "R3"}}
//	balls, err := nl.FindPins([]string{"CLK_100M", "LED0"}, pm, netlist.DefaultPolicy())
//
// # Errors
//
// Parse failures are *ParseError values wrapping ErrMalformedFile or
// ErrDecode. Query failures are *QueryError values wrapping ErrNetNotFound,
// ErrNetUnresolved, ErrPinNotMapped or ErrMultiplePinsForNet. Test for the
// kind with errors.Is.
//
// # Export Formats
//
//   - JSON: net name → array of {component: pin} objects, in file order
//   - MessagePack: array of {name, connections} records
//   - KiCad: S-expression netlist with components and nets
package netlist
