package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	showNets bool
	topNets  int
)

var infoCmd = &cobra.Command{
	Use:   "info <netlist-file>",
	Short: "Show statistics about a netlist",
	Long: `Parse a netlist and display net, connection and component counts,
the components it references and its largest nets.

Examples:
  pcbnet info board.net
  pcbnet info --nets board.net
  pcbnet info --top 20 board.net`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVarP(&showNets, "nets", "n", false, "list every net")
	infoCmd.Flags().IntVarP(&topNets, "top", "t", 5, "number of largest nets to show")
}

func runInfo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	nl, err := parseNetlist(cmd, args[0])
	if err != nil {
		return err
	}
	stats := nl.Stats()

	fmt.Fprintf(out, "╔════════════════════════════════════════════════════════════════╗\n")
	fmt.Fprintf(out, "║ Netlist Information                                            ║\n")
	fmt.Fprintf(out, "╠════════════════════════════════════════════════════════════════╣\n")
	fmt.Fprintf(out, "║ File: %-56s ║\n", args[0])
	fmt.Fprintf(out, "╚════════════════════════════════════════════════════════════════╝\n\n")

	fmt.Fprintf(out, "Nets:        %d (%d empty, %d no-connect)\n", stats.Nets, stats.EmptyNets, stats.NoConnectNets)
	fmt.Fprintf(out, "Connections: %d\n", stats.Connections)
	fmt.Fprintf(out, "Components:  %d\n", stats.Components)

	comps := nl.Components()
	if verbose || len(comps) <= 20 {
		fmt.Fprintf(out, "  %s\n", strings.Join(comps, " "))
	} else {
		fmt.Fprintf(out, "  %s ... and %d more\n", strings.Join(comps[:20], " "), len(comps)-20)
	}
	fmt.Fprintln(out)

	if topNets > 0 && nl.Len() > 0 {
		fmt.Fprintf(out, "Largest nets:\n")
		for _, n := range nl.LargestNets(topNets) {
			fmt.Fprintf(out, "  %-24s %4d\n", n.Name, len(n.Connections))
		}
		fmt.Fprintln(out)
	}

	if showNets {
		fmt.Fprintf(out, "Nets:\n")
		printNets(out, nl)
	}

	return nil
}
