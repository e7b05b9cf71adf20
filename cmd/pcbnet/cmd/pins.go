package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/pcbnet/pkg/pinmap"
)

var (
	pinMapSpecs   []string
	ignoreMissing bool
	allowMultiple bool
)

var pinsCmd = &cobra.Command{
	Use:   "pins <netlist-file> <net>...",
	Short: "Resolve net names to physical pin locations",
	Long: `Resolve each net to the location of its connection on a mapped component
and print the locations separated by spaces, in the order the nets were given.

Pin maps are given with --pinmap [COMPONENT=]PATH (repeatable) or in the
pinmaps section of the config file. Without COMPONENT the file holds a full
table (component → pin → location); with it, the pin table of that
component. BSDL files (.bsd, .bsdl) always need a COMPONENT.

Examples:
  pcbnet pins --pinmap conn.yaml board.net CLK_100M LED0 LED1
  pcbnet pins --pinmap U1=xc7a35t_ftg256.bsd board.net CLK_100M
  pcbnet pins --ignore-missing --allow-multiple -c pcbnet.yaml board.net LED0`,
	Args: cobra.MinimumNArgs(2),
	RunE: runPins,
}

func init() {
	rootCmd.AddCommand(pinsCmd)

	pinsCmd.Flags().StringArrayVarP(&pinMapSpecs, "pinmap", "m", nil,
		"pin map source [COMPONENT=]PATH (repeatable)")
	pinsCmd.Flags().BoolVar(&ignoreMissing, "ignore-missing", false,
		"skip unknown nets, unmapped pins and unresolved nets")
	pinsCmd.Flags().BoolVar(&allowMultiple, "allow-multiple", false,
		"keep the first location when a net lands on several mapped pins")
}

func runPins(cmd *cobra.Command, args []string) error {
	logger := loggerFromContext(cmd.Context())

	nl, err := parseNetlist(cmd, args[0])
	if err != nil {
		return err
	}

	srcs := settings.Sources()
	for _, spec := range pinMapSpecs {
		src, err := pinmap.ParseSource(spec)
		if err != nil {
			return err
		}
		srcs = append(srcs, src)
	}
	if len(srcs) == 0 {
		return errors.New("no pin map given, use --pinmap or a config file")
	}

	pm, err := pinmap.LoadAll(cmd.Context(), srcs)
	if err != nil {
		return err
	}
	logger.Debug("Loaded pin map", "sources", len(srcs), "components", len(pm), "pins", pm.Len())

	policy := settings.NetlistPolicy()
	if ignoreMissing {
		policy.ErrOnMissing = false
	}
	if allowMultiple {
		policy.ErrOnMultiple = false
	}

	result, err := nl.FindPins(args[1:], pm, policy)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}
