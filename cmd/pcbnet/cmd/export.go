package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <netlist-file>",
	Short: "Convert a netlist to JSON, MessagePack or KiCad format",
	Long: `Parse a netlist and write it in another format.

Formats:
  json     net name → array of {component: pin}, in file order
  msgpack  array of {name, connections} records
  kicad    KiCad S-expression netlist (connectivity only)

Examples:
  pcbnet export board.net                       # JSON to stdout
  pcbnet export -f kicad -o board.kicad.net board.net`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "output format: json, msgpack, kicad")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	logger := loggerFromContext(cmd.Context())

	nl, err := parseNetlist(cmd, args[0])
	if err != nil {
		return err
	}

	var data []byte
	switch exportFormat {
	case "json":
		data, err = nl.ExportJSON()
		data = append(data, '\n')
	case "msgpack":
		data, err = nl.ExportMsgpack()
	case "kicad":
		data = []byte(nl.ExportKiCad())
	default:
		return fmt.Errorf("unknown export format %q (want json, msgpack or kicad)", exportFormat)
	}
	if err != nil {
		return fmt.Errorf("failed to export netlist: %w", err)
	}

	if exportOut == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(exportOut, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOut, err)
	}
	logger.Info("Exported netlist", "format", exportFormat, "path", exportOut)
	return nil
}
