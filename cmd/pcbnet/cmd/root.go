package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/pcbnet/internal/config"
	"github.com/OpenTraceLab/pcbnet/pkg/netlist"
)

// errOrphansFound makes the check exit with a non-zero status.
var errOrphansFound = errors.New("possible orphan nets found")

var (
	// Global flags
	verbose      bool
	configPath   string
	encodingName string

	// Root command flags
	outPath  string
	noChecks bool
	minPins  int

	// settings is the config file (or defaults) with flags applied.
	settings *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pcbnet [flags] <netlist-file>",
	Short: "PCB netlist parser, orphan checker and pin resolver",
	Long: `pcbnet reads a PCB netlist (net headers followed by component/pin lines),
checks it for under-connected nets and maps net names onto the physical
pins of a target package.

Without a subcommand the netlist is parsed, checked for orphan nets and
optionally written out as JSON. The exit status is 1 when orphans are found.

Examples:
  pcbnet board.net                                   # Parse and check for orphans
  pcbnet --no-checks --out board.json board.net      # Convert to JSON
  pcbnet pins --pinmap J1=conn.yaml board.net CLK    # Resolve a net to a pin
  pcbnet info board.net                              # Show netlist statistics`,
	Version:           "0.9.0",
	Args:              cobra.ExactArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runCheck,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		charmlog.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&encodingName, "encoding", "",
		"character set of the netlist file (IANA name, default UTF-8)")

	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "write the netlist as JSON to this file")
	rootCmd.Flags().BoolVar(&noChecks, "no-checks", false, "don't perform checks")
	rootCmd.Flags().IntVar(&minPins, "min-pins", netlist.DefaultMinPins,
		"nets with fewer connections are reported as orphans (at least 1)")
}

// setup creates the logger and resolves the settings for every command.
func setup(cmd *cobra.Command, args []string) error {
	level := charmlog.InfoLevel
	if verbose {
		level = charmlog.DebugLevel
	}
	logger := newLogger(cmd.ErrOrStderr(), level)
	cmd.SetContext(withLogger(cmd.Context(), logger))

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		logger.Debug("Loaded config", "path", configPath)
	}

	flags := cmd.Flags()
	if flags.Changed("min-pins") {
		cfg.MinPins = minPins
	}
	if flags.Changed("no-checks") {
		cfg.Checks = !noChecks
	}
	if flags.Changed("encoding") {
		cfg.Encoding = encodingName
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	settings = cfg
	return nil
}

func parseNetlist(cmd *cobra.Command, filename string) (*netlist.Netlist, error) {
	logger := loggerFromContext(cmd.Context())

	var opts []netlist.Option
	if settings.Encoding != "" {
		opts = append(opts, netlist.WithEncoding(settings.Encoding))
	}

	prog := newProgress(logger)
	nl, err := netlist.ParseFile(filename, opts...)
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Parsed %d nets from %s", nl.Len(), filename))
	return nl, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := loggerFromContext(cmd.Context())
	out := cmd.OutOrStdout()
	filename := args[0]

	fmt.Fprintf(out, "...Parsing %s...\n", filename)
	nl, err := parseNetlist(cmd, filename)
	if err != nil {
		return err
	}

	if settings.Checks {
		fmt.Fprintln(out, "###### Check Orphans ######")
		orphans := nl.CheckOrphans(settings.MinPins)
		if orphans.Len() > 0 {
			color.New(color.FgRed, color.Bold).Fprintln(out, "## Possible orphans:")
			printNets(out, orphans)
			return fmt.Errorf("%w: %d net(s) with fewer than %d connections",
				errOrphansFound, orphans.Len(), settings.MinPins)
		}
		color.New(color.FgGreen).Fprintln(out, "No orphans: OK")
	}

	if outPath != "" {
		data, err := nl.ExportJSON()
		if err != nil {
			return fmt.Errorf("failed to encode netlist: %w", err)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		logger.Info("Wrote netlist", "path", outPath, "nets", nl.Len())
	}

	return nil
}

// printNets lists nets as "NAME: COMP.PIN COMP.PIN".
func printNets(w io.Writer, nl *netlist.Netlist) {
	width := 0
	for _, n := range nl.Nets {
		if len(n.Name) > width {
			width = len(n.Name)
		}
	}
	for _, n := range nl.Nets {
		fmt.Fprintf(w, "  %-*s :", width, n.Name)
		for _, c := range n.Connections {
			fmt.Fprintf(w, " %s", c)
		}
		fmt.Fprintln(w)
	}
}
