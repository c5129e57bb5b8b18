package cmd

import (
	"github.com/spf13/cobra"

	"github.com/daedaleanai/brammap/internal/netlist"
	"github.com/daedaleanai/brammap/internal/pass"
	"github.com/daedaleanai/brammap/internal/rules"
	"github.com/daedaleanai/brammap/log"
)

var (
	mapRulesPath string
	mapSelect    []string
	mapOutput    string
)

var mapCmd = &cobra.Command{
	Use:   "map <netlist.json>",
	Args:  cobra.ExactArgs(1),
	Short: "Maps generic memories in a netlist onto bram primitives",
	Long: `Reads a netlist database, maps every generic memory cell in the selected
modules onto a bram primitive chosen by the rules file, and writes the
result back out.

Rules file grammar (one statement per line, "#" starts a comment):

  bram <name>
    init|abits|dbits|groups <int>
    ports|wrmode|enable|transp|clocks|clkpol <int> [<int>...]
  endbram

  match <name>
    min|max <property> <int>
  endmatch

Properties: words, bits, abits, dbits, ports, wports, rports,
awaste, dwaste, waste.`,
	Run: runMap,
}

func init() {
	mapCmd.Flags().StringVar(&mapRulesPath, "rules", "", "path to the rules file (required)")
	mapCmd.Flags().StringSliceVar(&mapSelect, "select", nil, "module names to process (default: all)")
	mapCmd.Flags().StringVarP(&mapOutput, "output", "o", "", "output netlist path (default: overwrite input)")
	mapCmd.MarkFlagRequired("rules")
	rootCmd.AddCommand(mapCmd)
}

func runMap(cmd *cobra.Command, args []string) {
	lib, err := rules.Parse(mapRulesPath)
	if err != nil {
		log.Fatal("Failed to load rules file: %s.\n", err)
	}
	if err := lib.Validate(); err != nil {
		log.Fatal("Invalid rules file: %s.\n", err)
	}

	design, order, err := netlist.LoadDesign(args[0])
	if err != nil {
		log.Fatal("Failed to load netlist: %s.\n", err)
	}

	if len(mapSelect) > 0 {
		order = mapSelect
	}

	if err := pass.Run(lib, design, order); err != nil {
		log.Fatal("%s.\n", err)
	}

	outPath := mapOutput
	if outPath == "" {
		outPath = args[0]
	}
	if err := netlist.SaveDesign(outPath, design, order); err != nil {
		log.Fatal("Failed to write netlist: %s.\n", err)
	}

	if log.ErrorOccured() {
		log.Fatal("Completed with errors.\n")
	}
	log.Success("Done.\n")
}
