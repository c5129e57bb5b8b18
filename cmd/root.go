package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/daedaleanai/brammap/config"
	"github.com/daedaleanai/brammap/log"
)

var rootCmd = &cobra.Command{
	Use:   "brammap",
	Short: "Maps generic memories onto block-RAM primitives",
	Long: `brammap rewrites generic multi-port memory cells in a design netlist into
grids of concrete block-RAM primitives, chosen and wired according to a
user-supplied rules file.`,
}

// Execute adds all child commands to the root command and runs it. It only
// needs to happen once, from main.main().
func Execute() {
	rootCmd.PersistentFlags().BoolVarP(&log.Verbose, "verbose", "v", config.Get().Verbose, "print debug output")
	if rootCmd.Execute() != nil {
		os.Exit(1)
	}
}
