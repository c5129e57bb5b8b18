package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daedaleanai/brammap/config"
	"github.com/daedaleanai/brammap/internal/fetch"
	"github.com/daedaleanai/brammap/internal/rules"
	"github.com/daedaleanai/brammap/log"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspects and manages rules files",
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate <rules-file>",
	Args:  cobra.ExactArgs(1),
	Short: "Parses a rules file and reports any errors",
	Run: func(cmd *cobra.Command, args []string) {
		lib, err := rules.Parse(args[0])
		if err != nil {
			log.Fatal("%s.\n", err)
		}
		if err := lib.Validate(); err != nil {
			log.Fatal("%s.\n", err)
		}
		log.Success("%d brams, %d match rules, no errors.\n", len(lib.Brams), len(lib.Matches))
	},
}

var rulesDumpFormat string

var rulesDumpCmd = &cobra.Command{
	Use:   "dump <rules-file>",
	Args:  cobra.ExactArgs(1),
	Short: "Parses a rules file and re-serializes it as YAML, or lists its match properties",
	Long: `Parses a rules file and re-serializes it.

With --format yaml (the default), re-serializes the parsed model as YAML.
With --format go, prints every min/max limit of each match rule, one per
line, as <match>.<min|max>.<property> = <value>, without needing a
design to check them against.`,
	Run: func(cmd *cobra.Command, args []string) {
		lib, err := rules.Parse(args[0])
		if err != nil {
			log.Fatal("%s.\n", err)
		}

		switch rulesDumpFormat {
		case "yaml":
			data, err := lib.MarshalYAML()
			if err != nil {
				log.Fatal("Failed to serialize rules: %s.\n", err)
			}
			fmt.Print(string(data))
		case "go":
			for _, m := range lib.Matches {
				for _, l := range m.MinLimits {
					fmt.Printf("%s.min.%s = %d\n", m.Name, l.Prop, l.Value)
				}
				for _, l := range m.MaxLimits {
					fmt.Printf("%s.max.%s = %d\n", m.Name, l.Prop, l.Value)
				}
			}
		default:
			log.Fatal("Unknown output format %q, want \"yaml\" or \"go\".\n", rulesDumpFormat)
		}
	},
}

var rulesFetchURL string
var rulesFetchVersion string

var rulesFetchCmd = &cobra.Command{
	Use:   "fetch",
	Args:  cobra.NoArgs,
	Short: "Clones or updates a git-hosted rules repository in the local cache",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()
		repo, err := fetch.Get(cfg.RulesCacheDir, rulesFetchURL, rulesFetchVersion)
		if err != nil {
			log.Fatal("Failed to fetch rules repository: %s.\n", err)
		}
		log.Success("Rules repository available at %s.\n", repo.Path())
	},
}

func init() {
	rulesDumpCmd.Flags().StringVar(&rulesDumpFormat, "format", config.Get().OutputFormat, `output format: "yaml" or "go"`)

	rulesFetchCmd.Flags().StringVar(&rulesFetchURL, "url", "", "git URL of the rules repository (required)")
	rulesFetchCmd.Flags().StringVar(&rulesFetchVersion, "version", "", "branch, tag, or commit to check out")
	rulesFetchCmd.MarkFlagRequired("url")

	rulesCmd.AddCommand(rulesValidateCmd, rulesDumpCmd, rulesFetchCmd)
	rootCmd.AddCommand(rulesCmd)
}
