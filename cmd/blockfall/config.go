package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blockfall/internal/config"
)

var flagCheckPath string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default rules as YAML",
	Long: `Print the built-in rules as YAML. Save the output to
~/.blockfall/configs/blockfall.yaml and edit it to change the rules for
every game, or pass a copy to --config for a single run.

Examples:
  blockfall config > ~/.blockfall/configs/blockfall.yaml
  blockfall config --check ./my-rules.yaml`,
	Run: runConfig,
}

func init() {
	configCmd.Flags().StringVar(&flagCheckPath, "check", "", "Validate a rules file instead of printing the defaults")
}

func runConfig(_ *cobra.Command, _ []string) {
	if flagCheckPath == "" {
		os.Stdout.Write(config.GetDefaultYAML())
		return
	}

	rules, err := config.LoadBlockfall(flagCheckPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s is valid: lock delay %dms, start level %d, %d ranks\n",
		flagCheckPath, rules.Engine.LockDelayMs, rules.Difficulty.StartLevel, len(rules.Ranks))
}
