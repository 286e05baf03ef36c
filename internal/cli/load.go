package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var loadFlags loadFlagValues

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load an already transformed CSV into PostgreSQL",
	Long: `Run the database stages against an existing CSV produced by 'tripload transform'.
The Parquet file is not read; --source only derives the default CSV name.

Examples:
  tripload load
  tripload load --output feb.csv --lookup taxi_zone_lookup.csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStages(cmd, &loadFlags, modeLoadOnly, os.Getenv)
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	addLoadFlags(loadCmd, &loadFlags)
}
