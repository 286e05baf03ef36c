package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var transformFlags loadFlagValues

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Convert the Parquet trip file to CSV without touching the database",
	Long: `Convert the Parquet trip file to the cleaned CSV that 'tripload load' expects.
No DB_* variables are needed.

Examples:
  tripload transform
  tripload transform --source yellow_tripdata_2025-02.parquet --output feb.csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStages(cmd, &transformFlags, modeTransformOnly, os.Getenv)
	},
}

func init() {
	rootCmd.AddCommand(transformCmd)
	addLoadFlags(transformCmd, &transformFlags)
}
