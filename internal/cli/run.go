package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var runFlags loadFlagValues

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Transform the trip file and load it into PostgreSQL",
	Long: `Run the whole pipeline:

  1. Read the Parquet trip file and write a cleaned CSV
     (nulls in RatecodeID, payment_type and passenger_count get defaults)
  2. Create and seed vendors, rate_codes and payment_types when empty
  3. Create taxi_zones and load it from the zone lookup CSV when empty
  4. Create yellow_tripdata and append the CSV with COPY
  5. Add the five foreign keys that are not there yet

Examples:
  tripload run
  tripload run --data-dir /srv/taxi --source yellow_tripdata_2025-02.parquet
  tripload run --strict-schema --timeout 30m -v`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStages(cmd, &runFlags, modeAll, os.Getenv)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addLoadFlags(runCmd, &runFlags)
}
