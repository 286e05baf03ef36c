package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tripload",
	Short: "Load NYC yellow-taxi trip data into PostgreSQL",
	Long: `tripload converts a monthly TLC yellow-taxi Parquet file into a cleaned CSV
and loads it into PostgreSQL together with the vendor, rate code, payment type
and taxi zone reference tables, then adds the foreign keys that tie them together.

Reference tables are populated only while empty. The trip table is appended to
on every run: loading the same month twice stores its trips twice.

Connection parameters come from the environment (or a .env file):
  DB_NAME, DB_USER, DB_PASSWORD, DB_HOST, DB_PORT   required
  DB_SSLMODE                                        default: prefer
  DB_AUTH_METHOD                                    standard|azure|aws|google
  DB_CONNECT_TIMEOUT                                seconds, default: none

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or missing DB_* variables
  11 - Database connection failed
  12 - Trip file or zone lookup file not found
  13 - Input columns do not match the expected schema
  14 - Bulk load (COPY) rejected the input
  15 - Foreign key constraint violated
  16 - Other SQL execution failure`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
