// Package cli wires the adapter core to a cobra command tree: connection
// testing, query execution, schema introspection and profile management.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "queryloom",
	Short: "Uniform database access for natural-language SQL clients",
	Long: `queryloom connects to PostgreSQL and MySQL databases behind one uniform
contract: test a connection, execute a statement, fetch a rendered schema.

Connection parameters resolve with PostgreSQL-standard precedence:
flags, then PG* environment variables (a .env file is honored), then the
selected stored profile, then defaults. Supabase projects resolve from a
project ref via --supabase-ref without typing host names.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or unsupported engine
  11 - Database connection failed
  13 - SQL execution failed`,
	SilenceUsage: true,
}

// Execute runs the root command. A .env file in the working directory is
// loaded first so that PGPASSWORD and friends can live outside the shell.
func Execute() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}
	return rootCmd.Execute()
}

func init() {
	// Registering --help without shorthand frees -h for --host,
	// matching psql/mysql conventions.
	rootCmd.PersistentFlags().Bool("help", false, "Help for queryloom")
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
