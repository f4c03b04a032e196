package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/queryloom/queryloom/internal/bridge"
	"github.com/queryloom/queryloom/pkg/queryloom"
)

var queryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Execute a SQL statement and print the result as JSON",
	Long: `Executes the statement verbatim against the resolved connection and
prints the uniform result shape: columns, rows, and affectedRows for
modification statements that returned no rows.

Execution errors are part of the printed result and set the query-failed
exit code; they never crash the command.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)
		cfg, err := resolveConfig(cmd, logger)
		if err != nil {
			return err
		}

		handler := bridge.NewHandler(logger)
		result, err := handler.ExecuteQuery(cmd.Context(), cfg, args[0])
		if err != nil {
			return err
		}

		encoded, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(encoded))

		if result.Error != "" {
			return fmt.Errorf("%s: %w", result.Error, queryloom.ErrQueryFailed)
		}
		return nil
	},
}

func init() {
	registerConnectionFlags(queryCmd)
	rootCmd.AddCommand(queryCmd)
}
