package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/queryloom/queryloom/internal/bridge"
	"github.com/queryloom/queryloom/pkg/queryloom"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Fetch and print the database schema",
	Long: `Introspects the connected database's catalog and prints the rendered
schema text: one "Table: schema.table" block per table with its columns in
catalog order. The same text feeds the AI prompt builder, so the layout is
stable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)
		cfg, err := resolveConfig(cmd, logger)
		if err != nil {
			return err
		}

		handler := bridge.NewHandler(logger)
		result, err := handler.FetchSchema(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if result.Error != "" {
			return fmt.Errorf("%s: %w", result.Error, queryloom.ErrConnectionFailed)
		}

		fmt.Fprint(cmd.OutOrStdout(), result.Schema)
		return nil
	},
}

func init() {
	registerConnectionFlags(schemaCmd)
	rootCmd.AddCommand(schemaCmd)
}
