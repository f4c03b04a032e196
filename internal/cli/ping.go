package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/queryloom/queryloom/internal/bridge"
	"github.com/queryloom/queryloom/internal/logging"
	"github.com/queryloom/queryloom/pkg/queryloom"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Test a database connection",
	Long: `Resolves connection parameters and issues a trivial round-trip query.

Prints "ok" and exits 0 on success; exits with the connection error code on
failure. Failure causes (timeout, authentication, TLS) are logged with
hints when --verbose is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)
		cfg, err := resolveConfig(cmd, logger)
		if err != nil {
			return err
		}
		logger.Verbose("testing connection to %s", logging.DescribeConfig(cfg))

		handler := bridge.NewHandler(logger)
		ok, err := handler.TestConnection(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("could not reach %s: %w", logging.DescribeConfig(cfg), queryloom.ErrConnectionFailed)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

func init() {
	registerConnectionFlags(pingCmd)
	rootCmd.AddCommand(pingCmd)
}
