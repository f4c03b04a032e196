package cli

import (
	"github.com/spf13/cobra"

	"github.com/queryloom/queryloom/internal/config"
	"github.com/queryloom/queryloom/internal/db"
	"github.com/queryloom/queryloom/internal/logging"
	"github.com/queryloom/queryloom/pkg/queryloom"
)

// registerConnectionFlags attaches the shared connection flag set to a
// command. Password never has a flag: it comes from the environment, a .env
// file, or a stored profile.
func registerConnectionFlags(cmd *cobra.Command) {
	cmd.Flags().String("connection", "", "Connection URL (postgresql://... or mysql://...)")
	cmd.Flags().String("profile", "", "Stored profile id or name")
	cmd.Flags().String("engine", "", "Database engine: postgres or mysql")
	cmd.Flags().StringP("host", "h", "", "Database server host")
	cmd.Flags().IntP("port", "p", 0, "Database server port")
	cmd.Flags().StringP("user", "U", "", "Database user name")
	cmd.Flags().StringP("database", "d", "", "Database name")
	cmd.Flags().Bool("ssl", false, "Enable SSL/TLS")
	cmd.Flags().Bool("no-pool", false, "Open a fresh connection per operation instead of pooling")

	cmd.Flags().String("supabase-ref", "", "Supabase project reference (derives host/port/user)")
	cmd.Flags().Bool("supabase-pooler", false, "Connect through the Supabase connection pooler")
	cmd.Flags().String("pooler-mode", db.PoolerModeSession, "Supabase pooler mode: session or transaction")
	cmd.Flags().String("region", "", "Supabase pooler region (e.g. us-east-1)")
}

// resolveConfig turns the command's flags, the environment and the profile
// store into one fully populated ConnectionConfig.
func resolveConfig(cmd *cobra.Command, logger queryloom.Logger) (*queryloom.ConnectionConfig, error) {
	connString, _ := cmd.Flags().GetString("connection")
	flags := &db.GranularConnFlags{}
	flags.Engine, _ = cmd.Flags().GetString("engine")
	flags.Host, _ = cmd.Flags().GetString("host")
	flags.Port, _ = cmd.Flags().GetInt("port")
	flags.Username, _ = cmd.Flags().GetString("user")
	flags.Database, _ = cmd.Flags().GetString("database")
	flags.SSL, _ = cmd.Flags().GetBool("ssl")
	flags.NoPool, _ = cmd.Flags().GetBool("no-pool")

	envVars := db.LoadFromEnvironment()

	base, err := baseProfile(cmd, envVars, logger)
	if err != nil {
		return nil, err
	}

	return db.ResolveConnectionParams(connString, flags, envVars, base)
}

// baseProfile loads the profile selected by --profile, or derives one from
// the Supabase flags. Granular flags and environment variables still
// override its fields during resolution.
func baseProfile(cmd *cobra.Command, envVars *db.EnvVars, logger queryloom.Logger) (*queryloom.ConnectionConfig, error) {
	if ref, _ := cmd.Flags().GetString("supabase-ref"); ref != "" {
		usePooler, _ := cmd.Flags().GetBool("supabase-pooler")
		poolerMode, _ := cmd.Flags().GetString("pooler-mode")
		region, _ := cmd.Flags().GetString("region")

		for _, warning := range db.ValidateSupabase(ref, usePooler, poolerMode, region) {
			logger.Info("Warning: %s", warning)
		}
		return db.ResolveSupabase(ref, envVars.PGPASSWORD, usePooler, poolerMode, region), nil
	}

	profileName, _ := cmd.Flags().GetString("profile")
	if profileName == "" {
		return nil, nil
	}

	path, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}
	store, err := config.Open(path)
	if err != nil {
		return nil, err
	}
	return store.Get(profileName)
}

// newLogger builds the command's logger from the verbose flag.
func newLogger(cmd *cobra.Command) queryloom.Logger {
	return logging.NewConsoleLogger(getVerboseFlag(cmd))
}
