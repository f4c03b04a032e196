package cli

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/queryloom/queryloom/internal/config"
	"github.com/queryloom/queryloom/internal/logging"
	"github.com/queryloom/queryloom/pkg/queryloom"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage stored connection profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored connection profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		profiles := store.List()
		if len(profiles) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no profiles stored")
			return nil
		}
		for _, p := range profiles {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-20s %s\n", p.ID, p.Name, logging.DescribeConfig(&p))
		}
		return nil
	},
}

var profilesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Store a new connection profile",
	Long: `Resolves connection parameters from flags and environment, prompts for a
password on the terminal, and stores the profile under the given name.

Supabase projects can be stored directly:
  queryloom profiles add prod --supabase-ref myprojectref --supabase-pooler --pooler-mode transaction --region us-east-1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)
		cfg, err := resolveConfig(cmd, logger)
		if err != nil {
			return err
		}
		cfg.Name = args[0]

		if cfg.Password == "" {
			password, err := promptPassword(cmd)
			if err != nil {
				return err
			}
			cfg.Password = password
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		saved, err := store.Add(*cfg)
		if err != nil {
			return err
		}
		if err := store.Save(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "stored profile %s (%s)\n", saved.Name, saved.ID)
		return nil
	},
}

var profilesRemoveCmd = &cobra.Command{
	Use:   "remove <id|name>",
	Short: "Delete a stored connection profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		if err := store.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed profile %s\n", args[0])
		return nil
	},
}

func openStore() (*config.Store, error) {
	path, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}
	return config.Open(path)
}

// promptPassword reads a password without echo. There is deliberately no
// password flag: flags leak into shell history and process listings.
func promptPassword(cmd *cobra.Command) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("no terminal available for password prompt; set PGPASSWORD or MYSQL_PWD: %w", queryloom.ErrInvalidConfig)
	}
	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(password), nil
}

func init() {
	registerConnectionFlags(profilesAddCmd)
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesAddCmd)
	profilesCmd.AddCommand(profilesRemoveCmd)
	rootCmd.AddCommand(profilesCmd)
}
