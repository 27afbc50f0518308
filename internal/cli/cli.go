// Package cli implements foodsharectl, the operator tool for the foodshare
// backend.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"foodshare/internal/bootstrap"
	"foodshare/pkg/config"
	"foodshare/pkg/logger"
)

const (
	ExitSuccess = 0
	ExitFailure = 1
)

// CLI holds the command-line interface state.
type CLI struct {
	rootCmd *cobra.Command
	cfg     *config.Config
	out     io.Writer

	// Global flags
	jsonOutput bool
	debug      bool

	// open builds the backend. Replaced in tests.
	open func(ctx context.Context, cfg *config.Config) (*bootstrap.Backend, error)
}

func New() *CLI {
	cli := &CLI{open: bootstrap.Open}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

// Execute runs the CLI and returns the process exit code.
func (c *CLI) Execute() int {
	if err := c.rootCmd.Execute(); err != nil {
		fmt.Fprintf(c.rootCmd.ErrOrStderr(), "foodsharectl: %v\n", err)
		return ExitFailure
	}
	return ExitSuccess
}

func (c *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "foodsharectl",
		Short: "Maintenance commands for the foodshare backend",
		Long: `foodsharectl runs administrative tasks against the configured backend.

Configuration is read from the environment and .env, the same way the API
server reads it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.out = cmd.OutOrStdout()
			return c.initConfig()
		},
	}

	cmd.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "machine-readable JSON output")
	cmd.PersistentFlags().BoolVar(&c.debug, "debug", false, "verbose debug logs")

	cmd.AddCommand(c.newCleanupCmd())
	cmd.AddCommand(c.newDeleteUserCmd())
	cmd.AddCommand(c.newTokenCmd())

	return cmd
}

func (c *CLI) initConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.cfg = cfg
	logger.SetDebug(c.debug)
	return nil
}

func (c *CLI) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *CLI) outputJSON(v interface{}) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
