// Command catalogctl administers the catalog: schema migrations, the legacy tool import,
// admin accounts and the terminal dashboard.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sushihentaime/toolshelf/internal/common"
)

type cli struct {
	envFile string
	verbose bool

	cfg    *common.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Administer the AI tool directory and blog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if c.verbose {
				level = slog.LevelDebug
			}
			c.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			cfg, err := common.LoadConfig(c.envFile)
			if err != nil {
				return fmt.Errorf("load configuration from %s: %w", c.envFile, err)
			}
			c.cfg = cfg

			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.envFile, "env", ".env", "path to the env-style configuration file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newMigrateCmd(c),
		newImportCmd(c),
		newAdminCmd(c),
		newConsoleCmd(c),
	)

	return root
}

// quietLogger replaces the stderr logger while the dashboard owns the terminal.
func (c *cli) quietLogger(path string) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}

	return slog.New(slog.NewTextHandler(f, nil)), f, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
