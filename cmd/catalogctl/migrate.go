package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/sushihentaime/toolshelf/internal/common"
)

func newMigrateCmd(c *cli) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := common.Migrate(source, c.cfg.DatabaseURL())
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			defer m.Close()

			version, dirty, err := m.Version()
			if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
				return err
			}

			c.logger.Info("database is up to date", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "file://migrations", "migration source URL")

	return cmd
}
