package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sushihentaime/toolshelf/internal/common"
	"github.com/sushihentaime/toolshelf/internal/userservice"
)

func newAdminCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator accounts",
	}

	var username, email, password string

	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account with the catalog:admin permission",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("CATALOGCTL_PASSWORD")
			}

			db, err := common.OpenDB(c.cfg)
			if err != nil {
				return fmt.Errorf("connect to the database: %w", err)
			}
			defer common.CloseDB(db)

			users := userservice.NewUserService(db, common.NewCache(time.Minute, time.Minute))

			u, err := users.CreateUser(cmd.Context(), username, email, password, true)
			if err != nil {
				return err
			}

			c.logger.Info("administrator created", slog.Int("id", u.ID), slog.String("username", u.Username))
			return nil
		},
	}

	create.Flags().StringVar(&username, "username", "", "account username")
	create.Flags().StringVar(&email, "email", "", "account email address")
	create.Flags().StringVar(&password, "password", "", "account password (defaults to $CATALOGCTL_PASSWORD)")
	create.MarkFlagRequired("username")
	create.MarkFlagRequired("email")

	cmd.AddCommand(create)

	return cmd
}
