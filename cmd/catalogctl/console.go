package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sushihentaime/toolshelf/internal/blogservice"
	"github.com/sushihentaime/toolshelf/internal/common"
	"github.com/sushihentaime/toolshelf/internal/console"
	"github.com/sushihentaime/toolshelf/internal/toolservice"
	"github.com/sushihentaime/toolshelf/internal/userservice"
)

func newConsoleCmd(c *cli) *cobra.Command {
	var login, password, logFile string

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Open the terminal admin dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("CATALOGCTL_PASSWORD")
			}

			logger, closer, err := c.quietLogger(logFile)
			if err != nil {
				return err
			}
			defer closer.Close()

			db, err := common.OpenDB(c.cfg)
			if err != nil {
				return fmt.Errorf("connect to the database: %w", err)
			}
			defer common.CloseDB(db)

			users := userservice.NewUserService(db, common.NewCache(time.Minute, time.Minute))

			token, err := users.LoginUser(cmd.Context(), login, password)
			if err != nil {
				if errors.Is(err, userservice.ErrAuthenticationFailure) {
					return errors.New("invalid login or password")
				}
				return err
			}

			user, err := users.GetUserByAccessToken(cmd.Context(), token.AccessTokenPlain)
			if err != nil {
				return err
			}
			defer users.LogoutUser(cmd.Context(), user)

			if !user.IsAdmin() {
				return fmt.Errorf("%s: %w", user.Username, common.ErrForbidden)
			}

			// Without a broker the dashboard still works; change events are dropped.
			var mb common.MessageProducer
			broker, err := common.NewMessageBroker(c.cfg.AMQPURI())
			if err == nil {
				defer broker.Close()
				err = common.SetupCatalogExchange(broker)
			}
			if err != nil {
				c.logger.Warn("message broker unavailable, change events will not be published", slog.String("error", err.Error()))
			} else {
				mb = broker
			}

			facets := common.NewCache(time.Minute, 2*time.Minute)
			tools := toolservice.NewToolService(db, facets, mb, logger)
			posts := blogservice.NewBlogService(db, facets, mb, logger)

			return console.Run(cmd.Context(), user, tools, posts, logger)
		},
	}

	cmd.Flags().StringVar(&login, "login", "", "username or email of an administrator")
	cmd.Flags().StringVar(&password, "password", "", "password (defaults to $CATALOGCTL_PASSWORD)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs here while the dashboard is open")
	cmd.MarkFlagRequired("login")

	return cmd
}
