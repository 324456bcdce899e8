package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/sushihentaime/toolshelf/internal/blogservice"
	"github.com/sushihentaime/toolshelf/internal/common"
	"github.com/sushihentaime/toolshelf/internal/mailservice"
	"github.com/sushihentaime/toolshelf/internal/toolservice"
	"github.com/sushihentaime/toolshelf/internal/userservice"
)

// authenticator is the part of the user service the HTTP layer needs.
type authenticator interface {
	LoginUser(ctx context.Context, login, password string) (*userservice.AuthToken, error)
	GetUserByAccessToken(ctx context.Context, token string) (*userservice.User, error)
	LogoutUser(ctx context.Context, user *userservice.User) error
}

type application struct {
	config  *common.Config
	logger  *slog.Logger
	started time.Time
	users   authenticator
	tools   *toolservice.ToolService
	posts   *blogservice.BlogService
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := common.LoadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := common.OpenDB(cfg)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	broker, err := common.NewMessageBroker(cfg.AMQPURI())
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	err = common.SetupCatalogExchange(broker)
	if err != nil {
		logger.Error("failed to setup the catalog exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Facets change only on writes, which flush them, so a long expiry is fine.
	facets := common.NewCache(time.Hour, 2*time.Hour)
	sessions := common.NewCache(5*time.Minute, 10*time.Minute)

	app := &application{
		config:  cfg,
		logger:  logger,
		started: time.Now(),
		users:   userservice.NewUserService(db, sessions),
		tools:   toolservice.NewToolService(db, facets, broker, logger),
		posts:   blogservice.NewBlogService(db, facets, broker, logger),
	}

	mailer := mailservice.NewMailService(broker, cfg.Mail, cfg.BaseURL, logger)
	if err := mailer.NotifyPostPublished(); err != nil {
		logger.Error("failed to start the post notifier", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The notifier is stopped once in-flight requests have drained.
	err = app.serve(cfg.Port, mailer.Close)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
