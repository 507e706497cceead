// Package app assembles the bot: configuration, infrastructure, handlers,
// and the Telegram runtime options.
package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/todobot/core/bootstrap"
	tg "github.com/m3rciful/todobot/core/telegram"
	"github.com/m3rciful/todobot/internal/bot"
	"github.com/m3rciful/todobot/internal/storage"
)

// App holds the application's long-lived components.
type App struct {
	cfg      *Config
	db       *sqlx.DB
	handlers *bot.Handlers
}

// Bootstrap initializes logging, the database, and migrations, then builds
// the application on top of them.
func Bootstrap(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config provided")
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   &cfg.Core,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	store := storage.New(res.DB)
	return &App{
		cfg:      cfg,
		db:       res.DB,
		handlers: bot.NewHandlers(store),
	}, nil
}

// TelegramRunOptions builds the registry, routes, and middleware chain for
// the Telegram runtime.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	reg := tg.NewRegistry()
	a.handlers.Register(reg)

	return tg.RunOptions{
		Config:      &a.cfg.Core,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(&a.cfg.Core, nil),
		Routes:      a.handlers.Routes(reg),
		OnStop: func(ctx context.Context, rt tg.Runtime) error {
			return a.db.Close()
		},
	}, nil
}
