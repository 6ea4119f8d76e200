package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"rental-browser/config"
	"rental-browser/feed"
	"rental-browser/storage"
	"rental-browser/utils"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "rental-browser",
		Usage: "Browse rental listings from a static collection or a published spreadsheet",
		Description: `Loads rental listings from the bundled collection, a spreadsheet
		published as CSV, or a PostgreSQL mirror, and lets you filter and sort them.

		Settings are read from the environment (and a .env file). The global
		flags below override them, e.g.:

		--source => DATA_SOURCE=sheet
		--feed-url => FEED_URL=https://...`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "source",
				Usage:   "Listing source: static, sheet or postgres",
				EnvVars: []string{"DATA_SOURCE"},
			},
			&cli.StringFlag{
				Name:    "feed-url",
				Usage:   "CSV URL of the published sheet",
				EnvVars: []string{"FEED_URL"},
			},
			&cli.StringFlag{
				Name:    "fetcher",
				Usage:   "How to fetch the sheet: http or browser",
				EnvVars: []string{"FEED_FETCHER"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			serveCmd(),
			listCmd(),
			districtsCmd(),
			reportCmd(),
			exportCmd(),
			syncCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

// setup loads configuration and applies any global flag overrides.
func setup(ctx *cli.Context) (*config.Config, *utils.Logger) {
	cfg := config.Load()
	if ctx.IsSet("source") {
		cfg.DataSource = strings.ToLower(ctx.String("source"))
	}
	if ctx.IsSet("feed-url") {
		cfg.FeedURL = ctx.String("feed-url")
	}
	if ctx.IsSet("fetcher") {
		cfg.FeedFetcher = strings.ToLower(ctx.String("fetcher"))
	}
	if ctx.IsSet("log-level") {
		cfg.LogLevel = ctx.String("log-level")
	}
	return cfg, utils.NewLoggerWithLevel(cfg.LogLevel)
}

// newLoader builds the feed loader for cfg. The returned close function
// releases the database connection when the postgres source is used.
func newLoader(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*feed.Loader, func(), error) {
	closeFn := func() {}

	var repo feed.ListingReader
	if cfg.DataSource == config.SourcePostgres {
		store, err := storage.NewPostgresStore(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		repo = store
		closeFn = func() { _ = store.Close() }
	}

	src, err := feed.NewSource(cfg, logger, repo)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("configure source: %w", err)
	}
	return feed.NewLoader(src, logger), closeFn, nil
}
