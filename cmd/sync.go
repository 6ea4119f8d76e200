package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"rental-browser/config"
	"rental-browser/storage"
)

func syncCmd() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Mirror the configured source into PostgreSQL",
		Description: `Loads the listings once from the static collection or the sheet and
		replaces the contents of the listings table with them. The mirror can then
		be served with DATA_SOURCE=postgres.`,
		Action: func(ctx *cli.Context) error {
			cfg, logger := setup(ctx)
			if cfg.DataSource == config.SourcePostgres {
				return errors.New("sync needs a static or sheet source to read from")
			}

			loader, closeFn, err := newLoader(ctx.Context, cfg, logger)
			if err != nil {
				return err
			}
			defer closeFn()

			listings, err := loader.Load(ctx.Context)
			if err != nil {
				return fmt.Errorf("load listings: %w", err)
			}

			store, err := storage.NewPostgresStore(ctx.Context, cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			return store.Write(ctx.Context, listings)
		},
	}
}
