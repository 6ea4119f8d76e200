package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"rental-browser/services"
	"rental-browser/storage"
)

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the listings matching a query as a feed-format CSV",
		Description: `Writes id,title,district,price,beds,size,address,tags rows, so the
		output can be published as a sheet and loaded back. Use --output - for stdout.`,
		Flags: append(queryFlags(), &cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "CSV file to write, or - for stdout (default: CSV_OUTPUT_PATH)",
		}),
		Action: func(ctx *cli.Context) error {
			cfg, logger := setup(ctx)
			loader, closeFn, err := newLoader(ctx.Context, cfg, logger)
			if err != nil {
				return err
			}
			defer closeFn()

			listings, err := loader.Load(ctx.Context)
			if err != nil {
				return fmt.Errorf("load listings: %w", err)
			}
			result := services.Evaluate(listings, paramsFromFlags(ctx))

			out := cfg.CSVOutputPath
			if ctx.IsSet("output") {
				out = ctx.String("output")
			}
			var w *storage.CSVWriter
			if out == "-" {
				w = storage.NewCSVStreamWriter(ctx.App.Writer)
			} else if w, err = storage.NewCSVWriter(out); err != nil {
				return err
			}
			defer w.Close()

			if err := w.Write(ctx.Context, result); err != nil {
				return err
			}
			if out != "-" {
				logger.Info("[export] Wrote %d listings to %s", len(result), out)
			}
			return nil
		},
	}
}
