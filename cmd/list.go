package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"rental-browser/services"
)

func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Load the listings once and print the ones matching a query",
		Flags: append(queryFlags(), &cli.BoolFlag{
			Name:  "json",
			Usage: "Print JSON instead of a table",
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
			if ctx.Bool("json") {
				return printJSON(ctx.App.Writer, result)
			}
			return printListings(ctx.App.Writer, result)
		},
	}
}

func districtsCmd() *cli.Command {
	return &cli.Command{
		Name:  "districts",
		Usage: "Print the distinct districts in load order",
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

			for _, d := range services.Districts(listings) {
				if d == "" {
					d = "(none)"
				}
				fmt.Fprintln(ctx.App.Writer, d)
			}
			return nil
		},
	}
}

func reportCmd() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Print summary statistics for the loaded listings",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print JSON instead of the formatted report",
			},
		},
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

			insights := services.NewInsightService(logger)
			report := insights.Generate(listings)
			if ctx.Bool("json") {
				return printJSON(ctx.App.Writer, report)
			}
			insights.Print(ctx.App.Writer, report)
			return nil
		},
	}
}
