package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"rental-browser/feed"
	"rental-browser/server"
	"rental-browser/services"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the listing query API",
		Description: `Starts the HTTP server with the bundled collection and loads the
		configured source in the background. POST /api/reload starts a new load;
		a load that finishes after a newer one has started is discarded.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "listen",
				Aliases: []string{"l"},
				Usage:   "Address to listen on (default: LISTEN_ADDR)",
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, logger := setup(ctx)
			addr := cfg.ListenAddr
			if ctx.IsSet("listen") {
				addr = ctx.String("listen")
			}

			loader, closeFn, err := newLoader(ctx.Context, cfg, logger)
			if err != nil {
				return err
			}
			defer closeFn()

			initial, err := feed.Bundled()
			if err != nil {
				return fmt.Errorf("bundled listings: %w", err)
			}

			sigCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			session := services.NewSession(loader, initial, logger)
			defer session.Close()

			app := server.Server(&server.ServerConfig{
				Session:       session,
				Insights:      services.NewInsightService(logger),
				Source:        loader.Source(),
				Logger:        logger,
				ReloadContext: sigCtx,
			})

			session.RefreshAsync(sigCtx)

			errc := make(chan error, 1)
			go func() {
				logger.Info("[serve] Listening on %s (source: %s)", addr, loader.Source())
				errc <- app.Listen(addr)
			}()

			select {
			case err := <-errc:
				return err
			case <-sigCtx.Done():
			}

			logger.Info("[serve] Shutting down")
			return app.ShutdownWithTimeout(30 * time.Second)
		},
	}
}
