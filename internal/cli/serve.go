package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chainlens/chainlens/pkg/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout and exploration HTTP API",
		Long: `Run the layout and exploration HTTP API.

The cache and exploration store come from the config file; use a redis cache
and a mongo store to share state between several instances. The server shuts
down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			runner, cfg, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}

			printInfo("Listening on %s", StyleHighlight.Render(addr))
			printDetail("cache: %s  store: %s", cfg.Cache.Backend, cfg.Store.Backend)
			return server.New(runner, c.Logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
