package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chainlens/chainlens/pkg/cache"
	"github.com/chainlens/chainlens/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == config.BackendNone {
				printInfo("Caching is disabled")
				return nil
			}

			cc, _, err := cfg.Cache.OpenCache(ctx)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer cc.Close()

			clearer, ok := cc.(cache.Clearer)
			if !ok {
				printWarning("The %s cache cannot be cleared from here", cfg.Cache.Backend)
				return nil
			}
			if err := clearer.Clear(ctx); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %s cache", cfg.Cache.Backend)
			printDetail("%s", cacheLocation(cfg.Cache))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Println(cacheLocation(cfg.Cache))
			return nil
		},
	}
}

// cacheLocation describes the configured cache: a directory for the file
// backend, an address and prefix for redis.
func cacheLocation(cc config.CacheConfig) string {
	switch cc.Backend {
	case config.BackendNone:
		return "disabled"
	case config.BackendRedis:
		return fmt.Sprintf("redis://%s/%d (prefix %q)", cc.RedisAddr, cc.RedisDB, cc.Prefix)
	}
	dir, err := cc.ResolveDir()
	if err != nil {
		return "unknown: " + err.Error()
	}
	return dir
}
