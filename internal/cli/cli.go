// Package cli implements the chainlens command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chainlens/chainlens/pkg/buildinfo"
	"github.com/chainlens/chainlens/pkg/cache"
	"github.com/chainlens/chainlens/pkg/config"
	"github.com/chainlens/chainlens/pkg/layout"
	"github.com/chainlens/chainlens/pkg/observability"
	"github.com/chainlens/chainlens/pkg/pipeline"
	"github.com/chainlens/chainlens/pkg/render"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag. Empty means the default location.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Chainlens lays out blockchain forensic graphs",
		Long: `Chainlens lays out transaction graphs around a victim wallet: the main
node is pinned at the centre, its neighbours are placed on concentric rings,
and nodes an investigator has already positioned stay where they are while
the graph grows.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			installHooks(c.Logger)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: $XDG_CONFIG_HOME/chainlens/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.explorationCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// loadConfig reads the config file named by --config.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("loaded config", "cache", cfg.Cache.Backend, "store", cfg.Store.Backend)
	return cfg, nil
}

// newRunner creates a pipeline runner from the config file.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, config.Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, config.Config{}, err
	}
	if noCache {
		cfg.Cache.Backend = config.BackendNone
	}

	cc, keyer, err := cfg.Cache.OpenCache(ctx)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without it", "backend", cfg.Cache.Backend, "error", err)
		cc, keyer = cache.NewNullCache(), cache.NewDefaultKeyer()
	}

	store, err := cfg.Store.OpenStore(ctx)
	if err != nil {
		cc.Close()
		return nil, config.Config{}, fmt.Errorf("open exploration store: %w", err)
	}

	classifier, err := cfg.Classify.OpenClassifier()
	if err != nil {
		cc.Close()
		store.Close()
		return nil, config.Config{}, fmt.Errorf("load classifier: %w", err)
	}

	runner := pipeline.NewRunner(cc, keyer, store, c.Logger)
	runner.Engine = layout.NewEngine(cfg.Layout.Config)
	runner.Classifier = classifier
	return runner, cfg, nil
}

// installHooks routes observability events to the CLI logger.
func installHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetStoreHooks(h)
	observability.SetHTTPHooks(h)
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions returns pipeline options seeded from the config file. The
// logger is left unset so the runner supplies its own.
func baseOptions(cfg config.Config) pipeline.Options {
	return pipeline.Options{
		Width:      cfg.Layout.Width,
		Height:     cfg.Layout.Height,
		Seed:       cfg.Layout.Seed,
		Style:      cfg.Render.Style,
		ShowLabels: cfg.Render.Labels,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return append([]string(nil), pipeline.DefaultFormats...)
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// basePath derives the base output path from the output and input file paths.
// A known format extension on output is stripped so that several formats can
// be written next to each other.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if _, err := render.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
