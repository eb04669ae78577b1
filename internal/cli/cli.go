// Package cli implements the archviz command-line interface.
//
// archviz renders the project's static architecture diagrams: built-in
// generators plus YAML topology files, rasterized through Graphviz into an
// output directory. Commands cover one-shot generation, listing, a live
// preview server, and cache management.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/doppelganger/archviz/pkg/buildinfo"
	"github.com/doppelganger/archviz/pkg/cache"
	"github.com/doppelganger/archviz/pkg/config"
	"github.com/doppelganger/archviz/pkg/diagram"
	"github.com/doppelganger/archviz/pkg/diagram/batch"
	"github.com/doppelganger/archviz/pkg/generators"
	"github.com/doppelganger/archviz/pkg/topology"
)

// appName is the application name used for directories and display.
const appName = "archviz"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "archviz",
		Short:        "archviz renders the project's architecture diagrams",
		Long:         `archviz is the documentation tooling for rendering static architecture diagrams: declarative node/cluster/edge topologies rasterized through Graphviz into image files.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a batch runner for CLI use.
func (c *CLI) newRunner(noCache bool) *batch.Runner {
	return batch.NewRunner(newCache(noCache), c.Logger)
}

func newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// cacheDir returns the cache directory using XDG standard (~/.cache/archviz/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// buildRegistry assembles the generator set for a run: built-ins minus
// disabled stems, plus any topology files the config points at.
func buildRegistry(cfg config.Config) (*diagram.Registry, error) {
	reg, err := diagram.NewRegistry()
	if err != nil {
		return nil, err
	}

	for _, g := range generators.All() {
		if cfg.IsDisabled(g.FileName()) {
			continue
		}
		if err := reg.Add(g); err != nil {
			return nil, err
		}
	}

	custom, err := topology.LoadGlobs(cfg.Topologies)
	if err != nil {
		return nil, err
	}
	for _, g := range custom {
		if cfg.IsDisabled(g.FileName()) {
			continue
		}
		if err := reg.Add(g); err != nil {
			return nil, err
		}
	}

	return reg, nil
}
