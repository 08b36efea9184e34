// Package cli implements the loomcanvas command-line interface.
//
// This package provides commands for opening scenes in an interactive
// terminal canvas, applying layouts to scene files, exporting static
// renderings, serving a scene over HTTP, and managing persisted snapshots.
// The CLI is built using cobra with verbose logging via the
// charmbracelet/log library.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tapestrylab/loomcanvas/internal/config"
	"github.com/tapestrylab/loomcanvas/pkg/buildinfo"
	"github.com/tapestrylab/loomcanvas/pkg/snapshot"
)

// appName is the application name used for directories and display.
const appName = "loomcanvas"

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
	Logger     *log.Logger
	configPath string
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
		Use:          appName,
		Short:        "Loomcanvas is a spatial canvas for knowledge nodes",
		Long:         `Loomcanvas arranges typed knowledge nodes (strands, looms, weaves, collections, connections) on a pannable, zoomable canvas with automatic layouts and durable per-scene view state.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $LOOMCANVAS_CONFIG, then ~/.config/loomcanvas/config.toml)")

	root.AddCommand(c.canvasCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Construction
// =============================================================================

// loadConfig reads the configuration selected by --config.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// openAdapter builds the snapshot adapter the configuration selects.
// The returned close func releases the backend.
func (c *CLI) openAdapter(ctx context.Context, cfg config.Config) (*snapshot.Adapter, func(), error) {
	store, err := cfg.OpenStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	adapter := snapshot.NewAdapter(store, c.Logger)
	return adapter, func() {
		if err := store.Close(); err != nil {
			c.Logger.Warn("close snapshot store", "err", err)
		}
	}, nil
}
