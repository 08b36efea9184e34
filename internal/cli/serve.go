package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/tapestrylab/loomcanvas/internal/server"
	"github.com/tapestrylab/loomcanvas/pkg/ingest"
	"github.com/tapestrylab/loomcanvas/pkg/scene"
	"github.com/tapestrylab/loomcanvas/pkg/snapshot"
)

const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command exposing a scene over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [scene.json]",
		Short: "Serve a scene over HTTP",
		Long: `Serve a scene over HTTP.

The serve command loads a scene file and exposes it as a JSON API: node CRUD,
layout application, drag-payload ingestion, static exports, and snapshot
management. Mutations are debounced into the configured snapshot backend; the
scene file itself is written back on shutdown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: from config, :8334)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, scenePath, addr string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	s, err := scene.ReadSceneFile(scenePath)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", scenePath, err)
	}

	adapter, closeStore, err := c.openAdapter(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer closeStore()

	if adapter.RestoreCamera(ctx, s) {
		c.Logger.Info("restored camera from snapshot", "scene", s.SceneID())
	}

	cb := ingest.Callbacks{
		OnDrop: func(p ingest.Payload, pos scene.Point) {
			c.Logger.Debug("drop ingested", "title", p.Title, "x", pos.X, "y", pos.Y)
		},
		OnLayoutChange: func(kind scene.LayoutKind) {
			c.Logger.Debug("layout changed", "layout", kind)
		},
		OnCameraPersisted: func() {
			c.Logger.Debug("camera persisted", "scene", s.SceneID())
		},
	}
	adapter.NotifyCameraPersisted(cb.OnCameraPersisted)

	// One lock serializes the request handlers and the debounce saver's
	// timer goroutine around the single-owner scene store.
	var storeMu sync.Mutex
	saver := snapshot.NewSaver(adapter, s, cfg.Debounce(), &storeMu)

	srv := server.NewServer(server.Deps{Store: s, Adapter: adapter, Logger: c.Logger, Mu: &storeMu, Callbacks: cb})
	httpSrv := &http.Server{Addr: addr, Handler: srv.Handler()}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("serving scene", "scene", s.SceneID(), "addr", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		c.Logger.Warn("http shutdown", "err", err)
	}

	// Final flush before the scene file write so neither copy loses the
	// trailing mutation.
	if err := saver.Close(shutdownCtx); err != nil {
		c.Logger.Warn("final snapshot save", "err", err)
	}
	if err := scene.WriteSceneFile(s, scenePath); err != nil {
		return fmt.Errorf("write scene %s: %w", scenePath, err)
	}

	c.Logger.Info("scene saved", "path", scenePath)
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}
