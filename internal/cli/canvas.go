package cli

import (
	"context"
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tapestrylab/loomcanvas/pkg/ingest"
	"github.com/tapestrylab/loomcanvas/pkg/scene"
	"github.com/tapestrylab/loomcanvas/pkg/snapshot"
)

// canvasCommand creates the canvas command, the interactive terminal canvas.
func (c *CLI) canvasCommand() *cobra.Command {
	var newSceneID string

	cmd := &cobra.Command{
		Use:   "canvas [scene.json]",
		Short: "Open a scene in the interactive terminal canvas",
		Long: `Open a scene in the interactive terminal canvas.

Shortcuts:
  1-5        select layout (freeform, grid, force, timeline, cluster)
  v          cycle view mode (list, split, canvas)
  g          toggle grid snapping
  f          fit viewport to content
  +/-/0      zoom in / out / reset
  arrows     pan the camera
  j/k        move the cursor through nodes
  space      toggle selection
  ctrl+a     select all
  esc        clear selection
  enter      rename the node under the cursor
  o          open the node under the cursor
  delete     remove the selection
  q          quit (saves the scene)

Camera and active layout persist per scene through the configured snapshot
backend; edits are written back to the scene file on quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCanvas(cmd.Context(), args[0], newSceneID)
		},
	}

	cmd.Flags().StringVar(&newSceneID, "new", "", "create a new scene with this ID instead of loading the file")

	return cmd
}

func (c *CLI) runCanvas(ctx context.Context, scenePath, newSceneID string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	var s *scene.Store
	if newSceneID != "" {
		if _, err := os.Stat(scenePath); err == nil {
			return fmt.Errorf("refusing to create %s: file exists", scenePath)
		}
		s = scene.NewStore(newSceneID)
	} else {
		s, err = scene.ReadSceneFile(scenePath)
		if err != nil {
			return fmt.Errorf("load scene %s: %w", scenePath, err)
		}
	}

	adapter, closeStore, err := c.openAdapter(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer closeStore()

	if adapter.RestoreCamera(ctx, s) {
		c.Logger.Debug("restored camera from snapshot", "scene", s.SceneID())
	}

	cb := ingest.Callbacks{
		OnNodeActivate: func(path string) {
			c.Logger.Debug("node opened", "path", path)
		},
		OnLayoutChange: func(kind scene.LayoutKind) {
			c.Logger.Debug("layout changed", "layout", kind)
		},
		OnCameraPersisted: func() {
			c.Logger.Debug("camera persisted", "scene", s.SceneID())
		},
	}
	adapter.NotifyCameraPersisted(cb.OnCameraPersisted)

	// The model's Update and the saver's timer goroutine share this lock
	// around the single-owner scene store.
	var storeMu sync.Mutex
	saver := snapshot.NewSaver(adapter, s, cfg.Debounce(), &storeMu)

	model := newCanvasModel(s, cb)
	model.storeMu = &storeMu
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		saver.Close(context.Background())
		return fmt.Errorf("canvas: %w", err)
	}

	// One final save bypassing the debounce, then the scene file itself.
	if err := saver.Close(context.Background()); err != nil {
		c.Logger.Warn("final snapshot save", "err", err)
	}
	if err := scene.WriteSceneFile(s, scenePath); err != nil {
		return fmt.Errorf("write scene %s: %w", scenePath, err)
	}

	printSuccess("Scene saved")
	printFile(scenePath)
	return nil
}
