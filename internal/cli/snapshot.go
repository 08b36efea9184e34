package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// snapshotCommand creates the snapshot command group.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect and manage persisted scene snapshots",
	}

	cmd.AddCommand(c.snapshotShowCommand())
	cmd.AddCommand(c.snapshotClearCommand())

	return cmd
}

func (c *CLI) snapshotShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [scene-id]",
		Short: "Show the persisted snapshot for a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSnapshotShow(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) snapshotClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [scene-id]",
		Short: "Remove the persisted snapshot for a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSnapshotClear(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runSnapshotShow(ctx context.Context, sceneID string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	adapter, closeStore, err := c.openAdapter(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer closeStore()

	snap := adapter.Load(ctx, sceneID)
	if snap == nil {
		printWarning("No snapshot for scene %s", sceneID)
		return nil
	}

	printKeyValue("scene", snap.SceneID)
	printKeyValue("layout", string(snap.Layout))
	printKeyValue("camera", fmt.Sprintf("x=%.1f y=%.1f zoom=%.2f", snap.Camera.X, snap.Camera.Y, snap.Camera.Zoom))
	printKeyValue("saved", snap.SavedAt)
	printKeyValue("version", fmt.Sprintf("%d", snap.Version))
	return nil
}

func (c *CLI) runSnapshotClear(ctx context.Context, sceneID string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	adapter, closeStore, err := c.openAdapter(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer closeStore()

	if err := adapter.Clear(ctx, sceneID); err != nil {
		return err
	}
	printSuccess("Cleared snapshot for %s", sceneID)
	return nil
}
