package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tapestrylab/loomcanvas/pkg/layout"
	"github.com/tapestrylab/loomcanvas/pkg/scene"
)

// layoutCommand creates the layout command for recomputing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		kind    string
		anchorX float64
		anchorY float64
	)

	cmd := &cobra.Command{
		Use:   "layout [scene.json]",
		Short: "Apply a layout algorithm to a scene file",
		Long: `Apply a layout algorithm to a scene file.

The layout command reads a scene file, recomputes strand positions under the
chosen algorithm, records the algorithm as the scene's active layout, and
writes the result. Container nodes (weaves, looms, collections) keep their
positions; only strands move.

Available layouts: freeform, grid, timeline, cluster, force.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(args[0], kind, scene.Point{X: anchorX, Y: anchorY}, output)
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "grid", "layout algorithm: freeform, grid, timeline, cluster, force")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().Float64Var(&anchorX, "anchor-x", 0, "layout anchor x")
	cmd.Flags().Float64Var(&anchorY, "anchor-y", 0, "layout anchor y")

	return cmd
}

func (c *CLI) runLayout(input, kindName string, anchor scene.Point, output string) error {
	kind, err := scene.ParseLayoutKind(kindName)
	if err != nil {
		return err
	}

	s, err := scene.ReadSceneFile(input)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}

	placed := layout.Apply(s.Nodes(), kind, anchor)
	s.SetPositions(layout.Positions(placed))
	s.SetActiveLayout(kind)

	outputPath := output
	if outputPath == "" {
		outputPath = input
	}
	if err := scene.WriteSceneFile(s, outputPath); err != nil {
		return fmt.Errorf("write scene %s: %w", outputPath, err)
	}

	printSuccess("Applied %s layout to %d nodes", kind, s.Len())
	printFile(outputPath)
	printNewline()
	base := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
	printNextStep("Export", fmt.Sprintf("%s export %s -o %s.svg", appName, outputPath, base))
	return nil
}
