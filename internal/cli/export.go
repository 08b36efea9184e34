package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tapestrylab/loomcanvas/pkg/export"
	"github.com/tapestrylab/loomcanvas/pkg/scene"
)

// Export formats.
const (
	formatSVG      = "svg"      // composed scene SVG
	formatDOT      = "dot"      // connection topology as DOT source
	formatGraphSVG = "graphsvg" // connection topology rendered by graphviz
	formatGraphPNG = "graphpng" // same, rasterized to PNG
)

// exportCommand creates the export command for static scene renderings.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export [scene.json]",
		Short: "Export a scene as a static rendering",
		Long: `Export a scene as a static rendering.

Formats:
  svg       composed SVG of the scene exactly as laid out (default)
  dot       Graphviz DOT source of the connection topology
  graphsvg  connection topology laid out and rendered by Graphviz
  graphpng  connection topology rendered by Graphviz as PNG`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd, args[0], format, output)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: svg (default), dot, graphsvg, graphpng")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")

	return cmd
}

func (c *CLI) runExport(cmd *cobra.Command, input, format, output string) error {
	s, err := scene.ReadSceneFile(input)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}

	var data []byte
	var ext string
	switch format {
	case formatSVG:
		data, ext = []byte(export.SceneSVG(s)), ".svg"
	case formatDOT:
		data, ext = []byte(export.BuildDOT(s)), ".dot"
	case formatGraphSVG:
		rendered, err := export.RenderDOTSVG(cmd.Context(), export.BuildDOT(s))
		if err != nil {
			return fmt.Errorf("render graph: %w", err)
		}
		data, ext = rendered, ".svg"
	case formatGraphPNG:
		rendered, err := export.RenderDOTPNG(cmd.Context(), export.BuildDOT(s))
		if err != nil {
			return fmt.Errorf("render graph: %w", err)
		}
		data, ext = rendered, ".png"
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	outputPath := output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ext
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Exported %s (%d nodes)", format, s.Len())
	printFile(outputPath)
	return nil
}
