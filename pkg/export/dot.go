package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/tapestrylab/loomcanvas/pkg/scene"
	"github.com/tapestrylab/loomcanvas/pkg/scene/shape"
)

// BuildDOT converts the scene's connection topology to Graphviz DOT
// format: one box per positioned node, one edge per connection. Positions
// are not carried over; Graphviz computes its own layout for the overview.
func BuildDOT(s *scene.Store) string {
	var buf bytes.Buffer
	buf.WriteString("digraph scene {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, n := range s.Nodes() {
		if n.Kind == scene.KindConnection {
			continue
		}
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q];\n",
			n.ID, n.DisplayTitle(), shape.AccentColor(n.Kind))
	}

	buf.WriteString("\n")
	for _, n := range s.Nodes() {
		if n.Kind != scene.KindConnection {
			continue
		}
		if _, ok := s.Node(n.Props.FromID); !ok {
			continue
		}
		if _, ok := s.Node(n.Props.ToID); !ok {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", n.Props.FromID, n.Props.ToID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOTSVG renders a DOT graph to SVG via Graphviz.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.SVG)
}

// RenderDOTPNG renders a DOT graph to PNG via Graphviz.
func RenderDOTPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
