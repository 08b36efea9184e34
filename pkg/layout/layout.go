// Package layout implements the positioning algorithms for canvas scenes.
//
// All algorithms are pure functions over positioned nodes: they compute new
// positions only and never touch sizes or props. Only Strand nodes
// participate in automatic layout; Loom, Weave, Collection, and Connection
// nodes are manually positioned containers and pass through untouched.
//
// Applying a layout is a one-shot recompute, not a maintained constraint:
// after a run the scene returns to user control, and subsequent manual
// drags are not corrected back onto the computed solution. Grid and
// timeline are position-independent; cluster and force recompute from the
// current positions and input order.
package layout

import (
	"time"

	"github.com/tapestrylab/loomcanvas/pkg/observability"
	"github.com/tapestrylab/loomcanvas/pkg/scene"
)

// Apply computes new positions for nodes under the given layout kind,
// centered on anchor (typically the current viewport center). The returned
// slice contains all input nodes in input order with only Strand positions
// changed. An empty input returns immediately.
func Apply(nodes []scene.Node, kind scene.LayoutKind, anchor scene.Point) []scene.Node {
	if len(nodes) == 0 {
		return nodes
	}

	observability.Layout().OnLayoutStart(string(kind), len(nodes))
	start := time.Now()

	out := make([]scene.Node, len(nodes))
	copy(out, nodes)

	strands := make([]*scene.Node, 0, len(out))
	for i := range out {
		if out[i].Kind == scene.KindStrand {
			strands = append(strands, &out[i])
		}
	}

	switch kind {
	case scene.LayoutFreeform:
		// Identity: the default and the terminal state after a manual drag.
	case scene.LayoutGrid:
		applyGrid(strands, anchor)
	case scene.LayoutTimeline:
		applyTimeline(strands, anchor)
	case scene.LayoutCluster:
		applyCluster(strands, anchor)
	case scene.LayoutForce:
		applyForce(strands, anchor)
	}

	observability.Layout().OnLayoutComplete(string(kind), len(nodes), time.Since(start))
	return out
}

// Positions extracts an id -> top-left position map from laid-out nodes,
// ready for scene.Store.SetPositions.
func Positions(nodes []scene.Node) map[string]scene.Point {
	out := make(map[string]scene.Point, len(nodes))
	for _, n := range nodes {
		out[n.ID] = scene.Point{X: n.X, Y: n.Y}
	}
	return out
}
