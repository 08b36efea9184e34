package layout

import (
	"github.com/tapestrylab/loomcanvas/pkg/scene"
)

// fitPadding is the canvas-space margin kept around content when fitting.
const fitPadding = 64

// ContentBounds returns the union bounding box of all nodes.
// The second return is false for an empty scene.
func ContentBounds(nodes []scene.Node) (scene.Rect, bool) {
	if len(nodes) == 0 {
		return scene.Rect{}, false
	}
	bounds := nodes[0].Bounds()
	for _, n := range nodes[1:] {
		bounds = bounds.Union(n.Bounds())
	}
	return bounds, true
}

// FitCamera computes the camera that frames the given nodes in a viewport
// of viewW x viewH screen units, with padding. Callers run this after a
// layout pass so the viewport shows the new arrangement. Returns the
// current camera unchanged for an empty scene.
func FitCamera(nodes []scene.Node, viewW, viewH float64, current scene.Camera) scene.Camera {
	bounds, ok := ContentBounds(nodes)
	if !ok || viewW <= 0 || viewH <= 0 {
		return current
	}

	bounds.X -= fitPadding
	bounds.Y -= fitPadding
	bounds.W += 2 * fitPadding
	bounds.H += 2 * fitPadding

	zoom := min(viewW/bounds.W, viewH/bounds.H)
	if zoom > 1 {
		zoom = 1
	}

	center := bounds.Center()
	// screen = (canvas + cam) * zoom; solve for the camera that puts the
	// content center at the viewport center.
	return scene.Camera{
		X:    viewW/(2*zoom) - center.X,
		Y:    viewH/(2*zoom) - center.Y,
		Zoom: zoom,
	}
}
