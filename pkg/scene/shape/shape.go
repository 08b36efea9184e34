// Package shape defines the per-kind behavior table for canvas nodes:
// default properties and sizes, hit-test geometry, resize clamping,
// connection handle points, and static SVG export.
//
// Every function in this package dispatches over [scene.Kind] with an
// exhaustive switch. Adding a sixth kind means visiting each switch; the
// panic in the default arms makes a missed site fail loudly in tests
// instead of silently falling back.
package shape

import (
	"fmt"

	"github.com/tapestrylab/loomcanvas/pkg/scene"
)

// =============================================================================
// Size Bounds
// =============================================================================

// SizeBounds holds the min/max width and height for one kind.
type SizeBounds struct {
	MinW, MinH float64
	MaxW, MaxH float64
}

// Bounds returns the resize bounds for the given kind.
func Bounds(k scene.Kind) SizeBounds {
	switch k {
	case scene.KindStrand:
		return SizeBounds{MinW: 160, MinH: 100, MaxW: 480, MaxH: 400}
	case scene.KindLoom:
		return SizeBounds{MinW: 200, MinH: 120, MaxW: 640, MaxH: 480}
	case scene.KindWeave:
		// Region node: much larger minimum than a strand card.
		return SizeBounds{MinW: 360, MinH: 240, MaxW: 2400, MaxH: 1800}
	case scene.KindCollection:
		return SizeBounds{MinW: 240, MinH: 160, MaxW: 960, MaxH: 720}
	case scene.KindConnection:
		return SizeBounds{MinW: 0, MinH: 0, MaxW: 4000, MaxH: 4000}
	default:
		panic(fmt.Sprintf("shape: unhandled kind %v", k))
	}
}

// DefaultSize returns the width and height a freshly created node gets.
func DefaultSize(k scene.Kind) (w, h float64) {
	switch k {
	case scene.KindStrand:
		return 240, 140
	case scene.KindLoom:
		return 280, 180
	case scene.KindWeave:
		return 480, 320
	case scene.KindCollection:
		return 320, 220
	case scene.KindConnection:
		return 0, 0
	default:
		panic(fmt.Sprintf("shape: unhandled kind %v", k))
	}
}

// DefaultProps returns the seed property bag for a new node of kind k.
// Timestamps are the caller's responsibility (the ingestion path stamps
// them with the ingestion time).
func DefaultProps(k scene.Kind) scene.Props {
	switch k {
	case scene.KindStrand:
		return scene.Props{Title: "Untitled strand", Accent: AccentColor(k)}
	case scene.KindLoom:
		return scene.Props{Title: "Untitled loom", Accent: AccentColor(k)}
	case scene.KindWeave:
		return scene.Props{Title: "Untitled weave", Accent: AccentColor(k), Expanded: true}
	case scene.KindCollection:
		return scene.Props{Title: "Untitled collection", Accent: AccentColor(k), Expanded: false}
	case scene.KindConnection:
		return scene.Props{}
	default:
		panic(fmt.Sprintf("shape: unhandled kind %v", k))
	}
}

// ClampResize clamps a proposed size to the kind's bounds. The result
// always satisfies MinW <= w <= MaxW and MinH <= h <= MaxH.
func ClampResize(k scene.Kind, proposedW, proposedH float64) (w, h float64) {
	b := Bounds(k)
	w = clamp(proposedW, b.MinW, b.MaxW)
	h = clamp(proposedH, b.MinH, b.MaxH)
	return w, h
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// =============================================================================
// Geometry and Handles
// =============================================================================

// Geometry returns the axis-aligned bounding rectangle used for hit-testing
// and selection. All five kinds use a simple rectangle.
func Geometry(n scene.Node) scene.Rect {
	switch n.Kind {
	case scene.KindStrand, scene.KindLoom, scene.KindWeave, scene.KindCollection, scene.KindConnection:
		return n.Bounds()
	default:
		panic(fmt.Sprintf("shape: unhandled kind %v", n.Kind))
	}
}

// Handles returns the four canonical connection points of the node: the
// top, right, bottom, and left midpoints of its bounding box. Connection
// endpoints snap to these anchors rather than to arbitrary pixels.
func Handles(n scene.Node) []scene.Point {
	r := Geometry(n)
	return []scene.Point{
		{X: r.X + r.W/2, Y: r.Y},       // top
		{X: r.X + r.W, Y: r.Y + r.H/2}, // right
		{X: r.X + r.W/2, Y: r.Y + r.H}, // bottom
		{X: r.X, Y: r.Y + r.H/2},       // left
	}
}

// NearestHandle returns the handle of n closest to p.
func NearestHandle(n scene.Node, p scene.Point) scene.Point {
	handles := Handles(n)
	best := handles[0]
	bestD := sqDist(best, p)
	for _, h := range handles[1:] {
		if d := sqDist(h, p); d < bestD {
			best, bestD = h, d
		}
	}
	return best
}

func sqDist(a, b scene.Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// SupportsExpand reports whether the kind carries the expanded toggle,
// flipped by a double-activate gesture. Toggling never alters the geometry
// of other nodes.
func SupportsExpand(k scene.Kind) bool {
	switch k {
	case scene.KindWeave, scene.KindCollection:
		return true
	case scene.KindStrand, scene.KindLoom, scene.KindConnection:
		return false
	default:
		panic(fmt.Sprintf("shape: unhandled kind %v", k))
	}
}

// AccentColor returns the kind's accent color used in headers and exports.
func AccentColor(k scene.Kind) string {
	switch k {
	case scene.KindStrand:
		return "#3b82f6" // blue
	case scene.KindLoom:
		return "#8b5cf6" // violet
	case scene.KindWeave:
		return "#10b981" // emerald
	case scene.KindCollection:
		return "#f59e0b" // amber
	case scene.KindConnection:
		return "#94a3b8" // slate
	default:
		panic(fmt.Sprintf("shape: unhandled kind %v", k))
	}
}
