package scene

import (
	"fmt"
	"math"
)

// Kind identifies the node type. It is a closed set: every Shape Contract
// call site switches exhaustively over these five values, so adding a kind
// means visiting every switch.
type Kind int

const (
	// KindStrand is a content card, the only kind automatic layouts move.
	KindStrand Kind = iota
	// KindLoom is a mid-level grouping card.
	KindLoom
	// KindWeave is a large region node that strands belong to.
	KindWeave
	// KindCollection is a user-curated set of references.
	KindCollection
	// KindConnection is an edge between two nodes. Connections are the only
	// kind allowed to reference another node's identity.
	KindConnection
)

var kindNames = map[Kind]string{
	KindStrand:     "strand",
	KindLoom:       "loom",
	KindWeave:      "weave",
	KindCollection: "collection",
	KindConnection: "connection",
}

// String returns the lowercase wire name of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind converts a wire name to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown node kind %q", s)
}

// ContentBearing reports whether nodes of this kind carry created/updated
// timestamps and user-authored content.
func (k Kind) ContentBearing() bool {
	return k != KindConnection
}

// LayoutKind selects which positioning algorithm last ran on a scene.
// LayoutFreeform means no algorithm is authoritative and positions are
// user-controlled.
type LayoutKind string

const (
	LayoutFreeform LayoutKind = "freeform"
	LayoutGrid     LayoutKind = "grid"
	LayoutTimeline LayoutKind = "timeline"
	LayoutCluster  LayoutKind = "cluster"
	LayoutForce    LayoutKind = "force"
)

// ParseLayoutKind validates a layout name.
func ParseLayoutKind(s string) (LayoutKind, error) {
	switch LayoutKind(s) {
	case LayoutFreeform, LayoutGrid, LayoutTimeline, LayoutCluster, LayoutForce:
		return LayoutKind(s), nil
	}
	return "", fmt.Errorf("unknown layout kind %q", s)
}

// Point is a position in canvas (page) coordinate space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle in canvas coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside the rectangle (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.X+r.W, o.X+o.W)
	y1 := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Camera holds the scene's pan/zoom state. A screen point maps to canvas
// space as canvas = screen/Zoom - (X, Y); see ingest.ScreenToCanvas.
type Camera struct {
	X    float64 `json:"x" bson:"x"`
	Y    float64 `json:"y" bson:"y"`
	Zoom float64 `json:"z" bson:"z"`
}

// DefaultCamera is the camera applied to a fresh scene.
func DefaultCamera() Camera {
	return Camera{X: 0, Y: 0, Zoom: 1}
}

// Props is the kind-specific attribute bag. Content-bearing kinds use the
// title/summary/tag/timestamp fields; Connection uses FromID/ToID only.
// WeaveSlug and LoomSlug are parent references by slug, never by node ID.
type Props struct {
	Title     string   `json:"title,omitempty" bson:"title,omitempty"`
	Summary   string   `json:"summary,omitempty" bson:"summary,omitempty"`
	Tags      []string `json:"tags,omitempty" bson:"tags,omitempty"`
	Path      string   `json:"path,omitempty" bson:"path,omitempty"`
	WeaveSlug string   `json:"weave_slug,omitempty" bson:"weave_slug,omitempty"`
	LoomSlug  string   `json:"loom_slug,omitempty" bson:"loom_slug,omitempty"`
	CreatedAt string   `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt string   `json:"updated_at,omitempty" bson:"updated_at,omitempty"`

	// Style overrides and view flags
	Accent      string `json:"accent,omitempty" bson:"accent,omitempty"`
	Collapsed   bool   `json:"collapsed,omitempty" bson:"collapsed,omitempty"`
	Highlighted bool   `json:"highlighted,omitempty" bson:"highlighted,omitempty"`

	// Expanded is meaningful for Weave and Collection nodes only; flipped by
	// a double-activate gesture. Toggling never moves other nodes.
	Expanded bool `json:"expanded,omitempty" bson:"expanded,omitempty"`

	// Connection endpoints. Only Connection nodes may reference other nodes.
	FromID string `json:"from_id,omitempty" bson:"from_id,omitempty"`
	ToID   string `json:"to_id,omitempty" bson:"to_id,omitempty"`
}

// Node is a typed, positioned, sized entity placed on the canvas.
// X/Y are the top-left corner in canvas coordinates.
type Node struct {
	ID    string  `json:"id" bson:"id"`
	Kind  Kind    `json:"-" bson:"-"`
	X     float64 `json:"x" bson:"x"`
	Y     float64 `json:"y" bson:"y"`
	W     float64 `json:"w" bson:"w"`
	H     float64 `json:"h" bson:"h"`
	Props Props   `json:"props" bson:"props"`
}

// Bounds returns the node's bounding rectangle.
func (n Node) Bounds() Rect {
	return Rect{X: n.X, Y: n.Y, W: n.W, H: n.H}
}

// Center returns the node's visual center.
func (n Node) Center() Point {
	return n.Bounds().Center()
}

// DisplayTitle returns the title if set, otherwise the ID.
func (n Node) DisplayTitle() string {
	if n.Props.Title != "" {
		return n.Props.Title
	}
	return n.ID
}

// Patch describes a partial update to a node. Nil fields are left untouched.
// Position and size travel through the same path as prop edits so a single
// store event covers both.
type Patch struct {
	X *float64
	Y *float64
	W *float64
	H *float64

	Title       *string
	Summary     *string
	Tags        *[]string
	WeaveSlug   *string
	LoomSlug    *string
	Accent      *string
	Collapsed   *bool
	Highlighted *bool
	Expanded    *bool
	UpdatedAt   *string
}

func (p Patch) apply(n *Node) {
	if p.X != nil {
		n.X = *p.X
	}
	if p.Y != nil {
		n.Y = *p.Y
	}
	if p.W != nil {
		n.W = *p.W
	}
	if p.H != nil {
		n.H = *p.H
	}
	if p.Title != nil {
		n.Props.Title = *p.Title
	}
	if p.Summary != nil {
		n.Props.Summary = *p.Summary
	}
	if p.Tags != nil {
		n.Props.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.WeaveSlug != nil {
		n.Props.WeaveSlug = *p.WeaveSlug
	}
	if p.LoomSlug != nil {
		n.Props.LoomSlug = *p.LoomSlug
	}
	if p.Accent != nil {
		n.Props.Accent = *p.Accent
	}
	if p.Collapsed != nil {
		n.Props.Collapsed = *p.Collapsed
	}
	if p.Highlighted != nil {
		n.Props.Highlighted = *p.Highlighted
	}
	if p.Expanded != nil {
		n.Props.Expanded = *p.Expanded
	}
	if p.UpdatedAt != nil {
		n.Props.UpdatedAt = *p.UpdatedAt
	}
}
