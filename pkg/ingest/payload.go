// Package ingest implements the drag-and-drop ingestion protocol that
// turns external list items into canvas nodes.
//
// External list/tree views serialize a [Payload] into the drag transfer
// under [TransferType]; the drop side validates the marker, converts the
// pointer position to canvas space through the camera transform, and
// creates a node centered on the drop point. Payloads are transient: they
// live only for the duration of a single drag gesture and are never
// persisted.
package ingest

import (
	"encoding/json"

	"github.com/tapestrylab/loomcanvas/pkg/scene"
)

// TransferType is the transport marker identifying a loomcanvas payload
// among other drag data the host page may carry. Validity of a drop target
// is determined solely by the presence of this marker.
const TransferType = "application/x-loomcanvas-node"

// CardSpec carries style fields for the compact-notecard payload variant.
type CardSpec struct {
	Size   string `json:"size,omitempty"`
	Accent string `json:"accent,omitempty"`
}

// Payload is the wire format produced by external list/tree views.
// Kind is the node kind's wire name; legacy producers send Level instead
// (the tree depth of the outline view: 1=weave, 2=loom, 3=strand).
type Payload struct {
	Kind    string   `json:"kind,omitempty"`
	Level   int      `json:"level,omitempty"`
	ID      string   `json:"id"`
	Path    string   `json:"path"`
	Title   string   `json:"title"`
	Summary string   `json:"summary,omitempty"`
	Tags    []string `json:"tags,omitempty"`

	WeaveSlug string `json:"weave_slug,omitempty"`
	LoomSlug  string `json:"loom_slug,omitempty"`

	Card *CardSpec `json:"card,omitempty"`
}

// Encode serializes a payload to its transfer string.
func Encode(p Payload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode parses a transfer string back into a payload. Malformed JSON or a
// payload missing every identifying field yields nil, never an error: a
// bad drop is a no-op, not a failure.
func Decode(transfer string) *Payload {
	var p Payload
	if err := json.Unmarshal([]byte(transfer), &p); err != nil {
		return nil
	}
	if p.ID == "" && p.Title == "" && p.Path == "" {
		return nil
	}
	return &p
}

// ResolveKind selects the node kind for a payload: the explicit kind name
// when present, otherwise the legacy level mapping. Unknown values return
// false.
func ResolveKind(p *Payload) (scene.Kind, bool) {
	if p.Kind != "" {
		k, err := scene.ParseKind(p.Kind)
		if err != nil {
			return 0, false
		}
		return k, true
	}
	switch p.Level {
	case 1:
		return scene.KindWeave, true
	case 2:
		return scene.KindLoom, true
	case 3:
		return scene.KindStrand, true
	}
	return 0, false
}

// ScreenToCanvas converts a screen-space point to canvas space through an
// explicit camera value: canvas = screen/zoom - camera offset. The inverse
// of the projection screen = (canvas + camera) * zoom.
func ScreenToCanvas(cam scene.Camera, p scene.Point) scene.Point {
	zoom := cam.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return scene.Point{
		X: p.X/zoom - cam.X,
		Y: p.Y/zoom - cam.Y,
	}
}

// DragBindings is what a draggable external element requests to take part
// in the protocol: the attribute set plus the serialized transfer data.
// The host sets a synthetic lightweight drag image at drag start and
// removes it once the native gesture begins.
type DragBindings struct {
	Draggable    bool
	TransferType string
	Data         string
}

// DragSource builds the bindings for an external element carrying p.
func DragSource(p Payload) (DragBindings, error) {
	data, err := Encode(p)
	if err != nil {
		return DragBindings{}, err
	}
	return DragBindings{
		Draggable:    true,
		TransferType: TransferType,
		Data:         data,
	}, nil
}
