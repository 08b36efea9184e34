package ingest

import (
	"time"

	"github.com/charmbracelet/log"

	lcerrors "github.com/tapestrylab/loomcanvas/pkg/errors"
	"github.com/tapestrylab/loomcanvas/pkg/scene"
	"github.com/tapestrylab/loomcanvas/pkg/scene/shape"
)

// Callbacks are the only points where the canvas core talks to the
// surrounding application. All funcs are optional.
type Callbacks struct {
	// OnNodeActivate is invoked with a node's path when the user activates
	// it (navigation).
	OnNodeActivate func(path string)

	// OnDrop is invoked after a successful ingestion with the payload and
	// the resolved canvas-space position.
	OnDrop func(p Payload, canvasPos scene.Point)

	// OnLayoutChange is invoked when the active layout changes.
	OnLayoutChange func(kind scene.LayoutKind)

	// OnCameraPersisted is an optional telemetry hook fired after a
	// snapshot save that included the camera.
	OnCameraPersisted func()
}

// Dropper turns validated drag payloads into scene nodes.
type Dropper struct {
	store *scene.Store
	cb    Callbacks
	log   *log.Logger
	now   func() time.Time
}

// NewDropper creates a dropper writing into store. logger may be nil.
func NewDropper(store *scene.Store, cb Callbacks, logger *log.Logger) *Dropper {
	if logger == nil {
		logger = log.Default()
	}
	return &Dropper{store: store, cb: cb, log: logger, now: time.Now}
}

// Drop ingests a drag transfer at the given screen-space pointer position.
// transfers maps transfer types to their data, as delivered by the host's
// drop event. Returns the created node's ID.
//
// The transfer must carry the expected marker type and decode to a valid
// payload; otherwise Drop returns an INVALID_PAYLOAD error, no mutation
// happens, and the caller shows invalid-target feedback.
func (d *Dropper) Drop(transfers map[string]string, pointer scene.Point, cam scene.Camera) (string, error) {
	raw, ok := transfers[TransferType]
	if !ok {
		return "", lcerrors.New(lcerrors.ErrCodeInvalidPayload, "transfer missing %s marker", TransferType)
	}

	p := Decode(raw)
	if p == nil {
		return "", lcerrors.New(lcerrors.ErrCodeInvalidPayload, "malformed drag payload")
	}

	kind, ok := ResolveKind(p)
	if !ok {
		return "", lcerrors.New(lcerrors.ErrCodeInvalidPayload, "payload has no usable kind (kind=%q level=%d)", p.Kind, p.Level)
	}

	canvasPos := ScreenToCanvas(cam, pointer)
	node := d.buildNode(*p, kind, canvasPos)

	ids, err := d.store.CreateNodes([]scene.Node{node})
	if err != nil {
		return "", err
	}

	d.log.Debug("ingested drop", "kind", kind.String(), "id", ids[0], "x", canvasPos.X, "y", canvasPos.Y)
	if d.cb.OnDrop != nil {
		d.cb.OnDrop(*p, canvasPos)
	}
	return ids[0], nil
}

// buildNode constructs a kind-appropriate node centered on the drop point:
// the node is offset by half its default size so the pointer lands on the
// visual center, not the top-left corner.
func (d *Dropper) buildNode(p Payload, kind scene.Kind, center scene.Point) scene.Node {
	w, h := shape.DefaultSize(kind)
	props := shape.DefaultProps(kind)

	if p.Title != "" {
		props.Title = p.Title
	}
	props.Summary = p.Summary
	props.Tags = append([]string(nil), p.Tags...)
	props.Path = p.Path
	props.WeaveSlug = p.WeaveSlug
	props.LoomSlug = p.LoomSlug
	if p.Card != nil && p.Card.Accent != "" {
		props.Accent = p.Card.Accent
	}
	if kind.ContentBearing() {
		now := d.now().UTC().Format(time.RFC3339)
		props.CreatedAt = now
		props.UpdatedAt = now
	}

	return scene.Node{
		Kind:  kind,
		X:     center.X - w/2,
		Y:     center.Y - h/2,
		W:     w,
		H:     h,
		Props: props,
	}
}
