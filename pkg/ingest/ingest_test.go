package ingest

import (
	"math"
	"testing"

	lcerrors "github.com/tapestrylab/loomcanvas/pkg/errors"
	"github.com/tapestrylab/loomcanvas/pkg/scene"
)

func TestEncodeDecode(t *testing.T) {
	p := Payload{
		Kind:      "strand",
		ID:        "ext-42",
		Path:      "/weaves/research/strands/42",
		Title:     "Field notes",
		Summary:   "Observations from the field",
		Tags:      []string{"field", "notes"},
		WeaveSlug: "research",
	}

	transfer, err := Encode(p)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got := Decode(transfer)
	if got == nil {
		t.Fatal("Decode returned nil for valid transfer")
	}
	if got.ID != p.ID || got.Title != p.Title || got.WeaveSlug != p.WeaveSlug {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if len(got.Tags) != 2 {
		t.Errorf("Tags = %v", got.Tags)
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name     string
		transfer string
	}{
		{"TruncatedJSON", `{"kind": "strand", "title":`},
		{"NotJSON", "hello world"},
		{"EmptyObject", `{}`},
		{"EmptyString", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decode(tt.transfer); got != nil {
				t.Errorf("Decode(%q) = %+v, want nil", tt.transfer, got)
			}
		})
	}
}

func TestResolveKind(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		want    scene.Kind
		ok      bool
	}{
		{"ExplicitKind", Payload{Kind: "collection"}, scene.KindCollection, true},
		{"KindBeatsLevel", Payload{Kind: "strand", Level: 1}, scene.KindStrand, true},
		{"LegacyWeave", Payload{Level: 1}, scene.KindWeave, true},
		{"LegacyLoom", Payload{Level: 2}, scene.KindLoom, true},
		{"LegacyStrand", Payload{Level: 3}, scene.KindStrand, true},
		{"UnknownKind", Payload{Kind: "hexagon"}, 0, false},
		{"UnknownLevel", Payload{Level: 9}, 0, false},
		{"Neither", Payload{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveKind(&tt.payload)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("ResolveKind = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestScreenToCanvas(t *testing.T) {
	cam := scene.Camera{X: 100, Y: -50, Zoom: 2}
	got := ScreenToCanvas(cam, scene.Point{X: 400, Y: 300})

	// canvas = screen/zoom - camera
	want := scene.Point{X: 100, Y: 200}
	if got != want {
		t.Errorf("ScreenToCanvas = %+v, want %+v", got, want)
	}

	// Round trip through the forward projection.
	sx := (got.X + cam.X) * cam.Zoom
	sy := (got.Y + cam.Y) * cam.Zoom
	if sx != 400 || sy != 300 {
		t.Errorf("projection round trip = (%v, %v)", sx, sy)
	}
}

func TestDropCenterCorrectness(t *testing.T) {
	store := scene.NewStore("test")
	d := NewDropper(store, Callbacks{}, nil)

	transfer, _ := Encode(Payload{Kind: "strand", ID: "x", Path: "/x", Title: "X"})
	pointer := scene.Point{X: 640, Y: 360}
	cam := scene.DefaultCamera()

	id, err := d.Drop(map[string]string{TransferType: transfer}, pointer, cam)
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("Len = %d, want exactly one new node", store.Len())
	}

	n, _ := store.Node(id)
	center := n.Center()
	canvasPos := ScreenToCanvas(cam, pointer)
	if math.Abs(center.X-canvasPos.X) > 1e-9 || math.Abs(center.Y-canvasPos.Y) > 1e-9 {
		t.Errorf("node center = %+v, want drop point %+v", center, canvasPos)
	}
	if n.Props.CreatedAt == "" || n.Props.UpdatedAt == "" {
		t.Error("content-bearing node must carry ingestion timestamps")
	}
	if n.Props.Title != "X" || n.Props.Path != "/x" {
		t.Errorf("payload fields not seeded: %+v", n.Props)
	}
}

func TestDropMissingMarker(t *testing.T) {
	store := scene.NewStore("test")
	d := NewDropper(store, Callbacks{}, nil)

	_, err := d.Drop(map[string]string{"text/plain": "not ours"}, scene.Point{}, scene.DefaultCamera())
	if !lcerrors.Is(err, lcerrors.ErrCodeInvalidPayload) {
		t.Errorf("err = %v, want INVALID_PAYLOAD", err)
	}
	if store.Len() != 0 {
		t.Error("rejected drop must not mutate the scene")
	}
}

func TestDropCallback(t *testing.T) {
	store := scene.NewStore("test")
	var gotPayload *Payload
	var gotPos scene.Point
	d := NewDropper(store, Callbacks{
		OnDrop: func(p Payload, pos scene.Point) {
			gotPayload = &p
			gotPos = pos
		},
	}, nil)

	transfer, _ := Encode(Payload{Kind: "loom", ID: "l1", Path: "/l", Title: "Loom"})
	cam := scene.Camera{X: 10, Y: 10, Zoom: 1}
	if _, err := d.Drop(map[string]string{TransferType: transfer}, scene.Point{X: 50, Y: 50}, cam); err != nil {
		t.Fatal(err)
	}

	if gotPayload == nil || gotPayload.ID != "l1" {
		t.Fatal("OnDrop not invoked with payload")
	}
	if gotPos != (scene.Point{X: 40, Y: 40}) {
		t.Errorf("OnDrop position = %+v", gotPos)
	}
}

func TestDropZoneStateMachine(t *testing.T) {
	z := NewDropZone()
	if z.State() != DropIdle {
		t.Fatal("new zone should be idle")
	}

	valid := []string{"text/plain", TransferType}
	invalid := []string{"text/plain"}

	if got := z.Enter(valid, scene.Point{X: 1, Y: 1}); got != DropValid {
		t.Errorf("Enter(valid) = %v", got)
	}
	if got := z.Over(invalid, scene.Point{X: 2, Y: 2}); got != DropInvalid {
		t.Errorf("Over must re-check validity, got %v", got)
	}
	if got := z.Over(valid, scene.Point{X: 3, Y: 3}); got != DropValid {
		t.Errorf("Over(valid) = %v", got)
	}
	if z.Pointer() != (scene.Point{X: 3, Y: 3}) {
		t.Errorf("Pointer = %+v", z.Pointer())
	}

	z.Leave()
	if z.State() != DropIdle {
		t.Error("Leave should return to idle")
	}
}

func TestDropZoneRejectsInvalidDrop(t *testing.T) {
	store := scene.NewStore("test")
	d := NewDropper(store, Callbacks{}, nil)
	z := NewDropZone()

	z.Enter([]string{"text/plain"}, scene.Point{X: 5, Y: 5})
	_, err := z.Drop(d, map[string]string{"text/plain": "x"}, scene.DefaultCamera())
	if !lcerrors.Is(err, lcerrors.ErrCodeInvalidPayload) {
		t.Errorf("err = %v, want INVALID_PAYLOAD", err)
	}
	if z.State() != DropIdle {
		t.Error("zone should return to idle after drop")
	}
	if store.Len() != 0 {
		t.Error("invalid drop must not create nodes")
	}
}

func TestDragSource(t *testing.T) {
	b, err := DragSource(Payload{Kind: "strand", ID: "s", Path: "/s", Title: "S"})
	if err != nil {
		t.Fatal(err)
	}
	if !b.Draggable || b.TransferType != TransferType {
		t.Errorf("bindings = %+v", b)
	}
	if Decode(b.Data) == nil {
		t.Error("bindings data should decode back to a payload")
	}
}
