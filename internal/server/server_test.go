package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/tapestrylab/loomcanvas/pkg/ingest"
	"github.com/tapestrylab/loomcanvas/pkg/scene"
	"github.com/tapestrylab/loomcanvas/pkg/snapshot"
)

func newTestServer(t *testing.T) (*Server, *scene.Store) {
	t.Helper()
	store := scene.NewStore("scene-1")
	adapter := snapshot.NewAdapter(snapshot.NewMemoryStore(), log.New(io.Discard))
	srv := NewServer(Deps{Store: store, Adapter: adapter, Logger: log.New(io.Discard)})
	return srv, store
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCreateAndGetScene(t *testing.T) {
	srv, store := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/scene/nodes", map[string]any{
		"nodes": []map[string]any{
			{"id": "s1", "kind": "strand", "x": 10, "y": 20,
				"props": map[string]any{"title": "First"}},
			{"kind": "weave"},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var created struct {
		IDs []string `json:"ids"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(created.IDs) != 2 || created.IDs[0] != "s1" || created.IDs[1] == "" {
		t.Fatalf("ids = %v", created.IDs)
	}

	// Zero-size nodes get their kind's default size.
	n, _ := store.Node("s1")
	if n.W != 240 || n.H != 140 {
		t.Errorf("strand size = %vx%v, want 240x140", n.W, n.H)
	}

	rec = doJSON(t, h, http.MethodGet, "/scene/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get scene status = %d", rec.Code)
	}
	var file struct {
		SceneID string `json:"scene_id"`
		Nodes   []struct {
			ID   string `json:"id"`
			Kind string `json:"kind"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &file); err != nil {
		t.Fatalf("decode scene: %v", err)
	}
	if file.SceneID != "scene-1" || len(file.Nodes) != 2 {
		t.Errorf("scene = %+v", file)
	}
	if file.Nodes[0].Kind != "strand" || file.Nodes[1].Kind != "weave" {
		t.Errorf("kinds = %+v", file.Nodes)
	}
}

func TestCreateNodesErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	tests := []struct {
		name string
		body map[string]any
		want int
		code string
	}{
		{
			name: "empty batch",
			body: map[string]any{"nodes": []map[string]any{}},
			want: http.StatusBadRequest,
			code: "INVALID_INPUT",
		},
		{
			name: "unknown kind",
			body: map[string]any{"nodes": []map[string]any{{"kind": "blob"}}},
			want: http.StatusBadRequest,
			code: "INVALID_KIND",
		},
		{
			name: "dangling connection",
			body: map[string]any{"nodes": []map[string]any{
				{"kind": "connection", "props": map[string]any{"from_id": "x", "to_id": "y"}},
			}},
			want: http.StatusBadRequest,
			code: "DANGLING_REFERENCE",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/scene/nodes", tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d; body = %s", rec.Code, tt.want, rec.Body)
			}
			if !strings.Contains(rec.Body.String(), tt.code) {
				t.Errorf("body %s missing code %s", rec.Body, tt.code)
			}
		})
	}
}

func TestPatchNode(t *testing.T) {
	srv, store := newTestServer(t)
	h := srv.Handler()
	store.CreateNodes([]scene.Node{{ID: "s1", Kind: scene.KindStrand, W: 240, H: 140}})

	// An oversized resize is clamped to the strand's maximum.
	rec := doJSON(t, h, http.MethodPatch, "/scene/nodes/s1", map[string]any{
		"w": 9999.0, "title": "Renamed",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	n, _ := store.Node("s1")
	if n.W != 480 {
		t.Errorf("clamped width = %v, want 480", n.W)
	}
	if n.Props.Title != "Renamed" {
		t.Errorf("title = %q", n.Props.Title)
	}

	rec = doJSON(t, h, http.MethodPatch, "/scene/nodes/ghost", map[string]any{"title": "x"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing node status = %d", rec.Code)
	}
}

func TestDeleteNodes(t *testing.T) {
	srv, store := newTestServer(t)
	h := srv.Handler()
	store.CreateNodes([]scene.Node{{ID: "s1", Kind: scene.KindStrand}})

	rec := doJSON(t, h, http.MethodDelete, "/scene/nodes", map[string]any{
		"ids": []string{"s1", "ghost"},
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if store.Len() != 0 {
		t.Errorf("store has %d nodes after delete", store.Len())
	}
}

func TestApplyLayout(t *testing.T) {
	srv, store := newTestServer(t)
	h := srv.Handler()
	store.CreateNodes([]scene.Node{
		{ID: "a", Kind: scene.KindStrand, W: 240, H: 140},
		{ID: "b", Kind: scene.KindStrand, X: 900, Y: 900, W: 240, H: 140},
	})

	rec := doJSON(t, h, http.MethodPost, "/scene/layout", map[string]any{
		"kind": "grid", "anchor": map[string]float64{"x": 0, "y": 0},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if store.ActiveLayout() != scene.LayoutGrid {
		t.Errorf("active layout = %q", store.ActiveLayout())
	}

	a, _ := store.Node("a")
	b, _ := store.Node("b")
	if a.X == 0 && a.Y == 0 && b.X == 900 {
		t.Error("layout did not move nodes")
	}

	rec = doJSON(t, h, http.MethodPost, "/scene/layout", map[string]any{"kind": "spiral"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown layout status = %d", rec.Code)
	}
}

func TestApplyLayoutFiresCallback(t *testing.T) {
	store := scene.NewStore("scene-1")
	store.CreateNodes([]scene.Node{{ID: "a", Kind: scene.KindStrand, W: 240, H: 140}})
	adapter := snapshot.NewAdapter(snapshot.NewMemoryStore(), log.New(io.Discard))

	var got []scene.LayoutKind
	srv := NewServer(Deps{
		Store: store, Adapter: adapter, Logger: log.New(io.Discard),
		Callbacks: ingest.Callbacks{
			OnLayoutChange: func(kind scene.LayoutKind) { got = append(got, kind) },
		},
	})
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/scene/layout", map[string]any{"kind": "cluster"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if len(got) != 1 || got[0] != scene.LayoutCluster {
		t.Errorf("OnLayoutChange calls = %v, want [cluster]", got)
	}

	// A rejected layout must not fire.
	doJSON(t, h, http.MethodPost, "/scene/layout", map[string]any{"kind": "spiral"})
	if len(got) != 1 {
		t.Errorf("OnLayoutChange calls = %v after invalid kind", got)
	}
}

func TestSetCamera(t *testing.T) {
	srv, store := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPut, "/scene/camera", map[string]float64{
		"x": -50, "y": 10, "z": 2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if store.Camera() != (scene.Camera{X: -50, Y: 10, Zoom: 2}) {
		t.Errorf("camera = %+v", store.Camera())
	}
}

func TestDrop(t *testing.T) {
	srv, store := newTestServer(t)
	h := srv.Handler()

	transfer, err := ingest.Encode(ingest.Payload{
		Kind: "strand", ID: "note-1", Title: "Dropped", Path: "/notes/1",
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	rec := doJSON(t, h, http.MethodPost, "/scene/drop", map[string]any{
		"transfers": map[string]string{ingest.TransferType: transfer},
		"pointer":   map[string]float64{"x": 400, "y": 300},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if store.Len() != 1 {
		t.Fatalf("store has %d nodes", store.Len())
	}

	// Missing marker rejects without mutation.
	rec = doJSON(t, h, http.MethodPost, "/scene/drop", map[string]any{
		"transfers": map[string]string{"text/plain": "hello"},
		"pointer":   map[string]float64{"x": 0, "y": 0},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid drop status = %d", rec.Code)
	}
	if store.Len() != 1 {
		t.Errorf("invalid drop mutated the scene")
	}
}

func TestExportSVG(t *testing.T) {
	srv, store := newTestServer(t)
	h := srv.Handler()
	store.CreateNodes([]scene.Node{{ID: "s1", Kind: scene.KindStrand, W: 240, H: 140}})

	rec := doJSON(t, h, http.MethodGet, "/scene/export.svg", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `id="node-s1"`) {
		t.Errorf("svg missing node: %.120s", rec.Body.String())
	}
}

func TestSnapshotEndpoints(t *testing.T) {
	srv, store := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodGet, "/snapshot/", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("empty snapshot status = %d", rec.Code)
	}

	store.SetCamera(scene.Camera{X: 7, Y: 8, Zoom: 1.25})
	if err := srv.adapter.Save(t.Context(), store); err != nil {
		t.Fatalf("Save: %v", err)
	}

	rec = doJSON(t, h, http.MethodGet, "/snapshot/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("snapshot status = %d", rec.Code)
	}

	store.SetCamera(scene.DefaultCamera())
	rec = doJSON(t, h, http.MethodPost, "/snapshot/restore", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("restore status = %d", rec.Code)
	}
	if store.Camera() != (scene.Camera{X: 7, Y: 8, Zoom: 1.25}) {
		t.Errorf("restored camera = %+v", store.Camera())
	}

	rec = doJSON(t, h, http.MethodDelete, "/snapshot/", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/snapshot/", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("snapshot after clear status = %d", rec.Code)
	}
}
