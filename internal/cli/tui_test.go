package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tapestrylab/loomcanvas/pkg/ingest"
	"github.com/tapestrylab/loomcanvas/pkg/keymap"
	"github.com/tapestrylab/loomcanvas/pkg/scene"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "delete":
		return tea.KeyMsg{Type: tea.KeyDelete}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+a":
		return tea.KeyMsg{Type: tea.KeyCtrlA}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(m *canvasModel, keys ...string) {
	for _, k := range keys {
		m.Update(keyMsg(k))
	}
}

func testModel(t *testing.T) *canvasModel {
	t.Helper()
	s := scene.NewStore("scene-1")
	_, err := s.CreateNodes([]scene.Node{
		{ID: "a", Kind: scene.KindStrand, X: 0, Y: 0, W: 240, H: 140, Props: scene.Props{Title: "Alpha"}},
		{ID: "b", Kind: scene.KindStrand, X: 400, Y: 0, W: 240, H: 140, Props: scene.Props{Title: "Beta"}},
		{ID: "c", Kind: scene.KindStrand, X: 0, Y: 400, W: 240, H: 140, Props: scene.Props{Title: "Gamma"}},
	})
	if err != nil {
		t.Fatalf("CreateNodes: %v", err)
	}
	return newCanvasModel(s, ingest.Callbacks{})
}

func TestDigitAppliesLayout(t *testing.T) {
	m := testModel(t)
	press(m, "2")
	if m.store.ActiveLayout() != scene.LayoutGrid {
		t.Errorf("active layout = %q, want grid", m.store.ActiveLayout())
	}
	press(m, "5")
	if m.store.ActiveLayout() != scene.LayoutCluster {
		t.Errorf("active layout = %q, want cluster", m.store.ActiveLayout())
	}
}

func TestDeleteRemovesSelection(t *testing.T) {
	m := testModel(t)
	// Select the first two nodes.
	press(m, " ", "j", " ")
	press(m, "delete")
	if m.store.Len() != 1 {
		t.Fatalf("store has %d nodes, want 1", m.store.Len())
	}
	if _, ok := m.store.Node("c"); !ok {
		t.Error("unselected node was deleted")
	}
}

func TestDeleteFallsBackToCursor(t *testing.T) {
	m := testModel(t)
	press(m, "j", "delete")
	if m.store.Len() != 2 {
		t.Fatalf("store has %d nodes, want 2", m.store.Len())
	}
	if _, ok := m.store.Node("b"); ok {
		t.Error("cursor node survived delete")
	}
}

func TestRenameGuardsShortcuts(t *testing.T) {
	m := testModel(t)
	press(m, "ctrl+a") // select all
	if len(m.selected) != 3 {
		t.Fatalf("selected %d, want 3", len(m.selected))
	}

	// Enter rename mode; Delete must now type nothing and delete no nodes.
	press(m, "enter")
	if !m.editing {
		t.Fatal("enter did not start rename")
	}
	press(m, "delete")
	if m.store.Len() != 3 {
		t.Errorf("delete removed nodes while renaming: %d left", m.store.Len())
	}

	// Digits go into the buffer, not the layout.
	press(m, "2")
	if m.store.ActiveLayout() != scene.LayoutFreeform {
		t.Errorf("layout changed while renaming: %q", m.store.ActiveLayout())
	}
	if m.editBuffer != "Alpha2" {
		t.Errorf("buffer = %q, want Alpha2", m.editBuffer)
	}

	press(m, "enter")
	if m.editing {
		t.Fatal("enter did not commit rename")
	}
	n, _ := m.store.Node("a")
	if n.Props.Title != "Alpha2" {
		t.Errorf("title = %q", n.Props.Title)
	}
}

func TestRenameCancel(t *testing.T) {
	m := testModel(t)
	press(m, "enter", "x", "esc")
	if m.editing {
		t.Fatal("esc did not cancel rename")
	}
	n, _ := m.store.Node("a")
	if n.Props.Title != "Alpha" {
		t.Errorf("title = %q, want Alpha", n.Props.Title)
	}
}

func TestEscapeClearsSelection(t *testing.T) {
	m := testModel(t)
	press(m, "ctrl+a", "esc")
	if len(m.selected) != 0 {
		t.Errorf("selected %d after escape", len(m.selected))
	}
}

func TestZoomKeys(t *testing.T) {
	m := testModel(t)
	press(m, "+")
	if z := m.store.Camera().Zoom; z <= 1 {
		t.Errorf("zoom after + = %v", z)
	}
	press(m, "0")
	if z := m.store.Camera().Zoom; z != 1 {
		t.Errorf("zoom after 0 = %v, want 1", z)
	}
	press(m, "-")
	if z := m.store.Camera().Zoom; z >= 1 {
		t.Errorf("zoom after - = %v", z)
	}
}

func TestViewModeCycleRenders(t *testing.T) {
	m := testModel(t)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	if m.controller.ViewMode() != keymap.ViewList {
		t.Fatalf("initial mode = %v", m.controller.ViewMode())
	}
	for i := 0; i < 3; i++ {
		if v := m.View(); v == "" {
			t.Fatalf("empty view in mode %v", m.controller.ViewMode())
		}
		press(m, "v")
	}
	if m.controller.ViewMode() != keymap.ViewList {
		t.Errorf("mode after full cycle = %v", m.controller.ViewMode())
	}
}

func TestOpenNodeActivates(t *testing.T) {
	s := scene.NewStore("scene-1")
	_, err := s.CreateNodes([]scene.Node{
		{ID: "a", Kind: scene.KindStrand, W: 240, H: 140, Props: scene.Props{Title: "Alpha", Path: "/notes/alpha"}},
		{ID: "b", Kind: scene.KindStrand, X: 400, W: 240, H: 140, Props: scene.Props{Title: "Beta"}},
	})
	if err != nil {
		t.Fatalf("CreateNodes: %v", err)
	}

	var got []string
	m := newCanvasModel(s, ingest.Callbacks{
		OnNodeActivate: func(path string) { got = append(got, path) },
	})

	press(m, "o")      // node with a path
	press(m, "j", "o") // pathless node falls back to its ID
	if len(got) != 2 || got[0] != "/notes/alpha" || got[1] != "b" {
		t.Errorf("OnNodeActivate calls = %v, want [/notes/alpha b]", got)
	}
}

func TestLayoutShortcutFiresCallback(t *testing.T) {
	s := scene.NewStore("scene-1")
	if _, err := s.CreateNodes([]scene.Node{
		{ID: "a", Kind: scene.KindStrand, W: 240, H: 140, Props: scene.Props{Title: "Alpha"}},
	}); err != nil {
		t.Fatalf("CreateNodes: %v", err)
	}

	var got []scene.LayoutKind
	m := newCanvasModel(s, ingest.Callbacks{
		OnLayoutChange: func(kind scene.LayoutKind) { got = append(got, kind) },
	})

	press(m, "4")
	if len(got) != 1 || got[0] != scene.LayoutTimeline {
		t.Errorf("OnLayoutChange calls = %v, want [timeline]", got)
	}

	// Suppressed while renaming.
	press(m, "enter", "2", "esc")
	if len(got) != 1 {
		t.Errorf("OnLayoutChange calls = %v after guarded digit", got)
	}
}

func TestGridSnapNudge(t *testing.T) {
	m := testModel(t)

	// Offset the node so snapping has something to correct.
	x, y := 7.0, 3.0
	m.store.UpdateNode("a", scene.Patch{X: &x, Y: &y})

	press(m, "g", "L")
	n, _ := m.store.Node("a")
	if n.X != 20 || n.Y != 0 {
		t.Errorf("snapped position = (%v, %v), want (20, 0)", n.X, n.Y)
	}
}
