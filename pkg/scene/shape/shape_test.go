package shape

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/tapestrylab/loomcanvas/pkg/scene"
)

var allKinds = []scene.Kind{
	scene.KindStrand,
	scene.KindLoom,
	scene.KindWeave,
	scene.KindCollection,
	scene.KindConnection,
}

func TestClampResizeInvariant(t *testing.T) {
	proposals := []struct{ w, h float64 }{
		{0, 0},
		{-50, -50},
		{1, 1},
		{240, 140},
		{1e6, 1e6},
		{100, 1e6},
	}

	for _, k := range allKinds {
		b := Bounds(k)
		for _, p := range proposals {
			w, h := ClampResize(k, p.w, p.h)
			if w < b.MinW || w > b.MaxW {
				t.Errorf("%v: ClampResize(%v) w = %v outside [%v, %v]", k, p.w, w, b.MinW, b.MaxW)
			}
			if h < b.MinH || h > b.MaxH {
				t.Errorf("%v: ClampResize(%v) h = %v outside [%v, %v]", k, p.h, h, b.MinH, b.MaxH)
			}
		}
	}
}

func TestDefaultSizeWithinBounds(t *testing.T) {
	for _, k := range allKinds {
		w, h := DefaultSize(k)
		cw, ch := ClampResize(k, w, h)
		if cw != w || ch != h {
			t.Errorf("%v: default size %vx%v not within bounds", k, w, h)
		}
	}
}

func TestWeaveMinimumLargerThanStrand(t *testing.T) {
	if Bounds(scene.KindWeave).MinW <= Bounds(scene.KindStrand).MinW {
		t.Error("weave region minimum width should exceed strand card minimum")
	}
}

func TestHandles(t *testing.T) {
	n := scene.Node{ID: "a", Kind: scene.KindStrand, X: 100, Y: 200, W: 240, H: 140}
	got := Handles(n)

	want := []scene.Point{
		{X: 220, Y: 200}, // top
		{X: 340, Y: 270}, // right
		{X: 220, Y: 340}, // bottom
		{X: 100, Y: 270}, // left
	}
	if len(got) != 4 {
		t.Fatalf("got %d handles, want 4", len(got))
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("handles[%d] = %+v, want %+v", i, got[i], w)
		}
	}
}

func TestNearestHandle(t *testing.T) {
	n := scene.Node{Kind: scene.KindStrand, X: 0, Y: 0, W: 100, H: 100}
	got := NearestHandle(n, scene.Point{X: 500, Y: 50})
	if got != (scene.Point{X: 100, Y: 50}) {
		t.Errorf("NearestHandle = %+v, want right midpoint", got)
	}
}

func TestSupportsExpand(t *testing.T) {
	want := map[scene.Kind]bool{
		scene.KindStrand:     false,
		scene.KindLoom:       false,
		scene.KindWeave:      true,
		scene.KindCollection: true,
		scene.KindConnection: false,
	}
	for k, expect := range want {
		if got := SupportsExpand(k); got != expect {
			t.Errorf("SupportsExpand(%v) = %v, want %v", k, got, expect)
		}
	}
}

func TestGeometryMatchesBounds(t *testing.T) {
	for _, k := range allKinds {
		n := scene.Node{Kind: k, X: 5, Y: 6, W: 300, H: 250}
		if Geometry(n) != n.Bounds() {
			t.Errorf("%v: geometry != bounds", k)
		}
	}
}

func TestStaticSVG(t *testing.T) {
	n := scene.Node{
		ID: "s1", Kind: scene.KindWeave, X: 10, Y: 20, W: 480, H: 320,
		Props: scene.Props{Title: "Research <threads>", Summary: "All active work"},
	}
	svg := StaticSVG(n, StaticInfo{ChildCount: 7})

	if !strings.Contains(svg, "Research &lt;threads&gt;") {
		t.Error("title missing or unescaped")
	}
	if !strings.Contains(svg, AccentColor(scene.KindWeave)) {
		t.Error("accent color missing")
	}
	if !strings.Contains(svg, ">7</text>") {
		t.Error("child count badge missing")
	}

	// Deterministic output.
	if svg != StaticSVG(n, StaticInfo{ChildCount: 7}) {
		t.Error("StaticSVG not deterministic")
	}
}

func TestStaticSVGTruncatesSummaryOnRuneBoundary(t *testing.T) {
	// Longer than the 48-rune summary cap; every rune is multibyte, so a
	// byte-indexed cut would split one and leak U+FFFD into the output.
	n := scene.Node{
		ID: "s1", Kind: scene.KindStrand, W: 240, H: 140,
		Props: scene.Props{Title: "Notes", Summary: strings.Repeat("庭", 60)},
	}
	svg := StaticSVG(n, StaticInfo{})

	if !utf8.ValidString(svg) {
		t.Fatal("output is not valid UTF-8")
	}
	if strings.ContainsRune(svg, utf8.RuneError) {
		t.Error("output contains U+FFFD replacement rune")
	}
	if !strings.Contains(svg, strings.Repeat("庭", 47)+"…") {
		t.Error("summary not truncated to 47 runes plus ellipsis")
	}
}

func TestStaticSVGConnection(t *testing.T) {
	n := scene.Node{ID: "c1", Kind: scene.KindConnection, X: 0, Y: 0, W: 50, H: 80}
	svg := StaticSVG(n, StaticInfo{})
	if !strings.Contains(svg, "<line") {
		t.Errorf("connection export should be a line, got %q", svg)
	}
}
