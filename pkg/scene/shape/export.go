package shape

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/tapestrylab/loomcanvas/pkg/scene"
)

// StaticInfo carries the scene-derived metrics a static export needs.
// It is computed by the caller so the fragment depends on no live state.
type StaticInfo struct {
	// ChildCount is the number of content nodes belonging to this node
	// (strands in a weave or loom, references in a collection). Zero for
	// strands and connections.
	ChildCount int
}

const (
	headerHeight = 28.0
	cornerRadius = 8.0
	badgeRadius  = 12.0
)

// StaticSVG renders a node as a self-contained SVG fragment positioned at
// the node's canvas coordinates. The output is deterministic: title text,
// kind accent header band, and a child-count badge, with no dependence on
// selection or hover state.
func StaticSVG(n scene.Node, info StaticInfo) string {
	var buf bytes.Buffer
	switch n.Kind {
	case scene.KindStrand, scene.KindLoom, scene.KindWeave, scene.KindCollection:
		renderCard(&buf, n, info)
	case scene.KindConnection:
		// A connection's own bbox export is its diagonal; composed scene
		// exports draw connections from resolved handle anchors instead.
		fmt.Fprintf(&buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>`+"\n",
			n.X, n.Y, n.X+n.W, n.Y+n.H, accent(n))
	default:
		panic(fmt.Sprintf("shape: unhandled kind %v", n.Kind))
	}
	return buf.String()
}

func renderCard(buf *bytes.Buffer, n scene.Node, info StaticInfo) {
	color := accent(n)

	fmt.Fprintf(buf, `<g id="node-%s">`+"\n", escape(n.ID))
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="white" stroke="%s" stroke-width="1.5"/>`+"\n",
		n.X, n.Y, n.W, n.H, cornerRadius, color)
	fmt.Fprintf(buf, `  <path d="M %.1f %.1f h %.1f a %.1f %.1f 0 0 1 %.1f %.1f v %.1f h %.1f v %.1f a %.1f %.1f 0 0 1 %.1f %.1f z" fill="%s"/>`+"\n",
		n.X+cornerRadius, n.Y,
		n.W-2*cornerRadius,
		cornerRadius, cornerRadius, cornerRadius, cornerRadius,
		headerHeight-cornerRadius,
		-n.W,
		-(headerHeight - cornerRadius),
		cornerRadius, cornerRadius, cornerRadius, -cornerRadius,
		color)
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="13" font-weight="bold" fill="white">%s</text>`+"\n",
		n.X+10, n.Y+headerHeight-9, escape(n.DisplayTitle()))

	if n.Props.Summary != "" {
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="11" fill="#475569">%s</text>`+"\n",
			n.X+10, n.Y+headerHeight+18, escape(truncate(n.Props.Summary, 48)))
	}

	if info.ChildCount > 0 {
		cx, cy := n.X+n.W-badgeRadius-6, n.Y+n.H-badgeRadius-6
		fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n", cx, cy, badgeRadius, color)
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="11" fill="white" text-anchor="middle">%d</text>`+"\n",
			cx, cy+4, info.ChildCount)
	}

	buf.WriteString("</g>\n")
}

func accent(n scene.Node) string {
	if n.Props.Accent != "" {
		return n.Props.Accent
	}
	return AccentColor(n.Kind)
}

// truncate caps s at max runes. Cutting on rune boundaries keeps
// multibyte summaries valid UTF-8.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}

func escape(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
