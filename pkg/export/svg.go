// Package export produces static renderings of a whole scene: a composed
// SVG document of node cards and connection edges, and a Graphviz view of
// the connection topology.
package export

import (
	"bytes"
	"fmt"

	"github.com/tapestrylab/loomcanvas/pkg/scene"
	"github.com/tapestrylab/loomcanvas/pkg/scene/shape"
)

const sceneMargin = 40.0

// SceneSVG renders every node in the store into one standalone SVG
// document. Connections are drawn first as edges between the nearest
// handle points of their endpoints, so cards overlay the lines. Child
// counts for weave/loom/collection badges are derived from the scene's
// parent-reference props.
func SceneSVG(s *scene.Store) string {
	nodes := s.Nodes()

	var body bytes.Buffer
	for _, n := range nodes {
		if n.Kind != scene.KindConnection {
			continue
		}
		renderEdge(&body, s, n)
	}
	counts := childCounts(nodes)
	for _, n := range nodes {
		if n.Kind == scene.KindConnection {
			continue
		}
		body.WriteString(shape.StaticSVG(n, shape.StaticInfo{ChildCount: counts[n.ID]}))
	}

	bounds := sceneBounds(nodes)

	var doc bytes.Buffer
	fmt.Fprintf(&doc, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f">`+"\n",
		bounds.X-sceneMargin, bounds.Y-sceneMargin, bounds.W+2*sceneMargin, bounds.H+2*sceneMargin)
	doc.Write(body.Bytes())
	doc.WriteString("</svg>\n")
	return doc.String()
}

// renderEdge draws a connection as a line between its endpoints' nearest
// handles. Connections whose endpoints no longer resolve fall back to the
// node's own bbox diagonal.
func renderEdge(buf *bytes.Buffer, s *scene.Store, conn scene.Node) {
	from, okFrom := s.Node(conn.Props.FromID)
	to, okTo := s.Node(conn.Props.ToID)
	if !okFrom || !okTo {
		buf.WriteString(shape.StaticSVG(conn, shape.StaticInfo{}))
		return
	}

	a := shape.NearestHandle(from, to.Center())
	b := shape.NearestHandle(to, from.Center())
	fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>`+"\n",
		a.X, a.Y, b.X, b.Y, shape.AccentColor(scene.KindConnection))
}

// childCounts tallies content nodes per parent slug. A strand's WeaveSlug
// and LoomSlug each credit the matching container node.
func childCounts(nodes []scene.Node) map[string]int {
	bySlug := make(map[string][]string) // slug -> container node IDs
	for _, n := range nodes {
		switch n.Kind {
		case scene.KindWeave:
			if n.Props.WeaveSlug != "" {
				bySlug[n.Props.WeaveSlug] = append(bySlug[n.Props.WeaveSlug], n.ID)
			}
		case scene.KindLoom:
			if n.Props.LoomSlug != "" {
				bySlug[n.Props.LoomSlug] = append(bySlug[n.Props.LoomSlug], n.ID)
			}
		}
	}

	counts := make(map[string]int)
	for _, n := range nodes {
		if n.Kind != scene.KindStrand {
			continue
		}
		for _, slug := range []string{n.Props.WeaveSlug, n.Props.LoomSlug} {
			if slug == "" {
				continue
			}
			for _, id := range bySlug[slug] {
				counts[id]++
			}
		}
	}
	return counts
}

func sceneBounds(nodes []scene.Node) scene.Rect {
	if len(nodes) == 0 {
		return scene.Rect{W: 1, H: 1}
	}
	bounds := nodes[0].Bounds()
	for _, n := range nodes[1:] {
		bounds = bounds.Union(n.Bounds())
	}
	return bounds
}
