package layout

import (
	"math"
	"slices"

	"github.com/tapestrylab/loomcanvas/pkg/scene"
	"github.com/tapestrylab/loomcanvas/pkg/scene/shape"
)

// cardPadding is the constant gap between cards in grid and timeline runs.
const cardPadding = 40

// pitch returns the fixed card pitch: default strand card size plus padding.
func pitch() (px, py float64) {
	w, h := shape.DefaultSize(scene.KindStrand)
	return w + cardPadding, h + cardPadding
}

// applyGrid arranges strands into ceil(sqrt(N)) columns, row-major,
// centered on anchor. Deterministic; output depends on input order only
// through each node's index.
func applyGrid(strands []*scene.Node, anchor scene.Point) {
	n := len(strands)
	if n == 0 {
		return
	}

	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	px, py := pitch()

	originX := anchor.X - float64(cols)*px/2
	originY := anchor.Y - float64(rows)*py/2

	for i, s := range strands {
		col := i % cols
		row := i / cols
		s.X = originX + float64(col)*px
		s.Y = originY + float64(row)*py
	}
}

// applyTimeline sorts strands ascending by CreatedAt (lexicographic
// ISO-8601 compare; empty timestamps sort first) and places them
// left-to-right at constant pitch, vertically centered on anchor.
func applyTimeline(strands []*scene.Node, anchor scene.Point) {
	n := len(strands)
	if n == 0 {
		return
	}

	sorted := make([]*scene.Node, n)
	copy(sorted, strands)
	slices.SortStableFunc(sorted, func(a, b *scene.Node) int {
		ta, tb := a.Props.CreatedAt, b.Props.CreatedAt
		if ta < tb {
			return -1
		}
		if ta > tb {
			return 1
		}
		return 0
	})

	px, _ := pitch()
	originX := anchor.X - float64(n)*px/2

	for i, s := range sorted {
		s.X = originX + float64(i)*px
		s.Y = anchor.Y - s.H/2
	}
}
