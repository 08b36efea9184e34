package layout

import (
	"math"

	"github.com/tapestrylab/loomcanvas/pkg/scene"
)

const (
	// clusterRadius is the fixed distance of each group's center from the
	// anchor.
	clusterRadius = 300

	// memberBaseRadius and memberRadiusStep size the inner ring a group's
	// members sit on: 100 + memberCount*20.
	memberBaseRadius = 100
	memberRadiusStep = 20

	// ungroupedKey is the bucket for strands without a parent reference.
	ungroupedKey = "ungrouped"
)

// applyCluster groups strands by their weave slug (falling back to the
// ungrouped bucket) and assigns each group an angular slot at fixed radius
// around the anchor. Within a group, members sit on an inner ring whose
// radius grows with group size, at evenly spaced angles.
//
// Group order is first-seen insertion order of the grouping key, not
// sorted: re-running on the same node set is deterministic, but the result
// depends on input iteration order. This matches the visual expectation
// that newer groups appear at later slots and is intentional.
func applyCluster(strands []*scene.Node, anchor scene.Point) {
	if len(strands) == 0 {
		return
	}

	groups := make(map[string][]*scene.Node)
	var keys []string
	for _, s := range strands {
		key := s.Props.WeaveSlug
		if key == "" {
			key = ungroupedKey
		}
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], s)
	}

	for gi, key := range keys {
		members := groups[key]
		groupAngle := 2 * math.Pi * float64(gi) / float64(len(keys))
		cx := anchor.X + clusterRadius*math.Cos(groupAngle)
		cy := anchor.Y + clusterRadius*math.Sin(groupAngle)

		ringRadius := float64(memberBaseRadius + len(members)*memberRadiusStep)
		for mi, s := range members {
			memberAngle := 2 * math.Pi * float64(mi) / float64(len(members))
			// Center the card on its ring position.
			s.X = cx + ringRadius*math.Cos(memberAngle) - s.W/2
			s.Y = cy + ringRadius*math.Sin(memberAngle) - s.H/2
		}
	}
}
