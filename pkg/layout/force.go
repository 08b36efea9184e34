package layout

import (
	"math"

	"github.com/tapestrylab/loomcanvas/pkg/scene"
)

const (
	// forceIterations is the fixed relaxation budget. The loop runs
	// synchronously on the calling goroutine; at this budget it is bounded
	// and cheap enough not to require chunking.
	forceIterations = 50

	// repulsionStrength scales the pairwise inverse-square repulsion:
	// force = repulsionStrength / dist².
	repulsionStrength = 10000

	// minDistance floors pairwise distances so coincident nodes don't blow
	// up the division.
	minDistance = 1

	// springCoefficient is the weak centering pull toward the anchor.
	springCoefficient = 0.01

	// stepScale and damping govern velocity integration per iteration.
	stepScale = 0.1
	damping   = 0.9
)

// applyForce runs a Fruchterman-Reingold-style relaxation for a fixed
// iteration budget. It is not guaranteed to converge to a global optimum,
// only to a locally stable, visually de-overlapped arrangement.
func applyForce(strands []*scene.Node, anchor scene.Point) {
	n := len(strands)
	if n == 0 {
		return
	}

	vx := make([]float64, n)
	vy := make([]float64, n)

	for iter := 0; iter < forceIterations; iter++ {
		fx := make([]float64, n)
		fy := make([]float64, n)

		// Pairwise inverse-square repulsion, applied to both members.
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := strands[i].X - strands[j].X
				dy := strands[i].Y - strands[j].Y
				dist := math.Hypot(dx, dy)
				if dist < minDistance {
					dist = minDistance
					// Coincident nodes get a deterministic nudge apart.
					dx, dy = 1, 0
				}
				f := repulsionStrength / (dist * dist)
				ux, uy := dx/dist, dy/dist
				fx[i] += f * ux
				fy[i] += f * uy
				fx[j] -= f * ux
				fy[j] -= f * uy
			}
		}

		// Weak centering spring toward the anchor.
		for i := 0; i < n; i++ {
			fx[i] += (anchor.X - strands[i].X) * springCoefficient
			fy[i] += (anchor.Y - strands[i].Y) * springCoefficient
		}

		// Velocity integration with damping after each position update.
		for i := 0; i < n; i++ {
			vx[i] += fx[i] * stepScale
			vy[i] += fy[i] * stepScale
			strands[i].X += vx[i]
			strands[i].Y += vy[i]
			vx[i] *= damping
			vy[i] *= damping
		}
	}
}
