package motionplan

import (
	"math"

	"github.com/golang/geo/r3"
	"go.viam.com/utils"

	vutil "github.com/starfield-nav/starplan/utils"
)

const neighborsBeforeParallelization = 1000

// neighborManager answers proximity queries against a search tree.
type neighborManager struct {
	nCPU int
}

type neighbor struct {
	dist float64
	node *basicNode
}

// nearestNeighbor returns the tree node closest to target, scanning linearly
// below neighborsBeforeParallelization and fanning out to workers above it.
func (nm *neighborManager) nearestNeighbor(target r3.Vector, tree []*basicNode) *basicNode {
	if len(tree) > neighborsBeforeParallelization && nm.nCPU > 1 {
		// If the tree is large, calculate distances in parallel
		return nm.parallelNearestNeighbor(target, tree)
	}
	bestDist := math.Inf(1)
	var best *basicNode
	for _, k := range tree {
		dist := k.pose.Sub(target).Norm2()
		if dist < bestDist {
			bestDist = dist
			best = k
		}
	}
	return best
}

func (nm *neighborManager) parallelNearestNeighbor(target r3.Vector, tree []*basicNode) *basicNode {
	keys := make(chan *basicNode, nm.nCPU)
	results := make(chan *neighbor, nm.nCPU)
	for i := 0; i < nm.nCPU; i++ {
		utils.PanicCapturingGo(func() {
			best := &neighbor{dist: math.Inf(1)}
			for k := range keys {
				if dist := k.pose.Sub(target).Norm2(); dist < best.dist {
					best = &neighbor{dist: dist, node: k}
				}
			}
			results <- best
		})
	}
	for _, k := range tree {
		keys <- k
	}
	close(keys)

	var best *basicNode
	bestDist := math.Inf(1)
	for i := 0; i < nm.nCPU; i++ {
		nn := <-results
		if nn.node != nil && nn.dist < bestDist {
			bestDist = nn.dist
			best = nn.node
		}
	}
	return best
}

// neighborsWithinRadius returns every tree node within radius of pose.
func (nm *neighborManager) neighborsWithinRadius(pose r3.Vector, radius float64, tree []*basicNode) []*basicNode {
	near := []*basicNode{}
	maxDist := vutil.Square(radius)
	for _, k := range tree {
		if k.pose.Sub(pose).Norm2() <= maxDist {
			near = append(near, k)
		}
	}
	return near
}
