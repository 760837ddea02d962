package motionplan

import (
	"context"

	"go.viam.com/chainplan/referenceframe"
	"go.viam.com/chainplan/utils"
)

// Trees larger than this are scanned in parallel.
const neighborsBeforeParallelization = 1000

type neighbor struct {
	dist float64
	id   int
}

// closerThan orders neighbors by distance, then by id so ties resolve to the earliest node.
func (n neighbor) closerThan(other neighbor) bool {
	if n.dist != other.dist {
		return n.dist < other.dist
	}
	return n.id < other.id
}

// nearestNeighbor returns the node of the tree closest to q. The parallel and sequential scans
// return the same node.
func nearestNeighbor(tree *Tree, q referenceframe.Configuration) (neighbor, error) {
	if tree == nil || len(tree.nodes) == 0 {
		return neighbor{id: NoParent}, ErrEmptyTree
	}
	if len(tree.nodes) > neighborsBeforeParallelization {
		return parallelNearestNeighbor(tree.nodes, q), nil
	}
	return scanNeighbors(tree.nodes, 0, len(tree.nodes), q), nil
}

// scanNeighbors returns the closest of nodes[from:to], which must not be empty.
func scanNeighbors(nodes []*Node, from, to int, q referenceframe.Configuration) neighbor {
	best := neighbor{dist: referenceframe.Distance(q, nodes[from].Q), id: nodes[from].ID}
	for _, n := range nodes[from+1 : to] {
		candidate := neighbor{dist: referenceframe.Distance(q, n.Q), id: n.ID}
		if candidate.closerThan(best) {
			best = candidate
		}
	}
	return best
}

func parallelNearestNeighbor(nodes []*Node, q referenceframe.Configuration) neighbor {
	var groupBest []neighbor
	var found []bool
	//nolint:errcheck
	utils.GroupWorkParallel(
		context.Background(),
		len(nodes),
		func(numGroups int) {
			groupBest = make([]neighbor, numGroups)
			found = make([]bool, numGroups)
		},
		func(groupNum, groupSize, from, to int) (utils.MemberWorkFunc, utils.GroupWorkDoneFunc) {
			if groupSize == 0 {
				return nil, nil
			}
			return nil, func() {
				groupBest[groupNum] = scanNeighbors(nodes, from, to, q)
				found[groupNum] = true
			}
		},
	)
	best := neighbor{id: NoParent}
	for i, nn := range groupBest {
		if !found[i] {
			continue
		}
		if best.id == NoParent || nn.closerThan(best) {
			best = nn
		}
	}
	return best
}

// NearestNeighbor returns the id of the tree node closest to q, preferring the lowest id on ties.
func NearestNeighbor(tree *Tree, q referenceframe.Configuration) (int, error) {
	if tree != nil && len(tree.nodes) > 0 {
		if err := q.CheckDoF(tree.nodes[0].Q.DoF()); err != nil {
			return NoParent, err
		}
	}
	nn, err := nearestNeighbor(tree, q)
	if err != nil {
		return NoParent, err
	}
	return nn.id, nil
}
