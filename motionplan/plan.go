package motionplan

import (
	"math"
	"time"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"go.viam.com/chainplan/kinematics"
	"go.viam.com/chainplan/referenceframe"
)

// Trajectory is an ordered sequence of configurations.
type Trajectory []referenceframe.Configuration

// Evaluate returns the summed joint-space distance between consecutive configurations.
func (t Trajectory) Evaluate() float64 {
	total := 0.
	for i := 1; i < len(t); i++ {
		total += referenceframe.Distance(t[i-1], t[i])
	}
	return total
}

// MaxStep returns the largest distance between consecutive configurations.
func (t Trajectory) MaxStep() float64 {
	maxStep := 0.
	for i := 1; i < len(t); i++ {
		maxStep = math.Max(maxStep, referenceframe.Distance(t[i-1], t[i]))
	}
	return maxStep
}

// Reverse returns a copy of t in the opposite order.
func (t Trajectory) Reverse() Trajectory {
	out := make(Trajectory, 0, len(t))
	for i := len(t) - 1; i >= 0; i-- {
		out = append(out, t[i])
	}
	return out
}

// Poses runs forward kinematics on every configuration of the trajectory.
func (t Trajectory) Poses(chain *kinematics.Chain) ([][]r2.Point, error) {
	poses := make([][]r2.Point, 0, len(t))
	for i, q := range t {
		pose, err := chain.Transform(q)
		if err != nil {
			return nil, errors.Wrapf(err, "configuration %d of trajectory", i)
		}
		poses = append(poses, pose)
	}
	return poses, nil
}

// Solution is the result of a finished planning session.
type Solution struct {
	// StartPath runs from the start configuration to the start tree's last committed node.
	StartPath Trajectory
	// GoalPath runs from the goal tree's last committed node to the goal configuration. It is nil in
	// single-tree mode.
	GoalPath Trajectory

	Iterations    int
	StartTreeSize int
	GoalTreeSize  int
	Elapsed       time.Duration
}

// Trajectory returns the complete path: StartPath followed by GoalPath.
func (s *Solution) Trajectory() Trajectory {
	out := make(Trajectory, 0, len(s.StartPath)+len(s.GoalPath))
	out = append(out, s.StartPath...)
	return append(out, s.GoalPath...)
}

// Poses runs forward kinematics over the complete path.
func (s *Solution) Poses(chain *kinematics.Chain) ([][]r2.Point, error) {
	return s.Trajectory().Poses(chain)
}

// ExtractPath returns the configurations from the root of tree to the node with the given id by
// following parent links back to the root and reversing.
func ExtractPath(tree *Tree, id int) (Trajectory, error) {
	ids, err := tree.ancestry(id)
	if err != nil {
		return nil, err
	}
	traj := make(Trajectory, 0, len(ids))
	// walk from the root outward
	for i := len(ids) - 1; i >= 0; i-- {
		traj = append(traj, tree.nodes[ids[i]].Q)
	}
	return traj, nil
}

// ShortestPath returns the fewest-edge path from the root to id through the tree's graph. In a tree
// there is exactly one path, so this always agrees with ExtractPath; it serves as an independent
// check of the parent links.
func ShortestPath(tree *Tree, id int) (Trajectory, error) {
	if _, err := tree.Node(id); err != nil {
		return nil, err
	}
	g := tree.Graph()
	shortest := path.DijkstraFrom(simple.Node(0), g)
	nodes, _ := shortest.To(int64(id))
	if len(nodes) == 0 {
		return nil, errors.Errorf("node %d is not connected to the root", id)
	}
	return lo.Map(nodes, func(n graph.Node, _ int) referenceframe.Configuration {
		return tree.nodes[n.ID()].Q
	}), nil
}
