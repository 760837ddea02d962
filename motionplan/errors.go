package motionplan

import "github.com/pkg/errors"

var (
	// ErrEmptyTree is returned by a nearest neighbor query against a tree with no nodes. Every tree is
	// created with a root, so seeing this means a Tree was constructed without NewTree.
	ErrEmptyTree = errors.New("nearest neighbor query on a tree with no nodes")

	// ErrDegenerateStep is returned when steering is asked to move a configuration toward itself.
	// The extension is skipped rather than dividing by a zero distance.
	ErrDegenerateStep = errors.New("steering target coincides with the nearest node")

	// ErrPlanningNotTerminated is returned when the planner exhausts its iteration or time budget
	// before the termination condition holds. The goal may be unreachable.
	ErrPlanningNotTerminated = errors.New("motion planner did not terminate within its budget")

	// ErrUnknownNode is returned when a node id does not belong to a tree.
	ErrUnknownNode = errors.New("node id not present in tree")

	errNoPlannerOptions = errors.New("planner options cannot be nil")
)
