package motionplan

import (
	"go.viam.com/chainplan/referenceframe"
)

// ExtendOutcome describes what happened to a single extension attempt.
type ExtendOutcome int

const (
	// Committed means the candidate was collision free and added to the tree.
	Committed ExtendOutcome = iota
	// Rejected means the candidate's pose collided and was discarded.
	Rejected
	// NoOp means the target coincided with its nearest node, so there was nothing to steer toward.
	NoOp
)

func (o ExtendOutcome) String() string {
	switch o {
	case Committed:
		return "committed"
	case Rejected:
		return "rejected"
	case NoOp:
		return "noop"
	}
	return "unknown"
}

// Extension records one steer and collision check against one tree.
type Extension struct {
	Tree      TreeID
	Target    referenceframe.Configuration
	Nearest   int
	Candidate referenceframe.Configuration
	Outcome   ExtendOutcome
	// NodeID is the id of the committed node, or NoParent when nothing was committed.
	NodeID int
}

// Event is what an Observer sees after every extension decision.
type Event struct {
	Iteration int
	Extension Extension
	// Tree is the tree that was extended, already updated when the outcome is Committed.
	Tree *Tree
}

// Observer is notified after each extension. Observers must not block for long and cannot change
// the search; the tree they are handed has no exported mutators.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a plain function into an Observer.
type ObserverFunc func(Event)

// Observe calls f.
func (f ObserverFunc) Observe(ev Event) {
	f(ev)
}
