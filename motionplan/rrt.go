package motionplan

import (
	"context"
	"math/rand"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"

	"go.viam.com/chainplan/collision"
	"go.viam.com/chainplan/kinematics"
	"go.viam.com/chainplan/logging"
	"go.viam.com/chainplan/referenceframe"
)

// SessionOption configures optional parts of a Session.
type SessionOption func(*Session)

// WithClock replaces the wall clock used for the timeout and elapsed time.
func WithClock(c clock.Clock) SessionOption {
	return func(s *Session) {
		s.clock = c
	}
}

// WithSampler replaces the seeded sampler. A session with a caller supplied sampler is not reseeded
// by Restart.
func WithSampler(sampler referenceframe.Sampler) SessionOption {
	return func(s *Session) {
		s.sampler = sampler
		s.fixedSampler = true
	}
}

// WithObserver registers an observer for every extension.
func WithObserver(o Observer) SessionOption {
	return func(s *Session) {
		s.observers = append(s.observers, o)
	}
}

// StepResult summarizes a single loop iteration.
type StepResult struct {
	Iteration  int
	Extensions []Extension
	// Done reports whether the termination condition held after the iteration.
	Done bool
}

// Session holds the state of one planning problem: the chain, the endpoints, the obstacle set and
// the growing trees. In single-tree mode the goal tree is nil.
//
// A Session is not safe for concurrent use.
type Session struct {
	id        uuid.UUID
	chain     *kinematics.Chain
	start     referenceframe.Configuration
	goal      referenceframe.Configuration
	oracle    collision.Oracle
	provider  collision.Provider
	obstacles collision.Obstacles
	opts      *PlannerOptions
	logger    logging.Logger

	clock        clock.Clock
	sampler      referenceframe.Sampler
	fixedSampler bool
	observers    []Observer

	startTree *Tree
	goalTree  *Tree
	iteration int
	done      bool
}

// NewSession validates its inputs, pulls the obstacle set from provider and seeds the trees. Start
// and goal are canonicalized.
func NewSession(
	ctx context.Context,
	chain *kinematics.Chain,
	start, goal referenceframe.Configuration,
	oracle collision.Oracle,
	provider collision.Provider,
	opts *PlannerOptions,
	logger logging.Logger,
	sessionOpts ...SessionOption,
) (*Session, error) {
	if chain == nil {
		return nil, errors.New("cannot plan for a nil chain")
	}
	if err := chain.Validate(); err != nil {
		return nil, err
	}
	if opts == nil {
		return nil, errNoPlannerOptions
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := start.CheckDoF(chain.DoF()); err != nil {
		return nil, errors.Wrap(err, "start configuration")
	}
	if err := goal.CheckDoF(chain.DoF()); err != nil {
		return nil, errors.Wrap(err, "goal configuration")
	}
	if err := start.CheckFinite(); err != nil {
		return nil, errors.Wrap(err, "start configuration")
	}
	if err := goal.CheckFinite(); err != nil {
		return nil, errors.Wrap(err, "goal configuration")
	}
	if oracle == nil {
		oracle = collision.DiscChecker{}
	}
	if provider == nil {
		provider = collision.NewStaticProvider(nil)
	}
	if logger == nil {
		logger = logging.NewBlankLogger("motionplan")
	}
	s := &Session{
		id:       uuid.New(),
		chain:    chain,
		start:    start.Canonical(),
		goal:     goal.Canonical(),
		oracle:   oracle,
		provider: provider,
		opts:     opts,
		logger:   logger.Sublogger("session"),
		clock:    clock.New(),
	}
	for _, o := range sessionOpts {
		o(s)
	}
	if err := s.reset(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Restart refreshes the obstacle set, reseeds the sampler and discards both trees, leaving the
// session as NewSession returned it.
func (s *Session) Restart(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "motionplan::Session::Restart")
	defer span.End()
	span.AddAttributes(trace.StringAttribute("session", s.id.String()))
	return s.reset(ctx)
}

func (s *Session) reset(ctx context.Context) error {
	obstacles, err := s.provider.Obstacles(ctx)
	if err != nil {
		return errors.Wrap(err, "could not get obstacles")
	}
	s.obstacles = obstacles
	if !s.fixedSampler {
		//nolint:gosec
		s.sampler = rand.New(rand.NewSource(int64(s.opts.RandomSeed)))
	}
	s.startTree = NewTree(StartTree, s.start)
	s.goalTree = nil
	if s.opts.Bidirectional {
		s.goalTree = NewTree(GoalTree, s.goal)
	}
	s.iteration = 0
	s.done = s.frontierDistance() <= s.opts.StepSize
	return nil
}

// ID identifies the session in logs and traces. It does not influence the search.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// StartTree returns the tree rooted at the start configuration.
func (s *Session) StartTree() *Tree {
	return s.startTree
}

// GoalTree returns the tree rooted at the goal configuration, or nil in single-tree mode.
func (s *Session) GoalTree() *Tree {
	return s.goalTree
}

// Obstacles returns the obstacle set the session is planning against.
func (s *Session) Obstacles() collision.Obstacles {
	return s.obstacles
}

// Chain returns the chain being planned for.
func (s *Session) Chain() *kinematics.Chain {
	return s.chain
}

// Iterations returns the number of completed loop iterations.
func (s *Session) Iterations() int {
	return s.iteration
}

// Done reports whether the termination condition holds.
func (s *Session) Done() bool {
	return s.done
}

// frontierDistance is the quantity compared against the step size for termination: the start
// tree's last node to the goal, or to the goal tree's last node when planning bidirectionally.
func (s *Session) frontierDistance() float64 {
	if s.goalTree != nil {
		return referenceframe.Distance(s.startTree.LastCommitted().Q, s.goalTree.LastCommitted().Q)
	}
	return referenceframe.Distance(s.startTree.LastCommitted().Q, s.goal)
}

func (s *Session) sample() referenceframe.Configuration {
	return referenceframe.RandomConfiguration(s.sampler, s.chain.DoF())
}

// Step runs a single iteration of the planning loop. Once the session is done it returns a result
// with Done set and no extensions.
func (s *Session) Step() (*StepResult, error) {
	res := &StepResult{Iteration: s.iteration}
	if s.done {
		res.Done = true
		return res, nil
	}
	var err error
	if s.goalTree == nil {
		res.Extensions, err = s.singleTreeStep()
	} else {
		res.Extensions, err = s.bidirectionalStep()
	}
	if err != nil {
		return nil, err
	}
	s.iteration++
	s.done = s.frontierDistance() <= s.opts.StepSize
	res.Done = s.done
	return res, nil
}

func (s *Session) singleTreeStep() ([]Extension, error) {
	target := s.goal
	if s.opts.GoalBias == 0 || s.iteration%s.opts.GoalBias != 0 {
		target = s.sample()
	}
	return s.extend(s.startTree, target)
}

func (s *Session) bidirectionalStep() ([]Extension, error) {
	exts, err := s.extend(s.startTree, s.sample())
	if err != nil {
		return nil, err
	}
	more, err := s.extend(s.goalTree, s.startTree.LastCommitted().Q)
	if err != nil {
		return nil, err
	}
	exts = append(exts, more...)
	if s.frontierDistance() <= s.opts.StepSize {
		return exts, nil
	}

	more, err = s.extend(s.goalTree, s.sample())
	if err != nil {
		return nil, err
	}
	exts = append(exts, more...)
	more, err = s.extend(s.startTree, s.goalTree.LastCommitted().Q)
	if err != nil {
		return nil, err
	}
	return append(exts, more...), nil
}

// extend grows tree toward target. In connect mode it keeps extending toward the same target until
// the new node lands within one step of it, or an extension is rejected or skipped.
func (s *Session) extend(tree *Tree, target referenceframe.Configuration) ([]Extension, error) {
	target = target.Clone()
	var exts []Extension
	for {
		ext, err := s.extendOnce(tree, target)
		if err != nil {
			return nil, err
		}
		exts = append(exts, ext)
		if !s.opts.Connect || ext.Outcome != Committed {
			return exts, nil
		}
		if referenceframe.Distance(ext.Candidate, target) <= s.opts.StepSize {
			return exts, nil
		}
	}
}

func (s *Session) extendOnce(tree *Tree, target referenceframe.Configuration) (Extension, error) {
	ext := Extension{Tree: tree.ID(), Target: target, NodeID: NoParent}
	nn, err := nearestNeighbor(tree, target)
	if err != nil {
		return ext, err
	}
	ext.Nearest = nn.id
	candidate, err := steer(tree.nodes[nn.id].Q, target, s.opts.StepSize)
	ext.Candidate = candidate
	switch {
	case errors.Is(err, ErrDegenerateStep):
		ext.Outcome = NoOp
	case err != nil:
		return ext, err
	default:
		pose, err := s.chain.Transform(candidate)
		if err != nil {
			return ext, err
		}
		if !s.oracle.CollisionFree(pose, s.obstacles) {
			ext.Outcome = Rejected
			break
		}
		node, err := tree.add(candidate, nn.id)
		if err != nil {
			return ext, err
		}
		ext.Outcome = Committed
		ext.NodeID = node.ID
	}
	s.notify(Event{Iteration: s.iteration, Extension: ext, Tree: tree})
	return ext, nil
}

func (s *Session) notify(ev Event) {
	for _, o := range s.observers {
		o.Observe(ev)
	}
}

// Plan runs Step until the termination condition holds, the context is cancelled, or the iteration
// or time budget in the planner options runs out.
func (s *Session) Plan(ctx context.Context) (*Solution, error) {
	ctx, span := trace.StartSpan(ctx, "motionplan::Session::Plan")
	defer span.End()
	span.AddAttributes(trace.StringAttribute("session", s.id.String()))

	startTime := s.clock.Now()
	timeout := s.opts.TimeoutDuration()
	s.logger.Debugf("session %s planning %d joints from %v to %v with options %v", s.id, s.chain.DoF(), s.start, s.goal, s.opts)

	for !s.done {
		select {
		case <-ctx.Done():
			s.logger.Debugf("planning aborted after %d iterations", s.iteration)
			return nil, ctx.Err()
		default:
		}
		if s.opts.PlanIter > 0 && s.iteration >= s.opts.PlanIter {
			s.logger.Warnf("planner hit iteration limit %d", s.opts.PlanIter)
			return nil, errors.Wrapf(ErrPlanningNotTerminated, "iteration limit %d reached", s.opts.PlanIter)
		}
		if timeout > 0 && s.clock.Since(startTime) >= timeout {
			s.logger.Warnf("planner hit timeout %v after %d iterations", timeout, s.iteration)
			return nil, errors.Wrapf(ErrPlanningNotTerminated, "timeout %v reached after %d iterations", timeout, s.iteration)
		}
		if _, err := s.Step(); err != nil {
			return nil, err
		}
		if s.opts.LoggingInterval > 0 && s.iteration%s.opts.LoggingInterval == 0 {
			s.logProgress()
		}
	}

	elapsed := s.clock.Since(startTime)
	s.logProgress()
	s.logger.Infof("time elapsed: %v", elapsed)
	sol, err := s.Solution()
	if err != nil {
		return nil, err
	}
	sol.Elapsed = elapsed
	return sol, nil
}

func (s *Session) logProgress() {
	goalSize := 0
	if s.goalTree != nil {
		goalSize = s.goalTree.Size()
	}
	s.logger.Debugw("planning progress",
		"iteration", s.iteration,
		"start_tree", s.startTree.Size(),
		"goal_tree", goalSize,
		"frontier_distance", s.frontierDistance(),
	)
}

// Solution extracts the path from a finished session.
func (s *Session) Solution() (*Solution, error) {
	if !s.done {
		return nil, ErrPlanningNotTerminated
	}
	sol := &Solution{Iterations: s.iteration, StartTreeSize: s.startTree.Size()}
	var err error
	sol.StartPath, err = ExtractPath(s.startTree, s.startTree.LastCommitted().ID)
	if err != nil {
		return nil, err
	}
	if s.goalTree != nil {
		sol.GoalTreeSize = s.goalTree.Size()
		goalPath, err := ExtractPath(s.goalTree, s.goalTree.LastCommitted().ID)
		if err != nil {
			return nil, err
		}
		sol.GoalPath = goalPath.Reverse()
	}
	return sol, nil
}
