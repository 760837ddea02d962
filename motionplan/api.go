// Package motionplan plans collision-free joint-space paths for a planar revolute chain with a
// rapidly-exploring random tree, grown either from the start alone or from both the start and the
// goal.
package motionplan

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"go.viam.com/chainplan/collision"
	"go.viam.com/chainplan/kinematics"
	"go.viam.com/chainplan/logging"
	"go.viam.com/chainplan/referenceframe"
)

// PlanRequest is a complete, serializable planning problem.
type PlanRequest struct {
	Chain *kinematics.Chain            `json:"chain"`
	Start referenceframe.Configuration `json:"start"`
	Goal  referenceframe.Configuration `json:"goal"`

	// Obstacles is a fixed set of discs. RandomObstacles, when set, takes precedence.
	Obstacles       collision.Discs               `json:"obstacles,omitempty"`
	RandomObstacles *collision.RandomDiscProvider `json:"random_obstacles,omitempty"`

	// Options holds overrides of the default planner options, keyed by their json names.
	Options map[string]interface{} `json:"planner_options,omitempty"`
}

// ReadPlanRequest loads a PlanRequest from a json file.
func ReadPlanRequest(filename string) (*PlanRequest, error) {
	//nolint:gosec
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	req := &PlanRequest{}
	if err := json.Unmarshal(content, req); err != nil {
		return nil, errors.Wrapf(err, "could not parse plan request %s", filename)
	}
	if req.Chain != nil {
		if err := req.Chain.Validate(); err != nil {
			return nil, errors.Wrapf(err, "invalid chain in plan request %s", filename)
		}
	}
	return req, nil
}

// Provider returns the obstacle provider the request describes.
func (req *PlanRequest) Provider() collision.Provider {
	if req.RandomObstacles != nil {
		return req.RandomObstacles
	}
	return collision.NewStaticProvider(req.Obstacles)
}

// NewSession builds a session for the request, checking collisions against disc obstacles.
func (req *PlanRequest) NewSession(ctx context.Context, logger logging.Logger, opts ...SessionOption) (*Session, error) {
	plannerOpts, err := NewPlannerOptionsFromExtra(req.Options)
	if err != nil {
		return nil, err
	}
	return NewSession(ctx, req.Chain, req.Start, req.Goal, collision.DiscChecker{}, req.Provider(), plannerOpts, logger, opts...)
}

// PlanMotion solves a PlanRequest from scratch.
func PlanMotion(ctx context.Context, req *PlanRequest, logger logging.Logger) (*Solution, error) {
	if req == nil {
		return nil, errors.New("no plan request")
	}
	session, err := req.NewSession(ctx, logger)
	if err != nil {
		return nil, err
	}
	return session.Plan(ctx)
}

// PlanParallel solves the request once per seed, running the sessions concurrently, and returns the
// solution with the shortest path. Ties go to the earlier seed. A seed that exhausts its budget is
// skipped; ErrPlanningNotTerminated is returned only if every seed does. Any other error cancels the
// remaining sessions.
func PlanParallel(ctx context.Context, req *PlanRequest, seeds []int, logger logging.Logger) (*Solution, error) {
	if req == nil {
		return nil, errors.New("no plan request")
	}
	if len(seeds) == 0 {
		return nil, errors.New("need at least one seed")
	}
	if logger == nil {
		logger = logging.NewBlankLogger("motionplan")
	}
	base, err := NewPlannerOptionsFromExtra(req.Options)
	if err != nil {
		return nil, err
	}

	solutions := make([]*Solution, len(seeds))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, seed := range seeds {
		i, seed := i, seed
		group.Go(func() error {
			opts := *base
			opts.RandomSeed = seed
			session, err := NewSession(groupCtx, req.Chain, req.Start, req.Goal, collision.DiscChecker{}, req.Provider(), &opts,
				logger.Sublogger(fmt.Sprintf("seed%d", seed)))
			if err != nil {
				return err
			}
			sol, err := session.Plan(groupCtx)
			if errors.Is(err, ErrPlanningNotTerminated) {
				logger.Debugf("seed %d did not terminate: %v", seed, err)
				return nil
			}
			if err != nil {
				return err
			}
			solutions[i] = sol
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var best *Solution
	for _, sol := range solutions {
		if sol == nil {
			continue
		}
		if best == nil || sol.Trajectory().Evaluate() < best.Trajectory().Evaluate() {
			best = sol
		}
	}
	if best == nil {
		return nil, errors.Wrapf(ErrPlanningNotTerminated, "none of %d seeds", len(seeds))
	}
	return best, nil
}
