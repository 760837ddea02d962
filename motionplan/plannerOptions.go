package motionplan

import (
	"encoding/json"
	"math"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/chainplan/utils"
)

const (
	// Maximum joint-space distance covered by a single extension.
	defaultStepSize = 0.01

	// Every defaultGoalBias-th iteration samples the goal instead of a random configuration.
	defaultGoalBias = 2

	// Number of planner iterations before giving up. 0 means no limit.
	defaultPlanIter = 0

	// Number of iterations between progress log lines.
	defaultLoggingInterval = 1000

	// Seed used for the planner's random sampler.
	defaultRandomSeed = 0
)

// NewBasicPlannerOptions returns a PlannerOptions with every field set to its default. The iteration
// budget and timeout can be overridden through the MP_PLAN_ITER and MP_PLAN_TIMEOUT environment
// variables.
func NewBasicPlannerOptions() *PlannerOptions {
	opt := &PlannerOptions{}
	opt.StepSize = defaultStepSize
	opt.GoalBias = defaultGoalBias
	opt.PlanIter = utils.GetenvInt(utils.PlanIterEnvVar, defaultPlanIter)
	opt.Timeout = utils.GetenvDuration(utils.PlanTimeoutEnvVar, 0).Seconds()
	opt.LoggingInterval = defaultLoggingInterval
	opt.RandomSeed = defaultRandomSeed
	return opt
}

// NewPlannerOptionsFromExtra overlays the keys of extra onto the default options. Keys use the json
// names of the PlannerOptions fields; unknown keys are an error.
func NewPlannerOptionsFromExtra(extra map[string]interface{}) (*PlannerOptions, error) {
	opt := NewBasicPlannerOptions()
	if extra == nil {
		return opt, nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           opt,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(extra); err != nil {
		return nil, errors.Wrap(err, "could not decode planner options")
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	return opt, nil
}

// PlannerOptions are a set of options used by a planning session to control the search.
type PlannerOptions struct {
	// Maximum distance between a node and the nearest existing node it was grown from.
	StepSize float64 `json:"step_size"`

	// Period of goal sampling in single-tree mode. 0 disables goal sampling.
	GoalBias int `json:"goal_bias"`

	// Grow a second tree from the goal and try to join the two.
	Bidirectional bool `json:"bidirectional"`

	// Repeat each extension toward the same target until it arrives or is blocked.
	Connect bool `json:"connect"`

	// Maximum number of loop iterations. 0 means unbounded.
	PlanIter int `json:"plan_iter"`

	// Maximum planning wall time, in seconds. 0 means unbounded.
	Timeout float64 `json:"timeout"`

	// Seed for the sampler. A session reseeded with the same value replays the same search.
	RandomSeed int `json:"rseed"`

	// Iterations between progress logs. 0 disables them.
	LoggingInterval int `json:"logging_interval"`
}

// Validate returns every problem with the options combined into one error.
func (p *PlannerOptions) Validate() error {
	var err error
	if p.StepSize <= 0 || math.IsNaN(p.StepSize) || math.IsInf(p.StepSize, 0) {
		err = multierr.Append(err, errors.Errorf("step_size must be positive and finite, got %v", p.StepSize))
	}
	if p.GoalBias < 0 {
		err = multierr.Append(err, errors.Errorf("goal_bias cannot be negative, got %d", p.GoalBias))
	}
	if p.PlanIter < 0 {
		err = multierr.Append(err, errors.Errorf("plan_iter cannot be negative, got %d", p.PlanIter))
	}
	if p.Timeout < 0 || math.IsNaN(p.Timeout) {
		err = multierr.Append(err, errors.Errorf("timeout cannot be negative, got %v", p.Timeout))
	}
	if p.LoggingInterval < 0 {
		err = multierr.Append(err, errors.Errorf("logging_interval cannot be negative, got %d", p.LoggingInterval))
	}
	return err
}

// TimeoutDuration returns the timeout as a duration.
func (p *PlannerOptions) TimeoutDuration() time.Duration {
	return time.Duration(p.Timeout * float64(time.Second))
}

func (p *PlannerOptions) String() string {
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(b)
}
