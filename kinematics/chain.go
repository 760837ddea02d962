// Package kinematics implements forward kinematics for a planar serial chain of rigid links joined
// at revolute joints.
package kinematics

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.viam.com/chainplan/referenceframe"
)

// Chain is a planar articulated chain: link i has length Lengths[i] and rotates about joint i.
// Joint 0 sits at Base.
type Chain struct {
	Lengths []float64 `json:"lengths"`
	Base    r2.Point  `json:"base"`
}

// NewChain validates the link lengths and returns a chain rooted at base.
func NewChain(lengths []float64, base r2.Point) (*Chain, error) {
	ls := make([]float64, len(lengths))
	copy(ls, lengths)
	c := &Chain{Lengths: ls, Base: base}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that the chain has at least one link, every link length is positive and finite,
// and the base is finite. Chains decoded from json skip NewChain, so planners call this themselves.
func (c *Chain) Validate() error {
	if c == nil || len(c.Lengths) == 0 {
		return errors.New("a chain needs at least one link")
	}
	for i, l := range c.Lengths {
		if l <= 0 || math.IsNaN(l) || math.IsInf(l, 0) {
			return errors.Errorf("link %d has invalid length %v", i, l)
		}
	}
	if !finite(c.Base.X) || !finite(c.Base.Y) {
		return errors.Errorf("chain base %v is not finite", c.Base)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NewUniformChain returns a chain of n links of equal length summing to totalLength.
func NewUniformChain(n int, totalLength float64, base r2.Point) (*Chain, error) {
	if n <= 0 {
		return nil, errors.Errorf("cannot build a chain with %d links", n)
	}
	lengths := make([]float64, n)
	for i := range lengths {
		lengths[i] = totalLength / float64(n)
	}
	return NewChain(lengths, base)
}

// DoF returns the number of joints, which is also the number of angles in a configuration.
func (c *Chain) DoF() int {
	return len(c.Lengths)
}

// Reach returns the sum of the link lengths.
func (c *Chain) Reach() float64 {
	total := 0.
	for _, l := range c.Lengths {
		total += l
	}
	return total
}

// Transform computes the pose of the chain: the base followed by the far end of every link, N+1
// points in all. The configuration must have one angle per joint.
func (c *Chain) Transform(q referenceframe.Configuration) ([]r2.Point, error) {
	if err := q.CheckDoF(c.DoF()); err != nil {
		return nil, err
	}
	return pose(c.Lengths, c.Base, q), nil
}

// pose walks the chain from base with a cumulative angle starting at 0; joint i adds q[i] to the
// cumulative angle and link i is then laid along it. Callers guarantee len(q) == len(lengths).
func pose(lengths []float64, base r2.Point, q referenceframe.Configuration) []r2.Point {
	points := make([]r2.Point, 0, len(lengths)+1)
	points = append(points, base)
	current := base
	cumAngle := 0.
	for i, l := range lengths {
		cumAngle += q[i]
		current = current.Add(r2.Point{X: l * math.Cos(cumAngle), Y: l * math.Sin(cumAngle)})
		points = append(points, current)
	}
	return points
}
