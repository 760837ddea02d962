// Package referenceframe defines joint-space configurations of a revolute chain and the metric on them.
//
// Every joint wraps modulo 2pi, so the configuration space is an N-torus. Stored configurations are
// always canonical: each angle lies in [0, 2pi).
package referenceframe

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/chainplan/utils"
)

// Configuration is an ordered list of joint angles in radians, one per revolute joint.
type Configuration []float64

// Sampler supplies uniform draws from [0, 1). *rand.Rand satisfies it.
type Sampler interface {
	Float64() float64
}

// CanonicalizeAngle wraps an angle into the principal range [0, 2pi). It is idempotent.
func CanonicalizeAngle(angle float64) float64 {
	return utils.ModAngRad(angle)
}

// NewConfiguration returns the canonical configuration for the given angles.
func NewConfiguration(angles ...float64) Configuration {
	q := make(Configuration, len(angles))
	for i, a := range angles {
		q[i] = CanonicalizeAngle(a)
	}
	return q
}

// DoF returns the number of joints described by the configuration.
func (q Configuration) DoF() int {
	return len(q)
}

// Canonical returns a copy of q with every angle wrapped into [0, 2pi).
func (q Configuration) Canonical() Configuration {
	return NewConfiguration(q...)
}

// Clone returns a copy of q.
func (q Configuration) Clone() Configuration {
	out := make(Configuration, len(q))
	copy(out, q)
	return out
}

// Equal reports whether q and r hold exactly the same angles.
func (q Configuration) Equal(r Configuration) bool {
	return len(q) == len(r) && floats.Equal(q, r)
}

// CheckDoF returns a DimensionMismatchError if q does not have exactly dof angles.
func (q Configuration) CheckDoF(dof int) error {
	if len(q) != dof {
		return NewIncorrectDoFError(len(q), dof)
	}
	return nil
}

// CheckFinite returns an error naming the first joint whose angle is NaN or infinite. Such an angle
// has no canonical form and no distance to anything.
func (q Configuration) CheckFinite() error {
	for i, a := range q {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return errors.Errorf("joint %d has non-finite angle %v", i, a)
		}
	}
	return nil
}

func (q Configuration) String() string {
	parts := make([]string, 0, len(q))
	for _, a := range q {
		parts = append(parts, fmt.Sprintf("%.4f", a))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Distance returns the toroidal Euclidean distance between two configurations: the two-norm of the
// per-joint shortest angular differences. It does not validate its arguments: mismatched lengths
// return +Inf, which only planner internals rely on after the dimensions were checked at the
// session boundary. Callers outside the planner should CheckDoF first.
func Distance(q, r Configuration) float64 {
	if len(q) != len(r) {
		return math.Inf(1)
	}
	diff := make([]float64, 0, len(q))
	for i, a := range q {
		diff = append(diff, utils.AngleDiffRad(a, r[i]))
	}
	// 2 is the L value returning a standard L2 Normalization
	return floats.Norm(diff, 2)
}

// ShortArc returns the signed angular change that moves angle `from` to angle `to` along the
// shorter arc. Its magnitude always equals utils.AngleDiffRad(from, to).
func ShortArc(from, to float64) float64 {
	delta := math.Mod(to-from, utils.TwoPi)
	if math.Abs(delta) < math.Pi {
		return delta
	}
	// the raw difference points the long way around
	return -math.Copysign(utils.TwoPi-math.Abs(delta), delta)
}

// RandomConfiguration draws each of the dof angles uniformly from [0, 2pi).
func RandomConfiguration(sampler Sampler, dof int) Configuration {
	q := make(Configuration, dof)
	for i := range q {
		q[i] = CanonicalizeAngle(sampler.Float64() * utils.TwoPi)
	}
	return q
}
