package motionplan

import (
	"go.viam.com/chainplan/referenceframe"
)

// steer returns the configuration one step of at most stepSize from `from` toward `to`.
//
// Each joint moves along its own shorter arc by the same fraction stepSize/d of that arc, where d is
// the distance between the configurations. The joints therefore move together along the torus
// geodesic and the result is exactly stepSize closer to `to`. When `to` is within stepSize it is
// returned as is. When the two coincide there is no direction to move in, so a copy of `from` is
// returned along with ErrDegenerateStep.
func steer(from, to referenceframe.Configuration, stepSize float64) (referenceframe.Configuration, error) {
	d := referenceframe.Distance(to, from)
	if d == 0 {
		return from.Clone(), ErrDegenerateStep
	}
	if d <= stepSize {
		return to.Clone(), nil
	}
	frac := stepSize / d
	next := make(referenceframe.Configuration, len(from))
	for i, c := range from {
		next[i] = referenceframe.CanonicalizeAngle(c + referenceframe.ShortArc(c, to[i])*frac)
	}
	return next, nil
}

// Steer is steer with a dimension check on its arguments.
func Steer(from, to referenceframe.Configuration, stepSize float64) (referenceframe.Configuration, error) {
	if err := to.CheckDoF(from.DoF()); err != nil {
		return nil, err
	}
	return steer(from, to, stepSize)
}
