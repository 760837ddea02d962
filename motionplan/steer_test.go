package motionplan

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"go.viam.com/test"

	"go.viam.com/chainplan/referenceframe"
)

func TestSteerClampsToTarget(t *testing.T) {
	from := referenceframe.NewConfiguration(1, 2)
	to := referenceframe.NewConfiguration(1.03, 1.96)
	next, err := Steer(from, to, 0.1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, next, test.ShouldResemble, to)

	// the result is a copy
	next[0] = 5
	test.That(t, to[0], test.ShouldEqual, 1.03)
}

func TestSteerDegenerate(t *testing.T) {
	q := referenceframe.NewConfiguration(0.5, 4)
	next, err := Steer(q, q.Clone(), 0.1)
	test.That(t, err, test.ShouldBeError, ErrDegenerateStep)
	test.That(t, next, test.ShouldResemble, q)
}

func TestSteerStepLength(t *testing.T) {
	//nolint:gosec
	rng := rand.New(rand.NewSource(3))
	const step = 0.1
	for i := 0; i < 500; i++ {
		from := referenceframe.RandomConfiguration(rng, 4)
		to := referenceframe.RandomConfiguration(rng, 4)
		d := referenceframe.Distance(from, to)
		next, err := Steer(from, to, step)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, next, test.ShouldResemble, next.Canonical())
		if d <= step {
			test.That(t, next, test.ShouldResemble, to)
			continue
		}
		test.That(t, referenceframe.Distance(from, next), test.ShouldAlmostEqual, step, 1e-9)
		test.That(t, referenceframe.Distance(next, to), test.ShouldAlmostEqual, d-step, 1e-9)
	}
}

func TestSteerAcrossWrap(t *testing.T) {
	// the short way from 0.3 to 6.2 runs down through zero
	next, err := Steer(referenceframe.NewConfiguration(0.3), referenceframe.NewConfiguration(6.2), 0.1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, referenceframe.Distance(next, referenceframe.NewConfiguration(0.2)), test.ShouldBeLessThan, 1e-9)

	next, err = Steer(referenceframe.NewConfiguration(6.2), referenceframe.NewConfiguration(0.3), 0.1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, referenceframe.Distance(next, referenceframe.NewConfiguration(6.3-2*math.Pi)), test.ShouldBeLessThan, 1e-9)
}

func TestRepeatedSteeringReachesTarget(t *testing.T) {
	from := referenceframe.NewConfiguration(0, 0, 0)
	to := referenceframe.NewConfiguration(3, 5, 1)
	const step = 0.05
	want := int(math.Ceil(referenceframe.Distance(from, to) / step))

	cur := from
	steps := 0
	for !cur.Equal(to) {
		next, err := Steer(cur, to, step)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, referenceframe.Distance(cur, next), test.ShouldBeLessThanOrEqualTo, step+1e-9)
		cur = next
		steps++
		test.That(t, steps, test.ShouldBeLessThanOrEqualTo, want+1)
	}
	test.That(t, steps, test.ShouldBeBetweenOrEqual, want-1, want+1)
}

func TestSteerDimensionMismatch(t *testing.T) {
	_, err := Steer(referenceframe.NewConfiguration(0, 1), referenceframe.NewConfiguration(0), 0.1)
	var mismatch *referenceframe.DimensionMismatchError
	test.That(t, errors.As(err, &mismatch), test.ShouldBeTrue)
}
