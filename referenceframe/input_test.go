package referenceframe

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/chainplan/utils"
)

func TestCanonicalize(t *testing.T) {
	q := NewConfiguration(-math.Pi/2, 3*math.Pi, utils.TwoPi, 0.25)
	test.That(t, q[0], test.ShouldAlmostEqual, 3*math.Pi/2)
	test.That(t, q[1], test.ShouldAlmostEqual, math.Pi)
	test.That(t, q[2], test.ShouldEqual, 0)
	test.That(t, q[3], test.ShouldEqual, 0.25)

	//nolint:gosec
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		a := (rng.Float64() - 0.5) * 40
		once := CanonicalizeAngle(a)
		test.That(t, CanonicalizeAngle(once), test.ShouldEqual, once)
		test.That(t, once, test.ShouldBeGreaterThanOrEqualTo, 0)
		test.That(t, once, test.ShouldBeLessThan, utils.TwoPi)
	}
	test.That(t, q.Canonical().Equal(q), test.ShouldBeTrue)
}

func TestDistanceIsAMetric(t *testing.T) {
	//nolint:gosec
	rng := rand.New(rand.NewSource(42))
	const dof = 4
	for i := 0; i < 200; i++ {
		a := RandomConfiguration(rng, dof)
		b := RandomConfiguration(rng, dof)
		c := RandomConfiguration(rng, dof)

		test.That(t, Distance(a, a), test.ShouldEqual, 0)
		test.That(t, Distance(a, b), test.ShouldAlmostEqual, Distance(b, a))
		test.That(t, Distance(a, c), test.ShouldBeLessThanOrEqualTo, Distance(a, b)+Distance(b, c)+1e-9)
		// no joint can be farther than pi from any other
		test.That(t, Distance(a, b), test.ShouldBeLessThanOrEqualTo, math.Pi*math.Sqrt(dof)+1e-9)
	}
}

func TestDistanceWraps(t *testing.T) {
	a := NewConfiguration(0.1, 0)
	b := NewConfiguration(utils.TwoPi-0.1, 0)
	test.That(t, Distance(a, b), test.ShouldAlmostEqual, 0.2)

	c := NewConfiguration(0, 0)
	d := NewConfiguration(math.Pi, math.Pi)
	test.That(t, Distance(c, d), test.ShouldAlmostEqual, math.Pi*math.Sqrt2)

	test.That(t, math.IsInf(Distance(a, NewConfiguration(1)), 1), test.ShouldBeTrue)
}

func TestShortArc(t *testing.T) {
	test.That(t, ShortArc(0.1, 0.5), test.ShouldAlmostEqual, 0.4)
	test.That(t, ShortArc(0.1, utils.TwoPi-0.1), test.ShouldAlmostEqual, -0.2)
	test.That(t, ShortArc(utils.TwoPi-0.1, 0.1), test.ShouldAlmostEqual, 0.2)
	test.That(t, math.Abs(ShortArc(0, math.Pi)), test.ShouldAlmostEqual, math.Pi)

	//nolint:gosec
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		from := rng.Float64() * utils.TwoPi
		to := rng.Float64() * utils.TwoPi
		arc := ShortArc(from, to)
		test.That(t, math.Abs(arc), test.ShouldAlmostEqual, utils.AngleDiffRad(from, to))
		test.That(t, CanonicalizeAngle(from+arc), test.ShouldAlmostEqual, to)
	}
}

func TestCheckDoF(t *testing.T) {
	q := NewConfiguration(1, 2, 3)
	test.That(t, q.CheckDoF(3), test.ShouldBeNil)

	err := q.CheckDoF(2)
	test.That(t, err, test.ShouldNotBeNil)
	var mismatch *DimensionMismatchError
	test.That(t, errors.As(err, &mismatch), test.ShouldBeTrue)
	test.That(t, mismatch.Actual, test.ShouldEqual, 3)
	test.That(t, mismatch.Expected, test.ShouldEqual, 2)
	test.That(t, err.Error(), test.ShouldContainSubstring, "have 3 need 2")
}

func TestRandomConfiguration(t *testing.T) {
	//nolint:gosec
	a := RandomConfiguration(rand.New(rand.NewSource(11)), 5)
	//nolint:gosec
	b := RandomConfiguration(rand.New(rand.NewSource(11)), 5)
	test.That(t, a, test.ShouldHaveLength, 5)
	test.That(t, a.Equal(b), test.ShouldBeTrue)
	c := a.Clone()
	c[0] = 100
	test.That(t, a.Equal(c), test.ShouldBeFalse)
}

func TestCheckFinite(t *testing.T) {
	test.That(t, NewConfiguration(0, -math.Pi, 7).CheckFinite(), test.ShouldBeNil)
	test.That(t, Configuration{}.CheckFinite(), test.ShouldBeNil)

	err := NewConfiguration(1, math.NaN()).CheckFinite()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "joint 1")
	test.That(t, NewConfiguration(math.Inf(-1)).CheckFinite(), test.ShouldNotBeNil)
}
