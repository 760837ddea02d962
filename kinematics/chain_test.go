package kinematics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/chainplan/referenceframe"
)

func TestPose(t *testing.T) {
	base := r2.Point{X: 1, Y: 2}
	lengths := []float64{2, 3, 1}

	t.Run("zero configuration is a straight line along x", func(t *testing.T) {
		pts := pose(lengths, base, referenceframe.NewConfiguration(0, 0, 0))
		test.That(t, pts, test.ShouldHaveLength, 4)
		test.That(t, pts[0], test.ShouldResemble, base)
		test.That(t, pts[3].X, test.ShouldAlmostEqual, 7)
		test.That(t, pts[3].Y, test.ShouldAlmostEqual, 2)
	})

	t.Run("joint angles accumulate along the chain", func(t *testing.T) {
		pts := pose(lengths, base, referenceframe.NewConfiguration(math.Pi/2, 0, 0))
		test.That(t, pts[1].X, test.ShouldAlmostEqual, 1)
		test.That(t, pts[1].Y, test.ShouldAlmostEqual, 4)
		test.That(t, pts[3].X, test.ShouldAlmostEqual, 1)
		test.That(t, pts[3].Y, test.ShouldAlmostEqual, 8)

		pts = pose(lengths, base, referenceframe.NewConfiguration(0, math.Pi/2, math.Pi/2))
		test.That(t, pts[1].X, test.ShouldAlmostEqual, 3)
		test.That(t, pts[1].Y, test.ShouldAlmostEqual, 2)
		test.That(t, pts[2].X, test.ShouldAlmostEqual, 3)
		test.That(t, pts[2].Y, test.ShouldAlmostEqual, 5)
		// cumulative angle pi: the last link points back along -x
		test.That(t, pts[3].X, test.ShouldAlmostEqual, 2)
		test.That(t, pts[3].Y, test.ShouldAlmostEqual, 5)
	})

	t.Run("links keep their length", func(t *testing.T) {
		//nolint:gosec
		rng := rand.New(rand.NewSource(1))
		for i := 0; i < 50; i++ {
			pts := pose(lengths, base, referenceframe.RandomConfiguration(rng, 3))
			for j, l := range lengths {
				test.That(t, pts[j+1].Sub(pts[j]).Norm(), test.ShouldAlmostEqual, l)
			}
		}
	})
}

func TestChain(t *testing.T) {
	_, err := NewChain(nil, r2.Point{})
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewChain([]float64{1, -1}, r2.Point{})
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewUniformChain(0, 10, r2.Point{})
	test.That(t, err, test.ShouldNotBeNil)

	chain, err := NewUniformChain(4, 10, r2.Point{X: 5, Y: 5})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, chain.DoF(), test.ShouldEqual, 4)
	test.That(t, chain.Reach(), test.ShouldAlmostEqual, 10)

	pts, err := chain.Transform(referenceframe.NewConfiguration(0, 0, 0, 0))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pts, test.ShouldHaveLength, 5)
	test.That(t, pts[4].X, test.ShouldAlmostEqual, 15)

	_, err = chain.Transform(referenceframe.NewConfiguration(0, 0))
	var mismatch *referenceframe.DimensionMismatchError
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.As(err, &mismatch), test.ShouldBeTrue)
}

func TestChainValidate(t *testing.T) {
	var nilChain *Chain
	test.That(t, nilChain.Validate(), test.ShouldNotBeNil)
	test.That(t, (&Chain{}).Validate(), test.ShouldNotBeNil)
	for _, l := range []float64{0, -2, math.NaN(), math.Inf(1)} {
		test.That(t, (&Chain{Lengths: []float64{1, l}}).Validate(), test.ShouldNotBeNil)
	}
	test.That(t, (&Chain{Lengths: []float64{1}, Base: r2.Point{X: math.NaN()}}).Validate(), test.ShouldNotBeNil)
	test.That(t, (&Chain{Lengths: []float64{1, 2}, Base: r2.Point{X: 3, Y: -4}}).Validate(), test.ShouldBeNil)

	_, err := NewChain([]float64{1}, r2.Point{Y: math.Inf(-1)})
	test.That(t, err, test.ShouldNotBeNil)
}
