package utils

import (
	"math"
	"testing"
	"time"

	"go.viam.com/test"
)

func TestModAngRad(t *testing.T) {
	test.That(t, ModAngRad(0), test.ShouldEqual, 0)
	test.That(t, ModAngRad(TwoPi), test.ShouldEqual, 0)
	test.That(t, ModAngRad(-math.Pi/2), test.ShouldAlmostEqual, 3*math.Pi/2)
	test.That(t, ModAngRad(5*math.Pi), test.ShouldAlmostEqual, math.Pi)
	test.That(t, ModAngRad(-1e-18), test.ShouldBeLessThan, TwoPi)

	for _, a := range []float64{-7.5, -math.Pi, 0.3, 4, 13.9} {
		once := ModAngRad(a)
		test.That(t, ModAngRad(once), test.ShouldEqual, once)
		test.That(t, once, test.ShouldBeGreaterThanOrEqualTo, 0)
		test.That(t, once, test.ShouldBeLessThan, TwoPi)
	}
}

func TestAngleDiffRad(t *testing.T) {
	test.That(t, AngleDiffRad(0.1, TwoPi-0.1), test.ShouldAlmostEqual, 0.2)
	test.That(t, AngleDiffRad(TwoPi-0.1, 0.1), test.ShouldAlmostEqual, 0.2)
	test.That(t, AngleDiffRad(0, math.Pi), test.ShouldAlmostEqual, math.Pi)
	test.That(t, AngleDiffRad(1, 1), test.ShouldEqual, 0)
	test.That(t, AngleDiffRad(-0.1, 3*TwoPi+0.1), test.ShouldAlmostEqual, 0.2)
}

func TestGetenv(t *testing.T) {
	t.Setenv(PlanIterEnvVar, "42")
	test.That(t, GetenvInt(PlanIterEnvVar, 7), test.ShouldEqual, 42)
	t.Setenv(PlanIterEnvVar, "nope")
	test.That(t, GetenvInt(PlanIterEnvVar, 7), test.ShouldEqual, 7)

	t.Setenv(PlanTimeoutEnvVar, "1500ms")
	test.That(t, GetenvDuration(PlanTimeoutEnvVar, time.Second), test.ShouldEqual, 1500*time.Millisecond)
	t.Setenv(PlanTimeoutEnvVar, "")
	test.That(t, GetenvDuration(PlanTimeoutEnvVar, time.Second), test.ShouldEqual, time.Second)
}
