package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.viam.com/test"

	"go.viam.com/chainplan/motionplan"
)

func TestPlanDefaultProblem(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "path.png")
	growth := filepath.Join(dir, "growth.png")
	err := newApp().Run([]string{
		"cmd-plan",
		"--links", "3", "--length", "30",
		"--step", "0.1", "--seed", "3", "--max-iter", "100000",
		"--loop", "2",
		"--png", png,
		"--growth-plot", growth,
	})
	test.That(t, err, test.ShouldBeNil)
	for _, fn := range []string{png, growth} {
		info, err := os.Stat(fn)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, info.Size(), test.ShouldBeGreaterThan, 0)
	}
}

func TestSummarizeRuns(t *testing.T) {
	runs := []run{
		{time: time.Second, sol: &motionplan.Solution{
			StartPath: motionplan.Trajectory{{0}, {0.1}}, Iterations: 4, StartTreeSize: 3,
		}},
		{time: 3 * time.Second, sol: &motionplan.Solution{
			StartPath: motionplan.Trajectory{{0}, {0.1}, {0.2}}, Iterations: 8, StartTreeSize: 5,
		}},
	}
	summary, err := summarizeRuns(runs)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, strings.ToUpper(summary), test.ShouldContainSubstring, "MEDIAN")
	test.That(t, summary, test.ShouldContainSubstring, "2.000")
	test.That(t, summary, test.ShouldContainSubstring, "6.000")
}

func TestPlanRequestFile(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "request.json")
	content := `{
		"chain": {"lengths": [5, 5], "base": {"X": 0, "Y": 0}},
		"start": [0, 0],
		"goal": [1.5707963267948966, 0],
		"obstacles": [{"center": {"X": 6, "Y": 6}, "radius": 2}],
		"planner_options": {"plan_iter": 100000}
	}`
	test.That(t, os.WriteFile(fn, []byte(content), 0o600), test.ShouldBeNil)

	snapshots := filepath.Join(dir, "snapshots")
	err := newApp().Run([]string{
		"cmd-plan", "--step", "0.1", "--bidirectional",
		"--snapshots", snapshots, "--snapshot-every", "10",
		fn,
	})
	test.That(t, err, test.ShouldBeNil)
	_, err = os.Stat(snapshots)
	test.That(t, err, test.ShouldBeNil)
}

func TestPlanErrors(t *testing.T) {
	err := newApp().Run([]string{"cmd-plan", filepath.Join(t.TempDir(), "missing.json")})
	test.That(t, err, test.ShouldNotBeNil)

	err = newApp().Run([]string{"cmd-plan", "--links", "0"})
	test.That(t, err, test.ShouldNotBeNil)

	err = newApp().Run([]string{"cmd-plan", "--links", "2", "--step", "-1"})
	test.That(t, err, test.ShouldNotBeNil)

	fn := filepath.Join(t.TempDir(), "nochain.json")
	test.That(t, os.WriteFile(fn, []byte(`{"start": [0], "goal": [1]}`), 0o600), test.ShouldBeNil)
	err = newApp().Run([]string{"cmd-plan", fn})
	test.That(t, err, test.ShouldBeError, errNoChain)
}

func TestPlanParallelSeedsAndMetrics(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "best.png")
	err := newApp().Run([]string{
		"cmd-plan",
		"--links", "3", "--length", "30",
		"--step", "0.1", "--max-iter", "100000",
		"--parallel-seeds", "3", "--seed", "10",
		"--png", png,
	})
	test.That(t, err, test.ShouldBeNil)
	_, err = os.Stat(png)
	test.That(t, err, test.ShouldBeNil)

	err = newApp().Run([]string{
		"cmd-plan",
		"--links", "3", "--length", "30",
		"--step", "0.1", "--max-iter", "100000", "--bidirectional", "--metrics",
	})
	test.That(t, err, test.ShouldBeNil)
}
