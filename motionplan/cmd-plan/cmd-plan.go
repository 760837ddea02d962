// Package main plans a path for a planar chain from the command line.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r2"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"go.viam.com/chainplan/collision"
	"go.viam.com/chainplan/kinematics"
	"go.viam.com/chainplan/logging"
	"go.viam.com/chainplan/metrics"
	"go.viam.com/chainplan/motionplan"
	"go.viam.com/chainplan/referenceframe"
	"go.viam.com/chainplan/render"
)

const (
	flagLinks         = "links"
	flagLength        = "length"
	flagStep          = "step"
	flagBias          = "bias"
	flagBidirectional = "bidirectional"
	flagConnect       = "connect"
	flagSeed          = "seed"
	flagObstacles     = "obstacles"
	flagObstacleSeed  = "obstacle-seed"
	flagMaxIter       = "max-iter"
	flagTimeout       = "timeout"
	flagLoop          = "loop"
	flagPNG           = "png"
	flagSnapshots     = "snapshots"
	flagSnapshotEvery = "snapshot-every"
	flagGrowthPlot    = "growth-plot"
	flagParallelSeeds = "parallel-seeds"
	flagMetrics       = "metrics"
	flagVerbose       = "v"

	workspaceSize = 2000.
	imageSize     = 800
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logging.Global().Error(err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "cmd-plan",
		Usage:     "plan a collision-free path for a planar revolute chain",
		ArgsUsage: "[request.json]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: flagLinks, Value: 60, Usage: "number of links when no request file is given"},
			&cli.Float64Flag{Name: flagLength, Value: 1000, Usage: "total chain length when no request file is given"},
			&cli.Float64Flag{Name: flagStep, Usage: "override the step size"},
			&cli.IntFlag{Name: flagBias, Value: -1, Usage: "override the goal bias period, 0 disables it"},
			&cli.BoolFlag{Name: flagBidirectional, Usage: "grow a second tree from the goal"},
			&cli.BoolFlag{Name: flagConnect, Usage: "keep extending toward each target until it is reached or blocked"},
			&cli.IntFlag{Name: flagSeed, Value: -1, Usage: "override the sampler seed"},
			&cli.IntFlag{Name: flagObstacles, Usage: "number of random disc obstacles when no request file is given"},
			&cli.Int64Flag{Name: flagObstacleSeed, Usage: "seed for the random obstacles"},
			&cli.IntFlag{Name: flagMaxIter, Usage: "override the iteration limit"},
			&cli.DurationFlag{Name: flagTimeout, Usage: "override the planning time limit"},
			&cli.IntFlag{Name: flagLoop, Value: 1, Usage: "plan this many times, restarting the session in between"},
			&cli.StringFlag{Name: flagPNG, Usage: "write the path to this png file"},
			&cli.StringFlag{Name: flagSnapshots, Usage: "write progress images into this directory"},
			&cli.IntFlag{Name: flagSnapshotEvery, Value: 100, Usage: "committed nodes between progress images"},
			&cli.StringFlag{Name: flagGrowthPlot, Usage: "plot tree size against iteration for the last run into this file"},
			&cli.IntFlag{Name: flagParallelSeeds, Value: 1, Usage: "race this many consecutive seeds and keep the shortest path"},
			&cli.BoolFlag{Name: flagMetrics, Usage: "log planner metrics when done"},
			&cli.BoolFlag{Name: flagVerbose, Usage: "verbose"},
		},
		Action: planAction,
	}
}

func planAction(c *cli.Context) error {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.NewLogger("cmd-plan")
	if c.Bool(flagVerbose) {
		logger.SetLevel(logging.DEBUG)
	}
	logging.ReplaceGlobal(logger)

	req, err := loadRequest(c, logger)
	if err != nil {
		return err
	}
	if req.Chain == nil {
		return errNoChain
	}
	applyOverrides(c, req)

	if n := c.Int(flagParallelSeeds); n > 1 {
		return planParallel(ctx, c, req, n, logger)
	}

	var sessionOpts []motionplan.SessionOption
	registry := prometheus.NewRegistry()
	if c.Bool(flagMetrics) {
		collector, err := metrics.NewPlannerCollector(registry, "chainplan")
		if err != nil {
			return err
		}
		sessionOpts = append(sessionOpts, motionplan.WithObserver(collector))
	}
	var snapshots *render.SnapshotObserver
	if dir := c.String(flagSnapshots); dir != "" {
		obstacles, err := req.Provider().Obstacles(ctx)
		if err != nil {
			return err
		}
		discs, _ := obstacles.(collision.Discs)
		snapshots, err = render.NewSnapshotObserver(dir, c.Int(flagSnapshotEvery), viewport(req.Chain), req.Chain, discs,
			logger.Sublogger("snapshots"))
		if err != nil {
			return err
		}
		sessionOpts = append(sessionOpts, motionplan.WithObserver(snapshots))
	}
	var growth *render.GrowthRecorder
	if c.String(flagGrowthPlot) != "" {
		growth = render.NewGrowthRecorder()
		sessionOpts = append(sessionOpts, motionplan.WithObserver(growth))
	}

	session, err := req.NewSession(ctx, logger.Sublogger("motionplan"), sessionOpts...)
	if err != nil {
		return err
	}

	wall := clock.New()
	var sol *motionplan.Solution
	var runs []run
	for i := 0; i < c.Int(flagLoop); i++ {
		if i > 0 {
			if err := session.Restart(ctx); err != nil {
				return err
			}
			if growth != nil {
				growth.Reset()
			}
		}
		start := wall.Now()
		sol, err = session.Plan(ctx)
		if err != nil {
			return err
		}
		r := run{time: wall.Since(start), sol: sol}
		runs = append(runs, r)
		traj := sol.Trajectory()
		logger.Infow("planned",
			"run", i,
			"time", r.time,
			"iterations", sol.Iterations,
			"start_tree", sol.StartTreeSize,
			"goal_tree", sol.GoalTreeSize,
			"waypoints", len(traj),
			"length", traj.Evaluate(),
		)
	}
	if len(runs) > 1 {
		summary, err := summarizeRuns(runs)
		if err != nil {
			return err
		}
		logger.Info("\n" + summary)
	}
	if growth != nil {
		if err := growth.WritePlot(c.String(flagGrowthPlot)); err != nil {
			return err
		}
		logger.Infof("wrote tree growth plot to %s", c.String(flagGrowthPlot))
	}

	if snapshots != nil {
		if err := snapshots.Err(); err != nil {
			return err
		}
		logger.Infof("wrote %d progress images", len(snapshots.Written()))
	}
	if c.Bool(flagMetrics) {
		if err := logMetrics(registry, logger); err != nil {
			return err
		}
	}
	if sol != nil {
		discs, _ := session.Obstacles().(collision.Discs)
		return writePNG(c, req, discs, sol, logger)
	}
	return nil
}

type run struct {
	time time.Duration
	sol  *motionplan.Solution
}

// summarizeRuns renders one row per run followed by the mean and median of each column.
func summarizeRuns(runs []run) (string, error) {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Time (s)", "Iterations", "Nodes", "Waypoints", "Length"})
	columns := make([][]float64, 5)
	for i, r := range runs {
		traj := r.sol.Trajectory()
		row := []float64{
			r.time.Seconds(),
			float64(r.sol.Iterations),
			float64(r.sol.StartTreeSize + r.sol.GoalTreeSize),
			float64(len(traj)),
			traj.Evaluate(),
		}
		cells := table.Row{fmt.Sprintf("%d", i)}
		for j, v := range row {
			columns[j] = append(columns[j], v)
			cells = append(cells, fmt.Sprintf("%.3f", v))
		}
		t.AppendRow(cells)
	}
	mean := table.Row{"mean"}
	median := table.Row{"median"}
	for _, col := range columns {
		m, err := stats.Mean(col)
		if err != nil {
			return "", err
		}
		med, err := stats.Median(col)
		if err != nil {
			return "", err
		}
		mean = append(mean, fmt.Sprintf("%.3f", m))
		median = append(median, fmt.Sprintf("%.3f", med))
	}
	t.AppendFooter(mean)
	t.AppendFooter(median)
	return t.Render(), nil
}

func planParallel(ctx context.Context, c *cli.Context, req *motionplan.PlanRequest, n int, logger logging.Logger) error {
	first := 0
	switch seed := req.Options["rseed"].(type) {
	case int:
		first = seed
	case float64:
		first = int(seed)
	}
	seeds := make([]int, n)
	for i := range seeds {
		seeds[i] = first + i
	}
	wall := clock.New()
	start := wall.Now()
	sol, err := motionplan.PlanParallel(ctx, req, seeds, logger.Sublogger("motionplan"))
	if err != nil {
		return err
	}
	traj := sol.Trajectory()
	logger.Infow("planned", "seeds", n, "time", wall.Since(start), "waypoints", len(traj), "length", traj.Evaluate())

	obstacles, err := req.Provider().Obstacles(ctx)
	if err != nil {
		return err
	}
	discs, _ := obstacles.(collision.Discs)
	return writePNG(c, req, discs, sol, logger)
}

func writePNG(c *cli.Context, req *motionplan.PlanRequest, discs collision.Discs, sol *motionplan.Solution, logger logging.Logger) error {
	fn := c.String(flagPNG)
	if fn == "" {
		return nil
	}
	if err := render.WritePathPNG(fn, viewport(req.Chain), req.Chain, discs, sol.Trajectory()); err != nil {
		return err
	}
	logger.Infof("wrote path to %s", fn)
	return nil
}

func logMetrics(registry *prometheus.Registry, logger logging.Logger) error {
	families, err := registry.Gather()
	if err != nil {
		return err
	}
	for _, family := range families {
		for _, m := range family.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			value := m.GetGauge().GetValue()
			if m.GetCounter() != nil {
				value = m.GetCounter().GetValue()
			}
			logger.Infow(family.GetName(), "labels", labels, "value", value)
		}
	}
	return nil
}

// loadRequest reads the request file named by the first argument, or builds the default problem: a
// uniform chain at the center of the workspace swinging each joint from -2pi/n to 2pi/n.
func loadRequest(c *cli.Context, logger logging.Logger) (*motionplan.PlanRequest, error) {
	if c.Args().Len() > 0 {
		logger.Infof("reading plan from %s", c.Args().First())
		return motionplan.ReadPlanRequest(c.Args().First())
	}

	n := c.Int(flagLinks)
	base := r2.Point{X: workspaceSize / 2, Y: workspaceSize / 2}
	chain, err := kinematics.NewUniformChain(n, c.Float64(flagLength), base)
	if err != nil {
		return nil, err
	}
	start := make([]float64, n)
	goal := make([]float64, n)
	for i := range start {
		start[i] = -2 * math.Pi / float64(n)
		goal[i] = 2 * math.Pi / float64(n)
	}
	req := &motionplan.PlanRequest{
		Chain: chain,
		Start: referenceframe.NewConfiguration(start...),
		Goal:  referenceframe.NewConfiguration(goal...),
	}
	if count := c.Int(flagObstacles); count > 0 {
		req.RandomObstacles = &collision.RandomDiscProvider{
			Count:         count,
			MinRadius:     workspaceSize / 100,
			MaxRadius:     workspaceSize / 25,
			Width:         workspaceSize,
			Height:        workspaceSize,
			KeepOut:       base,
			KeepOutRadius: chain.Lengths[0],
			Seed:          c.Int64(flagObstacleSeed),
		}
	}
	return req, nil
}

func applyOverrides(c *cli.Context, req *motionplan.PlanRequest) {
	if req.Options == nil {
		req.Options = map[string]interface{}{}
	}
	if c.IsSet(flagStep) {
		req.Options["step_size"] = c.Float64(flagStep)
	}
	if c.Int(flagBias) >= 0 {
		req.Options["goal_bias"] = c.Int(flagBias)
	}
	if c.IsSet(flagBidirectional) {
		req.Options["bidirectional"] = c.Bool(flagBidirectional)
	}
	if c.IsSet(flagConnect) {
		req.Options["connect"] = c.Bool(flagConnect)
	}
	if c.Int(flagSeed) >= 0 {
		req.Options["rseed"] = c.Int(flagSeed)
	}
	if c.IsSet(flagMaxIter) {
		req.Options["plan_iter"] = c.Int(flagMaxIter)
	}
	if c.IsSet(flagTimeout) {
		req.Options["timeout"] = c.Duration(flagTimeout).Seconds()
	}
}

func viewport(chain *kinematics.Chain) render.Viewport {
	return render.NewViewport(imageSize, imageSize, chain.Reach(), chain.Base)
}

var errNoChain = errors.New("request has no chain")
