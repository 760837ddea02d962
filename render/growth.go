package render

import (
	"image/color"
	"sync"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"go.viam.com/chainplan/motionplan"
)

// GrowthRecorder is a motionplan.Observer that remembers the size of each tree after every committed
// node, so tree growth can be plotted against planner iterations.
type GrowthRecorder struct {
	mu     sync.Mutex
	series map[motionplan.TreeID]plotter.XYs
}

// NewGrowthRecorder returns an empty recorder.
func NewGrowthRecorder() *GrowthRecorder {
	return &GrowthRecorder{series: map[motionplan.TreeID]plotter.XYs{}}
}

// Observe implements motionplan.Observer.
func (g *GrowthRecorder) Observe(ev motionplan.Event) {
	if ev.Extension.Outcome != motionplan.Committed {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.series[ev.Extension.Tree] = append(g.series[ev.Extension.Tree],
		plotter.XY{X: float64(ev.Iteration), Y: float64(ev.Tree.Size())})
}

// Points returns the recorded (iteration, size) pairs of one tree.
func (g *GrowthRecorder) Points(tree motionplan.TreeID) plotter.XYs {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(plotter.XYs, len(g.series[tree]))
	copy(out, g.series[tree])
	return out
}

// Reset forgets everything recorded so far.
func (g *GrowthRecorder) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.series = map[motionplan.TreeID]plotter.XYs{}
}

// WritePlot saves a line plot of node count against iteration, one line per tree, to filename. The
// image format follows the file extension.
func (g *GrowthRecorder) WritePlot(filename string) error {
	p := plot.New()
	p.Title.Text = "tree growth"
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "nodes"

	colors := map[motionplan.TreeID]color.Color{motionplan.StartTree: linkColor, motionplan.GoalTree: obstacleColor}
	drawn := 0
	for _, tree := range []motionplan.TreeID{motionplan.StartTree, motionplan.GoalTree} {
		pts := g.Points(tree)
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return errors.Wrapf(err, "%s tree", tree)
		}
		line.Color = colors[tree]
		p.Add(line)
		p.Legend.Add(tree.String(), line)
		drawn++
	}
	if drawn == 0 {
		return errors.New("no committed nodes to plot")
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, filename)
}
