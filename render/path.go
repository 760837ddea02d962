package render

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.viam.com/chainplan/collision"
	"go.viam.com/chainplan/kinematics"
	"go.viam.com/chainplan/logging"
	"go.viam.com/chainplan/motionplan"
)

// WritePathPNG renders every configuration of traj as an overlaid pose of chain and saves the image
// to filename.
func WritePathPNG(filename string, v Viewport, chain *kinematics.Chain, discs collision.Discs, traj motionplan.Trajectory) error {
	poses, err := traj.Poses(chain)
	if err != nil {
		return err
	}
	caption := fmt.Sprintf("%d configurations, length %.3f rad", len(traj), traj.Evaluate())
	return DrawScene(v, discs, poses, caption).SavePNG(filename)
}

// SnapshotObserver saves an image of a tree's progress after every Every committed nodes. The image
// shows the end effector of every node and the pose of the node just committed.
type SnapshotObserver struct {
	Dir      string
	Every    int
	Viewport Viewport
	Chain    *kinematics.Chain
	Discs    collision.Discs

	logger    logging.Logger
	mu        sync.Mutex
	committed int
	written   []string
	err       error
}

// NewSnapshotObserver creates dir if needed and returns an observer writing into it.
func NewSnapshotObserver(
	dir string,
	every int,
	v Viewport,
	chain *kinematics.Chain,
	discs collision.Discs,
	logger logging.Logger,
) (*SnapshotObserver, error) {
	if every <= 0 {
		return nil, errors.Errorf("snapshot interval must be positive, got %d", every)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	return &SnapshotObserver{Dir: dir, Every: every, Viewport: v, Chain: chain, Discs: discs, logger: logger}, nil
}

// Observe implements motionplan.Observer.
func (o *SnapshotObserver) Observe(ev motionplan.Event) {
	if ev.Extension.Outcome != motionplan.Committed {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.committed++
	if o.committed%o.Every != 0 || o.err != nil {
		return
	}

	dc := o.Viewport.NewContext()
	DrawObstacles(dc, o.Viewport, o.Discs)
	ends := make([]r2.Point, 0, ev.Tree.Size())
	for _, q := range ev.Tree.Configurations() {
		pose, err := o.Chain.Transform(q)
		if err != nil {
			o.err = err
			return
		}
		ends = append(ends, pose[len(pose)-1])
	}
	candidate, err := o.Chain.Transform(ev.Extension.Candidate)
	if err != nil {
		o.err = err
		return
	}
	DrawPoints(dc, o.Viewport, ends, nodeColor)
	DrawPose(dc, o.Viewport, candidate, linkColor, 2)
	DrawString(dc, fmt.Sprintf("iteration %d, %s tree %d nodes", ev.Iteration, ev.Tree.ID(), ev.Tree.Size()),
		image.Point{X: 8, Y: 8}, textColor, 14)

	fn := filepath.Join(o.Dir, fmt.Sprintf("%s-%06d.png", ev.Tree.ID(), o.committed))
	if err := dc.SavePNG(fn); err != nil {
		o.err = err
		if o.logger != nil {
			o.logger.Warnw("could not save snapshot", "file", fn, "error", err)
		}
		return
	}
	o.written = append(o.written, fn)
}

// Written returns the files saved so far.
func (o *SnapshotObserver) Written() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.written))
	copy(out, o.written)
	return out
}

// Err returns the first error hit while saving. Once set, no more snapshots are attempted.
func (o *SnapshotObserver) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}
