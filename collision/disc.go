package collision

import (
	"context"
	"math"
	"math/rand"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// maxDiscAttempts bounds how many candidate discs RandomDiscProvider will draw per requested disc.
const maxDiscAttempts = 1000

// Disc is a circular obstacle.
type Disc struct {
	Center r2.Point `json:"center"`
	Radius float64  `json:"radius"`
}

// Discs is an obstacle set made of discs. It is the representation DiscChecker understands.
type Discs []Disc

// IntersectsSegment reports whether the segment from a to b passes strictly inside the disc.
func (d Disc) IntersectsSegment(a, b r2.Point) bool {
	return SegmentPointDistance(a, b, d.Center) < d.Radius
}

// SegmentPointDistance returns the distance from p to the closest point of the segment from a to b.
func SegmentPointDistance(a, b, p r2.Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return p.Sub(a).Norm()
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/lenSq))
	closest := a.Add(ab.Mul(t))
	return p.Sub(closest).Norm()
}

// DiscChecker is an Oracle for Discs obstacle sets: a pose is free when none of its links intersects
// any disc.
type DiscChecker struct{}

// CollisionFree tests every link segment of pose against every disc. A nil obstacle set is empty.
// Obstacle sets of any other type are reported as blocked since they cannot be checked.
func (DiscChecker) CollisionFree(pose []r2.Point, obstacles Obstacles) bool {
	var discs Discs
	switch o := obstacles.(type) {
	case nil:
		return true
	case Discs:
		discs = o
	case []Disc:
		discs = o
	default:
		return false
	}
	for i := 1; i < len(pose); i++ {
		for _, d := range discs {
			if d.IntersectsSegment(pose[i-1], pose[i]) {
				return false
			}
		}
	}
	return true
}

// RandomDiscProvider generates Count discs with radii in [MinRadius, MaxRadius] and centers uniform in
// the Width x Height workspace whose lower corner is the origin. Discs that would come within
// KeepOutRadius of KeepOut, normally the chain base, are redrawn. The same Seed always produces the
// same obstacles.
type RandomDiscProvider struct {
	Count         int      `json:"count"`
	MinRadius     float64  `json:"min_radius"`
	MaxRadius     float64  `json:"max_radius"`
	Width         float64  `json:"width"`
	Height        float64  `json:"height"`
	KeepOut       r2.Point `json:"keep_out"`
	KeepOutRadius float64  `json:"keep_out_radius"`
	Seed          int64    `json:"seed"`
}

// Obstacles draws the disc set.
func (p *RandomDiscProvider) Obstacles(ctx context.Context) (Obstacles, error) {
	if p.Count < 0 {
		return nil, errors.Errorf("cannot generate %d discs", p.Count)
	}
	if p.MinRadius <= 0 || p.MaxRadius < p.MinRadius {
		return nil, errors.Errorf("invalid disc radius range [%v, %v]", p.MinRadius, p.MaxRadius)
	}
	//nolint:gosec
	rng := rand.New(rand.NewSource(p.Seed))
	discs := make(Discs, 0, p.Count)
	for len(discs) < p.Count {
		placed := false
		for attempt := 0; attempt < maxDiscAttempts; attempt++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			d := Disc{
				Center: r2.Point{X: rng.Float64() * p.Width, Y: rng.Float64() * p.Height},
				Radius: p.MinRadius + rng.Float64()*(p.MaxRadius-p.MinRadius),
			}
			if d.Center.Sub(p.KeepOut).Norm() < d.Radius+p.KeepOutRadius {
				continue
			}
			discs = append(discs, d)
			placed = true
			break
		}
		if !placed {
			return nil, errors.Errorf("could not place disc %d of %d outside the keep-out region", len(discs)+1, p.Count)
		}
	}
	return discs, nil
}
