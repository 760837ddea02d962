// Package collision defines how the planner asks whether a chain pose is free of obstacles, and
// provides a disc-obstacle implementation of that question.
//
// The planner treats an obstacle set as opaque: it receives one from a Provider at session start and
// hands it back, unchanged, to an Oracle together with each candidate pose.
package collision

import (
	"context"

	"github.com/golang/geo/r2"
)

// Obstacles is an obstacle set. Its representation is known only to the Provider that built it and
// the Oracle that tests against it.
type Obstacles interface{}

// Oracle decides whether a chain pose (the base followed by each link end point) avoids every
// obstacle.
type Oracle interface {
	CollisionFree(pose []r2.Point, obstacles Obstacles) bool
}

// OracleFunc adapts a function to an Oracle.
type OracleFunc func(pose []r2.Point, obstacles Obstacles) bool

// CollisionFree calls f.
func (f OracleFunc) CollisionFree(pose []r2.Point, obstacles Obstacles) bool {
	return f(pose, obstacles)
}

// Provider supplies the obstacle set at the start of a planning session. The planner treats the
// returned set as immutable for the session's lifetime.
type Provider interface {
	Obstacles(ctx context.Context) (Obstacles, error)
}

// StaticProvider always returns the same obstacle set.
type StaticProvider struct {
	Set Obstacles
}

// NewStaticProvider returns a Provider for a fixed obstacle set.
func NewStaticProvider(set Obstacles) *StaticProvider {
	return &StaticProvider{Set: set}
}

// Obstacles returns the fixed set.
func (p *StaticProvider) Obstacles(ctx context.Context) (Obstacles, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.Set, nil
}
