// Package physics implements the force model that relaxes the editor's node
// layout: pairwise repulsion between all nodes and attraction along edges.
//
// Both forces are pure functions of positions and configuration. Accumulating
// them onto nodes is the graph's job.
package physics

import (
	"math"

	"github.com/pkg/errors"

	"github.com/TFMV/forcepad/geom"
)

// Default force parameters.
const (
	DefaultPushForce    = 1000.0
	DefaultPushDistance = 150.0

	DefaultPullMinDistance          = 100.0
	DefaultPullForceAtTwiceDistance = 500.0
)

// ErrBadForceConfig is returned by Validate for unusable parameters.
var ErrBadForceConfig = errors.New("bad force configuration")

// PushConfig parameterizes repulsion between every pair of nodes.
type PushConfig struct {
	Force    float64 `json:"force" toml:"force"`       // magnitude at zero distance
	Distance float64 `json:"distance" toml:"distance"` // no push at or beyond this distance
}

// PullConfig parameterizes attraction along enabled edges.
type PullConfig struct {
	MinDistance          float64 `json:"min_distance" toml:"min_distance"`
	ForceAtTwiceDistance float64 `json:"force_at_twice_distance" toml:"force_at_twice_distance"`
}

// DefaultPush returns the default repulsion parameters.
func DefaultPush() PushConfig {
	return PushConfig{Force: DefaultPushForce, Distance: DefaultPushDistance}
}

// DefaultPull returns the default attraction parameters.
func DefaultPull() PullConfig {
	return PullConfig{
		MinDistance:          DefaultPullMinDistance,
		ForceAtTwiceDistance: DefaultPullForceAtTwiceDistance,
	}
}

// Validate rejects negative and non-finite parameters.
func (c PushConfig) Validate() error {
	if !finiteNonNegative(c.Force) {
		return errors.Wrapf(ErrBadForceConfig, "push force %v", c.Force)
	}
	if !finiteNonNegative(c.Distance) {
		return errors.Wrapf(ErrBadForceConfig, "push distance %v", c.Distance)
	}
	return nil
}

// Validate rejects negative and non-finite parameters.
func (c PullConfig) Validate() error {
	if !finiteNonNegative(c.MinDistance) {
		return errors.Wrapf(ErrBadForceConfig, "pull min distance %v", c.MinDistance)
	}
	if !finiteNonNegative(c.ForceAtTwiceDistance) {
		return errors.Wrapf(ErrBadForceConfig, "pull force at twice distance %v", c.ForceAtTwiceDistance)
	}
	return nil
}

// Push returns the repulsive force acting on a due to b.
//
// The magnitude falls off linearly from cfg.Force at zero distance to nothing
// at cfg.Distance. When a and b coincide the direction comes from p so that
// stacked nodes still separate; a nil p pushes straight up.
func Push(a, b geom.Vec2, cfg PushConfig, p Perturber) geom.Vec2 {
	if cfg.Distance <= 0 {
		return geom.Zero()
	}

	delta := a.Sub(b)
	factor := 1 - delta.Len()/cfg.Distance
	if factor <= 0 {
		return geom.Zero()
	}

	var direction geom.Vec2
	if delta.IsApproxZero() {
		direction = geom.Up()
		if p != nil {
			direction = direction.Rotated(p.Angle())
		}
	} else {
		direction = delta.Normalized()
	}

	return direction.Scale(cfg.Force * factor)
}

// Pull returns the attractive force acting on from towards to. The force on
// to is its negation.
//
// Nothing pulls while the endpoints are closer than cfg.MinDistance; past it
// the magnitude grows linearly, reaching cfg.ForceAtTwiceDistance at twice the
// minimum distance.
func Pull(from, to geom.Vec2, cfg PullConfig) geom.Vec2 {
	if cfg.MinDistance <= 0 {
		return geom.Zero()
	}

	delta := to.Sub(from)
	distance := delta.Len()
	if distance < cfg.MinDistance {
		return geom.Zero()
	}

	magnitude := (distance/cfg.MinDistance - 1) * cfg.ForceAtTwiceDistance
	return delta.Normalized().Scale(magnitude)
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
