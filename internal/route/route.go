// Package route is the path computation collaborator: given two points it
// returns a waypoint sequence or reports the destination unreachable. The
// search itself is replaceable behind the Planner interface.
package route

import (
	"errors"

	"voxelagent.ai/internal/world"
)

var ErrUnreachable = errors.New("unreachable")

type Planner interface {
	Route(from, to world.Vec3) ([]world.Vec3, error)
}

// GridPlanner produces axis-major routes across the known terrain: first
// along X, then along Z, at the starting height. It refuses destinations
// inside solid blocks or beyond MaxRange.
type GridPlanner struct {
	// Solid reports whether a cell blocks movement. Nil means open world.
	Solid func(world.Vec3i) bool
	// MaxRange caps route length in blocks; zero means unlimited.
	MaxRange float64
}

func (g *GridPlanner) Route(from, to world.Vec3) ([]world.Vec3, error) {
	if g.MaxRange > 0 && from.Dist(to) > g.MaxRange {
		return nil, ErrUnreachable
	}
	if g.Solid != nil && g.Solid(to.Floor()) {
		return nil, ErrUnreachable
	}

	corner := world.Vec3{X: to.X, Y: from.Y, Z: from.Z}
	descent := world.Vec3{X: to.X, Y: from.Y, Z: to.Z}

	waypoints := make([]world.Vec3, 0, 3)
	for _, wp := range []world.Vec3{corner, descent, to} {
		if len(waypoints) > 0 && waypoints[len(waypoints)-1] == wp {
			continue
		}
		if wp == from {
			continue
		}
		if g.Solid != nil && g.Solid(wp.Floor()) {
			return nil, ErrUnreachable
		}
		waypoints = append(waypoints, wp)
	}
	if len(waypoints) == 0 {
		// Already there: a single waypoint keeps callers uniform.
		waypoints = append(waypoints, to)
	}
	return waypoints, nil
}
