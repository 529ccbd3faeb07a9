// Package behavior holds the high-level modules built on the engine:
// movement, mining, combat and crafting. Each module gets its
// collaborators explicitly at construction; there is no shared global.
package behavior

import (
	"log"
	"math"

	"voxelagent.ai/internal/agent"
	"voxelagent.ai/internal/catalogs"
	"voxelagent.ai/internal/config"
	"voxelagent.ai/internal/gateway"
	"voxelagent.ai/internal/route"
	"voxelagent.ai/internal/world"
)

// Deps are the collaborators shared by all behavior modules.
type Deps struct {
	Cfg      config.Config
	Engine   *agent.Engine
	Gateway  gateway.Gateway
	Store    *world.Store
	Catalogs *catalogs.Catalogs
	Planner  route.Planner
	Log      *log.Logger
}

// yawToward is the heading from a toward b, degrees, server convention
// (0 = +Z, 90 = -X).
func yawToward(a, b world.Vec3) float64 {
	dx := b.X - a.X
	dz := b.Z - a.Z
	return math.Atan2(-dx, dz) * 180 / math.Pi
}

// horizontalDist ignores Y so a waypoint at foot level matches while
// falling or jumping.
func horizontalDist(a, b world.Vec3) float64 {
	dx := a.X - b.X
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// faceToward picks the block face the agent would hit looking at pos.
func faceToward(from world.Vec3, pos world.Vec3i) int {
	c := pos.Center()
	if from.Y >= c.Y+0.5 {
		return 1 // top
	}
	if from.Y < c.Y-0.5 {
		return 0 // bottom
	}
	if math.Abs(from.X-c.X) > math.Abs(from.Z-c.Z) {
		if from.X > c.X {
			return 5
		}
		return 4
	}
	if from.Z > c.Z {
		return 3
	}
	return 2
}
