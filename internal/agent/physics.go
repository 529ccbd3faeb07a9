package agent

import (
	"math"

	"voxelagent.ai/internal/config"
	"voxelagent.ai/internal/world"
)

// stepPhysics advances the agent's own state by one fixed tick. It is a
// pure function of its inputs: identical state and terrain give identical
// results. Collision is vertical only; horizontal error is corrected by
// authoritative position events.
func stepPhysics(self *world.Self, solid func(world.Vec3i) bool, cfg config.Sim) {
	dt := 1.0 / float64(cfg.TickRateHz)

	if !standingOn(self.Pos, solid) || self.Vel.Y > 0 {
		self.OnGround = false
	}
	if !self.OnGround {
		self.Vel.Y -= cfg.Gravity * dt
	}

	next := self.Pos.Add(self.Vel.Scale(dt))

	// Falling into a solid cell lands on top of it; downward velocity is
	// clamped to zero, never carried into the ground.
	if self.Vel.Y < 0 {
		feet := next.Floor()
		if solid(feet) {
			next.Y = float64(feet.Y + 1)
			self.Vel.Y = 0
			self.OnGround = true
		} else if standingOn(next, solid) {
			next.Y = math.Floor(next.Y)
			self.Vel.Y = 0
			self.OnGround = true
		}
	}
	self.Pos = next

	if self.AttackCooldown > 0 {
		self.AttackCooldown--
	}
	if self.JumpCooldown > 0 {
		self.JumpCooldown--
	}
}

// standingOn reports whether pos rests on a solid cell: at a whole-block
// height with solid ground directly beneath.
func standingOn(pos world.Vec3, solid func(world.Vec3i) bool) bool {
	frac := pos.Y - math.Floor(pos.Y)
	if frac > 1e-9 {
		return false
	}
	below := world.Vec3i{
		X: int(math.Floor(pos.X)),
		Y: int(math.Floor(pos.Y)) - 1,
		Z: int(math.Floor(pos.Z)),
	}
	return solid(below)
}
