package agent

import (
	"math"
	"testing"

	"voxelagent.ai/internal/config"
	"voxelagent.ai/internal/world"
)

// flatFloor is solid everywhere at Y < 60.
func flatFloor(p world.Vec3i) bool { return p.Y < 60 }

func noGround(world.Vec3i) bool { return false }

func TestPhysicsGravityAndLanding(t *testing.T) {
	cfg := config.Default().Sim

	self := world.Self{Pos: world.Vec3{X: 0.5, Y: 65, Z: 0.5}}
	ticks := 0
	for !self.OnGround {
		stepPhysics(&self, flatFloor, cfg)
		ticks++
		if ticks > 200 {
			t.Fatal("never landed")
		}
	}
	if self.Pos.Y != 60 {
		t.Fatalf("landed at Y=%v, want 60", self.Pos.Y)
	}
	if self.Vel.Y != 0 {
		t.Fatalf("landing kept Vel.Y=%v", self.Vel.Y)
	}

	// Grounded with no vertical velocity: the state is a fixed point.
	before := self
	stepPhysics(&self, flatFloor, cfg)
	if self != before {
		t.Fatalf("grounded state drifted: %+v -> %+v", before, self)
	}
}

func TestPhysicsFreeFallAccelerates(t *testing.T) {
	cfg := config.Default().Sim
	self := world.Self{Pos: world.Vec3{Y: 100}}

	stepPhysics(&self, noGround, cfg)
	v1 := self.Vel.Y
	stepPhysics(&self, noGround, cfg)
	v2 := self.Vel.Y

	if v1 >= 0 || v2 >= v1 {
		t.Fatalf("fall velocities %v, %v not monotonically downward", v1, v2)
	}
	want := -2 * cfg.Gravity / float64(cfg.TickRateHz)
	if math.Abs(v2-want) > 1e-9 {
		t.Fatalf("Vel.Y after 2 ticks = %v, want %v", v2, want)
	}
}

func TestPhysicsHorizontalIntegration(t *testing.T) {
	cfg := config.Default().Sim
	self := world.Self{
		Pos:      world.Vec3{X: 0, Y: 60, Z: 0},
		Vel:      world.Vec3{X: cfg.WalkSpeed},
		OnGround: true,
	}
	stepPhysics(&self, flatFloor, cfg)
	want := cfg.WalkSpeed / float64(cfg.TickRateHz)
	if math.Abs(self.Pos.X-want) > 1e-9 {
		t.Fatalf("Pos.X = %v, want %v", self.Pos.X, want)
	}
	if !self.OnGround || self.Pos.Y != 60 {
		t.Fatalf("walking on flat ground left the ground: %+v", self)
	}
}

func TestPhysicsCooldownsFlooredAtZero(t *testing.T) {
	cfg := config.Default().Sim
	self := world.Self{Pos: world.Vec3{Y: 60}, OnGround: true, AttackCooldown: 2, JumpCooldown: 1}

	for i := 0; i < 5; i++ {
		stepPhysics(&self, flatFloor, cfg)
		if self.AttackCooldown < 0 || self.JumpCooldown < 0 {
			t.Fatalf("cooldown went negative at step %d: %+v", i, self)
		}
	}
	if self.AttackCooldown != 0 || self.JumpCooldown != 0 {
		t.Fatalf("cooldowns did not drain: %+v", self)
	}
}

func TestPhysicsDeterministic(t *testing.T) {
	cfg := config.Default().Sim
	run := func() world.Self {
		s := world.Self{Pos: world.Vec3{X: 0.2, Y: 70, Z: -3.4}, Vel: world.Vec3{X: 1.5, Z: -0.7}}
		for i := 0; i < 100; i++ {
			stepPhysics(&s, flatFloor, cfg)
		}
		return s
	}
	a, b := run(), run()
	if a != b {
		t.Fatalf("same inputs diverged: %+v vs %+v", a, b)
	}
}
