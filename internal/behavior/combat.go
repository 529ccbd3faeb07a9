package behavior

import (
	"sync"

	"voxelagent.ai/internal/protocol"
	"voxelagent.ai/internal/world"
)

// Combat is a tick-driven pursue-and-strike loop. It is not a pending
// action: it runs until Disengage, or until the target disappears from
// the state store.
type Combat struct {
	deps Deps

	mu     sync.Mutex
	target int32
	active bool
}

func NewCombat(deps Deps) *Combat {
	c := &Combat{deps: deps}
	deps.Engine.OnTick(c.tick)
	return c
}

// Engage starts pursuing an entity. A later Engage retargets the loop.
func (c *Combat) Engage(entityID int32) {
	c.mu.Lock()
	c.target = entityID
	c.active = true
	c.mu.Unlock()
}

func (c *Combat) Disengage() {
	c.mu.Lock()
	was := c.active
	c.active = false
	c.mu.Unlock()
	if was {
		c.stopPursuit()
	}
}

// Engaged reports whether the loop is live.
func (c *Combat) Engaged() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

func (c *Combat) tick(uint64) {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	target := c.target
	c.mu.Unlock()

	ent, ok := c.deps.Store.Entity(target)
	if !ok {
		// Destroyed or despawned: the loop stops rather than chasing a
		// stale id the server may reuse.
		if c.deps.Log != nil {
			c.deps.Log.Printf("combat: target %d gone, stopping", target)
		}
		c.Disengage()
		return
	}

	self := c.deps.Store.Self()
	dist := self.Pos.Dist(ent.Pos)
	yaw := yawToward(self.Pos, ent.Pos)

	if dist > c.deps.Cfg.Sim.StrikeRange {
		speed := c.deps.Cfg.Sim.SprintSpeed
		dx := ent.Pos.X - self.Pos.X
		dz := ent.Pos.Z - self.Pos.Z
		h := horizontalDist(self.Pos, ent.Pos)
		if h < 1e-9 {
			return
		}
		c.deps.Store.UpdateSelf(func(s *world.Self) {
			s.Vel.X = dx / h * speed
			s.Vel.Z = dz / h * speed
			s.Yaw = yaw
		})
		return
	}

	cooldownTicks := c.deps.Cfg.Sim.AttackCooldownTicks
	strike := false
	c.deps.Store.UpdateSelf(func(s *world.Self) {
		s.Vel.X = 0
		s.Vel.Z = 0
		s.Yaw = yaw
		if s.AttackCooldown == 0 {
			s.AttackCooldown = cooldownTicks
			strike = true
		}
	})
	if strike {
		_ = c.deps.Gateway.Send(protocol.Look(yaw, 0))
		_ = c.deps.Gateway.Send(protocol.Interact(target, protocol.InteractAttack))
	}
}

func (c *Combat) stopPursuit() {
	c.deps.Store.UpdateSelf(func(s *world.Self) {
		s.Vel.X = 0
		s.Vel.Z = 0
	})
}
