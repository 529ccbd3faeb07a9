package behavior

import (
	"fmt"
	"math"
	"sync"

	"voxelagent.ai/internal/agent"
	"voxelagent.ai/internal/world"
)

type MoveOptions struct {
	Sprint    bool
	AllowJump bool
	// Tolerance overrides the configured completion radius when positive.
	Tolerance float64
}

// Movement drives the agent toward a destination along planner waypoints.
// One navigation goal at a time: a new MoveTo cancels the previous one.
type Movement struct {
	deps Deps

	mu  sync.Mutex
	cur *moveState
}

type moveState struct {
	handle    *agent.Handle
	dest      world.Vec3
	waypoints []world.Vec3
	idx       int
	opts      MoveOptions
}

func NewMovement(deps Deps) *Movement {
	m := &Movement{deps: deps}
	deps.Engine.OnTick(m.tick)
	return m
}

// MoveTo issues a Move action toward dest. Completion is checked on tick
// (within tolerance of dest), not on any server event. An unreachable
// route resolves the action Failed(Unreachable) rather than erroring the
// call.
func (m *Movement) MoveTo(dest world.Vec3, opts MoveOptions) (*agent.Handle, error) {
	tol := opts.Tolerance
	if tol <= 0 {
		tol = m.deps.Cfg.Sim.MoveTolerance
	}
	opts.Tolerance = tol

	store := m.deps.Store
	st := &moveState{dest: dest, opts: opts}
	h, err := m.deps.Engine.Registry().Issue(agent.ActionSpec{
		Kind: agent.KindMove,
		TickDone: func(uint64) bool {
			return store.Self().Pos.Dist(dest) <= tol
		},
		TimeoutTicks: m.deps.Cfg.Actions.MoveTimeoutTicks,
		OnAbort:      func() { m.clearIf(st) },
	})
	if err != nil {
		return nil, err
	}
	st.handle = h

	waypoints, rerr := m.deps.Planner.Route(store.Self().Pos, dest)
	if rerr != nil {
		m.deps.Engine.Registry().Fail(h, fmt.Errorf("%w: %v", agent.ErrUnreachable, rerr))
		return h, nil
	}

	m.mu.Lock()
	st.waypoints = waypoints
	m.cur = st
	m.mu.Unlock()

	// The action may have resolved between Issue and the goal install;
	// its abort then saw a different current state, so clear here.
	select {
	case <-h.Resolved():
		m.clearIf(st)
	default:
	}
	return h, nil
}

// Stop cancels the active move, if any.
func (m *Movement) Stop() {
	m.mu.Lock()
	st := m.cur
	m.mu.Unlock()
	if st != nil {
		st.handle.Cancel()
	}
}

// clearIf drops the goal only if st is still the current one: an abort
// for a superseded move must not wipe its replacement.
func (m *Movement) clearIf(st *moveState) {
	m.mu.Lock()
	if m.cur == st {
		m.cur = nil
	}
	m.mu.Unlock()
}

// tick steers toward the current waypoint. It runs on the engine loop
// after physics and before the registry's completion checks, so arriving
// within tolerance resolves on the same tick.
func (m *Movement) tick(uint64) {
	m.mu.Lock()
	st := m.cur
	m.mu.Unlock()
	if st == nil {
		return
	}

	self := m.deps.Store.Self()

	if self.Pos.Dist(st.dest) <= st.opts.Tolerance {
		// Arrived: stop steering and let the tick predicate resolve it.
		m.deps.Store.UpdateSelf(func(s *world.Self) {
			s.Vel.X = 0
			s.Vel.Z = 0
		})
		m.clearIf(st)
		return
	}

	for st.idx < len(st.waypoints)-1 &&
		horizontalDist(self.Pos, st.waypoints[st.idx]) <= m.deps.Cfg.Sim.WaypointRadius {
		st.idx++
	}
	wp := st.waypoints[st.idx]

	speed := m.deps.Cfg.Sim.WalkSpeed
	if st.opts.Sprint {
		speed = m.deps.Cfg.Sim.SprintSpeed
	}

	dx := wp.X - self.Pos.X
	dz := wp.Z - self.Pos.Z
	d := math.Sqrt(dx*dx + dz*dz)
	if d < 1e-9 {
		return
	}
	yaw := yawToward(self.Pos, wp)

	jump := false
	if st.opts.AllowJump && self.OnGround && self.JumpCooldown == 0 {
		ahead := self.Pos.Add(world.Vec3{X: dx / d, Z: dz / d}).Floor()
		if m.solid(ahead) {
			jump = true
		}
	}

	jumpSpeed := m.deps.Cfg.Sim.JumpSpeed
	jumpCD := m.deps.Cfg.Sim.JumpCooldownTicks
	m.deps.Store.UpdateSelf(func(s *world.Self) {
		s.Vel.X = dx / d * speed
		s.Vel.Z = dz / d * speed
		s.Yaw = yaw
		if jump {
			s.Vel.Y = jumpSpeed
			s.OnGround = false
			s.JumpCooldown = jumpCD
		}
	})
}

func (m *Movement) solid(pos world.Vec3i) bool {
	def, ok := m.deps.Catalogs.Blocks.Defs[m.deps.Store.BlockAt(pos)]
	return ok && def.Solid
}
