package agent

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"voxelagent.ai/internal/config"
	"voxelagent.ai/internal/gateway"
	"voxelagent.ai/internal/protocol"
	"voxelagent.ai/internal/world"
)

// TickHook runs on the engine loop goroutine each tick, after physics and
// before registry deadline checks. Behavior control loops live here.
type TickHook func(tick uint64)

// Recorder observes the session stream. Implementations must not block.
type Recorder interface {
	Event(tick uint64, ev protocol.Event)
	Resolution(tick uint64, actionID, kind, outcome string)
}

// Engine is the action-completion and tick-synchronization core. One loop
// goroutine owns all store mutation and registry resolution: the 50 ms
// simulation step and inbound event processing are serialized on it and
// never run concurrently with each other.
type Engine struct {
	cfg   config.Sim
	gw    gateway.Gateway
	store *world.Store
	reg   *Registry
	log   *log.Logger
	rec   Recorder // may be nil

	// solid resolves block solidity for physics (store + block catalog).
	solid func(world.Vec3i) bool

	tick atomic.Uint64

	mu       sync.Mutex
	hooks    []TickHook
	defeated bool

	defeatCh chan struct{}
}

func NewEngine(cfg config.Sim, gw gateway.Gateway, store *world.Store, solid func(world.Vec3i) bool, logger *log.Logger) *Engine {
	e := &Engine{
		cfg:      cfg,
		gw:       gw,
		store:    store,
		reg:      NewRegistry(logger),
		log:      logger,
		solid:    solid,
		defeatCh: make(chan struct{}, 1),
	}
	return e
}

func (e *Engine) Registry() *Registry { return e.reg }

func (e *Engine) CurrentTick() uint64 { return e.tick.Load() }

// SetRecorder must be called before Run.
func (e *Engine) SetRecorder(rec Recorder) {
	e.rec = rec
	e.reg.SetResolveObserver(func(tick uint64, id string, kind Kind, res Resolution) {
		if e.rec != nil {
			e.rec.Resolution(tick, id, kind.String(), res.Outcome.String())
		}
	})
}

// OnTick registers a hook for every simulation tick.
func (e *Engine) OnTick(h TickHook) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hooks = append(e.hooks, h)
}

// Defeated signals once when a health update reaches zero. The latch
// rearms only after health is observed positive again.
func (e *Engine) Defeated() <-chan struct{} { return e.defeatCh }

// Run drives the fixed-rate simulation clock and the event reconciler
// until the context ends or the gateway disconnects. On disconnect every
// pending action resolves Cancelled with ErrDisconnected.
func (e *Engine) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(e.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.reg.CancelAll(ErrCancelled)
			return ctx.Err()

		case ev, ok := <-e.gw.Events():
			if !ok {
				e.teardown("gateway closed")
				return ErrDisconnected
			}
			if _, bye := ev.(*protocol.DisconnectEvent); bye {
				e.teardown("server disconnect")
				return ErrDisconnected
			}
			e.Apply(ev)

		case <-ticker.C:
			e.advance(ticker.C)
		}
	}
}

// advance runs the due simulation step. If the host was suspended the
// ticker has a backlog: drain it and apply at most one catch-up step,
// replaying the full backlog would explode velocities.
func (e *Engine) advance(c <-chan time.Time) {
	e.Step()
	if drainTicker(c) {
		e.Step()
	}
}

func drainTicker(c <-chan time.Time) bool {
	late := false
	for {
		select {
		case <-c:
			late = true
		default:
			return late
		}
	}
}

func (e *Engine) teardown(reason string) {
	if e.log != nil {
		e.log.Printf("teardown: %s", reason)
	}
	e.reg.CancelAll(ErrDisconnected)
}

// Step advances the simulation one tick: physics, position report,
// behavior hooks, then registry deadline and tick-predicate checks.
// Run calls it at the tick rate; callers driving the engine manually
// must not call it concurrently with Run.
func (e *Engine) Step() {
	tick := e.tick.Add(1)

	var sample protocol.PositionReportCommand
	e.store.UpdateSelf(func(s *world.Self) {
		stepPhysics(s, e.solid, e.cfg)
		sample = protocol.PositionReportCommand{
			Type:     protocol.TypePositionReport,
			Tick:     tick,
			Pos:      s.Pos.ToArray(),
			Yaw:      s.Yaw,
			Pitch:    s.Pitch,
			OnGround: s.OnGround,
		}
	})
	if err := e.gw.Send(&sample); err != nil && e.log != nil {
		e.log.Printf("position report: %v", err)
	}

	e.mu.Lock()
	hooks := make([]TickHook, len(e.hooks))
	copy(hooks, e.hooks)
	e.mu.Unlock()
	for _, h := range hooks {
		h(tick)
	}

	e.reg.OnTick(tick)
}

// Apply applies the deterministic state mutation for the event kind,
// then offers it to the action registry. Mutation strictly precedes
// completion matching. Same concurrency contract as Step.
func (e *Engine) Apply(ev protocol.Event) {
	if e.rec != nil {
		e.rec.Event(e.tick.Load(), ev)
	}

	switch t := ev.(type) {
	case *protocol.PositionEvent:
		// Server position is authoritative and replaces the prediction.
		e.store.UpdateSelf(func(s *world.Self) {
			s.Pos = world.V3FromArray(t.Pos)
			s.Yaw = t.Yaw
			s.Pitch = t.Pitch
			s.OnGround = t.OnGround
			if t.OnGround {
				s.Vel.Y = 0
			}
		})

	case *protocol.BlockChangeEvent:
		e.store.SetBlock(world.V3iFromArray(t.Pos), t.Block)

	case *protocol.EntitySpawnEvent:
		e.store.ApplyEntitySpawn(t.ID, t.EntityType, world.V3FromArray(t.Pos), world.V3FromArray(t.Vel), t.Meta)

	case *protocol.EntityMoveEvent:
		e.store.ApplyEntityMove(t.ID, world.V3FromArray(t.Pos), world.V3FromArray(t.Vel))

	case *protocol.EntityMetaEvent:
		e.store.ApplyEntityMeta(t.ID, t.Meta)

	case *protocol.EntityDestroyEvent:
		e.store.ApplyEntityDestroy(t.ID)

	case *protocol.HealthEvent:
		e.store.UpdateSelf(func(s *world.Self) { s.Health = t.Health })
		e.updateDefeatLatch(t.Health)

	case *protocol.WindowOpenEvent:
		e.store.OpenWindow(t.WindowID, t.Kind)

	case *protocol.WindowSlotEvent:
		e.store.SetWindowSlot(t.WindowID, t.Slot, world.ItemStack{Item: t.Item, Count: t.Count})

	case *protocol.ErrorEvent:
		if e.log != nil {
			e.log.Printf("server error %s: %s", t.Code, t.Message)
		}

	case *protocol.ChatEvent:
		if e.log != nil {
			e.log.Printf("chat <%s> %s", t.From, t.Text)
		}
	}

	e.reg.OnEvent(ev)
}

func (e *Engine) updateDefeatLatch(health int) {
	e.mu.Lock()
	fire := false
	if health <= 0 {
		if !e.defeated {
			e.defeated = true
			fire = true
		}
	} else {
		e.defeated = false
	}
	e.mu.Unlock()

	if fire {
		select {
		case e.defeatCh <- struct{}{}:
		default:
		}
	}
}
