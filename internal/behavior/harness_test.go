package behavior

import (
	"io"
	"log"
	"testing"
	"time"

	"voxelagent.ai/internal/agent"
	"voxelagent.ai/internal/catalogs"
	"voxelagent.ai/internal/config"
	"voxelagent.ai/internal/gateway"
	"voxelagent.ai/internal/route"
	"voxelagent.ai/internal/world"
)

// harness wires a deterministic engine around the loopback gateway; tests
// drive ticks with eng.Step and inbound events with eng.Apply.
type harness struct {
	cfg   config.Config
	gw    *gateway.Loopback
	store *world.Store
	eng   *agent.Engine
	deps  Deps
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.Default()
	cats, err := catalogs.Load("../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	store := world.NewStore()
	gw := gateway.NewLoopback()
	solid := func(p world.Vec3i) bool {
		def, ok := cats.Blocks.Defs[store.BlockAt(p)]
		return ok && def.Solid
	}
	eng := agent.NewEngine(cfg.Sim, gw, store, solid, log.New(io.Discard, "", 0))
	return &harness{
		cfg:   cfg,
		gw:    gw,
		store: store,
		eng:   eng,
		deps: Deps{
			Cfg:      cfg,
			Engine:   eng,
			Gateway:  gw,
			Store:    store,
			Catalogs: cats,
			Planner:  &route.GridPlanner{Solid: solid},
			Log:      log.New(io.Discard, "", 0),
		},
	}
}

// floor lays stone at y=59 under the given XZ extent so physics has ground.
func (h *harness) floor(minX, maxX, minZ, maxZ int) {
	for x := minX; x <= maxX; x++ {
		for z := minZ; z <= maxZ; z++ {
			h.store.SetBlock(world.Vec3i{X: x, Y: 59, Z: z}, "STONE")
		}
	}
}

func (h *harness) placeSelf(pos world.Vec3) {
	h.store.UpdateSelf(func(s *world.Self) {
		s.Pos = pos
		s.Vel = world.Vec3{}
		s.OnGround = true
	})
}

// give fills an inventory slot directly.
func (h *harness) give(slot int, item string, count int) {
	h.store.SetWindowSlot(world.InventoryWindow, slot, world.ItemStack{Item: item, Count: count})
}

func resolution(t *testing.T, h *agent.Handle) agent.Resolution {
	t.Helper()
	select {
	case res := <-h.Done():
		return res
	default:
		t.Fatalf("action %s not resolved", h.ID())
		return agent.Resolution{}
	}
}

// waitFor polls cond until it holds or the deadline passes. Used only where
// a behavior goroutine races the test, never as a tick substitute.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
