package behavior

import (
	"context"
	"fmt"
	"sync/atomic"

	"voxelagent.ai/internal/agent"
	"voxelagent.ai/internal/protocol"
	"voxelagent.ai/internal/world"
)

// Crafter issues Craft actions. Preconditions are checked synchronously:
// a craft that cannot succeed fails fast before any command leaves the
// agent. Station crafts open the station's window first and close it
// unconditionally once the action resolves, on every path.
type Crafter struct {
	deps Deps
}

func NewCrafter(deps Deps) *Crafter {
	return &Crafter{deps: deps}
}

// Craft requests count results of the named item. The returned action
// resolves when a window slot update shows the expected result item.
func (c *Crafter) Craft(ctx context.Context, item string, count int) (*agent.Handle, error) {
	if count <= 0 {
		count = 1
	}
	recipe, ok := c.deps.Catalogs.Lookup(item)
	if !ok {
		return nil, fmt.Errorf("no recipe for %s", item)
	}

	// Fail fast: no outbound command may be emitted for a doomed craft.
	crafts := (count + recipe.Result.Count - 1) / recipe.Result.Count
	for _, in := range recipe.Inputs {
		need := in.Count * crafts
		if have := c.deps.Store.CountItem(in.Item); have < need {
			return nil, fmt.Errorf("%w: %s (need %d, have %d)", agent.ErrMissingIngredient, in.Item, need, have)
		}
	}

	windowID := world.InventoryWindow
	var stationPos world.Vec3i
	if recipe.Station != "" {
		self := c.deps.Store.Self()
		pos, found := c.deps.Store.NearestBlock(recipe.Station, self.Pos, c.deps.Cfg.Sim.ReachDistance)
		if !found {
			return nil, fmt.Errorf("%w: %s", agent.ErrStationRequired, recipe.Station)
		}
		stationPos = pos

		opened, err := c.openStation(ctx, stationPos)
		if err != nil {
			return nil, err
		}
		windowID = opened
	}

	h, err := c.deps.Engine.Registry().Issue(agent.ActionSpec{
		Kind:     agent.KindCraft,
		WindowID: windowID,
		Match: func(ev protocol.Event) bool {
			slot, ok := ev.(*protocol.WindowSlotEvent)
			return ok && slot.WindowID == windowID && slot.Item == item && slot.Count > 0
		},
		TimeoutTicks: c.deps.Cfg.Actions.CraftTimeoutTicks,
	})
	if err != nil {
		if windowID != world.InventoryWindow {
			_ = c.deps.Gateway.Send(protocol.WindowClose(windowID))
		}
		return nil, err
	}

	// Guaranteed cleanup: the station window closes whatever the outcome.
	if windowID != world.InventoryWindow {
		gw := c.deps.Gateway
		closeID := windowID
		go func() {
			<-h.Resolved()
			_ = gw.Send(protocol.WindowClose(closeID))
		}()
	}

	for i := 0; i < crafts; i++ {
		if err := c.deps.Gateway.Send(protocol.WindowClick(windowID, 0, 0, 0)); err != nil {
			return h, err
		}
	}
	return h, nil
}

// openStation activates the station block and waits for the confirming
// window-open event. Craft clicks are never sent into an unconfirmed
// window.
func (c *Crafter) openStation(ctx context.Context, pos world.Vec3i) (int, error) {
	var opened atomic.Int64
	h, err := c.deps.Engine.Registry().Issue(agent.ActionSpec{
		Kind: agent.KindOpenContainer,
		Match: func(ev protocol.Event) bool {
			w, ok := ev.(*protocol.WindowOpenEvent)
			if !ok {
				return false
			}
			opened.Store(int64(w.WindowID))
			return true
		},
		TimeoutTicks: c.deps.Cfg.Actions.OpenTimeoutTicks,
	})
	if err != nil {
		return 0, err
	}

	self := c.deps.Store.Self()
	if err := c.deps.Gateway.Send(protocol.BlockPlace(pos.ToArray(), faceToward(self.Pos, pos))); err != nil {
		h.Cancel()
		return 0, err
	}

	res, err := h.Wait(ctx)
	if err != nil {
		h.Cancel()
		return 0, err
	}
	if res.Outcome != agent.Succeeded {
		return 0, fmt.Errorf("open container: %w", res.Err)
	}
	return int(opened.Load()), nil
}
