package behavior

import (
	"fmt"
	"sync"

	"voxelagent.ai/internal/agent"
	"voxelagent.ai/internal/protocol"
	"voxelagent.ai/internal/world"
)

// Miner issues Dig actions. The dig-start command goes out immediately,
// the finish command after the block's dig delay, and the action resolves
// when the server confirms the cell turned to air. No confirmation before
// the deadline means TimedOut and an abandoning dig-cancel.
type Miner struct {
	deps Deps

	mu   sync.Mutex
	digs map[world.Vec3i]*digState
}

type digState struct {
	pos        world.Vec3i
	face       int
	finishTick uint64
	finishSent bool
	aborted    bool
}

func NewMiner(deps Deps) *Miner {
	m := &Miner{deps: deps, digs: map[world.Vec3i]*digState{}}
	deps.Engine.OnTick(m.tick)
	return m
}

// Dig starts mining the block at pos. A second Dig on the same coordinate
// while one is active fails with ErrAlreadyInProgress and leaves the
// original untouched.
func (m *Miner) Dig(pos world.Vec3i) (*agent.Handle, error) {
	block := m.deps.Store.BlockAt(pos)
	if block == world.BlockAir {
		return nil, fmt.Errorf("nothing to dig at %v", pos)
	}
	if _, ok := m.deps.Catalogs.DigTicks(block, m.deps.Store.HeldItem(), m.deps.Cfg.Sim.TickRateHz); !ok {
		return nil, fmt.Errorf("block %s at %v is not breakable", block, pos)
	}

	m.selectTool(block)
	ticks, _ := m.deps.Catalogs.DigTicks(block, m.deps.Store.HeldItem(), m.deps.Cfg.Sim.TickRateHz)

	self := m.deps.Store.Self()
	face := faceToward(self.Pos, pos)
	st := &digState{pos: pos, face: face}

	target := pos.ToArray()
	h, err := m.deps.Engine.Registry().Issue(agent.ActionSpec{
		Kind:     agent.KindDig,
		BlockPos: pos,
		Match: func(ev protocol.Event) bool {
			bc, ok := ev.(*protocol.BlockChangeEvent)
			return ok && bc.Pos == target && bc.Block == world.BlockAir
		},
		TimeoutTicks: ticks + m.deps.Cfg.Actions.DigGraceTicks,
		OnAbort:      func() { m.abort(st) },
	})
	if err != nil {
		return nil, err
	}

	st.finishTick = m.deps.Engine.CurrentTick() + uint64(ticks)
	m.mu.Lock()
	m.digs[pos] = st
	m.mu.Unlock()

	// Success needs no abort path; drop the bookkeeping when resolved.
	go func() {
		<-h.Resolved()
		m.mu.Lock()
		if m.digs[pos] == st {
			delete(m.digs, pos)
		}
		m.mu.Unlock()
	}()

	if err := m.deps.Gateway.Send(protocol.BlockDig(protocol.DigStart, target, face)); err != nil {
		return h, err
	}
	return h, nil
}

// hotbarSlots is the range of inventory slots selectable as held.
const hotbarSlots = 9

// selectTool switches to the fastest hotbar tool for the block's family
// before digging. Nothing goes out when the current hand is already best.
func (m *Miner) selectTool(block string) {
	def, ok := m.deps.Catalogs.Blocks.Defs[block]
	if !ok || def.Tool == "" {
		return
	}

	bestSpeed := 1.0
	if held, ok := m.deps.Catalogs.Tools.Defs[m.deps.Store.HeldItem()]; ok && held.Family == def.Tool {
		bestSpeed = held.Speed
	}
	bestSlot := -1
	for slot := 0; slot < hotbarSlots; slot++ {
		stack := m.deps.Store.WindowSlot(world.InventoryWindow, slot)
		tool, ok := m.deps.Catalogs.Tools.Defs[stack.Item]
		if !ok || tool.Family != def.Tool || tool.Speed <= bestSpeed {
			continue
		}
		bestSlot, bestSpeed = slot, tool.Speed
	}
	if bestSlot < 0 {
		return
	}

	m.deps.Store.UpdateSelf(func(s *world.Self) { s.HeldSlot = bestSlot })
	_ = m.deps.Gateway.Send(protocol.HeldSlot(bestSlot))
}

// abort stops command emission for a dig and tells the server it was
// abandoned. Commands already sent are not retracted.
func (m *Miner) abort(st *digState) {
	m.mu.Lock()
	already := st.aborted
	st.aborted = true
	if m.digs[st.pos] == st {
		delete(m.digs, st.pos)
	}
	m.mu.Unlock()
	if already {
		return
	}
	_ = m.deps.Gateway.Send(protocol.BlockDig(protocol.DigCancel, st.pos.ToArray(), st.face))
}

// tick sends the scheduled finish commands whose delay has elapsed.
func (m *Miner) tick(tick uint64) {
	m.mu.Lock()
	var due []*digState
	for _, st := range m.digs {
		if !st.finishSent && !st.aborted && tick >= st.finishTick {
			st.finishSent = true
			due = append(due, st)
		}
	}
	m.mu.Unlock()

	for _, st := range due {
		_ = m.deps.Gateway.Send(protocol.BlockDig(protocol.DigFinish, st.pos.ToArray(), st.face))
	}
}
