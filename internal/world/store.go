package world

import "sync"

// BlockAir is the block id meaning "no block".
const BlockAir = "AIR"

// InventoryWindow is the always-open window holding the agent's own slots.
const InventoryWindow = 0

type Entity struct {
	ID   int32
	Type string
	Pos  Vec3
	Vel  Vec3
	Meta map[string]any
}

type ItemStack struct {
	Item  string
	Count int
}

type Window struct {
	ID    int
	Kind  string
	Slots map[int]ItemStack
}

// Self is the agent's own simulated state.
type Self struct {
	Pos      Vec3
	Vel      Vec3
	Yaw      float64
	Pitch    float64
	Health   int
	OnGround bool
	HeldSlot int

	AttackCooldown int
	JumpCooldown   int
}

// Store holds last-known block, entity and self state. The engine loop is
// the only writer during tick and event processing; callers read snapshots.
type Store struct {
	mu       sync.RWMutex
	blocks   map[Vec3i]string
	entities map[int32]*Entity
	windows  map[int]*Window
	self     Self
}

func NewStore() *Store {
	return &Store{
		blocks:   map[Vec3i]string{},
		entities: map[int32]*Entity{},
		windows: map[int]*Window{
			InventoryWindow: {ID: InventoryWindow, Kind: "INVENTORY", Slots: map[int]ItemStack{}},
		},
		self: Self{Health: 20},
	}
}

// SetBlock records a cell, last-write-wins. Air clears the cell so the map
// does not accumulate every cleared coordinate.
func (s *Store) SetBlock(pos Vec3i, block string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if block == BlockAir || block == "" {
		delete(s.blocks, pos)
		return
	}
	s.blocks[pos] = block
}

func (s *Store) BlockAt(pos Vec3i) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.blocks[pos]; ok {
		return b
	}
	return BlockAir
}

func (s *Store) BlockCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blocks)
}

func (s *Store) ApplyEntitySpawn(id int32, typ string, pos, vel Vec3, meta map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities[id] = &Entity{ID: id, Type: typ, Pos: pos, Vel: vel, Meta: meta}
}

func (s *Store) ApplyEntityMove(id int32, pos, vel Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entities[id]; ok {
		e.Pos = pos
		e.Vel = vel
	}
}

func (s *Store) ApplyEntityMeta(id int32, meta map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entities[id]
	if !ok {
		return
	}
	if e.Meta == nil {
		e.Meta = map[string]any{}
	}
	for k, v := range meta {
		e.Meta[k] = v
	}
}

// ApplyEntityDestroy removes the entity. The id may later be reused by the
// server; lookups in between must observe absence, never the old entity.
func (s *Store) ApplyEntityDestroy(id int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entities, id)
}

// Entity returns a copy so callers never hold a reference that outlives a
// destroy event.
func (s *Store) Entity(id int32) (Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[id]
	if !ok {
		return Entity{}, false
	}
	return *e, true
}

func (s *Store) EntityCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

func (s *Store) OpenWindow(id int, kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows[id] = &Window{ID: id, Kind: kind, Slots: map[int]ItemStack{}}
}

func (s *Store) CloseWindow(id int) {
	if id == InventoryWindow {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, id)
}

func (s *Store) SetWindowSlot(windowID, slot int, stack ItemStack) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[windowID]
	if !ok {
		return
	}
	if stack.Item == "" || stack.Count <= 0 {
		delete(w.Slots, slot)
		return
	}
	w.Slots[slot] = stack
}

func (s *Store) WindowOpenKind(id int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.windows[id]
	if !ok {
		return "", false
	}
	return w.Kind, true
}

// CountItem sums an item across the inventory window.
func (s *Store) CountItem(item string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.windows[InventoryWindow]
	if !ok {
		return 0
	}
	n := 0
	for _, st := range w.Slots {
		if st.Item == item {
			n += st.Count
		}
	}
	return n
}

// HeldItem is the item in the selected hotbar slot (inventory slots 0-8).
// WindowSlot returns the stack in one slot of an open window.
func (s *Store) WindowSlot(windowID, slot int) ItemStack {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.windows[windowID]
	if !ok {
		return ItemStack{}
	}
	return w.Slots[slot]
}

func (s *Store) HeldItem() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.windows[InventoryWindow]
	if !ok {
		return ""
	}
	return w.Slots[s.self.HeldSlot].Item
}

// NearestBlock finds the closest known cell of the given block id within
// maxDist of center.
func (s *Store) NearestBlock(block string, center Vec3, maxDist float64) (Vec3i, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	best := Vec3i{}
	bestDist := maxDist
	found := false
	for pos, b := range s.blocks {
		if b != block {
			continue
		}
		d := center.Dist(pos.Center())
		if d <= bestDist {
			best, bestDist, found = pos, d, true
		}
	}
	return best, found
}

// Self returns a snapshot of the agent's own state.
func (s *Store) Self() Self {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.self
}

// UpdateSelf runs fn with exclusive access to the self state. Used by the
// simulation step and by authoritative position corrections.
func (s *Store) UpdateSelf(fn func(*Self)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.self)
}
