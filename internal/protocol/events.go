package protocol

// POSITION (server -> agent): authoritative position correction.
// Always replaces the locally predicted position.
type PositionEvent struct {
	Type     string     `json:"type"`
	Pos      [3]float64 `json:"pos"`
	Yaw      float64    `json:"yaw"`
	Pitch    float64    `json:"pitch"`
	OnGround bool       `json:"on_ground"`
}

func (*PositionEvent) EventType() string { return TypePosition }

type ChatEvent struct {
	Type string `json:"type"`
	From string `json:"from,omitempty"`
	Text string `json:"text"`
}

func (*ChatEvent) EventType() string { return TypeChat }

type EntitySpawnEvent struct {
	Type       string         `json:"type"`
	ID         int32          `json:"id"`
	EntityType string         `json:"entity_type"`
	Pos        [3]float64     `json:"pos"`
	Vel        [3]float64     `json:"vel,omitempty"`
	Meta       map[string]any `json:"meta,omitempty"`
}

func (*EntitySpawnEvent) EventType() string { return TypeEntitySpawn }

type EntityMoveEvent struct {
	Type string     `json:"type"`
	ID   int32      `json:"id"`
	Pos  [3]float64 `json:"pos"`
	Vel  [3]float64 `json:"vel,omitempty"`
}

func (*EntityMoveEvent) EventType() string { return TypeEntityMove }

type EntityDestroyEvent struct {
	Type string `json:"type"`
	ID   int32  `json:"id"`
}

func (*EntityDestroyEvent) EventType() string { return TypeEntityDestroy }

type EntityMetaEvent struct {
	Type string         `json:"type"`
	ID   int32          `json:"id"`
	Meta map[string]any `json:"meta"`
}

func (*EntityMetaEvent) EventType() string { return TypeEntityMeta }

// BLOCK_CHANGE: a single cell set to a block id ("AIR" clears it).
type BlockChangeEvent struct {
	Type  string `json:"type"`
	Pos   [3]int `json:"pos"`
	Block string `json:"block"`
}

func (*BlockChangeEvent) EventType() string { return TypeBlockChange }

type HealthEvent struct {
	Type   string `json:"type"`
	Health int    `json:"health"`
	Food   int    `json:"food,omitempty"`
}

func (*HealthEvent) EventType() string { return TypeHealth }

type WindowOpenEvent struct {
	Type      string `json:"type"`
	WindowID  int    `json:"window_id"`
	Kind      string `json:"kind"` // e.g. "CRAFTING_TABLE", "CHEST"
	Title     string `json:"title,omitempty"`
	SlotCount int    `json:"slot_count"`
}

func (*WindowOpenEvent) EventType() string { return TypeWindowOpen }

// WINDOW_SLOT: one slot of an open window (window 0 is the inventory).
type WindowSlotEvent struct {
	Type     string `json:"type"`
	WindowID int    `json:"window_id"`
	Slot     int    `json:"slot"`
	Item     string `json:"item"` // "" for an emptied slot
	Count    int    `json:"count"`
}

func (*WindowSlotEvent) EventType() string { return TypeWindowSlot }

type DisconnectEvent struct {
	Type   string `json:"type"`
	Reason string `json:"reason,omitempty"`
}

func (*DisconnectEvent) EventType() string { return TypeDisconnect }

type ErrorEvent struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

func (*ErrorEvent) EventType() string { return TypeError }
