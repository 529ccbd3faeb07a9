package protocol

import "encoding/json"

const Version = "0.4"

// Inbound event types (server -> agent).
const (
	TypePosition      = "POSITION"
	TypeChat          = "CHAT"
	TypeEntitySpawn   = "ENTITY_SPAWN"
	TypeEntityMove    = "ENTITY_MOVE"
	TypeEntityDestroy = "ENTITY_DESTROY"
	TypeEntityMeta    = "ENTITY_META"
	TypeBlockChange   = "BLOCK_CHANGE"
	TypeHealth        = "HEALTH"
	TypeWindowOpen    = "WINDOW_OPEN"
	TypeWindowSlot    = "WINDOW_SLOT"
	TypeDisconnect    = "DISCONNECT"
	TypeError         = "ERROR"
)

// Outbound command types (agent -> server).
const (
	TypeSay            = "SAY"
	TypeLook           = "LOOK"
	TypePositionReport = "POS_REPORT"
	TypeInteract       = "INTERACT"
	TypeBlockPlace     = "BLOCK_PLACE"
	TypeBlockDig       = "BLOCK_DIG"
	TypeHeldSlot       = "HELD_SLOT"
	TypeWindowClick    = "WINDOW_CLICK"
	TypeWindowClose    = "WINDOW_CLOSE"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}

// Event is an inbound tagged record.
type Event interface {
	EventType() string
}

// Command is an outbound tagged record.
type Command interface {
	CommandType() string
}

// DecodeEvent decodes one wire message into its concrete event.
// Unrecognized types return (nil, nil): the stream must not fail on them.
func DecodeEvent(b []byte) (Event, error) {
	base, err := DecodeBase(b)
	if err != nil {
		return nil, err
	}
	switch base.Type {
	case TypePosition:
		var e PositionEvent
		return &e, json.Unmarshal(b, &e)
	case TypeChat:
		var e ChatEvent
		return &e, json.Unmarshal(b, &e)
	case TypeEntitySpawn:
		var e EntitySpawnEvent
		return &e, json.Unmarshal(b, &e)
	case TypeEntityMove:
		var e EntityMoveEvent
		return &e, json.Unmarshal(b, &e)
	case TypeEntityDestroy:
		var e EntityDestroyEvent
		return &e, json.Unmarshal(b, &e)
	case TypeEntityMeta:
		var e EntityMetaEvent
		return &e, json.Unmarshal(b, &e)
	case TypeBlockChange:
		var e BlockChangeEvent
		return &e, json.Unmarshal(b, &e)
	case TypeHealth:
		var e HealthEvent
		return &e, json.Unmarshal(b, &e)
	case TypeWindowOpen:
		var e WindowOpenEvent
		return &e, json.Unmarshal(b, &e)
	case TypeWindowSlot:
		var e WindowSlotEvent
		return &e, json.Unmarshal(b, &e)
	case TypeDisconnect:
		var e DisconnectEvent
		return &e, json.Unmarshal(b, &e)
	case TypeError:
		var e ErrorEvent
		return &e, json.Unmarshal(b, &e)
	default:
		return nil, nil
	}
}

// EncodeCommand marshals a command for the wire.
func EncodeCommand(c Command) ([]byte, error) {
	return json.Marshal(c)
}
