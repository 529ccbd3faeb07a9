package protocol

// Dig statuses for BLOCK_DIG.
const (
	DigStart  = "START"
	DigCancel = "CANCEL"
	DigFinish = "FINISH"
)

// Interact actions for INTERACT.
const (
	InteractAttack = "ATTACK"
	InteractUse    = "USE"
)

type SayCommand struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func Say(text string) *SayCommand { return &SayCommand{Type: TypeSay, Text: text} }

func (*SayCommand) CommandType() string { return TypeSay }

type LookCommand struct {
	Type  string  `json:"type"`
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
}

func Look(yaw, pitch float64) *LookCommand {
	return &LookCommand{Type: TypeLook, Yaw: yaw, Pitch: pitch}
}

func (*LookCommand) CommandType() string { return TypeLook }

// POS_REPORT: the per-tick local position sample the server reconciles against.
type PositionReportCommand struct {
	Type     string     `json:"type"`
	Tick     uint64     `json:"tick"`
	Pos      [3]float64 `json:"pos"`
	Yaw      float64    `json:"yaw"`
	Pitch    float64    `json:"pitch"`
	OnGround bool       `json:"on_ground"`
}

func (*PositionReportCommand) CommandType() string { return TypePositionReport }

type InteractCommand struct {
	Type     string `json:"type"`
	TargetID int32  `json:"target_id"`
	Action   string `json:"action"`
}

func Interact(target int32, action string) *InteractCommand {
	return &InteractCommand{Type: TypeInteract, TargetID: target, Action: action}
}

func (*InteractCommand) CommandType() string { return TypeInteract }

type BlockPlaceCommand struct {
	Type string `json:"type"`
	Pos  [3]int `json:"pos"`
	Face int    `json:"face"`
}

func BlockPlace(pos [3]int, face int) *BlockPlaceCommand {
	return &BlockPlaceCommand{Type: TypeBlockPlace, Pos: pos, Face: face}
}

func (*BlockPlaceCommand) CommandType() string { return TypeBlockPlace }

type BlockDigCommand struct {
	Type   string `json:"type"`
	Status string `json:"status"`
	Pos    [3]int `json:"pos"`
	Face   int    `json:"face"`
}

func BlockDig(status string, pos [3]int, face int) *BlockDigCommand {
	return &BlockDigCommand{Type: TypeBlockDig, Status: status, Pos: pos, Face: face}
}

func (*BlockDigCommand) CommandType() string { return TypeBlockDig }

// HELD_SLOT: hotbar selection, slots 0-8.
type HeldSlotCommand struct {
	Type string `json:"type"`
	Slot int    `json:"slot"`
}

func HeldSlot(slot int) *HeldSlotCommand { return &HeldSlotCommand{Type: TypeHeldSlot, Slot: slot} }

func (*HeldSlotCommand) CommandType() string { return TypeHeldSlot }

type WindowClickCommand struct {
	Type     string `json:"type"`
	WindowID int    `json:"window_id"`
	Slot     int    `json:"slot"`
	Button   int    `json:"button"`
	Mode     int    `json:"mode"`
}

func WindowClick(windowID, slot, button, mode int) *WindowClickCommand {
	return &WindowClickCommand{Type: TypeWindowClick, WindowID: windowID, Slot: slot, Button: button, Mode: mode}
}

func (*WindowClickCommand) CommandType() string { return TypeWindowClick }

type WindowCloseCommand struct {
	Type     string `json:"type"`
	WindowID int    `json:"window_id"`
}

func WindowClose(windowID int) *WindowCloseCommand {
	return &WindowCloseCommand{Type: TypeWindowClose, WindowID: windowID}
}

func (*WindowCloseCommand) CommandType() string { return TypeWindowClose }
