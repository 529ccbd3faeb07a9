// Package record captures a session's traffic for replay and analysis:
// every inbound event, outbound command and action resolution goes to a
// compressed JSONL stream, with a SQLite index over sessions and action
// outcomes. The JSONL file is the source of truth; the index is a
// queryable secondary.
package record

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"voxelagent.ai/internal/protocol"
)

// Entry is one JSONL row. Dir is "in" for server events, "out" for
// commands, "res" for action resolutions.
type Entry struct {
	Tick     uint64          `json:"tick"`
	Dir      string          `json:"dir"`
	Type     string          `json:"type,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
	ActionID string          `json:"action_id,omitempty"`
	Kind     string          `json:"kind,omitempty"`
	Outcome  string          `json:"outcome,omitempty"`
}

type Recorder struct {
	sessionID string
	w         *sessionWriter
	idx       *SQLiteIndex // may be nil
	log       *log.Logger
}

// New opens a session recorder under dir. The index is optional; a nil
// idx records to JSONL only.
func New(dir, agentName string, idx *SQLiteIndex, logger *log.Logger) (*Recorder, error) {
	sessionID := uuid.NewString()
	w, err := newSessionWriter(dir, sessionID)
	if err != nil {
		return nil, err
	}
	r := &Recorder{sessionID: sessionID, w: w, idx: idx, log: logger}
	idx.RecordSession(sessionID, agentName, time.Now().UTC())
	return r, nil
}

func (r *Recorder) SessionID() string { return r.sessionID }

// Event records an inbound server event. Must not block the engine loop;
// write failures are logged and dropped.
func (r *Recorder) Event(tick uint64, ev protocol.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	r.put(Entry{Tick: tick, Dir: "in", Type: ev.EventType(), Data: data})
}

// Command records an outbound command.
func (r *Recorder) Command(tick uint64, cmd protocol.Command) {
	data, err := json.Marshal(cmd)
	if err != nil {
		return
	}
	r.put(Entry{Tick: tick, Dir: "out", Type: cmd.CommandType(), Data: data})
}

// Resolution records a terminal action outcome.
func (r *Recorder) Resolution(tick uint64, actionID, kind, outcome string) {
	r.put(Entry{Tick: tick, Dir: "res", ActionID: actionID, Kind: kind, Outcome: outcome})
	r.idx.RecordResolution(r.sessionID, tick, actionID, kind, outcome)
}

func (r *Recorder) put(e Entry) {
	if err := r.w.write(e); err != nil && r.log != nil {
		r.log.Printf("record: %v", err)
	}
}

func (r *Recorder) Close() error {
	r.idx.RecordSessionEnd(r.sessionID, time.Now().UTC())
	return r.w.close()
}
