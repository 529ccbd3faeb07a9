package gateway

import (
	"sync"

	"voxelagent.ai/internal/protocol"
)

// Loopback is an in-memory gateway for tests and offline runs. Injected
// events appear on Events(); sent commands are recorded for inspection.
type Loopback struct {
	mu     sync.Mutex
	sent   []protocol.Command
	events chan protocol.Event
	closed bool
}

func NewLoopback() *Loopback {
	return &Loopback{events: make(chan protocol.Event, 256)}
}

func (l *Loopback) Events() <-chan protocol.Event { return l.events }

func (l *Loopback) Send(cmd protocol.Command) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	l.sent = append(l.sent, cmd)
	return nil
}

func (l *Loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	close(l.events)
	return nil
}

// Inject queues an inbound event as if the server had sent it.
func (l *Loopback) Inject(ev protocol.Event) {
	l.events <- ev
}

// Sent snapshots every command sent so far.
func (l *Loopback) Sent() []protocol.Command {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]protocol.Command, len(l.sent))
	copy(out, l.sent)
	return out
}

// SentOfType filters sent commands by wire type.
func (l *Loopback) SentOfType(typ string) []protocol.Command {
	var out []protocol.Command
	for _, c := range l.Sent() {
		if c.CommandType() == typ {
			out = append(out, c)
		}
	}
	return out
}
