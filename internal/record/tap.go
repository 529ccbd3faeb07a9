package record

import (
	"voxelagent.ai/internal/gateway"
	"voxelagent.ai/internal/protocol"
)

// Tap wraps a gateway so every outbound command is recorded before it is
// sent. Inbound events are recorded by the engine, which knows the tick
// they were applied on, so the tap leaves Events untouched.
func Tap(inner gateway.Gateway, rec *Recorder, tick func() uint64) gateway.Gateway {
	return &tap{inner: inner, rec: rec, tick: tick}
}

type tap struct {
	inner gateway.Gateway
	rec   *Recorder
	tick  func() uint64
}

func (t *tap) Events() <-chan protocol.Event { return t.inner.Events() }

func (t *tap) Send(cmd protocol.Command) error {
	t.rec.Command(t.tick(), cmd)
	return t.inner.Send(cmd)
}

func (t *tap) Close() error { return t.inner.Close() }
