// Package gateway is the agent's only I/O boundary: a duplex channel that
// emits decoded inbound events and accepts outbound commands.
package gateway

import "voxelagent.ai/internal/protocol"

type Gateway interface {
	// Events delivers inbound events in arrival order. The channel closes
	// when the connection is gone.
	Events() <-chan protocol.Event
	Send(cmd protocol.Command) error
	Close() error
}
