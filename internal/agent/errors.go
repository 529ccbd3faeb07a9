package agent

import "errors"

// Failure taxonomy surfaced through action resolutions or synchronous
// Issue errors. Nothing here ever crosses the tick/event boundary as a
// panic; one event's failure must not abort the stream.
var (
	ErrUnreachable       = errors.New("unreachable")
	ErrAlreadyInProgress = errors.New("already in progress")
	ErrMissingIngredient = errors.New("missing ingredient")
	ErrStationRequired   = errors.New("station required")
	ErrTimedOut          = errors.New("timed out")
	ErrCancelled         = errors.New("cancelled")
	ErrDisconnected      = errors.New("disconnected")
)
