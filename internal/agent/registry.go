package agent

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"voxelagent.ai/internal/protocol"
	"voxelagent.ai/internal/world"
)

type Kind int

const (
	KindMove Kind = iota + 1
	KindDig
	KindCraft
	KindOpenContainer
	KindAttack
)

func (k Kind) String() string {
	switch k {
	case KindMove:
		return "MOVE"
	case KindDig:
		return "DIG"
	case KindCraft:
		return "CRAFT"
	case KindOpenContainer:
		return "OPEN_CONTAINER"
	case KindAttack:
		return "ATTACK"
	default:
		return "UNKNOWN"
	}
}

type Outcome int

const (
	Succeeded Outcome = iota + 1
	Failed
	Cancelled
	TimedOut
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "SUCCEEDED"
	case Failed:
		return "FAILED"
	case Cancelled:
		return "CANCELLED"
	case TimedOut:
		return "TIMED_OUT"
	default:
		return "UNKNOWN"
	}
}

type Resolution struct {
	Outcome Outcome
	Err     error
}

// ActionSpec describes a pending intent at issue time.
type ActionSpec struct {
	Kind Kind

	// BlockPos keys Dig actions; at most one active Dig per coordinate.
	BlockPos world.Vec3i
	// WindowID keys Craft actions; one active Craft per window session.
	WindowID int

	// Match is the completion predicate over inbound events. Nil for
	// actions that resolve on tick state instead.
	Match func(protocol.Event) bool
	// TickDone is checked each tick after physics; true resolves Succeeded.
	TickDone func(tick uint64) bool

	// TimeoutTicks is the deadline relative to issue; zero means none.
	TimeoutTicks int

	// OnAbort runs when the action ends without success (cancelled, timed
	// out, failed) so the owner can stop command emission. It must not
	// re-enter the registry.
	OnAbort func()
}

type action struct {
	id       string
	kind     Kind
	blockPos world.Vec3i
	windowID int
	match    func(protocol.Event) bool
	tickDone func(tick uint64) bool
	deadline uint64 // absolute tick, 0 = none
	onAbort  func()
	result   chan Resolution
	resolved chan struct{}
}

// Handle is the caller's side of a pending action.
type Handle struct {
	a *action
	r *Registry
}

func (h *Handle) ID() string { return h.a.id }

func (h *Handle) Kind() Kind { return h.a.kind }

// Done delivers the resolution exactly once.
func (h *Handle) Done() <-chan Resolution { return h.a.result }

// Resolved closes when the action reaches any terminal state. Unlike
// Done it can be observed by more than one goroutine.
func (h *Handle) Resolved() <-chan struct{} { return h.a.resolved }

func (h *Handle) Wait(ctx context.Context) (Resolution, error) {
	select {
	case <-ctx.Done():
		return Resolution{}, ctx.Err()
	case res := <-h.a.result:
		return res, nil
	}
}

func (h *Handle) Cancel() { h.r.cancel(h.a, ErrCancelled) }

// Registry tracks pending actions: a one-shot interest list drained on
// match. The engine loop drives OnEvent/OnTick; callers issue and cancel
// from their own goroutines under the registry mutex.
type Registry struct {
	mu       sync.Mutex
	active   []*action
	lastTick uint64
	log      *log.Logger

	// onResolve observes every resolution (for session recording).
	onResolve func(tick uint64, id string, kind Kind, res Resolution)
}

func NewRegistry(logger *log.Logger) *Registry {
	return &Registry{log: logger}
}

// SetResolveObserver must be called before the engine runs.
func (r *Registry) SetResolveObserver(fn func(tick uint64, id string, kind Kind, res Resolution)) {
	r.onResolve = fn
}

// Issue registers a pending action. Move replaces any prior active Move;
// Dig conflicts on the same block coordinate and Craft on the same window
// fail with ErrAlreadyInProgress.
func (r *Registry) Issue(spec ActionSpec) (*Handle, error) {
	r.mu.Lock()

	var superseded *action
	switch spec.Kind {
	case KindMove:
		for _, a := range r.active {
			if a.kind == KindMove {
				superseded = a
				break
			}
		}
	case KindDig:
		for _, a := range r.active {
			if a.kind == KindDig && a.blockPos == spec.BlockPos {
				r.mu.Unlock()
				return nil, ErrAlreadyInProgress
			}
		}
	case KindCraft:
		for _, a := range r.active {
			if a.kind == KindCraft && a.windowID == spec.WindowID {
				r.mu.Unlock()
				return nil, ErrAlreadyInProgress
			}
		}
	}
	if superseded != nil {
		r.removeLocked(superseded)
	}

	a := &action{
		id:       uuid.NewString(),
		kind:     spec.Kind,
		blockPos: spec.BlockPos,
		windowID: spec.WindowID,
		match:    spec.Match,
		tickDone: spec.TickDone,
		onAbort:  spec.OnAbort,
		result:   make(chan Resolution, 1),
		resolved: make(chan struct{}),
	}
	if spec.TimeoutTicks > 0 {
		a.deadline = r.lastTick + uint64(spec.TimeoutTicks)
	}
	r.active = append(r.active, a)
	tick := r.lastTick
	r.mu.Unlock()

	if superseded != nil {
		r.deliver(tick, superseded, Resolution{Outcome: Cancelled, Err: ErrCancelled})
	}
	return &Handle{a: a, r: r}, nil
}

// Fail resolves a pending action as Failed with the given cause. Used when
// a collaborator reports an immediate, non-retryable failure (for example
// an unreachable route).
func (r *Registry) Fail(h *Handle, cause error) {
	r.mu.Lock()
	if !r.removeLocked(h.a) {
		r.mu.Unlock()
		return
	}
	tick := r.lastTick
	r.mu.Unlock()
	r.deliver(tick, h.a, Resolution{Outcome: Failed, Err: cause})
}

func (r *Registry) cancel(a *action, cause error) {
	r.mu.Lock()
	if !r.removeLocked(a) {
		r.mu.Unlock()
		return
	}
	tick := r.lastTick
	r.mu.Unlock()
	r.deliver(tick, a, Resolution{Outcome: Cancelled, Err: cause})
}

// CancelAll resolves every pending action as Cancelled with the given
// cause. Used at gateway teardown.
func (r *Registry) CancelAll(cause error) {
	r.mu.Lock()
	dropped := r.active
	r.active = nil
	tick := r.lastTick
	r.mu.Unlock()
	for _, a := range dropped {
		r.deliver(tick, a, Resolution{Outcome: Cancelled, Err: cause})
	}
}

// OnEvent offers the event to every active action; a matching predicate
// resolves that action Succeeded and removes it.
func (r *Registry) OnEvent(ev protocol.Event) {
	r.mu.Lock()
	var matched []*action
	kept := r.active[:0]
	for _, a := range r.active {
		if a.match != nil && a.match(ev) {
			matched = append(matched, a)
			continue
		}
		kept = append(kept, a)
	}
	r.active = kept
	tick := r.lastTick
	r.mu.Unlock()

	for _, a := range matched {
		r.deliver(tick, a, Resolution{Outcome: Succeeded})
	}
}

// OnTick runs tick predicates, then deadline checks. Physics has already
// run for this tick when it is called.
func (r *Registry) OnTick(tick uint64) {
	r.mu.Lock()
	r.lastTick = tick
	var done, expired []*action
	kept := r.active[:0]
	for _, a := range r.active {
		if a.tickDone != nil && a.tickDone(tick) {
			done = append(done, a)
			continue
		}
		if a.deadline > 0 && tick >= a.deadline {
			expired = append(expired, a)
			continue
		}
		kept = append(kept, a)
	}
	r.active = kept
	r.mu.Unlock()

	for _, a := range done {
		r.deliver(tick, a, Resolution{Outcome: Succeeded})
	}
	for _, a := range expired {
		r.deliver(tick, a, Resolution{Outcome: TimedOut, Err: ErrTimedOut})
	}
}

// ActiveCount reports live actions of one kind.
func (r *Registry) ActiveCount(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.active {
		if a.kind == kind {
			n++
		}
	}
	return n
}

func (r *Registry) removeLocked(target *action) bool {
	for i, a := range r.active {
		if a == target {
			r.active = append(r.active[:i], r.active[i+1:]...)
			return true
		}
	}
	return false
}

// deliver resolves exactly once: the action is already off the active list
// and the result channel is buffered for one value.
func (r *Registry) deliver(tick uint64, a *action, res Resolution) {
	if res.Outcome != Succeeded && a.onAbort != nil {
		a.onAbort()
	}
	a.result <- res
	close(a.resolved)
	if r.onResolve != nil {
		r.onResolve(tick, a.id, a.kind, res)
	}
	if r.log != nil && res.Outcome != Succeeded {
		r.log.Printf("action %s %s resolved %s: %v", a.kind, a.id, res.Outcome, res.Err)
	}
}
