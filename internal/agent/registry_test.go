package agent

import (
	"errors"
	"testing"

	"voxelagent.ai/internal/protocol"
	"voxelagent.ai/internal/world"
)

func takeResolution(t *testing.T, h *Handle) Resolution {
	t.Helper()
	select {
	case res := <-h.Done():
		return res
	default:
		t.Fatalf("action %s not resolved", h.ID())
		return Resolution{}
	}
}

func requirePending(t *testing.T, h *Handle) {
	t.Helper()
	select {
	case res := <-h.Done():
		t.Fatalf("action %s resolved early: %v %v", h.ID(), res.Outcome, res.Err)
	default:
	}
}

func TestRegistryEventMatchResolvesOnce(t *testing.T) {
	r := NewRegistry(nil)
	r.OnTick(1)

	h, err := r.Issue(ActionSpec{
		Kind: KindDig,
		Match: func(ev protocol.Event) bool {
			bc, ok := ev.(*protocol.BlockChangeEvent)
			return ok && bc.Block == world.BlockAir
		},
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	requirePending(t, h)

	ev := &protocol.BlockChangeEvent{Pos: [3]int{1, 60, 1}, Block: world.BlockAir}
	r.OnEvent(ev)
	res := takeResolution(t, h)
	if res.Outcome != Succeeded || res.Err != nil {
		t.Fatalf("got %v %v, want Succeeded", res.Outcome, res.Err)
	}

	// A second matching event must not deliver again.
	r.OnEvent(ev)
	select {
	case <-h.Done():
		t.Fatal("resolution delivered twice")
	default:
	}
	if n := r.ActiveCount(KindDig); n != 0 {
		t.Fatalf("active digs = %d, want 0", n)
	}
}

func TestRegistryMoveSupersedes(t *testing.T) {
	r := NewRegistry(nil)

	aborted := false
	first, err := r.Issue(ActionSpec{Kind: KindMove, OnAbort: func() { aborted = true }})
	if err != nil {
		t.Fatalf("first move: %v", err)
	}
	second, err := r.Issue(ActionSpec{Kind: KindMove})
	if err != nil {
		t.Fatalf("second move: %v", err)
	}

	res := takeResolution(t, first)
	if res.Outcome != Cancelled || !errors.Is(res.Err, ErrCancelled) {
		t.Fatalf("first move got %v %v, want Cancelled", res.Outcome, res.Err)
	}
	if !aborted {
		t.Fatal("superseded move did not run OnAbort")
	}
	requirePending(t, second)
	if n := r.ActiveCount(KindMove); n != 1 {
		t.Fatalf("active moves = %d, want exactly the new one", n)
	}
}

func TestRegistryDigConflictPerCoordinate(t *testing.T) {
	r := NewRegistry(nil)
	pos := world.Vec3i{X: 3, Y: 60, Z: 3}

	first, err := r.Issue(ActionSpec{Kind: KindDig, BlockPos: pos})
	if err != nil {
		t.Fatalf("first dig: %v", err)
	}
	if _, err := r.Issue(ActionSpec{Kind: KindDig, BlockPos: pos}); !errors.Is(err, ErrAlreadyInProgress) {
		t.Fatalf("same-coordinate dig err = %v, want ErrAlreadyInProgress", err)
	}
	// A different coordinate is independent.
	if _, err := r.Issue(ActionSpec{Kind: KindDig, BlockPos: world.Vec3i{X: 4, Y: 60, Z: 3}}); err != nil {
		t.Fatalf("distinct-coordinate dig: %v", err)
	}
	requirePending(t, first)
}

func TestRegistryCraftConflictPerWindow(t *testing.T) {
	r := NewRegistry(nil)

	if _, err := r.Issue(ActionSpec{Kind: KindCraft, WindowID: 2}); err != nil {
		t.Fatalf("first craft: %v", err)
	}
	if _, err := r.Issue(ActionSpec{Kind: KindCraft, WindowID: 2}); !errors.Is(err, ErrAlreadyInProgress) {
		t.Fatalf("same-window craft err = %v, want ErrAlreadyInProgress", err)
	}
	if _, err := r.Issue(ActionSpec{Kind: KindCraft, WindowID: 3}); err != nil {
		t.Fatalf("other-window craft: %v", err)
	}
}

func TestRegistryTimeout(t *testing.T) {
	r := NewRegistry(nil)
	r.OnTick(100)

	h, err := r.Issue(ActionSpec{Kind: KindDig, TimeoutTicks: 10})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	r.OnTick(109)
	requirePending(t, h)

	r.OnTick(110)
	res := takeResolution(t, h)
	if res.Outcome != TimedOut || !errors.Is(res.Err, ErrTimedOut) {
		t.Fatalf("got %v %v, want TimedOut", res.Outcome, res.Err)
	}
}

func TestRegistryTickPredicate(t *testing.T) {
	r := NewRegistry(nil)

	arrived := false
	h, err := r.Issue(ActionSpec{
		Kind:     KindMove,
		TickDone: func(uint64) bool { return arrived },
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	r.OnTick(1)
	requirePending(t, h)

	arrived = true
	r.OnTick(2)
	res := takeResolution(t, h)
	if res.Outcome != Succeeded {
		t.Fatalf("got %v, want Succeeded", res.Outcome)
	}
}

func TestRegistryCancelAndCancelAll(t *testing.T) {
	r := NewRegistry(nil)

	h, err := r.Issue(ActionSpec{Kind: KindMove})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	h.Cancel()
	res := takeResolution(t, h)
	if res.Outcome != Cancelled || !errors.Is(res.Err, ErrCancelled) {
		t.Fatalf("got %v %v, want Cancelled", res.Outcome, res.Err)
	}
	// Cancelling a resolved handle is a no-op.
	h.Cancel()

	a, _ := r.Issue(ActionSpec{Kind: KindDig, BlockPos: world.Vec3i{X: 1}})
	b, _ := r.Issue(ActionSpec{Kind: KindCraft, WindowID: 2})
	r.CancelAll(ErrDisconnected)
	for _, hh := range []*Handle{a, b} {
		res := takeResolution(t, hh)
		if res.Outcome != Cancelled || !errors.Is(res.Err, ErrDisconnected) {
			t.Fatalf("got %v %v, want Cancelled(ErrDisconnected)", res.Outcome, res.Err)
		}
	}
	if n := r.ActiveCount(KindDig) + r.ActiveCount(KindCraft); n != 0 {
		t.Fatalf("active after CancelAll = %d", n)
	}
}

func TestRegistryResolvedChannelBroadcasts(t *testing.T) {
	r := NewRegistry(nil)
	h, err := r.Issue(ActionSpec{Kind: KindMove})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	select {
	case <-h.Resolved():
		t.Fatal("resolved before resolution")
	default:
	}

	h.Cancel()
	// Both observers see the closed channel; Done still holds the value.
	<-h.Resolved()
	<-h.Resolved()
	if res := takeResolution(t, h); res.Outcome != Cancelled {
		t.Fatalf("got %v, want Cancelled", res.Outcome)
	}
}

func TestRegistryFail(t *testing.T) {
	r := NewRegistry(nil)
	aborts := 0
	h, err := r.Issue(ActionSpec{Kind: KindMove, OnAbort: func() { aborts++ }})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cause := errors.New("no route")
	r.Fail(h, cause)
	res := takeResolution(t, h)
	if res.Outcome != Failed || !errors.Is(res.Err, cause) {
		t.Fatalf("got %v %v, want Failed(no route)", res.Outcome, res.Err)
	}
	if aborts != 1 {
		t.Fatalf("aborts = %d, want 1", aborts)
	}
	// Fail after resolution is a no-op.
	r.Fail(h, cause)
	if aborts != 1 {
		t.Fatalf("aborts after second Fail = %d, want 1", aborts)
	}
}
