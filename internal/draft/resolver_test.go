package draft

import (
	"context"
	"testing"
)

func TestResolverStateMachine(t *testing.T) {
	store, _, _ := newTestStore(t)

	r := NewHydrationResolver(store)
	if r.State() != StateUninitialized {
		t.Fatalf("new resolver state = %v, want uninitialized", r.State())
	}

	d, err := r.Resolve(context.Background(), "mint")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if r.State() != StateReady {
		t.Fatalf("state after resolve = %v, want ready", r.State())
	}
	if r.Draft().TemplateID != "mint" || d.TemplateID != "mint" {
		t.Fatalf("resolved draft for wrong template: %q", r.Draft().TemplateID)
	}
}

func TestResolverReadyDespiteWriteFailure(t *testing.T) {
	store, _, mem := newTestStore(t)
	mem.FailWrites = true

	r := NewHydrationResolver(store)
	if _, err := r.Resolve(context.Background(), "dark"); err == nil {
		t.Fatal("expected persistence warning")
	}
	if r.State() != StateReady {
		t.Fatalf("write failure must not block readiness, state = %v", r.State())
	}
}

func TestResolverStateString(t *testing.T) {
	cases := map[ResolverState]string{
		StateUninitialized: "uninitialized",
		StateHydrating:     "hydrating",
		StateReady:         "ready",
		ResolverState(99):  "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", state, got, want)
		}
	}
}
