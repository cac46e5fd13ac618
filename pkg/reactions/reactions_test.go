package reactions

import (
	"errors"
	"testing"

	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/world"
	"github.com/jwebster45206/worldsim/pkg/worldstate"
)

func newTestAccessor() (*accessor.StateAccessor, *worldstate.GameState) {
	gs := worldstate.New()
	gs.Actors["npc"] = &world.Actor{
		Entity:     world.Entity{ID: "npc", Name: "Innkeeper"},
		TrustState: &world.TrustState{Current: 0, Floor: -10, Ceiling: 10},
	}
	return accessor.New(gs, nil, nil, nil), gs
}

func TestDispatch_NilConfigIsNoop(t *testing.T) {
	acc, _ := newTestAccessor()
	res, err := Dispatch(acc, world.EntityRef{Kind: world.KindActor, ID: "npc"}, nil, Input{})
	if err != nil || res != nil {
		t.Fatalf("Dispatch(nil cfg) = (%+v, %v), want (nil, nil)", res, err)
	}
}

func TestDispatch_FirstMatchingRuleWins(t *testing.T) {
	acc, _ := newTestAccessor()
	cfg := &world.ReactionConfig{
		Rules: []world.ReactionRule{
			{Triggers: []string{"weather"}, Effect: world.ReactionEffect{Feedback: "cold today"}},
			{Triggers: []string{"weather"}, Effect: world.ReactionEffect{Feedback: "should never reach here"}},
		},
	}
	res, err := Dispatch(acc, world.EntityRef{Kind: world.KindActor, ID: "npc"}, cfg, Input{Keyword: "nice weather today"})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res == nil || res.Feedback != "cold today" {
		t.Errorf("Dispatch() = %+v, want first matching rule's feedback", res)
	}
}

func TestDispatch_RuleSkippedWhenTriggerDoesNotMatch(t *testing.T) {
	acc, _ := newTestAccessor()
	cfg := &world.ReactionConfig{
		Rules: []world.ReactionRule{
			{Triggers: []string{"weather"}, Effect: world.ReactionEffect{Feedback: "cold today"}},
		},
	}
	res, err := Dispatch(acc, world.EntityRef{Kind: world.KindActor, ID: "npc"}, cfg, Input{Keyword: "tell me about the mines"})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res != nil {
		t.Errorf("Dispatch() = %+v, want nil when no rule's trigger matches", res)
	}
}

func TestDispatch_RequiredAndForbiddenFlagsGateRule(t *testing.T) {
	acc, gs := newTestAccessor()
	cfg := &world.ReactionConfig{
		Rules: []world.ReactionRule{
			{RequiredFlags: []string{"quest_started"}, ForbiddenFlags: []string{"quest_done"}, Effect: world.ReactionEffect{Feedback: "here's your reward"}},
		},
	}

	res, err := Dispatch(acc, world.EntityRef{Kind: world.KindActor, ID: "npc"}, cfg, Input{})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res != nil {
		t.Errorf("Dispatch() = %+v, want nil before required flag is set", res)
	}

	gs.Flags["quest_started"] = true
	res, err = Dispatch(acc, world.EntityRef{Kind: world.KindActor, ID: "npc"}, cfg, Input{})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res == nil || res.Feedback != "here's your reward" {
		t.Errorf("Dispatch() = %+v, want reward feedback once the required flag is set", res)
	}

	gs.Flags["quest_done"] = true
	res, err = Dispatch(acc, world.EntityRef{Kind: world.KindActor, ID: "npc"}, cfg, Input{})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res != nil {
		t.Errorf("Dispatch() = %+v, want nil once a forbidden flag is set", res)
	}
}

func TestDispatch_AcceptedItemsMatchesIDOrName(t *testing.T) {
	acc, _ := newTestAccessor()
	cfg := &world.ReactionConfig{
		Rules: []world.ReactionRule{
			{AcceptedItems: []string{"gold-coin"}, Effect: world.ReactionEffect{Feedback: "thanks for the coin"}},
		},
	}
	res, err := Dispatch(acc, world.EntityRef{Kind: world.KindActor, ID: "npc"}, cfg, Input{ItemID: "gold-coin-03"})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res == nil || res.Feedback != "thanks for the coin" {
		t.Errorf("Dispatch() = %+v, want a match on item id substring", res)
	}
}

func TestDispatch_RequiresStateGatesOnActorStateMachine(t *testing.T) {
	acc, gs := newTestAccessor()
	gs.Actors["npc"].StateMachine = &world.StateMachineSpec{Current: "hostile"}
	cfg := &world.ReactionConfig{
		Rules: []world.ReactionRule{
			{RequiresState: []string{"friendly"}, Effect: world.ReactionEffect{Feedback: "welcome back"}},
		},
	}
	res, err := Dispatch(acc, world.EntityRef{Kind: world.KindActor, ID: "npc"}, cfg, Input{})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res != nil {
		t.Errorf("Dispatch() = %+v, want nil while actor state doesn't match requires_state", res)
	}

	gs.Actors["npc"].StateMachine.Current = "friendly"
	res, err = Dispatch(acc, world.EntityRef{Kind: world.KindActor, ID: "npc"}, cfg, Input{})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res == nil || res.Feedback != "welcome back" {
		t.Errorf("Dispatch() = %+v, want feedback once actor state matches", res)
	}
}

func TestDispatch_EscapeHatchHandlerTakesPriorityOverRules(t *testing.T) {
	acc, _ := newTestAccessor()
	RegisterHandler("test:alwaysGreet", func(acc *accessor.StateAccessor, targetRef world.EntityRef, in Input) (*accessor.EventResult, error) {
		return &accessor.EventResult{Allow: true, Feedback: "handler greeting"}, nil
	})
	ResetCache()
	cfg := &world.ReactionConfig{
		Handler: "test:alwaysGreet",
		Rules: []world.ReactionRule{
			{Triggers: []string{""}, Effect: world.ReactionEffect{Feedback: "should not run"}},
		},
	}
	res, err := Dispatch(acc, world.EntityRef{Kind: world.KindActor, ID: "npc"}, cfg, Input{Keyword: "hello"})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res == nil || res.Feedback != "handler greeting" {
		t.Errorf("Dispatch() = %+v, want the escape-hatch handler's feedback", res)
	}
}

func TestDispatch_HandlerNilResultFallsThroughToRules(t *testing.T) {
	acc, _ := newTestAccessor()
	RegisterHandler("test:declineToHandle", func(acc *accessor.StateAccessor, targetRef world.EntityRef, in Input) (*accessor.EventResult, error) {
		return nil, nil
	})
	ResetCache()
	cfg := &world.ReactionConfig{
		Handler: "test:declineToHandle",
		Rules: []world.ReactionRule{
			{Triggers: []string{"hello"}, Effect: world.ReactionEffect{Feedback: "rule fallback"}},
		},
	}
	res, err := Dispatch(acc, world.EntityRef{Kind: world.KindActor, ID: "npc"}, cfg, Input{Keyword: "hello"})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res == nil || res.Feedback != "rule fallback" {
		t.Errorf("Dispatch() = %+v, want a nil handler result to fall through to the rule table", res)
	}
}

func TestDispatch_HandlerErrorWraps(t *testing.T) {
	acc, _ := newTestAccessor()
	boom := errors.New("boom")
	RegisterHandler("test:explodes", func(acc *accessor.StateAccessor, targetRef world.EntityRef, in Input) (*accessor.EventResult, error) {
		return nil, boom
	})
	ResetCache()
	cfg := &world.ReactionConfig{Handler: "test:explodes"}
	if _, err := Dispatch(acc, world.EntityRef{Kind: world.KindActor, ID: "npc"}, cfg, Input{}); err == nil {
		t.Fatal("expected Dispatch() to propagate the handler's error")
	}
}

func TestLookup_UnknownPathNotFound(t *testing.T) {
	if _, ok := Lookup("nonexistent:handler"); ok {
		t.Error("Lookup() found a handler that was never registered")
	}
}
