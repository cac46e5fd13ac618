package behavior

import (
	"errors"
	"testing"

	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/world"
)

func allowFn(feedback string) accessor.BehaviorFunc {
	return func(acc *accessor.StateAccessor, ref world.EntityRef, ctx accessor.BehaviorContext) (*accessor.EventResult, error) {
		return &accessor.EventResult{Allow: true, Feedback: feedback}, nil
	}
}

func denyFn(feedback string) accessor.BehaviorFunc {
	return func(acc *accessor.StateAccessor, ref world.EntityRef, ctx accessor.BehaviorContext) (*accessor.EventResult, error) {
		return &accessor.EventResult{Allow: false, Feedback: feedback}, nil
	}
}

func TestDispatch_NoMatchingBehaviorReturnsNilResult(t *testing.T) {
	m := &Manager{modules: map[string]*Module{
		"alpha": {Name: "alpha", OnEvents: map[string]accessor.BehaviorFunc{}},
	}}
	res, err := m.Dispatch(nil, []string{"alpha"}, "on_take", accessor.BehaviorContext{})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res != nil {
		t.Errorf("Dispatch() = %+v, want nil when no module declares the event", res)
	}
}

func TestDispatch_SingleAllowReportsFeedback(t *testing.T) {
	m := &Manager{modules: map[string]*Module{
		"alpha": {Name: "alpha", OnEvents: map[string]accessor.BehaviorFunc{
			"on_take": allowFn("you pick it up carefully"),
		}},
	}}
	res, err := m.Dispatch(nil, []string{"alpha"}, "on_take", accessor.BehaviorContext{})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res == nil || !res.Allow || res.Feedback != "you pick it up carefully" {
		t.Errorf("Dispatch() = %+v, want allow with feedback", res)
	}
}

func TestDispatch_ConcatenatesFeedbackAcrossModulesInDeclaredOrder(t *testing.T) {
	m := &Manager{modules: map[string]*Module{
		"alpha": {Name: "alpha", OnEvents: map[string]accessor.BehaviorFunc{"on_take": allowFn("first")}},
		"beta":  {Name: "beta", OnEvents: map[string]accessor.BehaviorFunc{"on_take": allowFn("second")}},
	}}
	res, err := m.Dispatch(nil, []string{"alpha", "beta"}, "on_take", accessor.BehaviorContext{})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res == nil || res.Feedback != "first second" {
		t.Errorf("Dispatch() feedback = %q, want %q", res.Feedback, "first second")
	}
}

func TestDispatch_FirstDisallowShortCircuits(t *testing.T) {
	called := false
	m := &Manager{modules: map[string]*Module{
		"alpha": {Name: "alpha", OnEvents: map[string]accessor.BehaviorFunc{"on_take": denyFn("it's nailed down")}},
		"beta": {Name: "beta", OnEvents: map[string]accessor.BehaviorFunc{"on_take": func(acc *accessor.StateAccessor, ref world.EntityRef, ctx accessor.BehaviorContext) (*accessor.EventResult, error) {
			called = true
			return &accessor.EventResult{Allow: true}, nil
		}}},
	}}
	res, err := m.Dispatch(nil, []string{"alpha", "beta"}, "on_take", accessor.BehaviorContext{})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res == nil || res.Allow || res.Feedback != "it's nailed down" {
		t.Errorf("Dispatch() = %+v, want disallow with the vetoing module's feedback", res)
	}
	if called {
		t.Error("Dispatch() ran a later module's handler after an earlier one disallowed")
	}
}

func TestDispatch_OnPutFallsBackToOnDrop(t *testing.T) {
	m := &Manager{modules: map[string]*Module{
		"alpha": {Name: "alpha", OnEvents: map[string]accessor.BehaviorFunc{
			"on_drop": allowFn("it settles into place"),
		}},
	}}
	res, err := m.Dispatch(nil, []string{"alpha"}, "on_put", accessor.BehaviorContext{})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res == nil || res.Feedback != "it settles into place" {
		t.Errorf("Dispatch() = %+v, want on_put to fall back to on_drop", res)
	}
}

func TestDispatch_PropagatesHandlerError(t *testing.T) {
	boom := errors.New("boom")
	m := &Manager{modules: map[string]*Module{
		"alpha": {Name: "alpha", OnEvents: map[string]accessor.BehaviorFunc{
			"on_take": func(acc *accessor.StateAccessor, ref world.EntityRef, ctx accessor.BehaviorContext) (*accessor.EventResult, error) {
				return nil, boom
			},
		}},
	}}
	if _, err := m.Dispatch(nil, []string{"alpha"}, "on_take", accessor.BehaviorContext{}); err == nil {
		t.Fatal("expected Dispatch() to propagate the handler's error")
	}
}

func TestDispatch_UnregisteredBehaviorPathIsSkipped(t *testing.T) {
	m := &Manager{modules: map[string]*Module{}}
	res, err := m.Dispatch(nil, []string{"does/not/exist"}, "on_take", accessor.BehaviorContext{})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res != nil {
		t.Errorf("Dispatch() = %+v, want nil for an unregistered behavior path", res)
	}
}

func TestBuild_RejectsConflictingVerbMetadata(t *testing.T) {
	m := NewManager()
	must(t, m.Register(&Module{Name: "alpha", Vocabulary: Vocabulary{Verbs: []Verb{{Word: "take", ObjectRequired: true}}}}))
	must(t, m.Register(&Module{Name: "beta", Vocabulary: Vocabulary{Verbs: []Verb{{Word: "take", ObjectRequired: false}}}}))
	if err := m.Build(); err == nil {
		t.Fatal("expected Build() to reject a verb redefined with conflicting metadata")
	}
}

func TestBuild_UnionsSynonymsForMatchingVerbs(t *testing.T) {
	m := NewManager()
	must(t, m.Register(&Module{Name: "alpha", Vocabulary: Vocabulary{Verbs: []Verb{{Word: "take", Synonyms: []string{"grab"}}}}}))
	must(t, m.Register(&Module{Name: "beta", Vocabulary: Vocabulary{Verbs: []Verb{{Word: "take", Synonyms: []string{"pick up"}}}}}))
	if err := m.Build(); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	primary, ok := m.PrimaryVerb("pick up")
	if !ok || primary != "take" {
		t.Errorf("PrimaryVerb(pick up) = (%q, %v), want (take, true)", primary, ok)
	}
	primary, ok = m.PrimaryVerb("grab")
	if !ok || primary != "take" {
		t.Errorf("PrimaryVerb(grab) = (%q, %v), want (take, true)", primary, ok)
	}
}

func TestBuild_RejectsSynonymClaimedByTwoVerbs(t *testing.T) {
	m := NewManager()
	must(t, m.Register(&Module{Name: "alpha", Vocabulary: Vocabulary{Verbs: []Verb{{Word: "take", Synonyms: []string{"grab"}}}}}))
	must(t, m.Register(&Module{Name: "beta", Vocabulary: Vocabulary{Verbs: []Verb{{Word: "steal", Synonyms: []string{"grab"}}}}}))
	if err := m.Build(); err == nil {
		t.Fatal("expected Build() to reject a synonym claimed by two different verbs")
	}
}

func TestHandlerForVerb_ResolvesSynonym(t *testing.T) {
	m := NewManager()
	called := false
	must(t, m.Register(&Module{
		Name:       "alpha",
		Vocabulary: Vocabulary{Verbs: []Verb{{Word: "take", Synonyms: []string{"grab"}}}},
		Handlers: map[string]accessor.HandlerFunc{
			"take": func(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
				called = true
				return accessor.HandlerResult{Success: true}, nil
			},
		},
	}))
	if err := m.Build(); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	fn, ok := m.HandlerForVerb("grab")
	if !ok {
		t.Fatal("HandlerForVerb(grab) not found")
	}
	if _, err := fn(nil, accessor.Action{}); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if !called {
		t.Error("HandlerForVerb(grab) did not resolve to take's handler")
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
