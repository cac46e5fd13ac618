package parser

import (
	"testing"

	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/behavior"
)

func testVocab(t *testing.T) *behavior.Manager {
	t.Helper()
	m := behavior.NewManager()
	mod := &behavior.Module{
		Name: "test",
		Vocabulary: behavior.Vocabulary{
			Verbs: []behavior.Verb{
				{Word: "take", Synonyms: []string{"get", "grab"}, ObjectRequired: true, Event: "on_take"},
				{Word: "drop", ObjectRequired: true, Event: "on_drop"},
				{Word: "unlock", ObjectRequired: true, Event: "on_unlock"},
				{Word: "go", ObjectRequired: true},
			},
			Prepositions: []string{"with", "in", "on"},
			Directions:   []string{"north", "south"},
		},
		Handlers: map[string]accessor.HandlerFunc{
			"take":   func(*accessor.StateAccessor, accessor.Action) (accessor.HandlerResult, error) { return accessor.HandlerResult{}, nil },
			"drop":   func(*accessor.StateAccessor, accessor.Action) (accessor.HandlerResult, error) { return accessor.HandlerResult{}, nil },
			"unlock": func(*accessor.StateAccessor, accessor.Action) (accessor.HandlerResult, error) { return accessor.HandlerResult{}, nil },
			"go":     func(*accessor.StateAccessor, accessor.Action) (accessor.HandlerResult, error) { return accessor.HandlerResult{}, nil },
		},
	}
	if err := m.Register(mod); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := m.Build(); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return m
}

func TestParse_SimpleVerbObject(t *testing.T) {
	vocab := testVocab(t)
	action, ok := Parse(vocab, Context{}, "take the rusty sword")
	if !ok {
		t.Fatalf("Parse() returned not-ok for a valid command")
	}
	if action.Verb != "take" {
		t.Errorf("Verb = %q, want take", action.Verb)
	}
	if action.Object == nil || action.Object.Word != "sword" {
		t.Errorf("Object = %+v, want sword", action.Object)
	}
	if action.Adjective != "rusty" {
		t.Errorf("Adjective = %q, want rusty", action.Adjective)
	}
}

func TestParse_SynonymResolvesToPrimary(t *testing.T) {
	vocab := testVocab(t)
	action, ok := Parse(vocab, Context{}, "grab sword")
	if !ok {
		t.Fatalf("Parse() returned not-ok")
	}
	if action.Verb != "take" {
		t.Errorf("Verb = %q, want take (synonym should resolve to primary)", action.Verb)
	}
}

func TestParse_PrepositionSplitsIndirectObject(t *testing.T) {
	vocab := testVocab(t)
	action, ok := Parse(vocab, Context{}, "unlock door with brass key")
	if !ok {
		t.Fatalf("Parse() returned not-ok")
	}
	if action.Object == nil || action.Object.Word != "door" {
		t.Errorf("Object = %+v, want door", action.Object)
	}
	if action.Preposition != "with" {
		t.Errorf("Preposition = %q, want with", action.Preposition)
	}
	if action.IndirectObject == nil || action.IndirectObject.Word != "key" {
		t.Errorf("IndirectObject = %+v, want key", action.IndirectObject)
	}
	if action.IndirectAdjective != "brass" {
		t.Errorf("IndirectAdjective = %q, want brass", action.IndirectAdjective)
	}
}

func TestParse_BareDirectionIsShorthandForGo(t *testing.T) {
	vocab := testVocab(t)
	action, ok := Parse(vocab, Context{}, "north")
	if !ok {
		t.Fatalf("Parse() returned not-ok for a bare direction")
	}
	if action.Verb != "go" || action.Direction != "north" {
		t.Errorf("got %+v, want verb=go direction=north", action)
	}
}

func TestParse_RejectsEdgeCases(t *testing.T) {
	vocab := testVocab(t)
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"articles only", "the a an"},
		{"unknown word alone", "frobulate"},
		{"two verbs", "take drop"},
		{"two directions", "north south"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Parse(vocab, Context{}, tt.input); ok {
				t.Errorf("Parse(%q) = ok, want unparseable", tt.input)
			}
		})
	}
}

func TestParse_UnknownNounPassesThrough(t *testing.T) {
	vocab := testVocab(t)
	action, ok := Parse(vocab, Context{}, "take frobulate")
	if !ok {
		t.Fatalf("Parse() returned not-ok; unknown nouns should pass through unresolved")
	}
	if action.Object == nil || action.Object.Word != "frobulate" {
		t.Errorf("Object = %+v, want frobulate to pass through as a noun", action.Object)
	}
}
