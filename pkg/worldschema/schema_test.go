package worldschema

import (
	"encoding/json"
	"testing"

	"github.com/jwebster45206/worldsim/pkg/world"
)

const sampleWorld = `{
  "metadata": {"title": "Test World", "start_location": "cabin"},
  "locations": [
    {"id": "cabin", "name": "Cabin", "exits": {"north": {"type": "open", "to": "yard"}}, "items": ["lantern"]},
    {"id": "yard", "name": "Yard"}
  ],
  "items": [
    {"id": "lantern", "name": "Lantern", "location": "cabin", "portable": true, "provides_light": true}
  ],
  "player_state": {
    "id": "should_be_overridden", "name": "Player", "location": "cabin",
    "llm_context": {"traits": ["curious"]}
  },
  "notes": "a future top-level key this build doesn't know about"
}`

func TestLoad_AcceptsPlayerStateAndMergesLLMContext(t *testing.T) {
	gs, err := Load([]byte(sampleWorld), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	player, ok := gs.GetActor(world.PlayerID)
	if !ok {
		t.Fatalf("Load() did not register the player actor")
	}
	if player.ID != string(world.PlayerID) {
		t.Errorf("player.ID = %q, want %q (reserved id must win over player_state.id)", player.ID, world.PlayerID)
	}

	ctx, ok := player.Properties["llm_context"]
	if !ok {
		t.Fatalf("player.Properties[\"llm_context\"] missing after merge")
	}
	m, ok := ctx.Map()
	if !ok {
		t.Fatalf("player.Properties[\"llm_context\"] is not a map")
	}
	traits, ok := m["traits"]
	if !ok {
		t.Fatalf("merged llm_context missing traits")
	}
	list, _ := traits.List()
	if len(list) != 1 || list[0] != "curious" {
		t.Errorf("merged llm_context traits = %v, want [curious]", list)
	}
}

func TestLoad_PreservesUnknownTopLevelKey(t *testing.T) {
	gs, err := Load([]byte(sampleWorld), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	v, ok := gs.Extra["notes"]
	if !ok {
		t.Fatalf("Load() dropped unknown top-level key %q", "notes")
	}
	s, ok := v.String()
	if !ok || s == "" {
		t.Errorf("Extra[\"notes\"] = %v, want the original string", v)
	}
}

func TestLoad_RejectsUnknownLocationReference(t *testing.T) {
	bad := `{
	  "metadata": {"title": "Broken"},
	  "locations": [{"id": "cabin", "name": "Cabin", "exits": {"north": {"type": "open", "to": "nowhere"}}}]
	}`
	if _, err := Load([]byte(bad), nil); err == nil {
		t.Fatal("Load() with an exit to an unknown location should fail validation")
	}
}

func TestSave_RoundTripsEntityIDs(t *testing.T) {
	gs, err := Load([]byte(sampleWorld), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	data, err := Save(gs)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Save() produced invalid JSON: %v", err)
	}

	reloaded, err := Load(data, nil)
	if err != nil {
		t.Fatalf("re-Load() of saved document error = %v", err)
	}
	if _, ok := reloaded.GetActor(world.PlayerID); !ok {
		t.Error("round trip lost the player actor")
	}
	if _, ok := reloaded.GetItem("lantern"); !ok {
		t.Error("round trip lost the lantern item")
	}
	if _, ok := reloaded.GetLocation("cabin"); !ok {
		t.Error("round trip lost the cabin location")
	}
}
