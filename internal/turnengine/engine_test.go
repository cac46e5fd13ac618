package turnengine

import (
	"log/slog"
	"testing"

	"github.com/jwebster45206/worldsim/pkg/parser"
	"github.com/jwebster45206/worldsim/pkg/world"
	"github.com/jwebster45206/worldsim/pkg/worldstate"
)

func testGameState() *worldstate.GameState {
	gs := worldstate.New()
	gs.Metadata.StartLocation = "cabin"
	gs.Locations["cabin"] = &world.Location{
		Entity: world.Entity{ID: "cabin", Name: "Cabin"},
		Items:  []world.ItemID{"lantern"},
	}
	gs.Items["lantern"] = &world.Item{
		Entity:   world.Entity{ID: "lantern", Name: "Lantern"},
		Location: "cabin",
		Portable: true,
	}
	gs.Actors[world.PlayerID] = &world.Actor{
		Entity:   world.Entity{ID: string(world.PlayerID), Name: "Player"},
		Location: "cabin",
	}
	return gs
}

func TestEngine_TurnTakeItem(t *testing.T) {
	gs := testGameState()
	eng, err := New(gs, slog.Default(), 1, 2)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result, err := eng.Turn(parser.Context{}, "take lantern")
	if err != nil {
		t.Fatalf("Turn() error = %v", err)
	}
	if !result.Turn.Success {
		t.Errorf("Turn().Success = false, narration: %q", result.Turn.Narration.Primary)
	}

	player, _ := eng.Accessor().GetActor(world.PlayerID)
	if len(player.Inventory) != 1 || player.Inventory[0] != "lantern" {
		t.Errorf("player.Inventory = %v, want [lantern]", player.Inventory)
	}
}

func TestEngine_TurnUnparseableInput(t *testing.T) {
	gs := testGameState()
	eng, err := New(gs, slog.Default(), 1, 2)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := eng.Turn(parser.Context{}, "frobulate sword"); err == nil {
		t.Error("Turn() with an unknown verb should return an error")
	}
}
