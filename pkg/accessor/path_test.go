package accessor

import (
	"testing"

	"github.com/jwebster45206/worldsim/pkg/world"
)

func newTestItem() *world.Item {
	return &world.Item{
		Entity:   world.Entity{ID: "rock", Name: "Rock"},
		Location: "cabin",
		Door:     &world.DoorInfo{Open: false, Locked: true, LockID: "rusty-key"},
	}
}

func TestApplyPath_SetsTopLevelField(t *testing.T) {
	it := newTestItem()
	if err := applyPath(it, "location", "yard"); err != nil {
		t.Fatalf("applyPath() error = %v", err)
	}
	if it.Location != "yard" {
		t.Errorf("Location = %q, want yard", it.Location)
	}
}

func TestApplyPath_SetsNestedField(t *testing.T) {
	it := newTestItem()
	if err := applyPath(it, "door.locked", false); err != nil {
		t.Fatalf("applyPath() error = %v", err)
	}
	if err := applyPath(it, "door.open", true); err != nil {
		t.Fatalf("applyPath() error = %v", err)
	}
	if it.Door.Locked || !it.Door.Open {
		t.Errorf("door = %+v, want unlocked and open", it.Door)
	}
}

func TestApplyPath_NestedFieldAllocatesNilPointer(t *testing.T) {
	it := &world.Item{Entity: world.Entity{ID: "rock", Name: "Rock"}}
	if err := applyPath(it, "door.open", true); err != nil {
		t.Fatalf("applyPath() error = %v", err)
	}
	if it.Door == nil || !it.Door.Open {
		t.Errorf("expected door to be allocated and open, got %+v", it.Door)
	}
}

func TestApplyPath_AppendAndRemoveOnSlice(t *testing.T) {
	actor := &world.Actor{Entity: world.Entity{ID: "hero", Name: "Hero"}}
	if err := applyPath(actor, "+inventory", "sword"); err != nil {
		t.Fatalf("append error = %v", err)
	}
	if err := applyPath(actor, "+inventory", "shield"); err != nil {
		t.Fatalf("append error = %v", err)
	}
	if len(actor.Inventory) != 2 || actor.Inventory[0] != "sword" || actor.Inventory[1] != "shield" {
		t.Fatalf("Inventory = %v, want [sword shield]", actor.Inventory)
	}

	if err := applyPath(actor, "-inventory", "sword"); err != nil {
		t.Fatalf("remove error = %v", err)
	}
	if len(actor.Inventory) != 1 || actor.Inventory[0] != "shield" {
		t.Fatalf("Inventory after remove = %v, want [shield]", actor.Inventory)
	}
}

func TestApplyPath_RemoveMissingValueIsError(t *testing.T) {
	actor := &world.Actor{Entity: world.Entity{ID: "hero", Name: "Hero"}}
	err := applyPath(actor, "-inventory", "sword")
	if err == nil {
		t.Fatal("expected error removing a value absent from the list")
	}
	var pathErr *PathError
	if !asPathError(err, &pathErr) {
		t.Fatalf("error = %v, want *PathError", err)
	}
}

func TestApplyPath_PropertiesSetAndNestedMap(t *testing.T) {
	it := newTestItem()
	if err := applyPath(it, "mood", "grumpy"); err != nil {
		t.Fatalf("applyPath() error = %v", err)
	}
	v, ok := it.Properties["mood"]
	if !ok {
		t.Fatalf("Properties[mood] missing")
	}
	if s, _ := v.String(); s != "grumpy" {
		t.Errorf("Properties[mood] = %q, want grumpy", s)
	}

	if err := applyPath(it, "trust_state.player", 5); err != nil {
		t.Fatalf("applyPath() error = %v", err)
	}
	ts, ok := it.Properties["trust_state"]
	if !ok {
		t.Fatalf("Properties[trust_state] missing")
	}
	m, ok := ts.Map()
	if !ok {
		t.Fatalf("Properties[trust_state] is not a map")
	}
	player, ok := m["player"]
	if !ok {
		t.Fatalf("trust_state.player missing")
	}
	if n, _ := player.Int(); n != 5 {
		t.Errorf("trust_state.player = %d, want 5", n)
	}
}

func TestApplyPath_PropertiesAppendAndRemove(t *testing.T) {
	it := newTestItem()
	if err := applyPath(it, "+tags", "shiny"); err != nil {
		t.Fatalf("append error = %v", err)
	}
	if err := applyPath(it, "+tags", "heavy"); err != nil {
		t.Fatalf("append error = %v", err)
	}
	v := it.Properties["tags"]
	list, _ := v.List()
	if len(list) != 2 {
		t.Fatalf("tags = %v, want 2 entries", list)
	}

	if err := applyPath(it, "-tags", "shiny"); err != nil {
		t.Fatalf("remove error = %v", err)
	}
	v = it.Properties["tags"]
	list, _ = v.List()
	if len(list) != 1 || list[0] != "heavy" {
		t.Fatalf("tags after remove = %v, want [heavy]", list)
	}
}

func TestApplyPath_UnknownFieldIsError(t *testing.T) {
	it := newTestItem()
	err := applyPath(it, "not_a_real_field.sub", "x")
	if err == nil {
		t.Fatal("expected error for an unknown top-level field")
	}
}

func TestApplyPath_EmptyPathIsError(t *testing.T) {
	it := newTestItem()
	if err := applyPath(it, "", "x"); err == nil {
		t.Fatal("expected error for an empty path")
	}
	if err := applyPath(it, "+", "x"); err == nil {
		t.Fatal("expected error for an empty append path")
	}
}

func asPathError(err error, target **PathError) bool {
	pe, ok := err.(*PathError)
	if ok {
		*target = pe
	}
	return ok
}
