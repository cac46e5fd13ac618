package worldstate

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jwebster45206/worldsim/pkg/world"
)

// ValidationError aggregates every invariant violation found in one
// pass; a single validation run may carry multiple aggregated messages.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("world state invalid: %s", strings.Join(e.Messages, "; "))
}

// Validate checks every structural invariant and returns a
// *ValidationError aggregating all violations, or nil if the state is
// sound. logger, if non-nil, receives a consistency warning (item
// points at a location whose item list omits it) at Warn level; that
// direction is deliberately a warning, never fatal.
func Validate(gs *GameState, logger *slog.Logger) error {
	var msgs []string

	registry, dup := buildRegistry(gs)
	msgs = append(msgs, dup...)

	// Invariant 8: start location exists.
	if gs.Metadata.StartLocation != "" {
		if _, ok := gs.Locations[gs.Metadata.StartLocation]; !ok {
			msgs = append(msgs, fmt.Sprintf("metadata.start_location %q does not resolve to a location", gs.Metadata.StartLocation))
		}
	}

	// Invariant 2 & 6 & 7: referential integrity for exits, doors, locks.
	for locID, loc := range gs.Locations {
		for dir, exit := range loc.Exits {
			if exit.Type == world.ExitDoor {
				if exit.DoorID == "" {
					msgs = append(msgs, fmt.Sprintf("location %q exit %q is type door but has no door_id", locID, dir))
					continue
				}
				door, ok := gs.Items[exit.DoorID]
				if !ok {
					msgs = append(msgs, fmt.Sprintf("location %q exit %q references unknown door item %q", locID, dir, exit.DoorID))
					continue
				}
				if door.Door == nil {
					msgs = append(msgs, fmt.Sprintf("item %q is referenced as a door but has no door property", exit.DoorID))
				}
				wantSlot := world.ExitSlot(locID, dir)
				if door.Location != wantSlot {
					msgs = append(msgs, fmt.Sprintf("door item %q location %q does not match its exit slot %q", exit.DoorID, door.Location, wantSlot))
				}
				if door.Door != nil && door.Door.Locked && door.Door.LockID != "" {
					if _, ok := gs.Locks[door.Door.LockID]; !ok {
						msgs = append(msgs, fmt.Sprintf("door item %q lock_id %q does not resolve", exit.DoorID, door.Door.LockID))
					}
				}
			}
			if exit.Type != world.ExitScripted && exit.To != "" {
				if _, ok := gs.Locations[exit.To]; !ok {
					msgs = append(msgs, fmt.Sprintf("location %q exit %q targets unknown location %q", locID, dir, exit.To))
				}
			}
		}
	}

	// Invariant 3 & 4: item location kind + inventory/location consistency.
	for id, it := range gs.Items {
		if err := validateItemLocation(gs, id, it, registry); err != "" {
			msgs = append(msgs, err)
		}
		if it.Container != nil && it.Container.Locked && it.Container.LockID != "" {
			if _, ok := gs.Locks[it.Container.LockID]; !ok {
				msgs = append(msgs, fmt.Sprintf("item %q lock_id %q does not resolve", id, it.Container.LockID))
			}
		}
	}
	for locID, loc := range gs.Locations {
		for _, itemID := range loc.Items {
			it, ok := gs.Items[itemID]
			if !ok {
				msgs = append(msgs, fmt.Sprintf("location %q lists unknown item %q", locID, itemID))
				continue
			}
			if it.Location != string(locID) {
				msgs = append(msgs, fmt.Sprintf("location %q lists item %q but item location is %q", locID, itemID, it.Location))
			}
		}
		for _, actorID := range loc.Actors {
			if _, ok := gs.Actors[actorID]; !ok {
				msgs = append(msgs, fmt.Sprintf("location %q lists unknown actor %q", locID, actorID))
			}
		}
	}
	for actorID, a := range gs.Actors {
		for _, itemID := range a.Inventory {
			it, ok := gs.Items[itemID]
			if !ok {
				msgs = append(msgs, fmt.Sprintf("actor %q inventory lists unknown item %q", actorID, itemID))
				continue
			}
			if it.Location != string(actorID) {
				msgs = append(msgs, fmt.Sprintf("actor %q inventory lists item %q but item location is %q", actorID, itemID, it.Location))
			}
		}
	}

	// The reverse direction (item points at a location that doesn't list
	// it back) is treated as a warning only, never fatal — a location's
	// item list omitting a backref is recoverable drift, not corruption.
	if logger != nil {
		warnUnlistedItems(gs, logger)
	}

	// Invariant 5: no containment cycles.
	if cyc := findContainmentCycle(gs); cyc != "" {
		msgs = append(msgs, fmt.Sprintf("container cycle detected: %s", cyc))
	}

	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}

// buildRegistry enforces invariant 1 (global id uniqueness, "player"
// reserved) while building a kind lookup for other checks.
func buildRegistry(gs *GameState) (map[string]world.EntityKind, []string) {
	registry := make(map[string]world.EntityKind)
	var msgs []string

	add := func(id string, kind world.EntityKind) {
		if existing, ok := registry[id]; ok {
			msgs = append(msgs, fmt.Sprintf("duplicate id %q used by both %s and %s", id, existing, kind))
			return
		}
		registry[id] = kind
	}

	for id := range gs.Locations {
		add(string(id), world.KindLocation)
	}
	for id := range gs.Items {
		add(string(id), world.KindItem)
	}
	for id := range gs.Locks {
		add(string(id), world.KindLock)
	}
	for id := range gs.Actors {
		if id == world.PlayerID {
			continue
		}
		add(string(id), world.KindActor)
	}
	if _, ok := gs.Actors[world.PlayerID]; ok {
		registry["player"] = world.KindActor
	}

	return registry, msgs
}

func validateItemLocation(gs *GameState, id world.ItemID, it *world.Item, registry map[string]world.EntityKind) string {
	loc := it.Location
	if loc == "" {
		// Consumed items are moved to an empty location string; dangling
		// references to them remain detectable by design.
		return ""
	}
	if loc == string(world.PlayerID) {
		if _, ok := gs.Actors[world.PlayerID]; !ok {
			return fmt.Sprintf("item %q location is \"player\" but no player actor exists", id)
		}
		return ""
	}
	if _, _, ok := world.ParseExitSlot(loc); ok {
		if it.Door == nil {
			return fmt.Sprintf("item %q occupies an exit slot %q but has no door property", id, loc)
		}
		return ""
	}
	kind, ok := registry[loc]
	if !ok {
		return fmt.Sprintf("item %q location %q does not resolve to any entity", id, loc)
	}
	switch kind {
	case world.KindLocation, world.KindActor:
		return ""
	case world.KindItem:
		other, ok := gs.Items[world.ItemID(loc)]
		if !ok || other.Container == nil {
			return fmt.Sprintf("item %q location %q is an item but not a container", id, loc)
		}
		return ""
	default:
		return fmt.Sprintf("item %q location %q resolves to a %s, which cannot contain items", id, loc, kind)
	}
}

func warnUnlistedItems(gs *GameState, logger *slog.Logger) {
	for id, it := range gs.Items {
		loc := it.Location
		if loc == "" || loc == string(world.PlayerID) {
			continue
		}
		if l, ok := gs.Locations[world.LocationID(loc)]; ok {
			found := false
			for _, i := range l.Items {
				if i == id {
					found = true
					break
				}
			}
			if !found {
				logger.Warn("item location points to a location that does not list it back",
					"item", id, "location", loc)
			}
		}
	}
}

// findContainmentCycle walks the container → contents graph and
// returns a description of the first cycle found, or "" if acyclic.
func findContainmentCycle(gs *GameState) string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[world.ItemID]int, len(gs.Items))

	var visit func(id world.ItemID, path []world.ItemID) string
	visit = func(id world.ItemID, path []world.ItemID) string {
		color[id] = gray
		path = append(path, id)
		for _, child := range gs.GetItemsInContainer(id) {
			childID := world.ItemID(child.ID)
			switch color[childID] {
			case gray:
				return cyclePath(append(path, childID))
			case white:
				if c := visit(childID, path); c != "" {
					return c
				}
			}
		}
		color[id] = black
		return ""
	}

	for id, it := range gs.Items {
		if it.Container == nil {
			continue
		}
		if color[id] == white {
			if c := visit(id, nil); c != "" {
				return c
			}
		}
	}
	return ""
}

func cyclePath(path []world.ItemID) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = string(p)
	}
	return strings.Join(parts, " -> ")
}
