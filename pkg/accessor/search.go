package accessor

import (
	"strings"

	"github.com/jwebster45206/worldsim/pkg/world"
)

// NameMatches reports whether word (the player's typed noun) matches
// name, case-insensitively, by exact match or substring containment —
// it is deliberately permissive so "sword" matches "rusty sword".
func NameMatches(word, name string) bool {
	word = strings.ToLower(strings.TrimSpace(word))
	name = strings.ToLower(name)
	if word == "" {
		return false
	}
	return name == word || strings.Contains(name, word)
}

// adjectiveMatches reports whether adjective appears in description,
// used to disambiguate between same-named entities.
func adjectiveMatches(adjective, description string) bool {
	if adjective == "" {
		return true
	}
	return strings.Contains(strings.ToLower(description), strings.ToLower(adjective))
}

// FindItemsInScope returns every item reachable from actorID: its
// current location's loose items, its own inventory, and the visible
// contents of any open (or surface) containers at that location
//.
func (a *StateAccessor) FindItemsInScope(actorID world.ActorID) []*world.Item {
	actor, ok := a.GetActor(actorID)
	if !ok {
		return nil
	}
	var out []*world.Item
	for _, id := range actor.Inventory {
		if it, ok := a.GetItem(id); ok {
			out = append(out, it)
		}
	}
	loc, ok := a.GetCurrentLocation(actorID)
	if !ok {
		return out
	}
	for _, it := range a.GetItemsInLocation(world.LocationID(loc.ID)) {
		out = append(out, it)
		if it.Container != nil && (it.Container.IsSurface || it.Container.Open) {
			out = append(out, a.GetItemsInContainer(world.ItemID(it.ID))...)
		}
	}
	return out
}

// FindAccessibleItem resolves a typed noun against every item in the
// actor's scope, preferring an adjective match when one is supplied.
func (a *StateAccessor) FindAccessibleItem(actorID world.ActorID, name, adjective string) *world.Item {
	return bestItemMatch(a.FindItemsInScope(actorID), name, adjective)
}

// FindItemInInventory resolves a typed noun against only the actor's
// carried items (used by drop/give).
func (a *StateAccessor) FindItemInInventory(actorID world.ActorID, name, adjective string) *world.Item {
	actor, ok := a.GetActor(actorID)
	if !ok {
		return nil
	}
	var candidates []*world.Item
	for _, id := range actor.Inventory {
		if it, ok := a.GetItem(id); ok {
			candidates = append(candidates, it)
		}
	}
	return bestItemMatch(candidates, name, adjective)
}

// FindContainerInLocation resolves a typed noun against every item
// present at loc (used by take-from/put-in with an indirect object),
// regardless of whether it's actually a container. Callers check
// Container == nil themselves so a match on a non-container item can
// be reported by name ("the rock is not a container") instead of a
// generic "you don't see any rock here".
func (a *StateAccessor) FindContainerInLocation(loc world.LocationID, name, adjective string) *world.Item {
	return bestItemMatch(a.GetItemsInLocation(loc), name, adjective)
}

// FindItemInContainer resolves a typed noun among a container's contents.
func (a *StateAccessor) FindItemInContainer(containerID world.ItemID, name, adjective string) *world.Item {
	return bestItemMatch(a.GetItemsInContainer(containerID), name, adjective)
}

func bestItemMatch(candidates []*world.Item, name, adjective string) *world.Item {
	var nameMatches []*world.Item
	for _, it := range candidates {
		if NameMatches(name, it.Name) {
			nameMatches = append(nameMatches, it)
		}
	}
	if adjective != "" {
		for _, it := range nameMatches {
			if adjectiveMatches(adjective, it.Description) {
				return it
			}
		}
	}
	if len(nameMatches) > 0 {
		return nameMatches[0]
	}
	return nil
}

// FindActorInLocation resolves a typed noun against actors present at
// loc, excluding the searching actor itself.
func (a *StateAccessor) FindActorInLocation(loc world.LocationID, name string, exclude world.ActorID) *world.Actor {
	for _, act := range a.GetActorsInLocation(loc) {
		if world.ActorID(act.ID) == exclude {
			continue
		}
		if NameMatches(name, act.Name) {
			return act
		}
	}
	return nil
}

// doorCandidate is a door item plus the exit direction it guards.
type doorCandidate struct {
	item      *world.Item
	direction string
}

// doorsAt collects every door item guarding an exit of loc.
func (a *StateAccessor) doorsAt(loc world.LocationID) []doorCandidate {
	l, ok := a.GetLocation(loc)
	if !ok {
		return nil
	}
	var out []doorCandidate
	for dir, exit := range l.Exits {
		if exit.Type != world.ExitDoor || exit.DoorID == "" {
			continue
		}
		if it, ok := a.GetItem(exit.DoorID); ok && it.Door != nil {
			out = append(out, doorCandidate{item: it, direction: dir})
		}
	}
	return out
}

// FindDoorWithAdjective implements the smart door selection rule: when
// the actor says plain "door" with no adjective, prefer — for unlock:
// a door the actor holds a key for; for open: a closed-but-unlocked
// door; otherwise a locked door; else an open door. An explicit
// adjective always overrides this and
// behaves like ordinary name/adjective matching.
func (a *StateAccessor) FindDoorWithAdjective(actorID world.ActorID, loc world.LocationID, adjective, verb string) *world.Item {
	doors := a.doorsAt(loc)
	if len(doors) == 0 {
		return nil
	}
	if adjective != "" {
		for _, d := range doors {
			if adjectiveMatches(adjective, d.item.Description) {
				return d.item
			}
		}
		return nil
	}
	if len(doors) == 1 {
		return doors[0].item
	}

	actor, _ := a.GetActor(actorID)
	hasKeyFor := func(it *world.Item) bool {
		if it.Door == nil || it.Door.LockID == "" || actor == nil {
			return false
		}
		lock, ok := a.GetLock(it.Door.LockID)
		if !ok {
			return false
		}
		for _, key := range lock.OpensWith {
			for _, held := range actor.Inventory {
				if held == key {
					return true
				}
			}
		}
		return false
	}

	if verb == "unlock" {
		for _, d := range doors {
			if hasKeyFor(d.item) {
				return d.item
			}
		}
	}
	if verb == "open" {
		for _, d := range doors {
			if !d.item.Door.Open && !d.item.Door.Locked {
				return d.item
			}
		}
	}
	for _, d := range doors {
		if d.item.Door.Locked {
			return d.item
		}
	}
	for _, d := range doors {
		if d.item.Door.Open {
			return d.item
		}
	}
	return doors[0].item
}
