// Package world defines the entity types of the simulated game world:
// locations, items, actors, and locks, plus the id and path types used
// to address them.
package world

import (
	"fmt"
	"strings"
)

// LocationID, ItemID, ActorID and LockID are newtypes over string so that
// callers cannot accidentally pass an item id where an actor id is
// expected. They are opaque outside this package beyond string conversion.
type (
	LocationID string
	ItemID     string
	ActorID    string
	LockID     string
)

// PlayerID is the single reserved actor id.
const PlayerID ActorID = "player"

// EntityKind tags the kind of entity an id refers to.
type EntityKind string

const (
	KindLocation EntityKind = "location"
	KindItem     EntityKind = "item"
	KindActor    EntityKind = "actor"
	KindLock     EntityKind = "lock"
)

// EntityRef pairs an id with its kind, used wherever a reference is
// polymorphic (e.g. StateAccessor lookups, reaction targets).
type EntityRef struct {
	Kind EntityKind
	ID   string
}

func (r EntityRef) String() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.ID)
}

// ExitSlotPrefix is the synthetic location prefix used by door items:
// a door's Location field is "exit:<LocationID>:<direction>".
const ExitSlotPrefix = "exit:"

// ExitSlot builds the synthetic location string for a door guarding the
// given location's exit in the given direction.
func ExitSlot(loc LocationID, direction string) string {
	return fmt.Sprintf("%s%s:%s", ExitSlotPrefix, loc, direction)
}

// ParseExitSlot parses a synthetic "exit:<loc>:<dir>" location string.
// ok is false if the input is not an exit slot.
func ParseExitSlot(s string) (loc LocationID, direction string, ok bool) {
	if !strings.HasPrefix(s, ExitSlotPrefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(s, ExitSlotPrefix)
	idx := strings.LastIndex(rest, ":")
	if idx < 0 {
		return "", "", false
	}
	return LocationID(rest[:idx]), rest[idx+1:], true
}

// IsExitSlot reports whether s is a synthetic exit slot location.
func IsExitSlot(s string) bool {
	return strings.HasPrefix(s, ExitSlotPrefix)
}
