// Package worldstate defines the GameState aggregate: the full set of
// locations, items, actors and locks for one session, plus the
// cross-cutting scheduling state (turn counter, commitments, gossip
// queue) promoted to explicit fields rather than left loose in a
// free-form blob. Free-form, forward-compat-only data still lives in
// Extra.
package worldstate

import (
	"github.com/jwebster45206/worldsim/pkg/world"
)

// CommitmentStatus is the lifecycle of a pending Commitment.
type CommitmentStatus string

const (
	CommitmentActive    CommitmentStatus = "active"
	CommitmentFulfilled CommitmentStatus = "fulfilled"
	CommitmentFailed    CommitmentStatus = "failed"
)

// Commitment is a pending promise the world makes,
// keyed by its config id in GameState.ActiveCommitments.
type Commitment struct {
	ID               string                `json:"id"`
	CreatedTurn      int                   `json:"created_turn"`
	Duration         int                   `json:"duration"`
	SuccessCondition string                `json:"success_condition,omitempty"`
	FailureEffects   world.ReactionEffect  `json:"failure_effects,omitempty"`
	Status           CommitmentStatus      `json:"status"`
}

// GossipEntry is a message queued for delivery to specified NPCs on a
// future turn.
type GossipEntry struct {
	ID         string           `json:"id"`
	Content    string           `json:"content"`
	Source     world.ActorID    `json:"source,omitempty"`
	Targets    []world.ActorID  `json:"targets"`
	DeliverTurn int             `json:"deliver_turn"`
}

// ContentRating is the audience rating attached to a world, used to
// decide whether player input and narration text get profanity-filtered.
type ContentRating string

const (
	RatingG    ContentRating = "G"
	RatingPG   ContentRating = "PG"
	RatingPG13 ContentRating = "PG-13"
	RatingR    ContentRating = "R"
)

// Metadata carries load-time, rarely-changing world facts.
type Metadata struct {
	Title         string          `json:"title,omitempty"`
	Author        string          `json:"author,omitempty"`
	Version       string          `json:"version,omitempty"`
	Description   string          `json:"description,omitempty"`
	StartLocation world.LocationID `json:"start_location"`
	ContentRating ContentRating    `json:"content_rating,omitempty"`
}

// GameState is the complete, serializable state of one play session.
// StateAccessor is the sole authorized mutator at turn time.
type GameState struct {
	Metadata Metadata `json:"metadata"`

	Locations map[world.LocationID]*world.Location `json:"locations"`
	Items     map[world.ItemID]*world.Item         `json:"items"`
	Actors    map[world.ActorID]*world.Actor       `json:"actors"`
	Locks     map[world.LockID]*world.Lock         `json:"locks"`

	TurnCounter        int                        `json:"turn_counter"`
	ActiveCommitments  map[string]*Commitment      `json:"active_commitments,omitempty"`
	GossipQueue        []GossipEntry              `json:"gossip_queue,omitempty"`
	FiredStoryEvents   []string                   `json:"fired_story_events,omitempty"`
	Flags              map[string]bool            `json:"flags,omitempty"`

	// Extra holds any top-level or cross-cutting key this implementation
	// does not know about yet, preserved verbatim across load/save
	//.
	Extra map[string]world.Value `json:"extra,omitempty"`
}

// New returns an empty, initialized GameState.
func New() *GameState {
	return &GameState{
		Locations:         make(map[world.LocationID]*world.Location),
		Items:             make(map[world.ItemID]*world.Item),
		Actors:            make(map[world.ActorID]*world.Actor),
		Locks:             make(map[world.LockID]*world.Lock),
		ActiveCommitments: make(map[string]*Commitment),
		Flags:             make(map[string]bool),
		Extra:             make(map[string]world.Value),
	}
}

// Player returns the reserved player actor, or nil if absent.
func (gs *GameState) Player() *world.Actor {
	return gs.Actors[world.PlayerID]
}

// GetActor, GetItem, GetLocation and GetLock are the typed read
// accessors. They return (nil, false) rather than a zero value so
// callers can distinguish "not found" from a genuinely empty entity.
func (gs *GameState) GetActor(id world.ActorID) (*world.Actor, bool) {
	a, ok := gs.Actors[id]
	return a, ok
}

func (gs *GameState) GetItem(id world.ItemID) (*world.Item, bool) {
	i, ok := gs.Items[id]
	return i, ok
}

func (gs *GameState) GetLocation(id world.LocationID) (*world.Location, bool) {
	l, ok := gs.Locations[id]
	return l, ok
}

func (gs *GameState) GetLock(id world.LockID) (*world.Lock, bool) {
	l, ok := gs.Locks[id]
	return l, ok
}

// GetItemsInLocation returns every item whose Location field equals
// the given location id directly (not recursively into containers).
func (gs *GameState) GetItemsInLocation(id world.LocationID) []*world.Item {
	var out []*world.Item
	for _, it := range gs.Items {
		if it.Location == string(id) {
			out = append(out, it)
		}
	}
	return out
}

// GetActorsInLocation returns every actor currently at the given location.
func (gs *GameState) GetActorsInLocation(id world.LocationID) []*world.Actor {
	var out []*world.Actor
	for _, a := range gs.Actors {
		if a.Location == id {
			out = append(out, a)
		}
	}
	return out
}

// GetItemsInContainer returns items whose Location equals the given
// container item's id.
func (gs *GameState) GetItemsInContainer(id world.ItemID) []*world.Item {
	var out []*world.Item
	for _, it := range gs.Items {
		if it.Location == string(id) {
			out = append(out, it)
		}
	}
	return out
}

// GetCurrentLocation resolves the location an actor currently occupies.
func (gs *GameState) GetCurrentLocation(actorID world.ActorID) (*world.Location, bool) {
	a, ok := gs.GetActor(actorID)
	if !ok {
		return nil, false
	}
	return gs.GetLocation(a.Location)
}

// DoorAt returns the door item guarding the given location's exit in
// the given direction, if one exists.
func (gs *GameState) DoorAt(loc world.LocationID, direction string) (*world.Item, bool) {
	l, ok := gs.GetLocation(loc)
	if !ok {
		return nil, false
	}
	exit, ok := l.Exits[direction]
	if !ok || exit.DoorID == "" {
		return nil, false
	}
	return gs.GetItem(exit.DoorID)
}
