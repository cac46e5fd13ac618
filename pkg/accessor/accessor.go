// Package accessor implements the StateAccessor: the single chokepoint
// for every read and mutation made by command handlers and behaviors
//. It owns the path-addressed update DSL (path.go) and
// the per-entity behavior dispatch contract, but stays ignorant of
// concrete behavior/vocabulary implementations via the EventResolver
// and BehaviorDispatcher interfaces injected at construction — this
// keeps accessor free of an import cycle with the behavior package,
// which in turn needs to call back into the accessor to run handlers.
package accessor

import (
	"fmt"
	"log/slog"

	"github.com/jwebster45206/worldsim/pkg/world"
	"github.com/jwebster45206/worldsim/pkg/worldstate"
)

// EventResult is a per-entity behavior's opinion on a firing event
//. A nil *EventResult from a single module means "not
// my concern, fall through"; Allow=false short-circuits the chain.
type EventResult struct {
	Allow    bool
	Feedback string
}

// BehaviorContext is passed to the behavior dispatcher alongside the
// firing event.
type BehaviorContext struct {
	Verb     string
	ActorID  world.ActorID
	Ref      world.EntityRef
	Snapshot interface{} // pre-change copy of the entity, opaque to accessor
}

// WordRef is a parsed noun: its surface word plus any synonyms the
// parser recognized for it.
type WordRef struct {
	Word     string
	Synonyms []string
}

// Action is the parser boundary's action dict, passed
// to every handle_<verb> function.
type Action struct {
	Verb              string
	ActorID           world.ActorID
	Object            *WordRef
	Adjective         string
	IndirectObject    *WordRef
	IndirectAdjective string
	Preposition       string
	Direction         string
	RawInput          string
}

// HandlerResult is the per-verb narration payload.
type HandlerResult struct {
	Success        bool
	Message        string
	SecondaryBeats []string
	Data           map[string]interface{}
}

// HandlerFunc is the signature every handle_<verb> function satisfies.
// It must read the acting actor from action.ActorID, never assume the
// player, so the same handler serves NPCs.
type HandlerFunc func(acc *StateAccessor, action Action) (HandlerResult, error)

// BehaviorFunc is the signature every on_<event> per-entity behavior
// function satisfies.
type BehaviorFunc func(acc *StateAccessor, ref world.EntityRef, ctx BehaviorContext) (*EventResult, error)

// EventResolver maps a verb to the event name that fires for it
//. Implemented by behavior.Manager.
type EventResolver interface {
	EventForVerb(verb string) (event string, ok bool)
}

// BehaviorDispatcher runs the declared behavior chain for an entity's
// `behaviors` list against one event, combining results
// per the "first allow=false short-circuits" rule. Implemented by
// behavior.Manager.
type BehaviorDispatcher interface {
	Dispatch(acc *StateAccessor, behaviors []string, event string, ctx BehaviorContext) (*EventResult, error)
}

// UpdateResult is returned from StateAccessor.Update.
type UpdateResult struct {
	Success bool
	Message string
}

// StateAccessor is the sole authorized mutator of a GameState at turn
// time.
type StateAccessor struct {
	gs         *worldstate.GameState
	logger     *slog.Logger
	resolver   EventResolver
	dispatcher BehaviorDispatcher
}

// New constructs a StateAccessor over gs. resolver/dispatcher may be
// nil, in which case Update never fires per-entity behaviors — useful
// for tests that only exercise raw state mutation.
func New(gs *worldstate.GameState, logger *slog.Logger, resolver EventResolver, dispatcher BehaviorDispatcher) *StateAccessor {
	return &StateAccessor{gs: gs, logger: logger, resolver: resolver, dispatcher: dispatcher}
}

// GameState returns the underlying aggregate for read-heavy callers
// (reaction dispatchers, scheduling) that need direct map access.
// Mutating it outside Update bypasses validation and behavior dispatch.
func (a *StateAccessor) GameState() *worldstate.GameState { return a.gs }

// Logger returns the accessor's logger, which may be nil.
func (a *StateAccessor) Logger() *slog.Logger { return a.logger }

// Typed reads.
func (a *StateAccessor) GetActor(id world.ActorID) (*world.Actor, bool)       { return a.gs.GetActor(id) }
func (a *StateAccessor) GetItem(id world.ItemID) (*world.Item, bool)         { return a.gs.GetItem(id) }
func (a *StateAccessor) GetLocation(id world.LocationID) (*world.Location, bool) { return a.gs.GetLocation(id) }
func (a *StateAccessor) GetLock(id world.LockID) (*world.Lock, bool)         { return a.gs.GetLock(id) }

func (a *StateAccessor) GetItemsInLocation(id world.LocationID) []*world.Item {
	return a.gs.GetItemsInLocation(id)
}
func (a *StateAccessor) GetActorsInLocation(id world.LocationID) []*world.Actor {
	return a.gs.GetActorsInLocation(id)
}
func (a *StateAccessor) GetItemsInContainer(id world.ItemID) []*world.Item {
	return a.gs.GetItemsInContainer(id)
}
func (a *StateAccessor) GetCurrentLocation(actorID world.ActorID) (*world.Location, bool) {
	return a.gs.GetCurrentLocation(actorID)
}
func (a *StateAccessor) DoorAt(loc world.LocationID, direction string) (*world.Item, bool) {
	return a.gs.DoorAt(loc, direction)
}

// FireEvent invokes the per-entity behavior chain for ref against a
// synthetic event name directly, bypassing verb resolution. Command
// handlers use this for events that aren't tied to a single verb.
func (a *StateAccessor) FireEvent(ref world.EntityRef, event string, ctx BehaviorContext) (*EventResult, error) {
	if a.dispatcher == nil {
		return nil, nil
	}
	target, err := a.resolveTarget(ref)
	if err != nil {
		return nil, err
	}
	behaviors := behaviorsOf(target)
	if len(behaviors) == 0 {
		return nil, nil
	}
	ctx.Ref = ref
	return a.dispatcher.Dispatch(a, behaviors, event, ctx)
}

// resolveTarget returns the addressable entity pointer for ref.
func (a *StateAccessor) resolveTarget(ref world.EntityRef) (interface{}, error) {
	switch ref.Kind {
	case world.KindLocation:
		e, ok := a.gs.GetLocation(world.LocationID(ref.ID))
		if !ok {
			return nil, fmt.Errorf("location %q not found", ref.ID)
		}
		return e, nil
	case world.KindItem:
		e, ok := a.gs.GetItem(world.ItemID(ref.ID))
		if !ok {
			return nil, fmt.Errorf("item %q not found", ref.ID)
		}
		return e, nil
	case world.KindActor:
		e, ok := a.gs.GetActor(world.ActorID(ref.ID))
		if !ok {
			return nil, fmt.Errorf("actor %q not found", ref.ID)
		}
		return e, nil
	case world.KindLock:
		e, ok := a.gs.GetLock(world.LockID(ref.ID))
		if !ok {
			return nil, fmt.Errorf("lock %q not found", ref.ID)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown entity kind %q", ref.Kind)
	}
}

func behaviorsOf(target interface{}) []string {
	switch t := target.(type) {
	case *world.Location:
		return t.Behaviors
	case *world.Item:
		return t.Behaviors
	case *world.Actor:
		return t.Behaviors
	case *world.Lock:
		return t.Behaviors
	default:
		return nil
	}
}

// Update applies changes to the entity
// referenced by ref, then — if verb resolves to an event and the
// entity declares behavior modules — invokes the behavior chain.
// Changes are applied before the behavior chain runs, so its
// feedback/veto sees the new state. The BehaviorContext it dispatches
// carries Verb, ActorID and Ref only: Snapshot is left nil, no
// pre-change copy is taken, and nothing is rolled back on veto
// (handlers that need a rollback revert the values themselves).
func (a *StateAccessor) Update(ref world.EntityRef, changes map[string]interface{}, verb string, actorID world.ActorID) (*UpdateResult, error) {
	target, err := a.resolveTarget(ref)
	if err != nil {
		return nil, err
	}

	for path, value := range changes {
		if err := applyPath(target, path, value); err != nil {
			if a.logger != nil {
				a.logger.Warn("state path mutation failed", "ref", ref.String(), "path", path, "error", err)
			}
			return nil, err
		}
	}

	if verb == "" || a.resolver == nil {
		return &UpdateResult{Success: true}, nil
	}
	event, ok := a.resolver.EventForVerb(verb)
	if !ok {
		return &UpdateResult{Success: true}, nil
	}
	behaviors := behaviorsOf(target)
	if a.dispatcher == nil || len(behaviors) == 0 {
		return &UpdateResult{Success: true}, nil
	}

	res, err := a.dispatcher.Dispatch(a, behaviors, event, BehaviorContext{Verb: verb, ActorID: actorID, Ref: ref})
	if err != nil {
		if a.logger != nil {
			a.logger.Error("behavior dispatch failed", "ref", ref.String(), "event", event, "error", err)
		}
		return nil, err
	}
	if res == nil {
		return &UpdateResult{Success: true}, nil
	}
	return &UpdateResult{Success: res.Allow, Message: res.Feedback}, nil
}
