package scheduling

import (
	"fmt"

	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/world"
)

// TurnPhaseEffectFunc implements one named environmental effect
// referenced from a Location's turn_phase_effects list.
// Concrete regional effects (a specific region's spore/drowning/cold
// mechanics) register themselves under a name at package init, the
// same "module contributes its own on_event logic" shape as every
// other behavior in this engine — only the registration key is a
// location effect name rather than a verb event.
type TurnPhaseEffectFunc func(acc *accessor.StateAccessor, actorID world.ActorID) (*accessor.EventResult, error)

var turnPhaseEffects = map[string]TurnPhaseEffectFunc{
	"light_decay": lightDecayEffect,
}

// RegisterTurnPhaseEffect adds or replaces a named turn-phase effect.
func RegisterTurnPhaseEffect(name string, fn TurnPhaseEffectFunc) {
	turnPhaseEffects[name] = fn
}

// lightDecayEffect reduces the durability of any equipped light source
// the actor carries, a generic ambient default (original-source regions
// implement their own variants for torches, lanterns, etc.).
func lightDecayEffect(acc *accessor.StateAccessor, actorID world.ActorID) (*accessor.EventResult, error) {
	actor, ok := acc.GetActor(actorID)
	if !ok {
		return nil, nil
	}
	for _, id := range actor.Inventory {
		item, ok := acc.GetItem(id)
		if !ok || !item.ProvidesLight || item.Properties == nil {
			continue
		}
		val, ok := item.Properties["durability"]
		if !ok {
			continue
		}
		durability, ok := val.Int()
		if !ok || durability <= 0 {
			continue
		}
		item.Properties["durability"] = world.NewInt(durability - 1)
		if durability-1 == 0 {
			return &accessor.EventResult{Allow: true, Feedback: fmt.Sprintf("Your %s gutters out.", item.Name)}, nil
		}
	}
	return nil, nil
}

// RegionalTurn implements the turn_phase_dispatcher:
// for the given actor's current location, invokes every configured
// turn_phase_effects entry, then progresses each of the actor's
// conditions (severity capped at its max).
func RegionalTurn(acc *accessor.StateAccessor, actorID world.ActorID) ([]string, error) {
	actor, ok := acc.GetActor(actorID)
	if !ok {
		return nil, nil
	}
	loc, ok := acc.GetLocation(actor.Location)
	if !ok {
		return nil, nil
	}

	var feedback []string
	for _, name := range loc.TurnPhaseEffects {
		fn, ok := turnPhaseEffects[name]
		if !ok {
			continue
		}
		res, err := fn(acc, actorID)
		if err != nil {
			return feedback, fmt.Errorf("scheduling: turn phase effect %q: %w", name, err)
		}
		if res != nil && res.Feedback != "" {
			feedback = append(feedback, res.Feedback)
		}
	}

	for i := range actor.Conditions {
		c := &actor.Conditions[i]
		if c.Severity < c.Max {
			c.Severity++
		}
	}

	return feedback, nil
}
