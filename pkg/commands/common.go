// Package commands implements the core command handlers: the
// handle_<verb> functions that read the acting actor from
// action.ActorID (never assuming the player) so the same code serves
// NPCs and the player alike. Each handler is exposed as a
// behavior.Module so a composition root can register the whole
// vocabulary with a behavior.Manager.
package commands

import (
	"fmt"

	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/world"
)

// displayName renders a noun for "you don't see any X here" messages.
func displayName(name string) string {
	if name == "" {
		return "that"
	}
	return name
}

// actorAndLocation resolves action.ActorID to its Actor and current
// Location, producing the canonical "inconsistent state" failure if
// either is missing. Every handler opens with this.
func actorAndLocation(acc *accessor.StateAccessor, action accessor.Action) (*world.Actor, *world.Location, *accessor.HandlerResult) {
	actorID := action.ActorID
	if actorID == "" {
		actorID = world.PlayerID
	}
	actor, ok := acc.GetActor(actorID)
	if !ok {
		return nil, nil, &accessor.HandlerResult{Success: false, Message: fmt.Sprintf("inconsistent state: actor %q not found", actorID)}
	}
	loc, ok := acc.GetCurrentLocation(actorID)
	if !ok {
		return nil, nil, &accessor.HandlerResult{Success: false, Message: fmt.Sprintf("inconsistent state: location %q not found", actor.Location)}
	}
	return actor, loc, nil
}

func objectWord(o *accessor.WordRef) string {
	if o == nil {
		return ""
	}
	return o.Word
}

// llmContextData serializes an item's llm_context traits into the
// handler result's data payload.
func llmContextData(it *world.Item) map[string]interface{} {
	if it == nil {
		return nil
	}
	data := map[string]interface{}{"id": it.ID}
	if it.LLMContext != nil {
		data["llm_context"] = map[string]interface{}{"traits": it.LLMContext.Traits}
	}
	return data
}

func fail(msg string) (accessor.HandlerResult, error) {
	return accessor.HandlerResult{Success: false, Message: msg}, nil
}

func ok(msg string, data map[string]interface{}) (accessor.HandlerResult, error) {
	return accessor.HandlerResult{Success: true, Message: msg, Data: data}, nil
}

// updateWithRollback applies changes via acc.Update and, if a veto'ing
// behavior rejects them (Update already applied the path before
// running dispatch), reverts the path to revert and returns the
// veto's feedback. This is the Go equivalent of the
// manipulation-handler rollback-on-failure convention in
// original_source's behaviors/core/manipulation.py.
func updateWithRollback(acc *accessor.StateAccessor, ref world.EntityRef, changes, revert map[string]interface{}, verb string, actorID world.ActorID) (*accessor.UpdateResult, error) {
	res, err := acc.Update(ref, changes, verb, actorID)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		if _, rerr := acc.Update(ref, revert, "", ""); rerr != nil && acc.Logger() != nil {
			acc.Logger().Error("rollback failed", "ref", ref.String(), "error", rerr)
		}
	}
	return res, nil
}
