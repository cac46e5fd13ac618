package commands

import (
	"fmt"

	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/reactions"
	"github.com/jwebster45206/worldsim/pkg/world"
)

// openableTarget resolves an open/close target to a door or container
// item in the actor's location.
func openableTarget(acc *accessor.StateAccessor, loc *world.Location, actorID world.ActorID, name, adjective string) *world.Item {
	if door := acc.FindDoorWithAdjective(actorID, world.LocationID(loc.ID), adjective, "open"); door != nil && name != "" && accessorNameMatches(door, name) {
		return door
	}
	if it := acc.FindAccessibleItem(actorID, name, adjective); it != nil && (it.Container != nil || it.Door != nil) {
		return it
	}
	return nil
}

func accessorNameMatches(it *world.Item, name string) bool {
	return accessor.NameMatches(name, it.Name)
}

// HandleOpen implements open.
func HandleOpen(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	actor, loc, errRes := actorAndLocation(acc, action)
	if errRes != nil {
		return *errRes, nil
	}
	actorID := world.ActorID(actor.ID)
	name := objectWord(action.Object)

	target := openableTarget(acc, loc, actorID, name, action.Adjective)
	if target == nil {
		return fail(fmt.Sprintf("You don't see any %s here.", displayName(name)))
	}

	switch {
	case target.Door != nil:
		if target.Door.Open {
			return fail(fmt.Sprintf("The %s is already open.", target.Name))
		}
		if target.Door.Locked {
			return fail(fmt.Sprintf("The %s is locked.", target.Name))
		}
		if _, err := acc.Update(world.EntityRef{Kind: world.KindItem, ID: target.ID}, map[string]interface{}{"door.open": true}, "open", actorID); err != nil {
			return fail("inconsistent state")
		}
		return ok(fmt.Sprintf("You open the %s.", target.Name), nil)
	case target.Container != nil:
		if target.Container.Open {
			return fail(fmt.Sprintf("The %s is already open.", target.Name))
		}
		if target.Container.Locked {
			return fail(fmt.Sprintf("The %s is locked.", target.Name))
		}
		if _, err := acc.Update(world.EntityRef{Kind: world.KindItem, ID: target.ID}, map[string]interface{}{"container.open": true}, "open", actorID); err != nil {
			return fail("inconsistent state")
		}
		return ok(fmt.Sprintf("You open the %s.", target.Name), nil)
	}
	return fail(fmt.Sprintf("You can't open the %s.", target.Name))
}

// HandleClose implements close.
func HandleClose(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	actor, loc, errRes := actorAndLocation(acc, action)
	if errRes != nil {
		return *errRes, nil
	}
	actorID := world.ActorID(actor.ID)
	name := objectWord(action.Object)

	target := openableTarget(acc, loc, actorID, name, action.Adjective)
	if target == nil {
		return fail(fmt.Sprintf("You don't see any %s here.", displayName(name)))
	}

	switch {
	case target.Door != nil:
		if !target.Door.Open {
			return fail(fmt.Sprintf("The %s is already closed.", target.Name))
		}
		if _, err := acc.Update(world.EntityRef{Kind: world.KindItem, ID: target.ID}, map[string]interface{}{"door.open": false}, "close", actorID); err != nil {
			return fail("inconsistent state")
		}
		return ok(fmt.Sprintf("You close the %s.", target.Name), nil)
	case target.Container != nil:
		if !target.Container.Open {
			return fail(fmt.Sprintf("The %s is already closed.", target.Name))
		}
		if _, err := acc.Update(world.EntityRef{Kind: world.KindItem, ID: target.ID}, map[string]interface{}{"container.open": false}, "close", actorID); err != nil {
			return fail("inconsistent state")
		}
		return ok(fmt.Sprintf("You close the %s.", target.Name), nil)
	}
	return fail(fmt.Sprintf("You can't close the %s.", target.Name))
}

// HandleUse implements use / use X on Y: with an
// indirect object, fires item_use_reactions on the indirect object
// (falling back to the held item's own reactions); without one, fires
// the held item's own reactions directly.
func HandleUse(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	actor, loc, errRes := actorAndLocation(acc, action)
	if errRes != nil {
		return *errRes, nil
	}
	actorID := world.ActorID(actor.ID)
	name := objectWord(action.Object)

	item := acc.FindAccessibleItem(actorID, name, action.Adjective)
	if item == nil {
		return fail(fmt.Sprintf("You don't have any %s.", displayName(name)))
	}

	if action.IndirectObject != nil {
		targetName := objectWord(action.IndirectObject)
		target := acc.FindAccessibleItem(actorID, targetName, action.IndirectAdjective)
		if target == nil {
			target = acc.FindContainerInLocation(world.LocationID(loc.ID), targetName, action.IndirectAdjective)
		}
		if target == nil {
			return fail(fmt.Sprintf("You don't see any %s here.", displayName(targetName)))
		}
		ref := world.EntityRef{Kind: world.KindItem, ID: target.ID}
		res, err := reactions.FireItemUse(acc, ref, actorID, item)
		if err != nil {
			return fail("inconsistent state")
		}
		if res != nil {
			return ok(feedbackOr(res.Feedback, "Nothing special happens."), nil)
		}
		selfRef := world.EntityRef{Kind: world.KindItem, ID: item.ID}
		res, err = reactions.FireItemUse(acc, selfRef, actorID, target)
		if err != nil {
			return fail("inconsistent state")
		}
		if res != nil {
			return ok(feedbackOr(res.Feedback, "Nothing special happens."), nil)
		}
		return ok("Nothing special happens.", nil)
	}

	ref := world.EntityRef{Kind: world.KindItem, ID: item.ID}
	res, err := acc.FireEvent(ref, "on_use", accessor.BehaviorContext{Verb: "use", ActorID: actorID})
	if err != nil {
		return fail("inconsistent state")
	}
	if res != nil && res.Feedback != "" {
		return ok(res.Feedback, nil)
	}
	return ok("Nothing special happens.", nil)
}

func feedbackOr(feedback, fallback string) string {
	if feedback == "" {
		return fallback
	}
	return feedback
}

// HandleRead implements read.
func HandleRead(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	actor, _, errRes := actorAndLocation(acc, action)
	if errRes != nil {
		return *errRes, nil
	}
	actorID := world.ActorID(actor.ID)
	name := objectWord(action.Object)

	item := acc.FindAccessibleItem(actorID, name, action.Adjective)
	if item == nil {
		return fail(fmt.Sprintf("You don't see any %s here.", displayName(name)))
	}
	if !item.Readable {
		return fail(fmt.Sprintf("There's nothing to read on the %s.", item.Name))
	}
	return ok(item.Text, llmContextData(item))
}

// HandlePull implements pull.
func HandlePull(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	return genericInteraction(acc, action, "on_pull", "pull")
}

// HandlePush implements push.
func HandlePush(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	return genericInteraction(acc, action, "on_push", "push")
}

func genericInteraction(acc *accessor.StateAccessor, action accessor.Action, event, verb string) (accessor.HandlerResult, error) {
	actor, _, errRes := actorAndLocation(acc, action)
	if errRes != nil {
		return *errRes, nil
	}
	actorID := world.ActorID(actor.ID)
	name := objectWord(action.Object)

	item := acc.FindAccessibleItem(actorID, name, action.Adjective)
	if item == nil {
		return fail(fmt.Sprintf("You don't see any %s here.", displayName(name)))
	}
	ref := world.EntityRef{Kind: world.KindItem, ID: item.ID}
	res, err := acc.FireEvent(ref, event, accessor.BehaviorContext{Verb: verb, ActorID: actorID})
	if err != nil {
		return fail("inconsistent state")
	}
	if res != nil && res.Feedback != "" {
		return ok(res.Feedback, nil)
	}
	return ok(fmt.Sprintf("You %s the %s, but nothing happens.", verb, item.Name), nil)
}

// HandleClimb implements climb: first tries a named
// exit in the current location (treated as movement), then an item
// with climbable=true (sets posture/focused_on).
func HandleClimb(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	actor, loc, errRes := actorAndLocation(acc, action)
	if errRes != nil {
		return *errRes, nil
	}
	actorID := world.ActorID(actor.ID)
	name := objectWord(action.Object)

	for dir, exit := range loc.Exits {
		if accessor.NameMatches(name, exit.Name) {
			return HandleGo(acc, accessor.Action{Verb: "go", ActorID: actorID, Direction: dir})
		}
	}

	item := acc.FindAccessibleItem(actorID, name, action.Adjective)
	if item == nil || !item.Climbable {
		return fail("You can't climb that.")
	}
	ref := world.EntityRef{Kind: world.KindActor, ID: actor.ID}
	focus := &world.EntityRef{Kind: world.KindItem, ID: item.ID}
	if _, err := acc.Update(ref, map[string]interface{}{"posture": string(world.PostureClimbing), "focused_on": focus}, "", ""); err != nil {
		return fail("inconsistent state")
	}
	return ok(fmt.Sprintf("You climb the %s.", item.Name), nil)
}
