package commands

import (
	"fmt"

	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/world"
)

// hasProperty reports whether it declares a truthy property.
func hasProperty(it *world.Item, key string) bool {
	if it.Properties == nil {
		return false
	}
	v, ok := it.Properties[key]
	if !ok {
		return false
	}
	return v.BoolOr(false)
}

// positionAt sets the actor's posture and focus on a located entity in
// its current location, optionally requiring a named property.
func positionAt(acc *accessor.StateAccessor, action accessor.Action, posture world.Posture, requiredProperty string) (accessor.HandlerResult, error) {
	actor, loc, errRes := actorAndLocation(acc, action)
	if errRes != nil {
		return *errRes, nil
	}
	actorID := world.ActorID(actor.ID)
	name := objectWord(action.Object)

	item := acc.FindAccessibleItem(actorID, name, action.Adjective)
	if item != nil && requiredProperty != "" && !hasProperty(item, requiredProperty) {
		item = nil
	}
	var focus *world.EntityRef
	var targetName string
	if item != nil {
		focus = &world.EntityRef{Kind: world.KindItem, ID: item.ID}
		targetName = item.Name
	} else if a := acc.FindActorInLocation(world.LocationID(loc.ID), name, actorID); a != nil {
		focus = &world.EntityRef{Kind: world.KindActor, ID: a.ID}
		targetName = a.Name
	}
	if focus == nil {
		return fail(fmt.Sprintf("You don't see any %s here.", displayName(name)))
	}

	if _, err := acc.Update(world.EntityRef{Kind: world.KindActor, ID: actor.ID},
		map[string]interface{}{"posture": string(posture), "focused_on": focus}, "", ""); err != nil {
		return fail("inconsistent state")
	}
	return ok(fmt.Sprintf("You %s the %s.", postureVerb(posture), targetName), nil)
}

func postureVerb(p world.Posture) string {
	switch p {
	case world.PostureCover:
		return "take cover behind"
	case world.PostureConcealed:
		return "hide behind"
	case world.PostureClimbing:
		return "climb"
	default:
		return "approach"
	}
}

// HandleApproach implements approach.
func HandleApproach(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	return positionAt(acc, action, world.PostureNone, "")
}

// HandleCover implements cover: requires provides_cover.
func HandleCover(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	return positionAt(acc, action, world.PostureCover, "provides_cover")
}

// HandleHide implements hide: requires allows_concealment.
func HandleHide(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	return positionAt(acc, action, world.PostureConcealed, "allows_concealment")
}

// clearPosture clears an actor's posture/focused_on, used by up/down
// when currently positioned.
func clearPosture(acc *accessor.StateAccessor, actor *world.Actor) error {
	_, err := acc.Update(world.EntityRef{Kind: world.KindActor, ID: actor.ID},
		map[string]interface{}{"posture": string(world.PostureNone), "focused_on": (*world.EntityRef)(nil)}, "", "")
	return err
}

// HandleUp implements up: clears posture if set,
// otherwise delegates to directional movement.
func HandleUp(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	actor, _, errRes := actorAndLocation(acc, action)
	if errRes != nil {
		return *errRes, nil
	}
	if actor.Posture != "" && actor.Posture != world.PostureNone {
		if err := clearPosture(acc, actor); err != nil {
			return fail("inconsistent state")
		}
		return ok("You stand up.", nil)
	}
	action.Direction = "up"
	return HandleGo(acc, action)
}

// HandleDown implements down: clears posture if set,
// otherwise delegates to directional movement.
func HandleDown(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	actor, _, errRes := actorAndLocation(acc, action)
	if errRes != nil {
		return *errRes, nil
	}
	if actor.Posture != "" && actor.Posture != world.PostureNone {
		if err := clearPosture(acc, actor); err != nil {
			return fail("inconsistent state")
		}
		return ok("You step down.", nil)
	}
	action.Direction = "down"
	return HandleGo(acc, action)
}
