package commands

import (
	"fmt"

	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/world"
)

// lockableTarget resolves an unlock/lock target to a door or a
// container carrying a lock_id, applying smart door selection when the
// noun is a bare "door".
func lockableTarget(acc *accessor.StateAccessor, loc *world.Location, actorID world.ActorID, name, adjective, verb string) *world.Item {
	if door := acc.FindDoorWithAdjective(actorID, world.LocationID(loc.ID), adjective, verb); door != nil && (name == "" || accessor.NameMatches(name, "door") || accessorNameMatches(door, name)) {
		return door
	}
	if it := acc.FindAccessibleItem(actorID, name, adjective); it != nil && it.Container != nil && it.Container.LockID != "" {
		return it
	}
	return nil
}

func lockIDOf(it *world.Item) world.LockID {
	if it.Door != nil {
		return it.Door.LockID
	}
	if it.Container != nil {
		return it.Container.LockID
	}
	return ""
}

func isOpenOf(it *world.Item) bool {
	if it.Door != nil {
		return it.Door.Open
	}
	if it.Container != nil {
		return it.Container.Open
	}
	return false
}

func lockedPathFor(it *world.Item) string {
	if it.Door != nil {
		return "door.locked"
	}
	return "container.locked"
}

// HandleUnlock implements unlock.
func HandleUnlock(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	actor, loc, errRes := actorAndLocation(acc, action)
	if errRes != nil {
		return *errRes, nil
	}
	actorID := world.ActorID(actor.ID)
	name := objectWord(action.Object)

	target := lockableTarget(acc, loc, actorID, name, action.Adjective, "unlock")
	if target == nil {
		return fail(fmt.Sprintf("You don't see any %s here.", displayName(name)))
	}
	lockID := lockIDOf(target)
	if lockID == "" {
		return fail(fmt.Sprintf("The %s doesn't have a lock.", target.Name))
	}
	if !actorHoldsKeyFor(acc, actor, lockID) {
		lock, _ := acc.GetLock(lockID)
		if lock != nil && lock.FailMessage != "" {
			return fail(lock.FailMessage)
		}
		return fail(fmt.Sprintf("You don't have the key to unlock the %s.", target.Name))
	}
	if _, err := acc.Update(world.EntityRef{Kind: world.KindItem, ID: target.ID}, map[string]interface{}{lockedPathFor(target): false}, "unlock", actorID); err != nil {
		return fail("inconsistent state")
	}
	return ok(fmt.Sprintf("You unlock the %s.", target.Name), nil)
}

// HandleLock implements lock.
func HandleLock(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	actor, loc, errRes := actorAndLocation(acc, action)
	if errRes != nil {
		return *errRes, nil
	}
	actorID := world.ActorID(actor.ID)
	name := objectWord(action.Object)

	target := lockableTarget(acc, loc, actorID, name, action.Adjective, "lock")
	if target == nil {
		return fail(fmt.Sprintf("You don't see any %s here.", displayName(name)))
	}
	lockID := lockIDOf(target)
	if lockID == "" {
		return fail(fmt.Sprintf("The %s doesn't have a lock.", target.Name))
	}
	if isOpenOf(target) {
		return fail(fmt.Sprintf("You need to close the %s first.", target.Name))
	}
	if !actorHoldsKeyFor(acc, actor, lockID) {
		return fail(fmt.Sprintf("You don't have the key to lock the %s.", target.Name))
	}
	if _, err := acc.Update(world.EntityRef{Kind: world.KindItem, ID: target.ID}, map[string]interface{}{lockedPathFor(target): true}, "lock", actorID); err != nil {
		return fail("inconsistent state")
	}
	return ok(fmt.Sprintf("You lock the %s.", target.Name), nil)
}
