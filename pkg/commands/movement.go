package commands

import (
	"fmt"

	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/world"
)

// HandleGo implements go: resolves a direction or
// named exit, handles door auto-unlock/auto-open, moves the actor, and
// auto-looks at the destination on success.
func HandleGo(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	actor, loc, errRes := actorAndLocation(acc, action)
	if errRes != nil {
		return *errRes, nil
	}
	actorID := world.ActorID(actor.ID)

	direction := action.Direction
	if direction == "" {
		name := objectWord(action.Object)
		for dir, exit := range loc.Exits {
			if accessor.NameMatches(name, exit.Name) || accessor.NameMatches(name, dir) {
				direction = dir
				break
			}
		}
	}
	exit, found := loc.Exits[direction]
	if !found {
		return fail("You can't go that way.")
	}

	var unlockNarration string
	if exit.Type == world.ExitDoor {
		door, ok := acc.DoorAt(world.LocationID(loc.ID), direction)
		if !ok || door.Door == nil {
			return fail("inconsistent state")
		}
		if !door.Door.Open {
			if door.Door.Locked {
				lock, hasLock := door.Door.LockID, door.Door.LockID != ""
				held := hasLock && actorHoldsKeyFor(acc, actor, lock)
				if !held {
					return fail(fmt.Sprintf("The %s is locked.", door.Name))
				}
				autoUnlock := false
				if l, ok := acc.GetLock(lock); ok {
					autoUnlock = l.AutoUnlock
				}
				if !autoUnlock {
					return fail(fmt.Sprintf("The %s is locked. You'll need to unlock it first.", door.Name))
				}
				if _, err := acc.Update(world.EntityRef{Kind: world.KindItem, ID: door.ID}, map[string]interface{}{"door.locked": false, "door.open": true}, "", ""); err != nil {
					return fail("inconsistent state")
				}
				unlockNarration = fmt.Sprintf("You unlock the %s and pass through.", door.Name)
			} else {
				return fail(fmt.Sprintf("The %s is closed. You'll need to open it first.", door.Name))
			}
		}
	}

	if exit.To == "" {
		return fail("You can't go that way.")
	}
	if _, err := acc.Update(world.EntityRef{Kind: world.KindActor, ID: actor.ID}, map[string]interface{}{"location": string(exit.To)}, "go", actorID); err != nil {
		return fail("inconsistent state")
	}

	look, err := describeLocation(acc, exit.To)
	if err != nil {
		return fail("inconsistent state")
	}
	if unlockNarration != "" {
		look = unlockNarration + "\n" + look
	}
	return ok(look, nil)
}

func actorHoldsKeyFor(acc *accessor.StateAccessor, actor *world.Actor, lockID world.LockID) bool {
	lock, ok := acc.GetLock(lockID)
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
