package commands

import (
	"fmt"

	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/world"
)

// HandleTake implements take.
func HandleTake(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	actor, loc, errRes := actorAndLocation(acc, action)
	if errRes != nil {
		return *errRes, nil
	}
	name := objectWord(action.Object)
	actorID := world.ActorID(actor.ID)

	var item *world.Item
	if action.IndirectObject != nil {
		containerName := objectWord(action.IndirectObject)
		container := acc.FindContainerInLocation(world.LocationID(loc.ID), containerName, action.IndirectAdjective)
		if container == nil {
			return fail(fmt.Sprintf("You don't see any %s here.", displayName(containerName)))
		}
		if container.Container == nil {
			return fail(fmt.Sprintf("The %s is not a container.", container.Name))
		}
		if !container.Container.IsSurface && !container.Container.Open {
			return fail(fmt.Sprintf("The %s is closed.", container.Name))
		}
		item = acc.FindItemInContainer(world.ItemID(container.ID), name, action.Adjective)
	} else {
		item = acc.FindAccessibleItem(actorID, name, action.Adjective)
	}
	if item == nil {
		return fail(fmt.Sprintf("You don't see any %s here.", displayName(name)))
	}
	if !item.Portable {
		return fail(fmt.Sprintf("You can't take the %s.", item.Name))
	}

	prevLocation := item.Location
	itemRef := world.EntityRef{Kind: world.KindItem, ID: item.ID}
	res, err := updateWithRollback(acc, itemRef,
		map[string]interface{}{"location": string(actorID), "equipped": false},
		map[string]interface{}{"location": prevLocation},
		"take", actorID)
	if err != nil {
		return fail("inconsistent state")
	}
	if !res.Success {
		return fail(res.Message)
	}
	if _, err := acc.Update(world.EntityRef{Kind: world.KindActor, ID: actor.ID}, map[string]interface{}{"+inventory": item.ID}, "", ""); err != nil {
		return fail("inconsistent state")
	}

	return ok(fmt.Sprintf("You take the %s.", item.Name), llmContextData(item))
}

// HandleDrop implements drop.
func HandleDrop(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	actor, loc, errRes := actorAndLocation(acc, action)
	if errRes != nil {
		return *errRes, nil
	}
	actorID := world.ActorID(actor.ID)
	name := objectWord(action.Object)

	item := acc.FindItemInInventory(actorID, name, action.Adjective)
	if item == nil {
		return fail(fmt.Sprintf("You aren't carrying any %s.", displayName(name)))
	}

	itemRef := world.EntityRef{Kind: world.KindItem, ID: item.ID}
	res, err := updateWithRollback(acc, itemRef,
		map[string]interface{}{"location": string(loc.ID), "equipped": false},
		map[string]interface{}{"location": item.Location},
		"drop", actorID)
	if err != nil {
		return fail("inconsistent state")
	}
	if !res.Success {
		return fail(res.Message)
	}
	if _, err := acc.Update(world.EntityRef{Kind: world.KindActor, ID: actor.ID}, map[string]interface{}{"-inventory": item.ID}, "", ""); err != nil {
		return fail("inconsistent state")
	}

	return ok(fmt.Sprintf("You drop the %s.", item.Name), llmContextData(item))
}

// HandleGive implements give: moves the item, then
// invokes the recipient's on_receive_item, which in turn may consult
// its trades table.
func HandleGive(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	actor, loc, errRes := actorAndLocation(acc, action)
	if errRes != nil {
		return *errRes, nil
	}
	actorID := world.ActorID(actor.ID)
	name := objectWord(action.Object)

	item := acc.FindItemInInventory(actorID, name, action.Adjective)
	if item == nil {
		return fail(fmt.Sprintf("You aren't carrying any %s.", displayName(name)))
	}

	recipientName := objectWord(action.IndirectObject)
	recipient := acc.FindActorInLocation(world.LocationID(loc.ID), recipientName, actorID)
	if recipient == nil {
		return fail(fmt.Sprintf("There's no one called %s here.", displayName(recipientName)))
	}
	recipientID := world.ActorID(recipient.ID)

	itemRef := world.EntityRef{Kind: world.KindItem, ID: item.ID}
	res, err := updateWithRollback(acc, itemRef,
		map[string]interface{}{"location": string(recipientID), "equipped": false},
		map[string]interface{}{"location": item.Location},
		"give", actorID)
	if err != nil {
		return fail("inconsistent state")
	}
	if !res.Success {
		return fail(res.Message)
	}
	if _, err := acc.Update(world.EntityRef{Kind: world.KindActor, ID: actor.ID}, map[string]interface{}{"-inventory": item.ID}, "", ""); err != nil {
		return fail("inconsistent state")
	}
	if _, err := acc.Update(world.EntityRef{Kind: world.KindActor, ID: recipient.ID}, map[string]interface{}{"+inventory": item.ID}, "", ""); err != nil {
		return fail("inconsistent state")
	}

	message := fmt.Sprintf("You give the %s to %s.", item.Name, recipient.Name)
	receiveRes, err := acc.FireEvent(world.EntityRef{Kind: world.KindActor, ID: recipient.ID}, "on_receive_item",
		accessor.BehaviorContext{Verb: "give", ActorID: actorID})
	if err != nil {
		return fail("inconsistent state")
	}
	if receiveRes != nil && receiveRes.Feedback != "" {
		message = receiveRes.Feedback
	}

	return ok(message, llmContextData(item))
}

// HandlePut implements put: put X on/in Y.
func HandlePut(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	actor, loc, errRes := actorAndLocation(acc, action)
	if errRes != nil {
		return *errRes, nil
	}
	actorID := world.ActorID(actor.ID)
	name := objectWord(action.Object)

	item := acc.FindItemInInventory(actorID, name, action.Adjective)
	if item == nil {
		return fail(fmt.Sprintf("You aren't carrying any %s.", displayName(name)))
	}

	containerName := objectWord(action.IndirectObject)
	container := acc.FindContainerInLocation(world.LocationID(loc.ID), containerName, action.IndirectAdjective)
	if container == nil {
		return fail(fmt.Sprintf("You don't see any %s here.", displayName(containerName)))
	}
	if container.Container == nil {
		return fail(fmt.Sprintf("The %s is not a container.", container.Name))
	}
	if !container.Container.IsSurface && !container.Container.Open {
		return fail(fmt.Sprintf("The %s is closed.", container.Name))
	}
	if container.Container.Capacity > 0 {
		contents := acc.GetItemsInContainer(world.ItemID(container.ID))
		if len(contents) >= container.Container.Capacity {
			return fail(fmt.Sprintf("There's no room left %s the %s.", preposition(container), container.Name))
		}
	}

	itemRef := world.EntityRef{Kind: world.KindItem, ID: item.ID}
	res, err := updateWithRollback(acc, itemRef,
		map[string]interface{}{"location": container.ID, "equipped": false},
		map[string]interface{}{"location": item.Location},
		"put", actorID)
	if err != nil {
		return fail("inconsistent state")
	}
	if !res.Success {
		return fail(res.Message)
	}
	if _, err := acc.Update(world.EntityRef{Kind: world.KindActor, ID: actor.ID}, map[string]interface{}{"-inventory": item.ID}, "", ""); err != nil {
		return fail("inconsistent state")
	}

	return ok(fmt.Sprintf("You put the %s %s the %s.", item.Name, preposition(container), container.Name), llmContextData(item))
}

func preposition(container *world.Item) string {
	if container.Container != nil && container.Container.IsSurface {
		return "on"
	}
	return "in"
}
