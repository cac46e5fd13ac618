package commands

import (
	"fmt"

	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/world"
)

// HandleEat implements eat: fires on_eat, then
// removes the item from inventory and marks it consumed.
func HandleEat(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	actor, _, errRes := actorAndLocation(acc, action)
	if errRes != nil {
		return *errRes, nil
	}
	actorID := world.ActorID(actor.ID)
	name := objectWord(action.Object)

	item := acc.FindItemInInventory(actorID, name, action.Adjective)
	if item == nil {
		return fail(fmt.Sprintf("You aren't carrying any %s.", displayName(name)))
	}
	if !item.Edible {
		return fail(fmt.Sprintf("You can't eat the %s.", item.Name))
	}

	ref := world.EntityRef{Kind: world.KindItem, ID: item.ID}
	res, err := acc.FireEvent(ref, "on_eat", accessor.BehaviorContext{Verb: "eat", ActorID: actorID})
	if err != nil {
		return fail("inconsistent state")
	}
	if err := consumeItem(acc, actor, item); err != nil {
		return fail("inconsistent state")
	}
	if res != nil && res.Feedback != "" {
		return ok(res.Feedback, nil)
	}
	return ok(fmt.Sprintf("You eat the %s.", item.Name), nil)
}

// HandleDrink implements drink: fires on_drink, with
// a default healing behavior up to max_health when no on_drink
// behavior returns feedback, then removes the item from inventory and
// marks it consumed.
func HandleDrink(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	actor, _, errRes := actorAndLocation(acc, action)
	if errRes != nil {
		return *errRes, nil
	}
	actorID := world.ActorID(actor.ID)
	name := objectWord(action.Object)

	item := acc.FindItemInInventory(actorID, name, action.Adjective)
	if item == nil {
		return fail(fmt.Sprintf("You aren't carrying any %s.", displayName(name)))
	}
	if !item.Drinkable {
		return fail(fmt.Sprintf("You can't drink the %s.", item.Name))
	}

	ref := world.EntityRef{Kind: world.KindItem, ID: item.ID}
	res, err := acc.FireEvent(ref, "on_drink", accessor.BehaviorContext{Verb: "drink", ActorID: actorID})
	if err != nil {
		return fail("inconsistent state")
	}

	message := fmt.Sprintf("You drink the %s.", item.Name)
	if res != nil && res.Feedback != "" {
		message = res.Feedback
	} else if actor.MaxHealth > 0 && actor.HP < actor.MaxHealth {
		healed := actor.MaxHealth - actor.HP
		if _, err := acc.Update(world.EntityRef{Kind: world.KindActor, ID: actor.ID}, map[string]interface{}{"hp": actor.MaxHealth}, "", ""); err != nil {
			return fail("inconsistent state")
		}
		message = fmt.Sprintf("You drink the %s and feel restored (+%d).", item.Name, healed)
	}

	if err := consumeItem(acc, actor, item); err != nil {
		return fail("inconsistent state")
	}
	return ok(message, nil)
}

func consumeItem(acc *accessor.StateAccessor, actor *world.Actor, item *world.Item) error {
	if _, err := acc.Update(world.EntityRef{Kind: world.KindItem, ID: item.ID}, map[string]interface{}{"location": ""}, "", ""); err != nil {
		return err
	}
	_, err := acc.Update(world.EntityRef{Kind: world.KindActor, ID: actor.ID}, map[string]interface{}{"-inventory": item.ID}, "", "")
	return err
}
