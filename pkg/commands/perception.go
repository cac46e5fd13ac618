package commands

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/world"
)

// describeLocation composes the look message for loc: name,
// description, visible items (including items on surfaces), visible
// actors, and exits.
func describeLocation(acc *accessor.StateAccessor, locID world.LocationID) (string, error) {
	loc, ok := acc.GetLocation(locID)
	if !ok {
		return "", fmt.Errorf("commands: location %q not found", locID)
	}

	var b strings.Builder
	b.WriteString(loc.Name)
	if loc.Description != "" {
		b.WriteString(". ")
		b.WriteString(loc.Description)
	}

	var itemNames []string
	for _, it := range acc.GetItemsInLocation(locID) {
		itemNames = append(itemNames, it.Name)
		if it.Container != nil && (it.Container.IsSurface || it.Container.Open) {
			for _, contained := range acc.GetItemsInContainer(world.ItemID(it.ID)) {
				itemNames = append(itemNames, fmt.Sprintf("%s (%s the %s)", contained.Name, preposition(it), it.Name))
			}
		}
	}
	if len(itemNames) > 0 {
		b.WriteString(" You see: ")
		b.WriteString(strings.Join(itemNames, ", "))
		b.WriteString(".")
	}

	var actorNames []string
	for _, a := range acc.GetActorsInLocation(locID) {
		if a.ID == string(world.PlayerID) {
			continue
		}
		actorNames = append(actorNames, a.Name)
	}
	if len(actorNames) > 0 {
		b.WriteString(" Also here: ")
		b.WriteString(strings.Join(actorNames, ", "))
		b.WriteString(".")
	}

	var exitNames []string
	for dir := range loc.Exits {
		exitNames = append(exitNames, dir)
	}
	if len(exitNames) > 0 {
		b.WriteString(" Exits: ")
		b.WriteString(strings.Join(exitNames, ", "))
		b.WriteString(".")
	}

	return b.String(), nil
}

// HandleLook implements look.
func HandleLook(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	actor, loc, errRes := actorAndLocation(acc, action)
	if errRes != nil {
		return *errRes, nil
	}
	_ = actor
	message, err := describeLocation(acc, world.LocationID(loc.ID))
	if err != nil {
		return fail("inconsistent state")
	}

	data := map[string]interface{}{}
	var contexts []map[string]interface{}
	for _, it := range acc.GetItemsInLocation(world.LocationID(loc.ID)) {
		if it.LLMContext != nil {
			contexts = append(contexts, llmContextData(it))
		}
	}
	if len(contexts) > 0 {
		data["items"] = contexts
	}
	return ok(message, data)
}

// HandleExamine implements examine: target any entity
// in scope. The universal surfaces (ceiling, floor, sky, wall(s),
// ground), when no entity of that name is in scope, get a canned
// description instead of a failure.
func HandleExamine(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	actor, loc, errRes := actorAndLocation(acc, action)
	if errRes != nil {
		return *errRes, nil
	}
	actorID := world.ActorID(actor.ID)
	name := objectWord(action.Object)

	if it := acc.FindAccessibleItem(actorID, name, action.Adjective); it != nil {
		var b strings.Builder
		b.WriteString(it.Description)
		if it.Readable && it.Text != "" {
			b.WriteString(" It reads: \"")
			b.WriteString(it.Text)
			b.WriteString("\"")
		}
		if it.Container != nil && it.Container.Open {
			var contents []string
			for _, c := range acc.GetItemsInContainer(world.ItemID(it.ID)) {
				contents = append(contents, c.Name)
			}
			if len(contents) > 0 {
				b.WriteString(" It contains: ")
				b.WriteString(strings.Join(contents, ", "))
				b.WriteString(".")
			} else {
				b.WriteString(" It's empty.")
			}
		}
		if it.Door != nil {
			state := "closed"
			if it.Door.Open {
				state = "open"
			} else if it.Door.Locked {
				state = "locked"
			}
			b.WriteString(fmt.Sprintf(" It's %s.", state))
		}
		return ok(b.String(), llmContextData(it))
	}

	if a := acc.FindActorInLocation(world.LocationID(loc.ID), name, actorID); a != nil {
		return ok(a.Description, nil)
	}

	switch name {
	case "ceiling", "floor", "sky", "wall", "walls", "ground":
		return ok(fmt.Sprintf("You see nothing special about the %s.", name), nil)
	}

	return fail(fmt.Sprintf("You don't see any %s here.", displayName(name)))
}

// HandleInventory implements inventory.
func HandleInventory(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	actor, _, errRes := actorAndLocation(acc, action)
	if errRes != nil {
		return *errRes, nil
	}
	if len(actor.Inventory) == 0 {
		return ok("You aren't carrying anything.", nil)
	}
	var names []string
	var contexts []map[string]interface{}
	for _, id := range actor.Inventory {
		it, ok := acc.GetItem(id)
		if !ok {
			continue
		}
		names = append(names, it.Name)
		if it.LLMContext != nil {
			contexts = append(contexts, llmContextData(it))
		}
	}
	data := map[string]interface{}{}
	if len(contexts) > 0 {
		data["items"] = contexts
	}
	return ok(fmt.Sprintf("You are carrying: %s.", strings.Join(names, ", ")), data)
}
