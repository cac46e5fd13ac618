package reactions

import (
	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/world"
)

// FireGift implements gift_reactions on on_gift_given:
// targetRef is the NPC receiving the item.
func FireGift(acc *accessor.StateAccessor, targetRef world.EntityRef, giver world.ActorID, item *world.Item) (*accessor.EventResult, error) {
	a, ok := acc.GetActor(world.ActorID(targetRef.ID))
	if !ok || a.GiftReactions == nil {
		return nil, nil
	}
	return Dispatch(acc, targetRef, a.GiftReactions, Input{ItemID: item.ID, ItemName: item.Name, ActorID: giver})
}

// FireDialog implements dialog_reactions on on_dialog_received — the
// fallback path for keyword reactions that aren't handled by a
// structured dialog topic. Used directly as a scheduling.DialogFirer
// for gossip delivery.
func FireDialog(acc *accessor.StateAccessor, targetActorID world.ActorID, keyword string, sourceID world.ActorID) (*accessor.EventResult, error) {
	a, ok := acc.GetActor(targetActorID)
	if !ok || a.DialogReactions == nil {
		return nil, nil
	}
	ref := world.EntityRef{Kind: world.KindActor, ID: string(targetActorID)}
	return Dispatch(acc, ref, a.DialogReactions, Input{Keyword: keyword, ActorID: sourceID})
}

// FireItemUse implements item_use_reactions on on_item_used — targetRef is the surface or item the player used
// the held item on.
func FireItemUse(acc *accessor.StateAccessor, targetRef world.EntityRef, userID world.ActorID, usedItem *world.Item) (*accessor.EventResult, error) {
	if targetRef.Kind != world.KindItem {
		return nil, nil
	}
	target, ok := acc.GetItem(world.ItemID(targetRef.ID))
	if !ok || target.ItemUseReactions == nil {
		return nil, nil
	}
	return Dispatch(acc, targetRef, target.ItemUseReactions, Input{ItemID: usedItem.ID, ItemName: usedItem.Name, ActorID: userID})
}

// FireDeath implements death_reactions on on_entity_death — targetRef is the actor that died.
func FireDeath(acc *accessor.StateAccessor, targetRef world.EntityRef) (*accessor.EventResult, error) {
	a, ok := acc.GetActor(world.ActorID(targetRef.ID))
	if !ok || a.DeathReactions == nil {
		return nil, nil
	}
	return Dispatch(acc, targetRef, a.DeathReactions, Input{ActorID: world.ActorID(targetRef.ID)})
}

// FireEncounter implements encounter_reactions on on_first_meeting
// — targetRef is the NPC meeting the actor for the
// first time.
func FireEncounter(acc *accessor.StateAccessor, targetRef world.EntityRef, otherID world.ActorID) (*accessor.EventResult, error) {
	a, ok := acc.GetActor(world.ActorID(targetRef.ID))
	if !ok || a.EncounterReactions == nil {
		return nil, nil
	}
	return Dispatch(acc, targetRef, a.EncounterReactions, Input{ActorID: otherID})
}
