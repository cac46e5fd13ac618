package commands

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/reactions"
	"github.com/jwebster45206/worldsim/pkg/scheduling"
	"github.com/jwebster45206/worldsim/pkg/world"
)

// findTopicByKeyword matches the player's "about" phrase against every
// topic's keywords, substring either direction.
func findTopicByKeyword(npc *world.Actor, text string) (string, *world.TopicSpec) {
	lower := strings.ToLower(text)
	for name, topic := range npc.DialogTopics {
		for _, kw := range topic.Keywords {
			kwLower := strings.ToLower(kw)
			if strings.Contains(lower, kwLower) || strings.Contains(kwLower, lower) {
				return name, topic
			}
		}
	}
	return "", nil
}

// topicAvailable applies every TopicSpec gate: player
// flags, player inventory, one_time exhaustion, NPC state, NPC trust.
func topicAvailable(acc *accessor.StateAccessor, npc *world.Actor, topic *world.TopicSpec) bool {
	gs := acc.GameState()
	for flag, want := range topic.RequiresFlags {
		if gs.Flags[flag] != want {
			return false
		}
	}
	if len(topic.RequiresItems) > 0 {
		player, ok := acc.GetActor(world.PlayerID)
		if !ok {
			return false
		}
		for _, need := range topic.RequiresItems {
			held := false
			for _, carried := range player.Inventory {
				if carried == need {
					held = true
					break
				}
			}
			if !held {
				return false
			}
		}
	}
	if topic.OneTime && topic.Discussed {
		return false
	}
	if len(topic.RequiresState) > 0 {
		if npc.StateMachine == nil || !containsString(topic.RequiresState, npc.StateMachine.Current) {
			return false
		}
	}
	if topic.RequiresTrust != nil {
		if npc.TrustState == nil || npc.TrustState.Current < *topic.RequiresTrust {
			return false
		}
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// HandleAsk implements ask X about Y: finds a matching,
// available topic; invokes its handler if present; otherwise applies
// the topic's declarative effects and returns its summary. Falls back
// to dialog_reactions when no topic matches.
func HandleAsk(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	actor, loc, errRes := actorAndLocation(acc, action)
	if errRes != nil {
		return *errRes, nil
	}
	actorID := world.ActorID(actor.ID)
	targetName := objectWord(action.Object)

	npc := acc.FindActorInLocation(world.LocationID(loc.ID), targetName, actorID)
	if npc == nil {
		return fail(fmt.Sprintf("There's no one called %s here.", displayName(targetName)))
	}

	topicText := objectWord(action.IndirectObject)
	topicName, topic := findTopicByKeyword(npc, topicText)
	if topic == nil || !topicAvailable(acc, npc, topic) {
		res, err := reactions.FireDialog(acc, world.ActorID(npc.ID), topicText, actorID)
		if err != nil {
			return fail("inconsistent state")
		}
		if res != nil && res.Feedback != "" {
			return ok(res.Feedback, nil)
		}
		return ok(fmt.Sprintf("%s doesn't know about that.", npc.Name), nil)
	}

	npcRef := world.EntityRef{Kind: world.KindActor, ID: npc.ID}
	if topic.Handler != "" {
		if fn, found := reactions.Lookup(topic.Handler); found {
			res, err := fn(acc, npcRef, reactions.Input{Keyword: topicText, ActorID: actorID})
			if err != nil {
				return fail("inconsistent state")
			}
			if res != nil && res.Feedback != "" {
				return ok(res.Feedback, nil)
			}
		}
	}

	if len(topic.SetsFlags) > 0 || topic.TrustDelta != 0 {
		if _, err := scheduling.ApplyEffect(acc, npcRef, world.ReactionEffect{SetFlags: topic.SetsFlags, TrustDelta: topic.TrustDelta}); err != nil {
			return fail("inconsistent state")
		}
	}
	for _, unlock := range topic.UnlocksTopics {
		if _, err := acc.Update(npcRef, map[string]interface{}{"+unlocked_topics": unlock}, "", ""); err != nil {
			return fail("inconsistent state")
		}
	}
	for _, itemID := range topic.GrantsItems {
		it, ok := acc.GetItem(itemID)
		if !ok {
			continue
		}
		if _, err := acc.Update(world.EntityRef{Kind: world.KindItem, ID: it.ID}, map[string]interface{}{"location": string(actorID)}, "", ""); err != nil {
			return fail("inconsistent state")
		}
		if _, err := acc.Update(world.EntityRef{Kind: world.KindActor, ID: actor.ID}, map[string]interface{}{"+inventory": it.ID}, "", ""); err != nil {
			return fail("inconsistent state")
		}
	}
	if topic.OneTime {
		topic.Discussed = true
	}

	summary := topic.Summary
	if summary == "" {
		summary = fmt.Sprintf("%s discusses %s.", npc.Name, topicName)
	}
	return ok(summary, nil)
}

// HandleTalk implements talk to X: lists one
// representative keyword per available topic.
func HandleTalk(acc *accessor.StateAccessor, action accessor.Action) (accessor.HandlerResult, error) {
	actor, loc, errRes := actorAndLocation(acc, action)
	if errRes != nil {
		return *errRes, nil
	}
	actorID := world.ActorID(actor.ID)
	targetName := objectWord(action.Object)

	npc := acc.FindActorInLocation(world.LocationID(loc.ID), targetName, actorID)
	if npc == nil {
		return fail(fmt.Sprintf("There's no one called %s here.", displayName(targetName)))
	}

	var hints []string
	for _, topic := range npc.DialogTopics {
		if !topicAvailable(acc, npc, topic) {
			continue
		}
		if len(topic.Keywords) > 0 {
			hints = append(hints, topic.Keywords[0])
		}
	}
	if len(hints) == 0 {
		return ok(fmt.Sprintf("%s has nothing to discuss right now.", npc.Name), nil)
	}
	return ok(fmt.Sprintf("You could ask %s about: %s.", npc.Name, strings.Join(hints, ", ")), nil)
}
