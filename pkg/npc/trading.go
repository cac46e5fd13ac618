package npc

import (
	"fmt"

	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/world"
)

// ReceiveItem implements an NPC's on_receive_item handling: if the recipient has a trades entry for the given
// item, the configured reward moves from the recipient's inventory to
// the giver's; if the reward is missing, a configurable "unable to
// provide" message is returned. Items with no trade entry get a
// generic acknowledgement.
func ReceiveItem(acc *accessor.StateAccessor, recipientID, giverID world.ActorID, item *world.Item) (string, error) {
	recipient, ok := acc.GetActor(recipientID)
	if !ok {
		return "", fmt.Errorf("npc: recipient %q not found", recipientID)
	}
	trade, ok := recipient.Trades[world.ItemID(item.ID)]
	if !ok {
		return fmt.Sprintf("%s accepts the %s.", recipient.Name, item.Name), nil
	}

	reward, ok := acc.GetItem(trade.Gives)
	if !ok || reward.Location != string(recipientID) {
		if trade.Message != "" {
			return trade.Message, nil
		}
		return fmt.Sprintf("%s is unable to provide anything in return right now.", recipient.Name), nil
	}

	if _, err := acc.Update(world.EntityRef{Kind: world.KindActor, ID: string(recipientID)}, map[string]interface{}{"-inventory": string(reward.ID)}, "", ""); err != nil {
		return "", err
	}
	if _, err := acc.Update(world.EntityRef{Kind: world.KindItem, ID: reward.ID}, map[string]interface{}{"location": string(giverID)}, "", ""); err != nil {
		return "", err
	}
	if _, err := acc.Update(world.EntityRef{Kind: world.KindActor, ID: string(giverID)}, map[string]interface{}{"+inventory": reward.ID}, "", ""); err != nil {
		return "", err
	}

	if trade.Message != "" {
		return trade.Message, nil
	}
	return fmt.Sprintf("%s gives you %s in return.", recipient.Name, reward.Name), nil
}
