package scheduling

import (
	"fmt"

	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/world"
	"github.com/jwebster45206/worldsim/pkg/worldstate"
)

// CreateGossip computes deliver_turn = now + delay and appends the
// entry to the gossip queue.
func CreateGossip(gs *worldstate.GameState, spec world.GossipSpec) worldstate.GossipEntry {
	id := spec.ID
	if id == "" {
		id = fmt.Sprintf("gossip-%d-%d", gs.TurnCounter, len(gs.GossipQueue))
	}
	entry := worldstate.GossipEntry{
		ID:          id,
		Content:     spec.Content,
		Source:      spec.Source,
		Targets:     spec.Targets,
		DeliverTurn: gs.TurnCounter + spec.Delay,
	}
	gs.GossipQueue = append(gs.GossipQueue, entry)
	return entry
}

// DialogFirer invokes the on_dialog_received dispatcher on one NPC
// (reactions.FireDialog). Injected so scheduling need not import
// reactions (which itself depends on scheduling for ApplyEffect).
type DialogFirer func(acc *accessor.StateAccessor, targetActorID world.ActorID, keyword string, sourceID world.ActorID) (*accessor.EventResult, error)

// DeliverGossip fires every queued entry whose deliver_turn has
// arrived, invoking firer once per target, then drops it from the
// queue.
func DeliverGossip(acc *accessor.StateAccessor, gs *worldstate.GameState, firer DialogFirer) error {
	var remaining []worldstate.GossipEntry
	for _, entry := range gs.GossipQueue {
		if entry.DeliverTurn > gs.TurnCounter {
			remaining = append(remaining, entry)
			continue
		}
		for _, target := range entry.Targets {
			if _, err := firer(acc, target, entry.Content, entry.Source); err != nil {
				return fmt.Errorf("scheduling: gossip delivery to %q: %w", target, err)
			}
		}
	}
	gs.GossipQueue = remaining
	return nil
}
