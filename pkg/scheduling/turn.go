package scheduling

import (
	"fmt"

	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/npc"
	"github.com/jwebster45206/worldsim/pkg/rng"
	"github.com/jwebster45206/worldsim/pkg/world"
)

// RunPhases advances the world one turn in the fixed order:
// commitments tick, gossip delivery, the player's regional turn-phase
// effects, then morale/flee checks for every NPC sharing the player's
// location. The player's own action has already been applied by the
// caller before RunPhases runs.
func RunPhases(acc *accessor.StateAccessor, firer DialogFirer, source *rng.Source) ([]string, error) {
	gs := acc.GameState()
	gs.TurnCounter++

	var feedback []string

	if err := TickCommitments(acc, gs); err != nil {
		return feedback, fmt.Errorf("scheduling: commitments: %w", err)
	}

	if err := DeliverGossip(acc, gs, firer); err != nil {
		return feedback, fmt.Errorf("scheduling: gossip: %w", err)
	}

	regional, err := RegionalTurn(acc, world.PlayerID)
	if err != nil {
		return feedback, fmt.Errorf("scheduling: regional turn: %w", err)
	}
	feedback = append(feedback, regional...)

	player, ok := acc.GetActor(world.PlayerID)
	if !ok {
		return feedback, nil
	}
	for _, a := range acc.GetActorsInLocation(player.Location) {
		if a.ID == string(world.PlayerID) || a.Fearless {
			continue
		}
		if !npc.CheckFleeCondition(acc, a) {
			continue
		}
		res := npc.AttemptFlee(acc, a, source)
		if res.Narration != "" {
			feedback = append(feedback, res.Narration)
		}
	}

	return feedback, nil
}
