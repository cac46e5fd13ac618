package scheduling

import (
	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/world"
	"github.com/jwebster45206/worldsim/pkg/worldstate"
)

// CreateCommitment stores a new pending commitment keyed by its
// config id.
func CreateCommitment(gs *worldstate.GameState, spec world.CommitmentSpec) *worldstate.Commitment {
	if gs.ActiveCommitments == nil {
		gs.ActiveCommitments = make(map[string]*worldstate.Commitment)
	}
	c := &worldstate.Commitment{
		ID:               spec.ID,
		CreatedTurn:      gs.TurnCounter,
		Duration:         spec.Duration,
		SuccessCondition: spec.SuccessCondition,
		FailureEffects:   spec.FailureEffects,
		Status:           worldstate.CommitmentActive,
	}
	gs.ActiveCommitments[spec.ID] = c
	return c
}

// TickCommitments advances every active commitment one turn: if its success_condition flag is set, it
// fulfills; else if the turn count has reached its duration, it fails
// and its failure_effects are applied against the player (the entity
// the world's promise concerns).
func TickCommitments(acc *accessor.StateAccessor, gs *worldstate.GameState) error {
	playerRef := world.EntityRef{Kind: world.KindActor, ID: string(world.PlayerID)}
	for _, c := range gs.ActiveCommitments {
		if c.Status != worldstate.CommitmentActive {
			continue
		}
		if c.SuccessCondition != "" && gs.Flags[c.SuccessCondition] {
			c.Status = worldstate.CommitmentFulfilled
			continue
		}
		if gs.TurnCounter-c.CreatedTurn >= c.Duration {
			c.Status = worldstate.CommitmentFailed
			if _, err := ApplyEffect(acc, playerRef, c.FailureEffects); err != nil {
				return err
			}
		}
	}
	return nil
}
