package scheduling

import (
	"strconv"

	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/npc"
	"github.com/jwebster45206/worldsim/pkg/world"
)

// ApplyEffect applies a declarative world.ReactionEffect against the entity that owns the reaction config (targetRef):
// flags are set globally, trust/state changes default to the
// reacting entity itself unless overridden, and any configured gossip
// or commitment is queued. This is the single implementation shared
// by every reaction dispatcher in pkg/reactions.
func ApplyEffect(acc *accessor.StateAccessor, targetRef world.EntityRef, effect world.ReactionEffect) (*accessor.EventResult, error) {
	gs := acc.GameState()
	if gs.Flags == nil {
		gs.Flags = make(map[string]bool)
	}
	for flag, v := range effect.SetFlags {
		gs.Flags[flag] = v
	}

	reactingActorID := world.ActorID("")
	if targetRef.Kind == world.KindActor {
		reactingActorID = world.ActorID(targetRef.ID)
	}

	trustTarget := effect.TrustTarget
	if trustTarget == "" {
		trustTarget = reactingActorID
	}
	if effect.TrustDelta != 0 && trustTarget != "" {
		if a, ok := acc.GetActor(trustTarget); ok && a.TrustState != nil {
			a.TrustState.Current = ModifyTrust(a.TrustState.Current, effect.TrustDelta, a.TrustState.Floor, a.TrustState.Ceiling)
			applyTrustTransitions(acc, a, trustTarget)
		}
	}

	stateTarget := effect.StateTarget
	if stateTarget == "" {
		stateTarget = reactingActorID
	}
	if effect.StateTransition != "" && stateTarget != "" {
		if a, ok := acc.GetActor(stateTarget); ok {
			if a.StateMachine == nil {
				a.StateMachine = &world.StateMachineSpec{}
			}
			if TransitionState(a.StateMachine, effect.StateTransition) {
				maybeSyncPack(acc, stateTarget, a)
			}
		}
	}

	if effect.CreateGossip != nil {
		spec := *effect.CreateGossip
		if spec.Source == "" {
			spec.Source = reactingActorID
		}
		CreateGossip(gs, spec)
	}
	if effect.CreateCommitment != nil {
		CreateCommitment(gs, *effect.CreateCommitment)
	}

	return &accessor.EventResult{Allow: true, Feedback: effect.Feedback}, nil
}

// applyTrustTransitions checks a.StateMachine.TrustTransitions against
// the actor's newly-written trust value and fires
// a state transition — and pack mirroring — if a threshold is crossed.
func applyTrustTransitions(acc *accessor.StateAccessor, a *world.Actor, actorID world.ActorID) {
	if a.StateMachine == nil || len(a.StateMachine.TrustTransitions) == 0 || a.TrustState == nil {
		return
	}
	for thresholdStr, newState := range a.StateMachine.TrustTransitions {
		threshold, err := strconv.Atoi(thresholdStr)
		if err != nil || a.TrustState.Current < threshold {
			continue
		}
		if TransitionState(a.StateMachine, newState) {
			maybeSyncPack(acc, actorID, a)
		}
	}
}

func maybeSyncPack(acc *accessor.StateAccessor, actorID world.ActorID, a *world.Actor) {
	if a.PackRole == world.PackRoleAlpha {
		npc.SyncPackStateOnLeaderChange(acc, actorID)
	}
}

