package npc

import "github.com/jwebster45206/worldsim/pkg/accessor"
import "github.com/jwebster45206/worldsim/pkg/world"

// SyncPackDisposition copies an alpha's disposition onto every
// follower named in its pack_behavior.followers list, returning the
// ids of followers actually changed.
func SyncPackDisposition(acc *accessor.StateAccessor, alphaID world.ActorID) []world.ActorID {
	alpha, ok := acc.GetActor(alphaID)
	if !ok || alpha.PackBehavior == nil {
		return nil
	}
	var changed []world.ActorID
	for _, followerID := range alpha.PackBehavior.Followers {
		if SyncFollowerDisposition(acc, alpha, followerID) {
			changed = append(changed, followerID)
		}
	}
	return changed
}

// SyncFollowerDisposition copies the alpha's disposition onto one
// follower, returning whether it actually changed.
func SyncFollowerDisposition(acc *accessor.StateAccessor, alpha *world.Actor, followerID world.ActorID) bool {
	follower, ok := acc.GetActor(followerID)
	if !ok || follower.Disposition == alpha.Disposition {
		return false
	}
	follower.Disposition = alpha.Disposition
	return true
}

// SyncPackStateOnLeaderChange implements the pack_mirroring dispatcher:
// when a leader's state machine changes, every follower's state
// machine is set to the same current state, creating the follower's
// state machine (or the state entry) if it doesn't exist yet. Returns
// the ids of followers changed.
func SyncPackStateOnLeaderChange(acc *accessor.StateAccessor, leaderID world.ActorID) []world.ActorID {
	leader, ok := acc.GetActor(leaderID)
	if !ok || leader.PackBehavior == nil || leader.StateMachine == nil {
		return nil
	}
	var changed []world.ActorID
	for _, followerID := range leader.PackBehavior.Followers {
		follower, ok := acc.GetActor(followerID)
		if !ok {
			continue
		}
		if follower.StateMachine == nil {
			follower.StateMachine = &world.StateMachineSpec{}
		}
		found := false
		for _, s := range follower.StateMachine.States {
			if s == leader.StateMachine.Current {
				found = true
				break
			}
		}
		if !found {
			follower.StateMachine.States = append(follower.StateMachine.States, leader.StateMachine.Current)
		}
		if follower.StateMachine.Current != leader.StateMachine.Current {
			follower.StateMachine.Current = leader.StateMachine.Current
			changed = append(changed, followerID)
		}
	}
	return changed
}
