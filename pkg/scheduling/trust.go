// Package scheduling implements the cross-cutting turn-phase
// subsystems: trust, state machines, the commitment ledger, and the
// gossip queue, plus the fixed turn-phase order and the shared
// declarative effect application used by every reaction dispatcher.
package scheduling

import (
	"github.com/jwebster45206/worldsim/pkg/world"
)

// ModifyTrust clamps current+delta into [floor, ceiling].
func ModifyTrust(current, delta, floor, ceiling int) int {
	next := current + delta
	if next < floor {
		return floor
	}
	if next > ceiling {
		return ceiling
	}
	return next
}

// TransitionState is the only allowed mutation of a StateMachineSpec:
// it adds new states on demand (to support data-driven configs
// introducing states it hasn't seen) and reports whether the current
// value actually changed.
func TransitionState(sm *world.StateMachineSpec, newState string) bool {
	if sm == nil || newState == "" {
		return false
	}
	if !containsString(sm.States, newState) {
		sm.States = append(sm.States, newState)
	}
	if sm.Current == newState {
		return false
	}
	sm.Current = newState
	return true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
