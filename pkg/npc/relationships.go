package npc

import "github.com/jwebster45206/worldsim/pkg/accessor"
import "github.com/jwebster45206/worldsim/pkg/world"

// RelationshipThresholds maps an axis name to the value at which
// crossing it upward is considered significant. Content configures its
// own thresholds; a small built-in default set covers the common axes.
var RelationshipThresholds = map[string]int{
	"gratitude": 3,
	"fear":      3,
	"respect":   3,
}

// RelationshipChange is the result of ModifyRelationship.
type RelationshipChange struct {
	Old             int
	New             int
	ThresholdCrossed bool
	Threshold       string
}

// ModifyRelationship adjusts actor.relationships[other][axis] by
// delta, creating intermediate maps as needed, and reports whether the
// change crossed a configured threshold upward.
func ModifyRelationship(acc *accessor.StateAccessor, actorID, otherID world.ActorID, axis string, delta int) (RelationshipChange, bool) {
	actor, ok := acc.GetActor(actorID)
	if !ok {
		return RelationshipChange{}, false
	}
	if actor.Relationships == nil {
		actor.Relationships = make(map[world.ActorID]map[string]int)
	}
	axes, ok := actor.Relationships[otherID]
	if !ok {
		axes = make(map[string]int)
		actor.Relationships[otherID] = axes
	}
	old := axes[axis]
	next := old + delta
	axes[axis] = next

	change := RelationshipChange{Old: old, New: next}
	if threshold, ok := RelationshipThresholds[axis]; ok && old < threshold && next >= threshold {
		change.ThresholdCrossed = true
		change.Threshold = axis
	}
	return change, true
}
