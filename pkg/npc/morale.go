// Package npc implements the regional/NPC subsystems: morale-driven
// flee behavior, pack disposition/state mirroring, relationship
// tracking, and item-trading.
package npc

import (
	"fmt"

	"github.com/jwebster45206/d20"

	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/rng"
	"github.com/jwebster45206/worldsim/pkg/world"
)

const (
	DefaultBaseMorale    = 100
	DefaultFleeThreshold = 25
	allyBonus            = 10
	alphaBonus           = 20
	enemyPenalty         = 15
)

// Allies returns other actors sharing pack_id with actor in the same
// location.
func Allies(acc *accessor.StateAccessor, actor *world.Actor) []*world.Actor {
	if actor == nil || actor.PackID == "" {
		return nil
	}
	var out []*world.Actor
	for _, other := range acc.GetActorsInLocation(actor.Location) {
		if other.ID == actor.ID {
			continue
		}
		if other.PackID == actor.PackID {
			out = append(out, other)
		}
	}
	return out
}

// Enemies returns actors hostile to actor in the same location: the
// player counts as an enemy to a hostile NPC; two hostile actors from
// different packs are mutual enemies; neutral actors are never
// enemies.
func Enemies(acc *accessor.StateAccessor, actor *world.Actor) []*world.Actor {
	if actor == nil {
		return nil
	}
	var out []*world.Actor
	for _, other := range acc.GetActorsInLocation(actor.Location) {
		if other.ID == actor.ID {
			continue
		}
		if actor.PackID != "" && other.PackID == actor.PackID {
			continue
		}
		if world.ActorID(other.ID) == world.PlayerID && actor.Disposition == world.DispositionHostile {
			out = append(out, other)
			continue
		}
		if other.Disposition == world.DispositionNeutral {
			continue
		}
		if actor.Disposition == world.DispositionHostile && other.Disposition == world.DispositionHostile {
			out = append(out, other)
		}
	}
	return out
}

// Morale computes an actor's current morale:
//
//	morale = floor(base_morale * health / max_health)
//	       + allies_in_location * 10
//	       + (alpha_of_my_pack_present ? 20 : 0)
//	       - enemies_in_location * 15
//
// clamped to a minimum of 0.
func Morale(acc *accessor.StateAccessor, actor *world.Actor) int {
	if actor == nil {
		return 0
	}
	baseMorale := DefaultBaseMorale
	if actor.BaseMorale != nil {
		baseMorale = *actor.BaseMorale
	}
	maxHealth := actor.MaxHP
	if maxHealth == 0 {
		maxHealth = 100
	}
	health := actor.HP
	if health == 0 && actor.MaxHP == 0 {
		health = 100
	}

	morale := int(float64(baseMorale) * healthRatio(actor.ID, health, maxHealth))

	allies := Allies(acc, actor)
	morale += len(allies) * allyBonus
	for _, ally := range allies {
		if ally.PackRole == world.PackRoleAlpha {
			morale += alphaBonus
			break
		}
	}

	morale -= len(Enemies(acc, actor)) * enemyPenalty
	if morale < 0 {
		morale = 0
	}
	return morale
}

// healthRatio builds a throwaway d20.Actor to validate health against
// maxHealth through the combat engine's own HP bounds instead of a
// bare division, then returns the resulting fraction.
func healthRatio(actorID string, health, maxHealth int) float64 {
	if maxHealth <= 0 {
		return 1.0
	}
	combatant, err := d20.NewActor(actorID).WithHP(maxHealth).Build()
	if err != nil {
		return float64(health) / float64(maxHealth)
	}
	if err := combatant.SetHP(health); err != nil {
		if health < 0 {
			return 0
		}
		return 1.0
	}
	return float64(combatant.HP()) / float64(combatant.MaxHP())
}

// CheckFleeCondition reports whether actor should attempt to flee:
// never true for a fearless actor; otherwise true iff morale is below
// its flee_threshold.
func CheckFleeCondition(acc *accessor.StateAccessor, actor *world.Actor) bool {
	if actor == nil || actor.Fearless {
		return false
	}
	threshold := DefaultFleeThreshold
	if actor.FleeThreshold != nil {
		threshold = *actor.FleeThreshold
	}
	return Morale(acc, actor) < threshold
}

// FleeResult is the outcome of an attempted flee.
type FleeResult struct {
	Success     bool
	Destination world.LocationID
	Narration   string
}

// AttemptFlee enumerates the current location's exits, excludes those
// guarded by a locked door, and on a 50/50 success roll moves actor to
// a random remaining exit's destination.
func AttemptFlee(acc *accessor.StateAccessor, actor *world.Actor, source *rng.Source) FleeResult {
	if actor == nil {
		return FleeResult{Narration: "invalid actor"}
	}
	loc, ok := acc.GetLocation(actor.Location)
	if !ok {
		return FleeResult{Narration: "invalid location"}
	}

	type candidate struct {
		direction string
		to        world.LocationID
	}
	var available []candidate
	for dir, exit := range loc.Exits {
		if exit.Type == world.ExitDoor && exit.DoorID != "" {
			if door, ok := acc.GetItem(exit.DoorID); ok && door.Door != nil && door.Door.Locked {
				continue
			}
		}
		if exit.To != "" {
			available = append(available, candidate{direction: dir, to: exit.To})
		}
	}
	if len(available) == 0 {
		return FleeResult{Narration: fmt.Sprintf("%s looks for an escape but there is no escape route!", actor.Name)}
	}

	if !source.Bool() {
		return FleeResult{Success: false, Narration: fmt.Sprintf("%s tries to flee but can't find an opening!", actor.Name)}
	}

	chosen := available[source.IntN(len(available))]
	actor.Location = chosen.to
	return FleeResult{
		Success:     true,
		Destination: chosen.to,
		Narration:   fmt.Sprintf("%s flees %s!", actor.Name, chosen.direction),
	}
}
