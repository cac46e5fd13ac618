package commands

import (
	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/behavior"
)

// Module returns the behavior.Module exposing every Handle<Verb>
// implementation in this package, ready for a composition root to
// register with a behavior.Manager.
func Module() *behavior.Module {
	return &behavior.Module{
		Name: "commands/core",
		Vocabulary: behavior.Vocabulary{
			Verbs: []behavior.Verb{
				{Word: "take", Synonyms: []string{"get", "grab", "pick up"}, ObjectRequired: true, Event: "on_take"},
				{Word: "drop", Synonyms: []string{"discard"}, ObjectRequired: true, Event: "on_drop", Brief: true},
				{Word: "give", Synonyms: []string{"offer"}, ObjectRequired: true},
				{Word: "put", Synonyms: []string{"place", "set"}, ObjectRequired: true, Event: "on_put", Brief: true},
				{Word: "open", ObjectRequired: true, Event: "on_open", Brief: true},
				{Word: "close", Synonyms: []string{"shut"}, ObjectRequired: true, Event: "on_close", Brief: true},
				{Word: "use", ObjectRequired: true, Event: "on_use"},
				{Word: "read", ObjectRequired: true},
				{Word: "pull", Synonyms: []string{"tug"}, ObjectRequired: true, Event: "on_pull"},
				{Word: "push", Synonyms: []string{"shove"}, ObjectRequired: true, Event: "on_push"},
				{Word: "climb", Synonyms: []string{"climb up", "climb on"}, ObjectRequired: true},
				{Word: "approach", Synonyms: []string{"go to", "move to"}, ObjectRequired: true, Brief: true},
				{Word: "cover", Synonyms: []string{"take cover"}, ObjectRequired: true, Brief: true},
				{Word: "hide", Synonyms: []string{"conceal"}, ObjectRequired: true, Brief: true},
				{Word: "up", Synonyms: []string{"go up", "stand"}, Brief: true},
				{Word: "down", Synonyms: []string{"go down", "crouch"}, Brief: true},
				{Word: "unlock", ObjectRequired: true, Event: "on_unlock"},
				{Word: "lock", ObjectRequired: true, Event: "on_lock"},
				{Word: "go", Synonyms: []string{"walk", "move", "head"}, ObjectRequired: true},
				{Word: "look", Synonyms: []string{"l"}},
				{Word: "examine", Synonyms: []string{"x", "inspect"}, ObjectRequired: true},
				{Word: "inventory", Synonyms: []string{"i", "inv"}, Brief: true},
				{Word: "eat", Synonyms: []string{"consume"}, ObjectRequired: true, Event: "on_eat", Brief: true},
				{Word: "drink", Synonyms: []string{"sip"}, ObjectRequired: true, Event: "on_drink", Brief: true},
				{Word: "ask", Synonyms: []string{"inquire"}, ObjectRequired: true},
				{Word: "talk", Synonyms: []string{"speak", "chat"}, ObjectRequired: true},
			},
			Prepositions: []string{"in", "on", "under", "behind", "to", "about", "with"},
			Directions:   []string{"north", "south", "east", "west", "up", "down", "in", "out"},
		},
		Handlers: map[string]accessor.HandlerFunc{
			"take":      HandleTake,
			"drop":      HandleDrop,
			"give":      HandleGive,
			"put":       HandlePut,
			"open":      HandleOpen,
			"close":     HandleClose,
			"use":       HandleUse,
			"read":      HandleRead,
			"pull":      HandlePull,
			"push":      HandlePush,
			"climb":     HandleClimb,
			"approach":  HandleApproach,
			"cover":     HandleCover,
			"hide":      HandleHide,
			"up":        HandleUp,
			"down":      HandleDown,
			"unlock":    HandleUnlock,
			"lock":      HandleLock,
			"go":        HandleGo,
			"look":      HandleLook,
			"examine":   HandleExamine,
			"inventory": HandleInventory,
			"eat":       HandleEat,
			"drink":     HandleDrink,
			"ask":       HandleAsk,
			"talk":      HandleTalk,
		},
	}
}
