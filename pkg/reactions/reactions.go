// Package reactions implements the data-driven reaction dispatchers:
// gift, dialog, item_use, death, and encounter reactions all share one
// generic engine — an escape-hatch handler looked up by
// "module:function" name, falling back to a table of gated rules
// applied in order, first match wins.
package reactions

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/scheduling"
	"github.com/jwebster45206/worldsim/pkg/world"
	"github.com/jwebster45206/worldsim/pkg/worldstate"
)

// Input carries whatever trigger information a dispatcher was invoked
// with; dispatchers populate only the fields relevant to their event.
type Input struct {
	Keyword  string // dialog/encounter trigger phrase
	ItemID   string // gift/item_use — the item offered or used
	ItemName string
	ActorID  world.ActorID // the actor performing the action (giver, speaker, user)
}

// Handler is a registered escape-hatch function, addressed by
// "module:function" in a ReactionConfig's handler field.
type Handler func(acc *accessor.StateAccessor, targetRef world.EntityRef, in Input) (*accessor.EventResult, error)

var handlerRegistry = map[string]Handler{}

// RegisterHandler adds a named escape-hatch handler, addressable as
// "module:function" from any ReactionConfig.handler field.
func RegisterHandler(name string, fn Handler) {
	handlerRegistry[name] = fn
}

// handlerCache amortizes the "module:function" string split; ResetCache
// clears it to support reloading configs during testing.
var handlerCache = map[string]Handler{}

func ResetCache() {
	handlerCache = map[string]Handler{}
}

// Lookup resolves a "module:function" path to its registered Handler,
// for callers outside this package that share the same escape-hatch
// convention.
func Lookup(path string) (Handler, bool) {
	return lookupHandler(path)
}

func lookupHandler(path string) (Handler, bool) {
	if fn, ok := handlerCache[path]; ok {
		return fn, true
	}
	fn, ok := handlerRegistry[path]
	if !ok {
		return nil, false
	}
	handlerCache[path] = fn
	return fn, true
}

// Dispatch runs the shared reaction-dispatcher algorithm against a single ReactionConfig: try the escape-hatch handler
// first (falling through to the rule table on a missing handler,
// never silently swallowing the reaction), else walk rules in order
// and apply the first whose gating passes.
func Dispatch(acc *accessor.StateAccessor, targetRef world.EntityRef, cfg *world.ReactionConfig, in Input) (*accessor.EventResult, error) {
	if cfg == nil {
		return nil, nil
	}
	if cfg.Handler != "" {
		if fn, ok := lookupHandler(cfg.Handler); ok {
			res, err := fn(acc, targetRef, in)
			if err != nil {
				return nil, fmt.Errorf("reactions: handler %q: %w", cfg.Handler, err)
			}
			if res != nil {
				return res, nil
			}
		}
	}

	gs := acc.GameState()
	for _, rule := range cfg.Rules {
		if !ruleMatches(gs, acc, targetRef, rule, in) {
			continue
		}
		return scheduling.ApplyEffect(acc, targetRef, rule.Effect)
	}
	return nil, nil
}

func ruleMatches(gs *worldstate.GameState, acc *accessor.StateAccessor, targetRef world.EntityRef, rule world.ReactionRule, in Input) bool {
	if len(rule.Triggers) > 0 && !anySubstring(rule.Triggers, in.Keyword) {
		return false
	}
	if len(rule.AcceptedItems) > 0 && !anySubstring(rule.AcceptedItems, in.ItemID) && !anySubstring(rule.AcceptedItems, in.ItemName) {
		return false
	}
	for _, flag := range rule.RequiredFlags {
		if !gs.Flags[flag] {
			return false
		}
	}
	for _, flag := range rule.ForbiddenFlags {
		if gs.Flags[flag] {
			return false
		}
	}
	if len(rule.RequiresState) > 0 {
		a, ok := acc.GetActor(world.ActorID(targetRef.ID))
		if !ok || a.StateMachine == nil || !containsString(rule.RequiresState, a.StateMachine.Current) {
			return false
		}
	}
	return true
}

func anySubstring(candidates []string, s string) bool {
	if s == "" {
		return false
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if strings.Contains(strings.ToLower(s), strings.ToLower(c)) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
