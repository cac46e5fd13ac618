// Package worldschema loads and serializes the persisted world state
// format: a flat document of entity arrays, with legacy
// aliases accepted alongside the current shape, and unknown top-level
// keys carried through unmodified so newer authoring tools don't lose
// data when an older build round-trips their file.
package worldschema

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jwebster45206/worldsim/pkg/world"
	"github.com/jwebster45206/worldsim/pkg/worldstate"
)

// envelope is the top-level persisted shape: entity arrays keyed by id
// once loaded into a GameState, plus the legacy field aliases a loader
// is expected to accept.
type envelope struct {
	Metadata   worldstate.Metadata `json:"metadata"`
	Locations  []world.Location    `json:"locations,omitempty"`
	Doors      []world.Item        `json:"doors,omitempty"` // legacy: items with a door property
	Items      []world.Item        `json:"items,omitempty"`
	Locks      []world.Lock        `json:"locks,omitempty"`
	Actors     []world.Actor       `json:"actors,omitempty"`
	Player     *world.Actor        `json:"player,omitempty"`       // legacy player section
	PlayerState *world.Actor       `json:"player_state,omitempty"` // current player section
}

// knownKeys lists every top-level key this loader maps onto a GameState
// field. "vocabulary" and "scripts" are legacy sections this
// implementation doesn't model — they fall through to extraKeys and are carried
// verbatim rather than silently dropped.
var knownKeys = map[string]bool{
	"metadata": true, "locations": true, "doors": true,
	"items": true, "locks": true, "actors": true,
	"player": true, "player_state": true,
}

// Load parses a persisted world document into a GameState and
// validates it. logger, if non-nil, receives
// Validate's warning-level consistency notes.
func Load(data []byte, logger *slog.Logger) (*worldstate.GameState, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("worldschema: decode: %w", err)
	}

	var rawActors []json.RawMessage
	var rawTop map[string]json.RawMessage
	if err := json.Unmarshal(data, &rawTop); err != nil {
		return nil, fmt.Errorf("worldschema: decode: %w", err)
	}
	if msg, ok := rawTop["actors"]; ok {
		_ = json.Unmarshal(msg, &rawActors)
	}

	gs := worldstate.New()
	gs.Metadata = env.Metadata

	for i := range env.Locations {
		loc := env.Locations[i]
		if loc.ID == "" {
			return nil, fmt.Errorf("worldschema: location at index %d has no id", i)
		}
		gs.Locations[world.LocationID(loc.ID)] = &loc
	}

	for i := range env.Items {
		it := env.Items[i]
		if it.ID == "" {
			return nil, fmt.Errorf("worldschema: item at index %d has no id", i)
		}
		gs.Items[world.ItemID(it.ID)] = &it
	}
	for i := range env.Doors {
		it := env.Doors[i]
		if it.ID == "" {
			return nil, fmt.Errorf("worldschema: door at index %d has no id", i)
		}
		if it.Door == nil {
			it.Door = &world.DoorInfo{}
		}
		gs.Items[world.ItemID(it.ID)] = &it
	}

	for i := range env.Locks {
		lk := env.Locks[i]
		if lk.ID == "" {
			return nil, fmt.Errorf("worldschema: lock at index %d has no id", i)
		}
		gs.Locks[world.LockID(lk.ID)] = &lk
	}

	for i := range env.Actors {
		a := env.Actors[i]
		if a.ID == "" {
			return nil, fmt.Errorf("worldschema: actor at index %d has no id", i)
		}
		if i < len(rawActors) {
			mergeLLMContext(&a, rawActors[i])
		}
		gs.Actors[world.ActorID(a.ID)] = &a
	}

	player := env.Player
	if player == nil {
		player = env.PlayerState
	}
	if player != nil {
		player.ID = string(world.PlayerID)
		if msg, ok := rawTop["player"]; ok {
			mergeLLMContext(player, msg)
		} else if msg, ok := rawTop["player_state"]; ok {
			mergeLLMContext(player, msg)
		}
		gs.Actors[world.PlayerID] = player
	}

	extra := extraKeys(rawTop)
	if len(extra) > 0 {
		gs.Extra = extra
	}

	if err := worldstate.Validate(gs, logger); err != nil {
		return nil, err
	}
	return gs, nil
}

// mergeLLMContext folds a legacy top-level "llm_context" object into an
// actor's properties bag, mirroring the original loader's behavior of
// merging llm_context into an NPC's generic state dict rather than
// carrying a dedicated field (actors have no typed LLMContext field,
// unlike Item, which does).
func mergeLLMContext(a *world.Actor, raw json.RawMessage) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return
	}
	ctxRaw, ok := fields["llm_context"]
	if !ok {
		return
	}
	var v world.Value
	if err := json.Unmarshal(ctxRaw, &v); err != nil {
		return
	}
	if a.Properties == nil {
		a.Properties = world.Properties{}
	}
	a.Properties["llm_context"] = v
}

func extraKeys(rawTop map[string]json.RawMessage) map[string]world.Value {
	extra := make(map[string]world.Value)
	for key, msg := range rawTop {
		if knownKeys[key] {
			continue
		}
		var v world.Value
		if err := json.Unmarshal(msg, &v); err != nil {
			continue
		}
		extra[key] = v
	}
	return extra
}

// Save serializes a GameState back into the persisted document shape,
// restoring any carried-through Extra keys verbatim.
func Save(gs *worldstate.GameState) ([]byte, error) {
	out := make(map[string]interface{})
	out["metadata"] = gs.Metadata

	locs := make([]*world.Location, 0, len(gs.Locations))
	for _, l := range gs.Locations {
		locs = append(locs, l)
	}
	sortByID(locs, func(i int) string { return locs[i].ID })
	out["locations"] = locs

	items := make([]*world.Item, 0, len(gs.Items))
	for _, it := range gs.Items {
		items = append(items, it)
	}
	sortByID(items, func(i int) string { return items[i].ID })
	out["items"] = items

	locks := make([]*world.Lock, 0, len(gs.Locks))
	for _, l := range gs.Locks {
		locks = append(locks, l)
	}
	sortByID(locks, func(i int) string { return locks[i].ID })
	out["locks"] = locks

	actors := make([]*world.Actor, 0, len(gs.Actors))
	var player *world.Actor
	for id, a := range gs.Actors {
		if id == world.PlayerID {
			player = a
			continue
		}
		actors = append(actors, a)
	}
	sortByID(actors, func(i int) string { return actors[i].ID })
	out["actors"] = actors
	if player != nil {
		out["player_state"] = player
	}

	for key, v := range gs.Extra {
		out[key] = v
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("worldschema: encode: %w", err)
	}
	return data, nil
}

func sortByID[T any](items []T, idOf func(i int) string) {
	sort.Slice(items, func(i, j int) bool { return idOf(i) < idOf(j) })
}
