// Package turnengine is the composition root: it wires a
// behavior.Manager (vocabulary + command/event routing), a
// StateAccessor (the sole read/mutation chokepoint), and the
// scheduling/reaction subsystems into one turn loop — parse, dispatch,
// run the fixed phase order, narrate.
package turnengine

import (
	"fmt"
	"log/slog"

	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/behavior"
	"github.com/jwebster45206/worldsim/pkg/commands"
	"github.com/jwebster45206/worldsim/pkg/narration"
	"github.com/jwebster45206/worldsim/pkg/parser"
	"github.com/jwebster45206/worldsim/pkg/reactions"
	"github.com/jwebster45206/worldsim/pkg/rng"
	"github.com/jwebster45206/worldsim/pkg/scheduling"
	"github.com/jwebster45206/worldsim/pkg/textfilter"
	"github.com/jwebster45206/worldsim/pkg/world"
	"github.com/jwebster45206/worldsim/pkg/worldstate"
)

// Engine drives one play session's turn loop against a single
// in-memory GameState. It is not safe for concurrent Turn calls —
// turns are expected to be serialized per session upstream.
type Engine struct {
	vocab           *behavior.Manager
	acc             *accessor.StateAccessor
	rng             *rng.Source
	logger          *slog.Logger
	profanityFilter *textfilter.ProfanityFilter
	contentRating   string
}

// New builds an Engine over gs, registering the built-in command
// module and compiling the merged vocabulary tables. seed1/seed2 make
// every RNG-backed system a pure function of the session's seed.
func New(gs *worldstate.GameState, logger *slog.Logger, seed1, seed2 uint64) (*Engine, error) {
	vocab := behavior.NewManager()
	if err := vocab.Register(commands.Module()); err != nil {
		return nil, fmt.Errorf("turnengine: %w", err)
	}
	if err := vocab.Build(); err != nil {
		return nil, fmt.Errorf("turnengine: %w", err)
	}

	acc := accessor.New(gs, logger, vocab, vocab)
	return &Engine{
		vocab:           vocab,
		acc:             acc,
		rng:             rng.New(seed1, seed2),
		logger:          logger,
		profanityFilter: textfilter.NewProfanityFilter(),
		contentRating:   string(gs.Metadata.ContentRating),
	}, nil
}

// Result is the composed outcome of one player command: the handler's
// own narration envelope plus any feedback the fixed phase order
// produced afterward.
type Result struct {
	Turn   narration.TurnResult
	Phases []string
}

// Turn parses raw input, dispatches its handler against the player
// actor, and then runs the fixed turn-phase order before returning.
func (e *Engine) Turn(parseCtx parser.Context, rawInput string) (Result, error) {
	action, ok := parser.Parse(e.vocab, parseCtx, rawInput)
	if !ok {
		return Result{}, fmt.Errorf("turnengine: could not parse %q", rawInput)
	}
	action.ActorID = world.PlayerID

	fn, ok := e.vocab.HandlerForVerb(action.Verb)
	if !ok {
		return Result{}, fmt.Errorf("turnengine: no handler registered for verb %q", action.Verb)
	}
	result, err := fn(e.acc, action)
	if err != nil {
		return Result{}, fmt.Errorf("turnengine: handler %q: %w", action.Verb, err)
	}

	turn := narration.Wrap(action.Verb, result, e.vocab)
	turn = narration.ApplyContentFilter(turn, e.profanityFilter, e.contentRating)

	phases, err := scheduling.RunPhases(e.acc, reactions.FireDialog, e.rng)
	if err != nil {
		return Result{}, fmt.Errorf("turnengine: phases: %w", err)
	}

	return Result{Turn: turn, Phases: phases}, nil
}

// Accessor exposes the underlying StateAccessor for callers that need
// read-only world inspection (e.g. a CLI's "look" on startup) without
// going through a parsed command.
func (e *Engine) Accessor() *accessor.StateAccessor { return e.acc }

// Tick runs the fixed phase order with no player action attached,
// advancing commitments and gossip delivery for a session that has no
// turn in flight. Used by the background worker to keep a session's
// world moving between player turns.
func (e *Engine) Tick() ([]string, error) {
	phases, err := scheduling.RunPhases(e.acc, reactions.FireDialog, e.rng)
	if err != nil {
		return nil, fmt.Errorf("turnengine: tick: %w", err)
	}
	return phases, nil
}
