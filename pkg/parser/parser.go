// Package parser implements the reference parser at the action-dict
// boundary contract: tokenize raw input, classify each token against a
// behavior.Manager's merged vocabulary, and build an action dict. It
// is deliberately minimal — a word-table lookup in the style of
// original_source's Parser class, not a full NLU pipeline. Games that
// need richer understanding (the original project's MLX-backed
// variant, for instance) plug in their own component at this same
// boundary; the core only depends on the action-dict shape, never on
// this implementation.
package parser

import (
	"strings"

	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/behavior"
)

// Context is the per-turn scope a parser may use to resolve bare
// nouns. This reference parser accepts it for interface completeness
// but leaves noun resolution to each handler via StateAccessor's
// search helpers — unknown nouns pass through unresolved.
type Context struct {
	LocationObjects []string
	Inventory       []string
	Exits           []string
}

var articles = map[string]bool{"a": true, "an": true, "the": true}

// Parse tokenizes input and builds an accessor.Action against vocab's
// merged verb table. It returns (Action{}, false) when the command is
// unparseable: no recognized verb, more than one verb, or more than one
// direction word.
func Parse(vocab *behavior.Manager, ctx Context, input string) (accessor.Action, bool) {
	words := tokenize(input)
	if len(words) == 0 {
		return accessor.Action{}, false
	}

	prepositions := prepositionSet(vocab)
	directions := directionSet(vocab, ctx.Exits)

	var verbWord string
	var dirWords []string
	var rest []string
	for _, w := range words {
		if articles[w] {
			continue
		}
		if vocab.KnowsVerb(w) {
			primary, _ := vocab.PrimaryVerb(w)
			if verbWord != "" && primary != verbWord {
				return accessor.Action{}, false
			}
			verbWord = primary
			continue
		}
		if directions[w] {
			dirWords = append(dirWords, w)
			continue
		}
		rest = append(rest, w)
	}

	if len(dirWords) > 1 {
		return accessor.Action{}, false
	}

	if verbWord == "" {
		// A single bare direction word is shorthand for "go <direction>".
		if len(dirWords) == 1 && len(rest) == 0 {
			return accessor.Action{Verb: "go", Direction: dirWords[0], RawInput: input}, true
		}
		return accessor.Action{}, false
	}

	action := accessor.Action{Verb: verbWord, RawInput: input}
	if len(dirWords) == 1 {
		action.Direction = dirWords[0]
	}

	obj, indirect, prep := splitOnPreposition(rest, prepositions)
	if ref, adj := wordRefOf(obj); ref != nil {
		action.Object = ref
		action.Adjective = adj
	}
	if ref, adj := wordRefOf(indirect); ref != nil {
		action.IndirectObject = ref
		action.IndirectAdjective = adj
	}
	action.Preposition = prep

	return action, true
}

func tokenize(input string) []string {
	fields := strings.Fields(strings.ToLower(input))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:'\"")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func prepositionSet(vocab *behavior.Manager) map[string]bool {
	set := make(map[string]bool)
	for _, p := range vocab.MergedVocabulary().Prepositions {
		set[strings.ToLower(p)] = true
	}
	return set
}

func directionSet(vocab *behavior.Manager, exits []string) map[string]bool {
	set := make(map[string]bool)
	for _, d := range vocab.MergedVocabulary().Directions {
		set[strings.ToLower(d)] = true
	}
	for _, e := range exits {
		set[strings.ToLower(e)] = true
	}
	return set
}

// splitOnPreposition divides rest at the first recognized preposition:
// everything before is the direct object phrase, everything after (past
// the preposition itself) is the indirect object phrase.
func splitOnPreposition(rest []string, prepositions map[string]bool) (obj, indirect []string, prep string) {
	for i, w := range rest {
		if prepositions[w] {
			return rest[:i], rest[i+1:], w
		}
	}
	return rest, nil, ""
}

// wordRefOf treats the last word of a phrase as the noun and any
// preceding words as its adjective.
func wordRefOf(phrase []string) (*accessor.WordRef, string) {
	if len(phrase) == 0 {
		return nil, ""
	}
	noun := phrase[len(phrase)-1]
	adjective := strings.Join(phrase[:len(phrase)-1], " ")
	return &accessor.WordRef{Word: noun}, adjective
}
