// Package behavior implements the BehaviorManager: module registration,
// vocabulary merging, and the verb→handler / verb→event routing tables
//. Per the "dynamically discovered modules" design note
//, modules register themselves during static
// initialization instead of being found by filesystem scanning; a
// dev-mode Reset primitive remains for tests that need to rebuild the
// tables from a fresh module set.
package behavior

import (
	"fmt"

	"github.com/jwebster45206/worldsim/pkg/accessor"
)

// Verb describes one vocabulary entry: its synonyms, whether it needs
// an object, and the event it fires for on_<event> dispatch
//.
type Verb struct {
	Word           string
	Synonyms       []string
	ObjectRequired bool
	Event          string
	// Brief flags this verb for the "brief" narration verbosity
	//, e.g. close, put.
	Brief bool
}

// Vocabulary is the set of vocabulary contributions one module makes.
type Vocabulary struct {
	Verbs        []Verb
	Nouns        []string
	Adjectives   []string
	Prepositions []string
	Directions   []string
}

// Module is a self-contained unit of vocabulary, command handlers, and
// per-entity event behaviors. A Module's Name is the
// path entities reference in their `behaviors` list.
type Module struct {
	Name       string
	Vocabulary Vocabulary
	Handlers   map[string]accessor.HandlerFunc
	OnEvents   map[string]accessor.BehaviorFunc
}

// Manager merges registered modules' vocabularies and builds the
// verb→handler and verb→event routing tables. It
// implements accessor.EventResolver and accessor.BehaviorDispatcher.
type Manager struct {
	modules map[string]*Module

	verbs        map[string]Verb   // primary word -> merged verb
	synonymIndex map[string]string // synonym -> primary word
	handlers     map[string]accessor.HandlerFunc
	events       map[string]string // primary word -> event name
	briefVerbs   map[string]bool
}

// NewManager returns an empty Manager. Call Register for each module,
// then Build to compile the routing tables.
func NewManager() *Manager {
	return &Manager{modules: make(map[string]*Module)}
}

// Register adds a module to the manager. It does not yet merge
// vocabulary; call Build once all modules are registered.
func (m *Manager) Register(mod *Module) error {
	if mod.Name == "" {
		return fmt.Errorf("behavior: module registered with empty name")
	}
	if _, exists := m.modules[mod.Name]; exists {
		return fmt.Errorf("behavior: module %q already registered", mod.Name)
	}
	m.modules[mod.Name] = mod
	return nil
}

// Reset clears the compiled routing tables (but not registered
// modules), supporting a dev-mode reload primitive useful in tests.
func (m *Manager) Reset() {
	m.verbs = nil
	m.synonymIndex = nil
	m.handlers = nil
	m.events = nil
	m.briefVerbs = nil
}

// Build merges every registered module's vocabulary and compiles the
// verb→handler and verb→event tables. Two verbs sharing
// a primary word must carry identical metadata — duplicates with
// differing metadata are rejected; synonym sets union.
func (m *Manager) Build() error {
	m.verbs = make(map[string]Verb)
	m.synonymIndex = make(map[string]string)
	m.handlers = make(map[string]accessor.HandlerFunc)
	m.events = make(map[string]string)
	m.briefVerbs = make(map[string]bool)

	for _, mod := range m.modules {
		for _, v := range mod.Vocabulary.Verbs {
			if existing, ok := m.verbs[v.Word]; ok {
				if existing.ObjectRequired != v.ObjectRequired || existing.Event != v.Event || existing.Brief != v.Brief {
					return fmt.Errorf("behavior: verb %q redefined with conflicting metadata", v.Word)
				}
				existing.Synonyms = unionStrings(existing.Synonyms, v.Synonyms)
				m.verbs[v.Word] = existing
			} else {
				m.verbs[v.Word] = v
			}
			m.synonymIndex[v.Word] = v.Word
			for _, syn := range v.Synonyms {
				if owner, ok := m.synonymIndex[syn]; ok && owner != v.Word {
					return fmt.Errorf("behavior: synonym %q claimed by both %q and %q", syn, owner, v.Word)
				}
				m.synonymIndex[syn] = v.Word
			}
			if v.Event != "" {
				m.events[v.Word] = v.Event
			}
			if v.Brief {
				m.briefVerbs[v.Word] = true
			}
		}
		for verb, fn := range mod.Handlers {
			primary := m.primaryOf(verb)
			if _, exists := m.handlers[primary]; exists {
				return fmt.Errorf("behavior: handler for verb %q registered by more than one module", primary)
			}
			m.handlers[primary] = fn
		}
	}
	return nil
}

func (m *Manager) primaryOf(word string) string {
	if p, ok := m.synonymIndex[word]; ok {
		return p
	}
	return word
}

// HandlerForVerb returns the handler registered for verb (resolving
// synonyms to their primary word first).
func (m *Manager) HandlerForVerb(verb string) (accessor.HandlerFunc, bool) {
	fn, ok := m.handlers[m.primaryOf(verb)]
	return fn, ok
}

// EventForVerb implements accessor.EventResolver.
func (m *Manager) EventForVerb(verb string) (string, bool) {
	event, ok := m.events[m.primaryOf(verb)]
	return event, ok
}

// IsBrief reports whether verb is flagged brief for narration
// verbosity.
func (m *Manager) IsBrief(verb string) bool {
	return m.briefVerbs[m.primaryOf(verb)]
}

// KnowsVerb reports whether any module declares verb (primary or
// synonym) — parsers use the merged vocabulary as the sole source of
// truth for recognized verbs.
func (m *Manager) KnowsVerb(verb string) bool {
	_, ok := m.synonymIndex[verb]
	return ok
}

// PrimaryVerb resolves a verb or synonym to its primary word, for a
// parser that needs to normalize before building an action dict
//.
func (m *Manager) PrimaryVerb(verb string) (string, bool) {
	p, ok := m.synonymIndex[verb]
	return p, ok
}

// VerbSpec returns the compiled Verb metadata for a primary or synonym
// word, so a parser can check ObjectRequired before building an action.
func (m *Manager) VerbSpec(verb string) (Verb, bool) {
	v, ok := m.verbs[m.primaryOf(verb)]
	return v, ok
}

// MergedVocabulary returns the union of every registered module's
// nouns/adjectives/prepositions/directions, for parsers that want a
// flat word list.
func (m *Manager) MergedVocabulary() Vocabulary {
	var out Vocabulary
	for _, mod := range m.modules {
		out.Nouns = unionStrings(out.Nouns, mod.Vocabulary.Nouns)
		out.Adjectives = unionStrings(out.Adjectives, mod.Vocabulary.Adjectives)
		out.Prepositions = unionStrings(out.Prepositions, mod.Vocabulary.Prepositions)
		out.Directions = unionStrings(out.Directions, mod.Vocabulary.Directions)
	}
	for _, v := range m.verbs {
		out.Verbs = append(out.Verbs, v)
	}
	return out
}

// Dispatch implements accessor.BehaviorDispatcher: it runs the
// on_<event> function of each module named in behaviors, in declared
// order — the first allow=false short-circuits the chain, otherwise
// feedback strings concatenate and the final allow=true is reported.
func (m *Manager) Dispatch(acc *accessor.StateAccessor, behaviors []string, event string, ctx accessor.BehaviorContext) (*accessor.EventResult, error) {
	var feedback []string
	any := false
	for _, path := range behaviors {
		mod, ok := m.modules[path]
		if !ok {
			continue
		}
		fn, ok := mod.OnEvents[event]
		if !ok && event == "on_put" {
			fn, ok = mod.OnEvents["on_drop"]
		}
		if !ok {
			continue
		}
		res, err := fn(acc, ctx.Ref, ctx)
		if err != nil {
			return nil, fmt.Errorf("behavior %q on_%s: %w", path, event, err)
		}
		if res == nil {
			continue
		}
		any = true
		if !res.Allow {
			return res, nil
		}
		if res.Feedback != "" {
			feedback = append(feedback, res.Feedback)
		}
	}
	if !any {
		return nil, nil
	}
	return &accessor.EventResult{Allow: true, Feedback: joinFeedback(feedback)}, nil
}

func joinFeedback(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
