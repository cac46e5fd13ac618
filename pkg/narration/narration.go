// Package narration defines the turn-result payload handed to an
// external narrator. The core only assembles this
// structure; turning it into prose is explicitly out of scope.
package narration

import (
	"github.com/jwebster45206/worldsim/pkg/accessor"
	"github.com/jwebster45206/worldsim/pkg/textfilter"
)

// Verbosity is the narration-length hint attached per verb.
type Verbosity string

const (
	VerbosityFull  Verbosity = "full"
	VerbosityBrief Verbosity = "brief"
)

// Payload is one handler's narration content.
type Payload struct {
	Success        bool                   `json:"success"`
	Primary        string                 `json:"primary"`
	SecondaryBeats []string               `json:"secondary_beats,omitempty"`
	Data           map[string]interface{} `json:"data,omitempty"`
}

// TurnResult is the full wrapper the turn processor emits after every
// command.
type TurnResult struct {
	Action    string    `json:"action"`
	Success   bool      `json:"success"`
	Verbosity Verbosity `json:"verbosity"`
	Narration Payload   `json:"narration"`
}

// FromHandlerResult builds a Payload from a command handler's return
// value.
func FromHandlerResult(r accessor.HandlerResult) Payload {
	return Payload{
		Success:        r.Success,
		Primary:        r.Message,
		SecondaryBeats: r.SecondaryBeats,
		Data:           r.Data,
	}
}

// BriefChecker reports whether a verb is flagged for brief narration
// — satisfied by behavior.Manager.IsBrief.
type BriefChecker interface {
	IsBrief(verb string) bool
}

// Wrap composes the full TurnResult for one command.
func Wrap(verb string, r accessor.HandlerResult, briefs BriefChecker) TurnResult {
	v := VerbosityFull
	if briefs != nil && briefs.IsBrief(verb) {
		v = VerbosityBrief
	}
	return TurnResult{
		Action:    verb,
		Success:   r.Success,
		Verbosity: v,
		Narration: FromHandlerResult(r),
	}
}

// ApplyContentFilter runs pf over a TurnResult's narration text,
// replacing profanity according to rating (world metadata's content
// rating — "G", "PG", "PG-13" filter; "R" and unknown/empty pass
// through unchanged). Called by the composition root after Wrap, so
// handlers themselves never need to know about content ratings.
func ApplyContentFilter(tr TurnResult, pf *textfilter.ProfanityFilter, rating string) TurnResult {
	if pf == nil {
		return tr
	}
	tr.Narration.Primary = pf.FilterText(tr.Narration.Primary, rating)
	for i, beat := range tr.Narration.SecondaryBeats {
		tr.Narration.SecondaryBeats[i] = pf.FilterText(beat, rating)
	}
	return tr
}
