package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SuggestionKind tags a suggestion with the transform it implies.
// The set is closed: every switch over SuggestionKind must handle all
// values, and unrecognised wire tags collapse to KindUnknown.
type SuggestionKind int

// Suggestion kinds.
const (
	// KindUnknown is any tag the client does not recognise. Informational only.
	KindUnknown SuggestionKind = iota

	// KindGrammar ensures terminal punctuation on the active line.
	KindGrammar

	// KindStyle rewrites the abbreviation "js" to "JavaScript".
	KindStyle

	// KindWordAnalysis describes a single selected word. Informational only.
	KindWordAnalysis

	// KindFeedback is general praise or commentary. Informational only.
	KindFeedback

	// KindContent proposes content additions. Informational only.
	KindContent
)

var kindTags = map[SuggestionKind]string{
	KindGrammar:      "grammar",
	KindStyle:        "style",
	KindWordAnalysis: "word-analysis",
	KindFeedback:     "feedback",
	KindContent:      "content",
}

// ParseSuggestionKind maps a wire tag to a kind. Matching is case-insensitive.
func ParseSuggestionKind(tag string) SuggestionKind {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for kind, t := range kindTags {
		if t == tag {
			return kind
		}
	}
	return KindUnknown
}

// String returns the wire tag of the kind.
func (k SuggestionKind) String() string {
	if t, ok := kindTags[k]; ok {
		return t
	}
	return "unknown"
}

// Mutates reports whether applying a suggestion of this kind can change text.
func (k SuggestionKind) Mutates() bool {
	switch k {
	case KindGrammar, KindStyle:
		return true
	case KindUnknown, KindWordAnalysis, KindFeedback, KindContent:
		return false
	}
	return false
}

// Icon returns the material icon name shown next to a suggestion.
func (k SuggestionKind) Icon() string {
	switch k {
	case KindGrammar:
		return "spellcheck"
	case KindStyle:
		return "format_paint"
	case KindFeedback:
		return "thumb_up"
	case KindUnknown, KindWordAnalysis, KindContent:
		return "lightbulb"
	}
	return "lightbulb"
}

// Colour returns the palette role used to render a suggestion chip.
func (k SuggestionKind) Colour() string {
	switch k {
	case KindGrammar:
		return "warn"
	case KindContent:
		return "primary"
	case KindWordAnalysis:
		return "accent"
	case KindUnknown, KindStyle, KindFeedback:
		return ""
	}
	return ""
}

// Suggestion is a single recommendation returned by the suggestion source.
type Suggestion struct {
	// Kind tags the suggestion.
	Kind SuggestionKind

	// Text is the human-readable recommendation.
	Text string

	// Context is optional extra information (e.g. a synset name).
	Context string

	// Examples are optional usage examples.
	Examples []string

	// Confidence is a score in [0,1].
	Confidence float64
}

// suggestionWire is the JSON shape exchanged with the backend.
type suggestionWire struct {
	Type       string   `json:"type"`
	Suggestion string   `json:"suggestion"`
	Context    string   `json:"context,omitempty"`
	Examples   []string `json:"examples,omitempty"`
	Confidence float64  `json:"confidence"`
}

// MarshalJSON encodes the suggestion in its wire shape.
func (s Suggestion) MarshalJSON() ([]byte, error) {
	return json.Marshal(suggestionWire{
		Type:       s.Kind.String(),
		Suggestion: s.Text,
		Context:    s.Context,
		Examples:   s.Examples,
		Confidence: s.Confidence,
	})
}

// UnmarshalJSON decodes the wire shape. Confidence is clamped into [0,1].
func (s *Suggestion) UnmarshalJSON(data []byte) error {
	var w suggestionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode suggestion: %w", err)
	}
	*s = Suggestion{
		Kind:       ParseSuggestionKind(w.Type),
		Text:       w.Suggestion,
		Context:    w.Context,
		Examples:   w.Examples,
		Confidence: ClampConfidence(w.Confidence),
	}
	return nil
}

// ClampConfidence forces c into [0,1].
func ClampConfidence(c float64) float64 {
	if c < 0 || c != c {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
