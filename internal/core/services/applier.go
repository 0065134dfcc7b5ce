package services

import (
	"unicode"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
)

// styleTarget is replaced by styleReplacement when a style suggestion is applied.
const (
	styleTarget      = "js"
	styleReplacement = "JavaScript"
)

// EditOp is the kind of a buffer edit.
type EditOp int

const (
	// EditDelete removes Length runes at Offset.
	EditDelete EditOp = iota

	// EditInsert inserts Text at Offset.
	EditInsert
)

// Edit is one step of a suggestion application plan.
type Edit struct {
	Op     EditOp
	Offset int
	Length int
	Text   string
}

// LineBounds returns the rune range [start, end) of the line containing
// index. start follows the last newline before index; end is the first
// newline at or after index, or the text length.
func LineBounds(text []rune, index int) (start, end int) {
	index = domain.Selection{Index: index}.Clamp(len(text)).Index

	for i := index - 1; i >= 0; i-- {
		if text[i] == '\n' {
			start = i + 1
			break
		}
	}
	end = len(text)
	for i := index; i < len(text); i++ {
		if text[i] == '\n' {
			end = i
			break
		}
	}
	return start, end
}

// PlanSuggestion computes the edits that apply s to text at the selection.
// Kinds that do not mutate text yield no edits.
func PlanSuggestion(text string, sel domain.Selection, s domain.Suggestion) []Edit {
	runes := []rune(text)
	sel = sel.Clamp(len(runes))
	start, end := LineBounds(runes, sel.Index)
	line := runes[start:end]

	switch s.Kind {
	case domain.KindGrammar:
		// The period is appended even when the line already ends in one.
		return []Edit{
			{Op: EditDelete, Offset: start, Length: end - start},
			{Op: EditInsert, Offset: start, Text: string(line) + "."},
		}
	case domain.KindStyle:
		at := indexFold(line, []rune(styleTarget))
		if at < 0 {
			return nil
		}
		return []Edit{
			{Op: EditDelete, Offset: start + at, Length: len([]rune(styleTarget))},
			{Op: EditInsert, Offset: start + at, Text: styleReplacement},
		}
	case domain.KindWordAnalysis, domain.KindFeedback, domain.KindContent, domain.KindUnknown:
		// Informational only.
	}
	return nil
}

// ApplyEdits executes a plan against the buffer in order.
func ApplyEdits(buf driven.TextBuffer, edits []Edit) {
	for _, e := range edits {
		switch e.Op {
		case EditDelete:
			if e.Length > 0 {
				buf.DeleteText(e.Offset, e.Length)
			}
		case EditInsert:
			buf.InsertText(e.Offset, e.Text)
		}
	}
}

// ApplyToText executes a plan against detached text.
func ApplyToText(text string, edits []Edit) string {
	runes := []rune(text)
	for _, e := range edits {
		switch e.Op {
		case EditDelete:
			r := domain.Selection{Index: e.Offset, Length: e.Length}.Clamp(len(runes))
			runes = append(runes[:r.Index], runes[r.End():]...)
		case EditInsert:
			at := domain.Selection{Index: e.Offset}.Clamp(len(runes)).Index
			ins := []rune(e.Text)
			out := make([]rune, 0, len(runes)+len(ins))
			out = append(out, runes[:at]...)
			out = append(out, ins...)
			runes = append(out, runes[at:]...)
		}
	}
	return string(runes)
}

// indexFold returns the rune index of the first case-insensitive match of
// needle in haystack, or -1.
func indexFold(haystack, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j, r := range needle {
			if unicode.ToLower(haystack[i+j]) != unicode.ToLower(r) {
				continue outer
			}
		}
		return i
	}
	return -1
}
